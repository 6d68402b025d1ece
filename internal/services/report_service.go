package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pgs-software-club/club-service/internal/cache"
	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/repositories"
)

var exportHeaders = []string{"Date", "Student Name", "Student ID", "Status", "Notes"}

// ===== RESPONSE DTOs =====

type ReportFilters struct {
	From      *time.Time
	To        *time.Time
	StudentID *string
	Status    *models.AttendanceStatus
}

type StatusCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

// StatusPercentages are whole-number shares of the total. An empty
// ledger reports zeros, not NaN.
type StatusPercentages struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

type StudentSummary struct {
	StudentID   string            `json:"studentId"`
	Name        string            `json:"name"`
	Code        string            `json:"code,omitempty"`
	Total       int               `json:"total"`
	Counts      StatusCounts      `json:"counts"`
	Percentages StatusPercentages `json:"percentages"`
}

type AttendanceSummary struct {
	Total       int               `json:"total"`
	Counts      StatusCounts      `json:"counts"`
	Percentages StatusPercentages `json:"percentages"`
	Students    []StudentSummary  `json:"students"`
}

type ExportRow struct {
	Date        string
	StudentName string
	StudentCode string
	Status      string
	Notes       string
}

type DashboardStats struct {
	TotalStudents        int64        `json:"totalStudents"`
	PendingRegistrations int64        `json:"pendingRegistrations"`
	TodayTotal           int          `json:"todayTotal"`
	TodayCounts          StatusCounts `json:"todayCounts"`
}

// ===== SERVICE INTERFACE =====

type ReportService interface {
	Summary(ctx context.Context, filters ReportFilters) (*AttendanceSummary, error)
	ExportCSV(ctx context.Context, filters ReportFilters) ([]byte, error)
	ExportXLSX(ctx context.Context, filters ReportFilters) ([]byte, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// ===== SERVICE IMPLEMENTATION =====

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewReportService(repo repositories.Repository, logger *slog.Logger, cacheManager *cache.CacheManager) ReportService {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &reportService{
		repo:   repo,
		logger: logger,
		cache:  cacheManager,
	}
}

func (s *reportService) Summary(ctx context.Context, filters ReportFilters) (*AttendanceSummary, error) {
	records, err := s.fetch(ctx, filters)
	if err != nil {
		return nil, err
	}
	return BuildSummary(records), nil
}

func (s *reportService) ExportCSV(ctx context.Context, filters ReportFilters) ([]byte, error) {
	records, err := s.fetch(ctx, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range BuildExportRows(records) {
		record := []string{row.Date, row.StudentName, row.StudentCode, row.Status, row.Notes}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) ExportXLSX(ctx context.Context, filters ReportFilters) ([]byte, error) {
	records, err := s.fetch(ctx, filters)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Attendance"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range BuildExportRows(records) {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{row.Date, row.StudentName, row.StudentCode, row.Status, row.Notes}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DashboardStats reads through the stats cache; every student or
// attendance write invalidates it.
func (s *reportService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := s.cache.Stats.CacheOrExecute(ctx, "dashboard", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.computeDashboardStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *reportService) computeDashboardStats(ctx context.Context) (*DashboardStats, error) {
	totalStudents, err := s.repo.Student().CountActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	pending, err := s.repo.Student().CountPending(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending registrations: %w", err)
	}

	today := models.NormalizeDate(time.Now())
	records, err := s.repo.Attendance().List(ctx, nil, repositories.AttendanceFilters{Date: &today})
	if err != nil {
		return nil, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	return &DashboardStats{
		TotalStudents:        totalStudents,
		PendingRegistrations: pending,
		TodayTotal:           len(records),
		TodayCounts:          CountByStatus(records),
	}, nil
}

func (s *reportService) fetch(ctx context.Context, filters ReportFilters) ([]*models.AttendanceRecord, error) {
	records, err := s.repo.Attendance().List(ctx, nil, repositories.AttendanceFilters{
		From:      filters.From,
		To:        filters.To,
		StudentID: filters.StudentID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	// Status is filtered over the materialized list; the storage filters
	// only narrow by date and student.
	if filters.Status != nil {
		filtered := records[:0]
		for _, record := range records {
			if record.Status == *filters.Status {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}

	return records, nil
}

// ===== PURE AGGREGATION HELPERS =====

// CountByStatus tallies records per attendance status.
func CountByStatus(records []*models.AttendanceRecord) StatusCounts {
	var counts StatusCounts
	for _, record := range records {
		switch record.Status {
		case models.StatusPresent:
			counts.Present++
		case models.StatusAbsent:
			counts.Absent++
		case models.StatusLate:
			counts.Late++
		}
	}
	return counts
}

// Percentages converts counts to whole-number shares of total.
func Percentages(counts StatusCounts, total int) StatusPercentages {
	return StatusPercentages{
		Present: percent(counts.Present, total),
		Absent:  percent(counts.Absent, total),
		Late:    percent(counts.Late, total),
	}
}

func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// BuildSummary aggregates the ledger overall and per student, preserving
// first-seen student order from the record listing.
func BuildSummary(records []*models.AttendanceRecord) *AttendanceSummary {
	overall := CountByStatus(records)

	perStudent := make(map[string]*StudentSummary)
	var order []string
	for _, record := range records {
		entry, ok := perStudent[record.StudentID]
		if !ok {
			entry = &StudentSummary{StudentID: record.StudentID}
			if record.Student != nil {
				entry.Name = record.Student.Name
				entry.Code = strOrEmpty(record.Student.StudentID)
			}
			perStudent[record.StudentID] = entry
			order = append(order, record.StudentID)
		}

		entry.Total++
		switch record.Status {
		case models.StatusPresent:
			entry.Counts.Present++
		case models.StatusAbsent:
			entry.Counts.Absent++
		case models.StatusLate:
			entry.Counts.Late++
		}
	}

	students := make([]StudentSummary, 0, len(order))
	for _, id := range order {
		entry := perStudent[id]
		entry.Percentages = Percentages(entry.Counts, entry.Total)
		students = append(students, *entry)
	}

	return &AttendanceSummary{
		Total:       len(records),
		Counts:      overall,
		Percentages: Percentages(overall, len(records)),
		Students:    students,
	}
}

// BuildExportRows flattens records for tabular export.
func BuildExportRows(records []*models.AttendanceRecord) []ExportRow {
	rows := make([]ExportRow, 0, len(records))
	for _, record := range records {
		row := ExportRow{
			Date:   record.Day().Format("2006-01-02"),
			Status: string(record.Status),
			Notes:  record.Notes,
		}
		if record.Student != nil {
			row.StudentName = record.Student.Name
			row.StudentCode = strOrEmpty(record.Student.StudentID)
		}
		rows = append(rows, row)
	}
	return rows
}
