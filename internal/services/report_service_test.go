package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"

	"github.com/pgs-software-club/club-service/internal/cache"
	"github.com/pgs-software-club/club-service/internal/models"
)

func seedLedger(t *testing.T, repo *mockRepository) (*models.Student, *models.Student) {
	t.Helper()

	jane := repo.seed(&models.Student{Name: "Jane", StudentID: strPtr("PGS001"), IsActive: true, IsVerified: true})
	john := repo.seed(&models.Student{Name: "John", StudentID: strPtr("PGS002"), IsActive: true, IsVerified: true})

	records := []*models.AttendanceRecord{
		{StudentID: jane.ID, Date: models.NewDate(day("2026-01-14")), Status: models.StatusPresent, MarkedBy: "admin"},
		{StudentID: jane.ID, Date: models.NewDate(day("2026-01-15")), Status: models.StatusLate, Notes: "bus", MarkedBy: "admin"},
		{StudentID: john.ID, Date: models.NewDate(day("2026-01-15")), Status: models.StatusAbsent, MarkedBy: "admin"},
	}
	for _, record := range records {
		if err := repo.Attendance().Upsert(context.Background(), nil, record); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	return jane, john
}

func day(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPercentages(t *testing.T) {
	tests := []struct {
		name   string
		counts StatusCounts
		total  int
		want   StatusPercentages
	}{
		{
			name:   "rounds to nearest whole",
			counts: StatusCounts{Present: 2, Absent: 1},
			total:  3,
			want:   StatusPercentages{Present: 67, Absent: 33, Late: 0},
		},
		{
			name:   "thirds",
			counts: StatusCounts{Present: 1, Absent: 1, Late: 1},
			total:  3,
			want:   StatusPercentages{Present: 33, Absent: 33, Late: 33},
		},
		{
			name:   "empty ledger is all zeros",
			counts: StatusCounts{},
			total:  0,
			want:   StatusPercentages{},
		},
		{
			name:   "all present",
			counts: StatusCounts{Present: 5},
			total:  5,
			want:   StatusPercentages{Present: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentages(tt.counts, tt.total)
			if got != tt.want {
				t.Errorf("Percentages() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReportService_Summary(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	jane, _ := seedLedger(t, repo)
	svc := NewReportService(repo, testLogger(), nil)

	summary, err := svc.Summary(ctx, ReportFilters{})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if summary.Total != 3 {
		t.Errorf("expected 3 records, got %d", summary.Total)
	}
	if summary.Counts.Present != 1 || summary.Counts.Absent != 1 || summary.Counts.Late != 1 {
		t.Errorf("unexpected counts: %+v", summary.Counts)
	}
	if len(summary.Students) != 2 {
		t.Fatalf("expected 2 student rows, got %d", len(summary.Students))
	}

	var janeRow *StudentSummary
	for i := range summary.Students {
		if summary.Students[i].StudentID == jane.ID {
			janeRow = &summary.Students[i]
		}
	}
	if janeRow == nil {
		t.Fatal("expected a row for jane")
	}
	if janeRow.Total != 2 || janeRow.Counts.Present != 1 || janeRow.Counts.Late != 1 {
		t.Errorf("unexpected jane row: %+v", janeRow)
	}
	if janeRow.Percentages.Present != 50 || janeRow.Percentages.Late != 50 {
		t.Errorf("unexpected jane percentages: %+v", janeRow.Percentages)
	}
	if janeRow.Code != "PGS001" {
		t.Errorf("expected code PGS001, got %s", janeRow.Code)
	}
}

func TestReportService_SummaryWithRange(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedLedger(t, repo)
	svc := NewReportService(repo, testLogger(), nil)

	from := day("2026-01-15")
	summary, err := svc.Summary(ctx, ReportFilters{From: &from})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Total != 2 {
		t.Errorf("expected 2 records from the 15th on, got %d", summary.Total)
	}
}

func TestReportService_SummaryWithStatus(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	jane, _ := seedLedger(t, repo)
	svc := NewReportService(repo, testLogger(), nil)

	late := models.StatusLate
	summary, err := svc.Summary(ctx, ReportFilters{Status: &late})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Total != 1 {
		t.Fatalf("expected 1 late record, got %d", summary.Total)
	}
	if len(summary.Students) != 1 || summary.Students[0].StudentID != jane.ID {
		t.Errorf("expected only jane in the breakdown: %+v", summary.Students)
	}
}

func TestReportService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedLedger(t, repo)
	svc := NewReportService(repo, testLogger(), nil)

	data, err := svc.ExportCSV(ctx, ReportFilters{})
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Date,Student Name,Student ID,Status,Notes" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	// Newest day first
	if !strings.HasPrefix(lines[1], "2026-01-15") {
		t.Errorf("expected newest day first, got %s", lines[1])
	}
	if !strings.Contains(string(data), "Jane,PGS001,late,bus") {
		t.Errorf("expected jane's late row in output:\n%s", data)
	}
}

func TestReportService_ExportXLSX(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	seedLedger(t, repo)
	svc := NewReportService(repo, testLogger(), nil)

	data, err := svc.ExportXLSX(ctx, ReportFilters{})
	if err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Attendance")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][1] != "Student Name" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
}

func TestReportService_DashboardStats(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := NewReportService(repo, testLogger(), nil)

	jane := repo.seed(&models.Student{Name: "Jane", IsActive: true, IsVerified: true})
	repo.seed(&models.Student{Name: "Pending", IsActive: true, IsVerified: false})
	repo.seed(&models.Student{Name: "Removed", IsActive: false, IsVerified: true})

	today := models.NormalizeDate(time.Now())
	record := &models.AttendanceRecord{
		StudentID: jane.ID,
		Date:      models.NewDate(today),
		Status:    models.StatusPresent,
		MarkedBy:  "admin",
	}
	if err := repo.Attendance().Upsert(ctx, nil, record); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	stats, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}
	if stats.TotalStudents != 2 {
		t.Errorf("expected 2 active students, got %d", stats.TotalStudents)
	}
	if stats.PendingRegistrations != 1 {
		t.Errorf("expected 1 pending registration, got %d", stats.PendingRegistrations)
	}
	if stats.TodayTotal != 1 || stats.TodayCounts.Present != 1 {
		t.Errorf("unexpected today stats: %d %+v", stats.TodayTotal, stats.TodayCounts)
	}
}

func TestReportService_DashboardStatsReadThroughCache(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	repo.seed(&models.Student{Name: "Jane", IsActive: true, IsVerified: true})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := NewReportService(repo, testLogger(), cache.NewCacheManager(client))

	first, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}
	if first.TotalStudents != 1 {
		t.Fatalf("expected 1 active student, got %d", first.TotalStudents)
	}

	// A write bypassing the repositories does not invalidate the cache,
	// so the second read must still serve the cached counts.
	repo.seed(&models.Student{Name: "John", IsActive: true, IsVerified: true})

	second, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}
	if second.TotalStudents != 1 {
		t.Errorf("expected the cached count of 1, got %d", second.TotalStudents)
	}
}
