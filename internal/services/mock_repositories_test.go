package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/repositories"
)

// In-memory repository used by the service tests.

type mockRepository struct {
	students   *mockStudentRepo
	attendance *mockAttendanceRepo
}

func newMockRepository() *mockRepository {
	students := &mockStudentRepo{students: map[string]*models.Student{}}
	return &mockRepository{
		students:   students,
		attendance: &mockAttendanceRepo{students: students, records: map[string]*models.AttendanceRecord{}},
	}
}

func (m *mockRepository) Student() repositories.StudentRepository       { return m.students }
func (m *mockRepository) Attendance() repositories.AttendanceRepository { return m.attendance }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// seed inserts a student directly, bypassing service validation.
func (m *mockRepository) seed(student *models.Student) *models.Student {
	if student.ID == "" {
		student.ID = fmt.Sprintf("id-%d", len(m.students.students)+1)
	}
	student.CreatedAt = m.students.nextTimestamp()
	m.students.students[student.ID] = student
	return student
}

type mockStudentRepo struct {
	students map[string]*models.Student
	seq      int
}

func (m *mockStudentRepo) nextTimestamp() time.Time {
	m.seq++
	return time.Unix(int64(m.seq), 0)
}

func (m *mockStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if student.StudentID != nil {
		for _, other := range m.students {
			if other.IsActive && other.StudentID != nil && *other.StudentID == *student.StudentID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if student.ID == "" {
		student.ID = fmt.Sprintf("id-%d", len(m.students)+1)
	}
	student.CreatedAt = m.nextTimestamp()
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return nil, nil
	}
	return student, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if student.IsActive && student.StudentID != nil {
		for _, other := range m.students {
			if other.ID != student.ID && other.IsActive && other.StudentID != nil && *other.StudentID == *student.StudentID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, error) {
	var out []*models.Student
	for _, student := range m.students {
		if !student.IsActive {
			continue
		}
		if !student.IsVerified && !filters.IncludeUnverified {
			continue
		}
		out = append(out, student)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStudentRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	for _, student := range m.students {
		if student.IsActive {
			count++
		}
	}
	return count, nil
}

func (m *mockStudentRepo) CountPending(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	for _, student := range m.students {
		if student.IsActive && !student.IsVerified {
			count++
		}
	}
	return count, nil
}

func (m *mockStudentRepo) FindActiveByStudentID(ctx context.Context, tx *gorm.DB, code, excludeID string) (*models.Student, error) {
	for _, student := range m.students {
		if student.ID == excludeID || !student.IsActive || student.StudentID == nil {
			continue
		}
		if *student.StudentID == code {
			return student, nil
		}
	}
	return nil, nil
}

func (m *mockStudentRepo) FindActiveByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error) {
	for _, student := range m.students {
		if student.IsActive && student.Email != nil && *student.Email == email {
			return student, nil
		}
	}
	return nil, nil
}

func (m *mockStudentRepo) FindActiveByGitHubUsername(ctx context.Context, tx *gorm.DB, username string) (*models.Student, error) {
	for _, student := range m.students {
		if student.IsActive && student.GitHubUsername != nil && *student.GitHubUsername == username {
			return student, nil
		}
	}
	return nil, nil
}

func (m *mockStudentRepo) HighestStudentID(ctx context.Context, tx *gorm.DB, pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", err
	}

	highest := ""
	for _, student := range m.students {
		if !student.IsActive || student.StudentID == nil {
			continue
		}
		if re.MatchString(*student.StudentID) && *student.StudentID > highest {
			highest = *student.StudentID
		}
	}
	return highest, nil
}

type mockAttendanceRepo struct {
	students *mockStudentRepo
	records  map[string]*models.AttendanceRecord
	seq      uint
}

func attendanceKey(studentID string, day time.Time) string {
	return studentID + "|" + day.Format("2006-01-02")
}

func (m *mockAttendanceRepo) Upsert(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error {
	key := attendanceKey(record.StudentID, record.Day())
	if existing, ok := m.records[key]; ok {
		existing.Status = record.Status
		existing.Notes = record.Notes
		existing.MarkedBy = record.MarkedBy
		*record = *existing
	} else {
		m.seq++
		record.ID = m.seq
		record.CreatedAt = time.Unix(int64(m.seq), 0)
		stored := *record
		m.records[key] = &stored
	}
	record.Student = m.students.students[record.StudentID]
	return nil
}

func (m *mockAttendanceRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, error) {
	var out []*models.AttendanceRecord
	for _, record := range m.records {
		day := record.Day()
		if filters.Date != nil && !day.Equal(models.NormalizeDate(*filters.Date)) {
			continue
		}
		if filters.From != nil && day.Before(models.NormalizeDate(*filters.From)) {
			continue
		}
		if filters.To != nil && day.After(models.NormalizeDate(*filters.To)) {
			continue
		}
		if filters.StudentID != nil && record.StudentID != *filters.StudentID {
			continue
		}
		withStudent := *record
		withStudent.Student = m.students.students[record.StudentID]
		out = append(out, &withStudent)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Day(), out[j].Day()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
