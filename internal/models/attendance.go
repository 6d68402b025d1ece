package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// AttendanceRecord stores one status per student per calendar day. The
// composite unique index makes the (student_id, date) pair the natural
// key; writes go through the repository upsert only.
type AttendanceRecord struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	StudentID string           `json:"-" gorm:"size:36;not null;uniqueIndex:uniq_attendance_student_date"`
	Student   *Student         `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Date      datatypes.Date   `json:"date" gorm:"uniqueIndex:uniq_attendance_student_date"`
	Status    AttendanceStatus `json:"status" gorm:"size:10;not null"`
	Notes     string           `json:"notes" gorm:"size:500"`
	MarkedBy  string           `json:"markedBy" gorm:"size:255;default:admin"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Day returns the record's calendar day as a UTC midnight time.
func (a *AttendanceRecord) Day() time.Time {
	return NormalizeDate(time.Time(a.Date))
}

// NewDate normalizes a timestamp to its day boundary; time-of-day is not
// part of the attendance identity.
func NewDate(t time.Time) datatypes.Date {
	return datatypes.Date(NormalizeDate(t))
}

// NormalizeDate truncates a timestamp to UTC midnight.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
