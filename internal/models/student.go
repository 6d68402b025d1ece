package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationType string

const (
	RegistrationAdmin RegistrationType = "admin"
	RegistrationSelf  RegistrationType = "self"
)

// RegistrationState is derived from the isVerified/isActive flags. The two
// booleans stay on the record for persistence, but state transitions are
// validated against this derived state in one place.
type RegistrationState string

const (
	// StatePending: self-registered, awaiting admin review.
	StatePending RegistrationState = "pending"
	// StateVerified: approved by an admin (or created by one).
	StateVerified RegistrationState = "verified"
	// StateRejected: registration declined before approval.
	StateRejected RegistrationState = "rejected"
	// StateRemoved: soft-deleted after having been verified.
	StateRemoved RegistrationState = "removed"
)

// Student is the roster record. studentId is the optional human-readable
// code (e.g. PGS001); uniqueness is sparse and scoped to active records
// via a partial unique index.
type Student struct {
	ID             string  `json:"id" gorm:"primaryKey;size:36"`
	Name           string  `json:"name" gorm:"not null;size:100"`
	Email          *string `json:"email" gorm:"size:255"`
	GitHubUsername *string `json:"githubUsername" gorm:"size:100"`
	StudentID      *string `json:"studentId" gorm:"size:20;uniqueIndex:uniq_students_active_student_id,where:is_active = true"`
	Phone          *string `json:"phone" gorm:"size:30"`
	Course         *string `json:"course" gorm:"size:100"`
	Year           *string `json:"year" gorm:"size:20"`
	AreaOfStudy    *string `json:"areaOfStudy" gorm:"size:100"`

	IsActive         bool             `json:"isActive" gorm:"default:true"`
	IsVerified       bool             `json:"isVerified" gorm:"default:false"`
	RegistrationType RegistrationType `json:"registrationType" gorm:"size:10;default:admin"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// RegistrationState derives the tagged state from the persisted flags.
func (s *Student) RegistrationState() RegistrationState {
	switch {
	case s.IsActive && s.IsVerified:
		return StateVerified
	case s.IsActive:
		return StatePending
	case s.IsVerified:
		return StateRemoved
	default:
		return StateRejected
	}
}
