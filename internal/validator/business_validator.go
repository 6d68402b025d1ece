package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pgs-software-club/club-service/internal/models"
)

// Email check is intentionally loose: local@domain.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// BusinessValidator handles request and business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// ValidationError represents a single field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates a struct against its validate tags
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	var errors ValidationErrors

	err := bv.validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: bv.getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

// ValidateStudentCreate validates admin roster creation
func (bv *BusinessValidator) ValidateStudentCreate(req *CreateStudentRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateStudentUpdate validates admin roster edits
func (bv *BusinessValidator) ValidateStudentUpdate(req *UpdateStudentRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateRegistration validates a public self-registration submission
func (bv *BusinessValidator) ValidateRegistration(req *RegisterRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateVerify validates an admin verification decision
func (bv *BusinessValidator) ValidateVerify(req *VerifyStudentRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Action != VerifyActionApprove && req.Action != VerifyActionReject {
		errors = append(errors, ValidationError{
			Field:   "action",
			Message: "must be approve or reject",
			Value:   req.Action,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateAttendanceRecord validates a single attendance mark
func (bv *BusinessValidator) ValidateAttendanceRecord(req *RecordAttendanceRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateDateField(req.Date)...)

	return errors
}

// ValidateAttendanceBulk validates a bulk attendance submission. Per-entry
// problems are reported by the service so one bad entry cannot reject the
// whole batch; only batch-level shape is checked here.
func (bv *BusinessValidator) ValidateAttendanceBulk(req *BulkAttendanceRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateDateField(req.Date)...)

	return errors
}

func (bv *BusinessValidator) validateDateField(value string) ValidationErrors {
	if value == "" {
		return nil
	}
	if _, err := models.ParseDate(value); err != nil {
		return ValidationErrors{{
			Field:   "date",
			Message: "must be a YYYY-MM-DD date",
			Value:   value,
			Rule:    "calendar_date",
		}}
	}
	return nil
}

// registerBusinessRules registers custom rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Loose email shape, matching what the registration form accepts
	bv.validate.RegisterValidation("club_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	// GitHub usernames: no spaces, no leading @
	bv.validate.RegisterValidation("github_username", func(fl validator.FieldLevel) bool {
		username := fl.Field().String()
		if strings.TrimSpace(username) == "" {
			return false
		}
		return !strings.Contains(username, " ") && !strings.Contains(username, "@")
	})

	// Student codes (PGS001 style): trimmed, non-empty, short
	bv.validate.RegisterValidation("student_code", func(fl validator.FieldLevel) bool {
		code := strings.TrimSpace(fl.Field().String())
		return len(code) >= 1 && len(code) <= 20
	})

	// Attendance status enum
	bv.validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})

	// Student display name (1-100 characters after trimming)
	bv.validate.RegisterValidation("student_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 1 && len(name) <= 100
	})
}

// getErrorMessage returns user-friendly error messages
func (bv *BusinessValidator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "club_email":
		return "must be a valid email address"
	case "github_username":
		return "must be a GitHub username without spaces or @"
	case "student_code":
		return "must be between 1 and 20 characters"
	case "attendance_status":
		return "must be present, absent, or late"
	case "student_name":
		return "must be between 1 and 100 characters"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
