package validator

// Verification decisions
const (
	VerifyActionApprove = "approve"
	VerifyActionReject  = "reject"
)

// LoginRequest represents the admin login form. Credentials are checked
// with a constant-time compare in the auth package, not validated here.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateStudentRequest represents admin creation of a roster record
type CreateStudentRequest struct {
	Name           string  `json:"name" validate:"required,student_name"`
	Email          *string `json:"email" validate:"omitempty,club_email"`
	GitHubUsername *string `json:"githubUsername" validate:"omitempty,github_username"`
	StudentID      *string `json:"studentId" validate:"omitempty,student_code"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Course         *string `json:"course" validate:"omitempty,max=100"`
	Year           *string `json:"year" validate:"omitempty,max=20"`
	AreaOfStudy    *string `json:"areaOfStudy" validate:"omitempty,max=100"`
}

// UpdateStudentRequest represents admin edits. The name must always be
// supplied; other nil fields are left untouched.
type UpdateStudentRequest struct {
	Name           *string `json:"name" validate:"required,student_name"`
	Email          *string `json:"email" validate:"omitempty,club_email"`
	GitHubUsername *string `json:"githubUsername" validate:"omitempty,github_username"`
	StudentID      *string `json:"studentId" validate:"omitempty,student_code"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Course         *string `json:"course" validate:"omitempty,max=100"`
	Year           *string `json:"year" validate:"omitempty,max=20"`
	AreaOfStudy    *string `json:"areaOfStudy" validate:"omitempty,max=100"`
}

// RegisterRequest represents the public self-registration form
type RegisterRequest struct {
	Name           string  `json:"name" validate:"required,student_name"`
	Email          string  `json:"email" validate:"required,club_email"`
	GitHubUsername string  `json:"githubUsername" validate:"required,github_username"`
	Year           string  `json:"year" validate:"required,max=20"`
	AreaOfStudy    string  `json:"areaOfStudy" validate:"required,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Course         *string `json:"course" validate:"omitempty,max=100"`
}

// VerifyStudentRequest represents an admin verification decision on a
// pending registration
type VerifyStudentRequest struct {
	StudentID         string  `json:"studentId" validate:"required"`
	Action            string  `json:"action" validate:"required"`
	StudentIDToAssign *string `json:"studentIdToAssign" validate:"omitempty,student_code"`
}

// RecordAttendanceRequest represents a single attendance mark. MarkedBy
// is not client-settable; the handler fills it from the verified session.
type RecordAttendanceRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
	Notes     string `json:"notes" validate:"omitempty,max=500"`
	MarkedBy  string `json:"-"`
}

// BulkAttendanceEntry is one student's mark within a bulk submission.
// Entry-level problems surface in the bulk result, not as request errors.
type BulkAttendanceEntry struct {
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// BulkAttendanceRequest marks a whole session's attendance in one call.
// MarkedBy is filled from the verified session, as above.
type BulkAttendanceRequest struct {
	Date     string                `json:"date" validate:"required"`
	Entries  []BulkAttendanceEntry `json:"entries" validate:"required,min=1"`
	MarkedBy string                `json:"-"`
}
