package services

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// status codes with errors.Is.
var (
	ErrStudentNotFound         = errors.New("student not found")
	ErrRegistrationNotPending  = errors.New("registration is not pending")
	ErrDuplicateStudentID      = errors.New("student id already in use")
	ErrDuplicateEmail          = errors.New("email already registered")
	ErrDuplicateGitHubUsername = errors.New("github username already registered")
)
