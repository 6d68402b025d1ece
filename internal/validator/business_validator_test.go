package validator

import "testing"

func strPtr(s string) *string { return &s }

func TestValidateRegistration(t *testing.T) {
	bv := NewBusinessValidator()

	valid := &RegisterRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		GitHubUsername: "janedoe",
		Year:           "2nd Year",
		AreaOfStudy:    "Computer Science",
	}
	if errs := bv.ValidateRegistration(valid); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"missing name", func(r *RegisterRequest) { r.Name = "" }, "Name"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "Email"},
		{"email without tld", func(r *RegisterRequest) { r.Email = "jane@example" }, "Email"},
		{"github with space", func(r *RegisterRequest) { r.GitHubUsername = "jane doe" }, "GitHubUsername"},
		{"github with at sign", func(r *RegisterRequest) { r.GitHubUsername = "@janedoe" }, "GitHubUsername"},
		{"missing year", func(r *RegisterRequest) { r.Year = "" }, "Year"},
		{"missing area of study", func(r *RegisterRequest) { r.AreaOfStudy = "" }, "AreaOfStudy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := *valid
			tt.mutate(&req)

			errs := bv.ValidateRegistration(&req)
			if len(errs) == 0 {
				t.Fatal("expected validation error, got none")
			}
			if errs[0].Field != tt.field {
				t.Errorf("expected error on field %s, got %s", tt.field, errs[0].Field)
			}
		})
	}
}

func TestValidateStudentCreate(t *testing.T) {
	bv := NewBusinessValidator()

	// Only the name is mandatory for admin-created records
	if errs := bv.ValidateStudentCreate(&CreateStudentRequest{Name: "Jane"}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := bv.ValidateStudentCreate(&CreateStudentRequest{
		Name:  "Jane",
		Email: strPtr("broken"),
	})
	if len(errs) != 1 || errs[0].Field != "Email" {
		t.Fatalf("expected one Email error, got %v", errs)
	}
}

func TestValidateVerify(t *testing.T) {
	bv := NewBusinessValidator()

	if errs := bv.ValidateVerify(&VerifyStudentRequest{StudentID: "abc", Action: VerifyActionApprove}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := bv.ValidateVerify(&VerifyStudentRequest{StudentID: "abc", Action: "maybe"})
	if len(errs) == 0 {
		t.Fatal("expected error for unknown action")
	}
}

func TestValidateAttendanceRecord(t *testing.T) {
	bv := NewBusinessValidator()

	valid := &RecordAttendanceRequest{
		StudentID: "abc",
		Date:      "2026-01-15",
		Status:    "present",
	}
	if errs := bv.ValidateAttendanceRecord(valid); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	bad := *valid
	bad.Status = "skipped"
	if errs := bv.ValidateAttendanceRecord(&bad); len(errs) == 0 {
		t.Fatal("expected error for unknown status")
	}

	badDate := *valid
	badDate.Date = "15/01/2026"
	errs := bv.ValidateAttendanceRecord(&badDate)
	if len(errs) == 0 || errs[0].Rule != "calendar_date" {
		t.Fatalf("expected calendar_date error, got %v", errs)
	}
}

func TestValidateAttendanceBulk(t *testing.T) {
	bv := NewBusinessValidator()

	if errs := bv.ValidateAttendanceBulk(&BulkAttendanceRequest{Date: "2026-01-15"}); len(errs) == 0 {
		t.Fatal("expected error for empty entries")
	}

	req := &BulkAttendanceRequest{
		Date: "2026-01-15",
		Entries: []BulkAttendanceEntry{
			{StudentID: "abc", Status: "present"},
			{StudentID: "def", Status: "bogus"},
		},
	}
	// Entry-level problems are reported per entry by the service
	if errs := bv.ValidateAttendanceBulk(req); len(errs) != 0 {
		t.Fatalf("expected no batch-level errors, got %v", errs)
	}
}
