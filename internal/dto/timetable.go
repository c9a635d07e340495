package dto

// ── timetables ──

// TimetableEntryRequest create or update one entry.
type TimetableEntryRequest struct {
	Course      string `json:"course"       binding:"required,max=100"`
	Semester    string `json:"semester"     binding:"required,max=50"`
	Day         *int   `json:"day"          binding:"required,weekday"`
	Date        string `json:"date"         binding:"omitempty,datetime=2006-01-02"`
	Time        string `json:"time"         binding:"required,max=20"`
	Subject     string `json:"subject"      binding:"required,max=100"`
	FacultyID   string `json:"faculty_id"   binding:"max=64"`
	FacultyName string `json:"faculty_name" binding:"max=100"`
}

// TimetableListRequest list query.
type TimetableListRequest struct {
	Course    string `form:"course"     binding:"omitempty,max=100"`
	Semester  string `form:"semester"   binding:"omitempty,max=50"`
	FacultyID string `form:"faculty_id" binding:"omitempty,max=64"`
	Day       *int   `form:"day"        binding:"omitempty,weekday"`
}

// ScopeEntry one entry of a bulk replace.
type ScopeEntry struct {
	Day         *int   `json:"day"          binding:"required,weekday"`
	Date        string `json:"date"         binding:"omitempty,datetime=2006-01-02"`
	Time        string `json:"time"         binding:"required,max=20"`
	Subject     string `json:"subject"      binding:"required,max=100"`
	FacultyID   string `json:"faculty_id"   binding:"max=64"`
	FacultyName string `json:"faculty_name" binding:"max=100"`
}

// ReplaceScopeRequest replaces a whole course/semester timetable.
type ReplaceScopeRequest struct {
	Course   string       `json:"course"   binding:"required,max=100"`
	Semester string       `json:"semester" binding:"required,max=50"`
	Entries  []ScopeEntry `json:"entries"  binding:"max=200,dive"`
}

// ImportICSRequest form fields accompanying an .ics upload.
type ImportICSRequest struct {
	Course      string `form:"course"       binding:"required,max=100"`
	Semester    string `form:"semester"     binding:"required,max=50"`
	FacultyID   string `form:"faculty_id"   binding:"max=64"`
	FacultyName string `form:"faculty_name" binding:"max=100"`
}

// TimetableEntryResponse entry.
type TimetableEntryResponse struct {
	ID          string `json:"id"`
	Course      string `json:"course"`
	Semester    string `json:"semester"`
	Day         int    `json:"day"`
	DayName     string `json:"day_name"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time"`
	TimeLabel   string `json:"time_label"`
	Subject     string `json:"subject"`
	FacultyID   string `json:"faculty_id"`
	FacultyName string `json:"faculty_name"`
}

// ImportResult outcome of a bulk import.
type ImportResult struct {
	Imported int              `json:"imported"`
	Updated  int              `json:"updated"`
	Skipped  int              `json:"skipped"`
	Rejected []ImportRowError `json:"rejected,omitempty"`
}

// ImportRowError a row that was read but not written.
type ImportRowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
