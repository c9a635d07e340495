package dto

// ── absence requests ──

// ClassDetailRequest one class the student will miss.
type ClassDetailRequest struct {
	Subject     string `json:"subject"      binding:"required,max=100"`
	Date        string `json:"date"         binding:"required,datetime=2006-01-02"`
	Time        string `json:"time"         binding:"required,max=20"`
	TimetableID string `json:"timetable_id" binding:"max=64"`
}

// SubmitRequestRequest a new absence request.
type SubmitRequestRequest struct {
	FacultyID string               `json:"faculty_id" binding:"required,max=64"`
	Reason    string               `json:"reason"     binding:"required,max=1000"`
	Classes   []ClassDetailRequest `json:"classes"    binding:"required,min=1,max=20,dive"`
}

// DecisionRequest approve or reject.
type DecisionRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// RequestListQuery list query.
type RequestListQuery struct {
	Status    string `form:"status"     binding:"omitempty,oneof=pending approved rejected"`
	Course    string `form:"course"     binding:"omitempty,max=100"`
	Semester  string `form:"semester"   binding:"omitempty,max=50"`
	StudentID string `form:"student_id" binding:"omitempty,max=64"`
	FacultyID string `form:"faculty_id" binding:"omitempty,max=64"`
}

// ClassDetailResponse class detail.
type ClassDetailResponse struct {
	Subject     string `json:"subject"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	TimeLabel   string `json:"time_label"`
	Day         int    `json:"day"`
	DayName     string `json:"day_name"`
	TimetableID string `json:"timetable_id,omitempty"`
}

// AttendanceRequestResponse absence request.
type AttendanceRequestResponse struct {
	ID             string                `json:"id"`
	StudentID      string                `json:"student_id"`
	StudentName    string                `json:"student_name"`
	StudentPRN     string                `json:"student_prn"`
	Course         string                `json:"course"`
	Semester       string                `json:"semester"`
	FacultyID      string                `json:"faculty_id"`
	FacultyName    string                `json:"faculty_name"`
	ClassDetails   []ClassDetailResponse `json:"class_details"`
	Reason         string                `json:"reason"`
	Status         string                `json:"status"`
	PreviousStatus string                `json:"previous_status,omitempty"`
	CanUndo        bool                  `json:"can_undo"`
	SubmittedAt    string                `json:"submitted_at"`
	ProcessedAt    string                `json:"processed_at,omitempty"`
}
