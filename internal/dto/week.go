package dto

// ── student week view ──

// WeekResponse the current Sunday-first week of the student's timetable.
type WeekResponse struct {
	Course   string            `json:"course"`
	Semester string            `json:"semester"`
	Days     []WeekDayResponse `json:"days"`
}

// WeekDayResponse one column.
type WeekDayResponse struct {
	Date    string             `json:"date"`
	Day     int                `json:"day"`
	Name    string             `json:"name"`
	IsToday bool               `json:"is_today"`
	IsPast  bool               `json:"is_past"`
	Slots   []WeekSlotResponse `json:"slots"`
}

// WeekSlotResponse one class in a column.
type WeekSlotResponse struct {
	TimetableID   string `json:"timetable_id"`
	Subject       string `json:"subject"`
	Time          string `json:"time"`
	TimeLabel     string `json:"time_label"`
	FacultyID     string `json:"faculty_id"`
	FacultyName   string `json:"faculty_name"`
	Past          bool   `json:"past"`
	Selectable    bool   `json:"selectable"`
	RequestID     string `json:"request_id,omitempty"`
	RequestStatus string `json:"request_status,omitempty"`
}
