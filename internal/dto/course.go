package dto

// ── courses ──

// CourseRequest create or replace a course.
type CourseRequest struct {
	Name      string   `json:"name"      binding:"required,max=100"`
	Semesters []string `json:"semesters" binding:"required,min=1,dive,required,max=50"`
}

// CourseResponse course.
type CourseResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Semesters []string `json:"semesters"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}
