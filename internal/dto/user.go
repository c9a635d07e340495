package dto

// ── users ──

// CreateUserRequest admin creates an account of any role.
type CreateUserRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	Email     string `json:"email"      binding:"required,max=255"`
	Password  string `json:"password"   binding:"required,max=128"`
	Role      string `json:"role"       binding:"required,oneof=student faculty admin"`
	Course    string `json:"course"     binding:"max=100"`
	Semester  string `json:"semester"   binding:"max=50"`
	PRN       string `json:"prn"        binding:"max=50"`
	FacultyID string `json:"faculty_id" binding:"max=50"`
}

// UpdateUserRequest partial profile update.
type UpdateUserRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=100"`
	Course    *string `json:"course"     binding:"omitempty,max=100"`
	Semester  *string `json:"semester"   binding:"omitempty,max=50"`
	PRN       *string `json:"prn"        binding:"omitempty,max=50"`
	FacultyID *string `json:"faculty_id" binding:"omitempty,max=50"`
}

// UserListRequest list query.
type UserListRequest struct {
	PaginationRequest
	Role     string `form:"role"     binding:"omitempty,oneof=student faculty admin"`
	Course   string `form:"course"   binding:"omitempty,max=100"`
	Semester string `form:"semester" binding:"omitempty,max=50"`
}

// UserResponse profile.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Course    string `json:"course,omitempty"`
	Semester  string `json:"semester,omitempty"`
	PRN       string `json:"prn,omitempty"`
	FacultyID string `json:"faculty_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// FacultyBrief an approver a student can address a request to.
type FacultyBrief struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FacultyID string `json:"faculty_id"`
}
