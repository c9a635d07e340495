package dto

// ── auth ──

// RegisterRequest student self sign-up.
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=128"`
	Course   string `json:"course"   binding:"required,max=100"`
	Semester string `json:"semester" binding:"required,max=50"`
	PRN      string `json:"prn"      binding:"required,max=50"`
}

// LoginRequest sign-in.
type LoginRequest struct {
	Email      string `json:"email"    binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse token pair.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime, seconds
	User         UserResponse `json:"user"`
}
