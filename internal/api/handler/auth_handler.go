package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/internal/api/middleware"
	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/response"
)

// AuthHandler authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register student self sign-up
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}
	response.Created(c, result)
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}
	response.OK(c, result)
}

// Refresh exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}
	response.OK(c, result)
}

// Logout
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	tokenID := c.GetString(middleware.CtxTokenID)
	expiresAt := c.GetTime(middleware.CtxTokenExp)
	if expiresAt.IsZero() {
		expiresAt = time.Now()
	}

	if err := h.authSvc.Logout(c.Request.Context(), userID, tokenID, expiresAt); err != nil {
		handleAuthError(c, err)
		return
	}
	response.OK(c, nil)
}

// Me current user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		handleAuthError(c, err)
		return
	}
	response.OK(c, result)
}

func handleAuthError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 11002, err.Error(), "")
	case errors.Is(err, service.ErrInvalidEmail):
		response.BadRequest(c, 11003, err.Error())
	case errors.Is(err, service.ErrWeakPassword):
		response.BadRequest(c, 11004, err.Error())
	case errors.Is(err, service.ErrInvalidRefreshToken):
		response.Unauthorized(c, 11005, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11006, err.Error())
	default:
		response.InternalError(c)
	}
}
