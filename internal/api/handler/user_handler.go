package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/response"
)

// UserHandler user administration endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateUser (admin)
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.Created(c, user)
}

// ListUsers (admin)
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// ListFaculty approvers a student can pick
// GET /api/v1/users/faculty
func (h *UserHandler) ListFaculty(c *gin.Context) {
	faculty, err := h.userSvc.ListFaculty(c.Request.Context())
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, faculty)
}

// GetUser (admin)
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateUser (admin)
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// DeleteUser (admin)
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, nil)
}

func handleUserError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 12002, err.Error(), "")
	case errors.Is(err, service.ErrInvalidEmail):
		response.BadRequest(c, 12003, err.Error())
	case errors.Is(err, service.ErrWeakPassword):
		response.BadRequest(c, 12004, err.Error())
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, 12005, err.Error())
	default:
		response.InternalError(c)
	}
}
