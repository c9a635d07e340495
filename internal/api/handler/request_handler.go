package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/response"
)

// RequestHandler absence request endpoints.
type RequestHandler struct {
	svc service.AttendanceService
}

// NewRequestHandler creates a RequestHandler.
func NewRequestHandler(svc service.AttendanceService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// Submit (student)
// POST /api/v1/requests
func (h *RequestHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	response.Created(c, result)
}

// ListMine the caller's own requests, newest first (student)
// GET /api/v1/requests/mine
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	response.OK(c, list)
}

// Inbox requests addressed to the caller (faculty)
// GET /api/v1/requests/inbox
func (h *RequestHandler) Inbox(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var q dto.RequestListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.ListForFaculty(c.Request.Context(), userID, &q)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	response.OK(c, list)
}

// List every request (admin)
// GET /api/v1/requests
func (h *RequestHandler) List(c *gin.Context) {
	var q dto.RequestListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.List(c.Request.Context(), &q)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	response.OK(c, list)
}

// Get one request visible to the caller
// GET /api/v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	response.OK(c, result)
}

// Decide approve or reject (faculty, admin)
// PUT /api/v1/requests/:id/decision
func (h *RequestHandler) Decide(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.svc.Decide(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	response.OK(c, result)
}

// Undo reverts the last decision (faculty, admin)
// POST /api/v1/requests/:id/undo
func (h *RequestHandler) Undo(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.svc.Undo(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		handleRequestError(c, err)
		return
	}
	response.OK(c, result)
}

// Withdraw a pending request (student)
// DELETE /api/v1/requests/:id
func (h *RequestHandler) Withdraw(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Withdraw(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleRequestError(c, err)
		return
	}
	response.OK(c, nil)
}

func handleRequestError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 15001, err.Error())
	case errors.Is(err, service.ErrRequestForbidden):
		response.Forbidden(c, 15002, err.Error())
	case errors.Is(err, service.ErrRequestNotPending):
		response.Conflict(c, 15003, err.Error(), "")
	case errors.Is(err, service.ErrNothingToUndo):
		response.Conflict(c, 15004, err.Error(), "")
	case errors.Is(err, service.ErrClassInPast):
		response.BadRequest(c, 15005, err.Error())
	case errors.Is(err, service.ErrNotStudent):
		response.Forbidden(c, 15010, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, err.Error())
	default:
		response.InternalError(c)
	}
}
