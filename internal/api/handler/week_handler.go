package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/response"
)

// WeekHandler student week view.
type WeekHandler struct {
	svc service.WeekService
}

// NewWeekHandler creates a WeekHandler.
func NewWeekHandler(svc service.WeekService) *WeekHandler {
	return &WeekHandler{svc: svc}
}

// GetWeek the current week with per-slot state
// GET /api/v1/week
func (h *WeekHandler) GetWeek(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	week, err := h.svc.GetWeek(c.Request.Context(), userID)
	if err != nil {
		if handleCommonError(c, err) {
			return
		}
		switch {
		case errors.Is(err, service.ErrNotStudent):
			response.Forbidden(c, 15010, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, week)
}
