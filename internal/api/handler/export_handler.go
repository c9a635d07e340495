package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler file downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRequests absence requests as a workbook (faculty, admin)
// GET /api/v1/export/requests?status=&course=&semester=
func (h *ExportHandler) ExportRequests(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var q dto.RequestListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportRequests(c.Request.Context(), &q, caller)
	if err != nil {
		handleExportError(c, err)
		return
	}
	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportTimetable timetable as an iCalendar feed
// GET /api/v1/export/timetable.ics?course=&semester=&faculty_id=
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var q dto.TimetableListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetableICS(c.Request.Context(), &q, caller)
	if err != nil {
		handleExportError(c, err)
		return
	}
	response.Attachment(c, filename, contentTypeICS, buf.Bytes())
}

func handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrExportScopeRequired):
		response.BadRequest(c, 16001, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, err.Error())
	default:
		response.InternalError(c)
	}
}
