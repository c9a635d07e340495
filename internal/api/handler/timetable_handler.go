package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/response"
)

// maxUploadBytes caps a timetable upload.
const maxUploadBytes = 5 << 20

var errUploadTooLarge = errors.New("uploaded file is too large")

// TimetableHandler timetable endpoints.
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler creates a TimetableHandler.
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// ListEntries filtered by course, semester, faculty or day
// GET /api/v1/timetables
func (h *TimetableHandler) ListEntries(c *gin.Context) {
	var q dto.TimetableListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	entries, err := h.svc.List(c.Request.Context(), &q)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, entries)
}

// CreateEntry (faculty, admin)
// POST /api/v1/timetables
func (h *TimetableHandler) CreateEntry(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.TimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	entry, err := h.svc.AddEntry(c.Request.Context(), &req, caller)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.Created(c, entry)
}

// UpdateEntry (owning faculty, admin)
// PUT /api/v1/timetables/:id
func (h *TimetableHandler) UpdateEntry(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.TimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	entry, err := h.svc.UpdateEntry(c.Request.Context(), c.Param("id"), &req, caller)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, entry)
}

// DeleteEntry (owning faculty, admin)
// DELETE /api/v1/timetables/:id
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteEntry(c.Request.Context(), c.Param("id"), caller); err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, nil)
}

// ReplaceScope swaps a course/semester timetable (admin)
// PUT /api/v1/timetables/scope
func (h *TimetableHandler) ReplaceScope(c *gin.Context) {
	var req dto.ReplaceScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	n, err := h.svc.ReplaceScope(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, gin.H{"replaced": n})
}

// Import bulk upsert from a .csv or .xlsx upload (admin)
// POST /api/v1/timetables/import, multipart field "file"
func (h *TimetableHandler) Import(c *gin.Context) {
	data, name, ok := readUpload(c)
	if !ok {
		return
	}

	var (
		result *dto.ImportResult
		err    error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		result, err = h.svc.ImportCSV(c.Request.Context(), data)
	case ".xlsx":
		result, err = h.svc.ImportXLSX(c.Request.Context(), data)
	default:
		response.BadRequest(c, 14010, "only .csv and .xlsx files can be imported")
		return
	}
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, result)
}

// ImportICS imports the classes of an iCalendar export (faculty, admin)
// POST /api/v1/timetables/import/ics, multipart field "file" plus course and semester
func (h *TimetableHandler) ImportICS(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	var req dto.ImportICSRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	data, _, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.svc.ImportICS(c.Request.Context(), data, &req, caller)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, result)
}

// readUpload reads the "file" part; on false a 400 has been written.
func readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 14009, "please upload a file in the \"file\" field")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		response.BadRequest(c, 14009, "the uploaded file could not be read")
		return nil, "", false
	}
	if len(data) > maxUploadBytes {
		response.BadRequest(c, 14011, errUploadTooLarge.Error())
		return nil, "", false
	}
	return data, header.Filename, true
}

func handleTimetableError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrEntryForbidden):
		response.Forbidden(c, 14002, err.Error())
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, 14003, err.Error())
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 14004, err.Error())
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 14005, err.Error())
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 14006, err.Error())
	case errors.Is(err, service.ErrImportUnreadable):
		response.BadRequest(c, 14007, err.Error())
	default:
		response.InternalError(c)
	}
}
