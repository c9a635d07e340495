package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/response"
)

// CourseHandler course catalogue endpoints.
type CourseHandler struct {
	svc service.CourseService
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(svc service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// ListCourses
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, courses)
}

// GetCourse
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, course)
}

// CreateCourse (admin)
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	course, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.Created(c, course)
}

// UpdateCourse (admin)
// PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	course, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, course)
}

// DeleteCourse (admin)
// DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, nil)
}

func handleCourseError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrCourseNameTaken):
		response.Conflict(c, 13002, err.Error(), "")
	default:
		response.InternalError(c)
	}
}
