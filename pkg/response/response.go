package response

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request-id middleware stores under.
// Error envelopes echo it so a user can quote it when reporting a problem.
const RequestIDKey = "request_id"

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Details   string      `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Pagination metadata.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData paged payload.
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Message: "success", Data: data})
}

// OK 200
func OK(c *gin.Context, data interface{}) { success(c, http.StatusOK, data) }

// Created 201
func Created(c *gin.Context, data interface{}) { success(c, http.StatusCreated, data) }

// OKPage 200 with pagination.
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	if pageSize <= 0 {
		pageSize = 1
	}
	success(c, http.StatusOK, PageData{
		List: list,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// Attachment sends data as a named file download.
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}

// ── errors ──

// ErrorWithDetails writes an error envelope. details may be empty.
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: c.GetString(RequestIDKey),
	})
}

// Error writes an error envelope without details.
func Error(c *gin.Context, httpStatus int, code int, message string) {
	ErrorWithDetails(c, httpStatus, code, message, "")
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409. details names what the request collided with.
func Conflict(c *gin.Context, code int, message, details string) {
	ErrorWithDetails(c, http.StatusConflict, code, message, details)
}

// TooLarge 413 for a body over limit bytes.
func TooLarge(c *gin.Context, limit int64) {
	ErrorWithDetails(c, http.StatusRequestEntityTooLarge, 10005, "request body too large",
		fmt.Sprintf("limit is %d KiB", limit>>10))
}

// TooManyRequests 429 with a Retry-After hint in whole seconds.
func TooManyRequests(c *gin.Context, message string, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	Error(c, http.StatusTooManyRequests, 10004, message)
}

// Unavailable 503, used when the store or identity provider failed.
func Unavailable(c *gin.Context) {
	Error(c, http.StatusServiceUnavailable, 50300, "service temporarily unavailable, please retry")
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "internal server error")
}
