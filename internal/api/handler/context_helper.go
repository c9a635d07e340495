package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/RS76448/attendencesystem/internal/api/middleware"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/service"
	"github.com/RS76448/attendencesystem/pkg/response"
)

// MustGetUserID reads the user id JWTAuth stored on the context.
// On false a 401 has been written and the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxUserID)
}

// MustGetRole reads the caller's role.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, middleware.CtxRole)
}

// MustGetCaller combines user id and role.
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{ID: id, Role: model.Role(role)}, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}
