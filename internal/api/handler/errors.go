package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
	"github.com/RS76448/attendencesystem/pkg/response"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// bindFailed answers a request whose body or query did not bind.
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request parameters", err.Error())
}

// handleCommonError writes the response for errors shared by every module.
// It returns false when err is left for the module's own switch.
func handleCommonError(c *gin.Context, err error) bool {
	var (
		formatErr     *timeslot.FormatError
		conflictErr   *timeslot.ConflictError
		validationErr *pkgerrors.ValidationError
	)
	switch {
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10007, pkgerrors.ErrOptimisticLock.Error(), "")
	case errors.As(err, &formatErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10006, "invalid time format", err.Error())
	case errors.As(err, &conflictErr):
		response.Conflict(c, 10008, "time slot conflict", err.Error())
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, validationErr.Message, validationErr.Field)
	case errors.Is(err, pkgerrors.ErrRemoteFailure):
		response.Unavailable(c)
	default:
		return false
	}
	return true
}
