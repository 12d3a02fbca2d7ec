package handlers

import (
	"net/http"

	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/http/middleware"
	"github.com/designarthur/catdump/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses. Validation and
// state errors surface their message; unauthorized stays generic by
// construction; anything else is logged in full and reported as a generic
// failure so persistence details never leak.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case domain.IsUnauthorized(err):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error())
	case domain.IsState(err):
		RespondError(c, http.StatusConflict, err.Error())
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error())
	default:
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", err.Error())
		RespondError(c, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}
