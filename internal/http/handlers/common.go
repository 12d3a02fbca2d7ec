package handlers

import (
	"net/http"
	"strconv"

	"github.com/designarthur/catdump/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondOK sends the standard success payload. Extra keys merge into the
// response alongside success/message/request_id.
func RespondOK(c *gin.Context, message string, extra gin.H) {
	payload := gin.H{
		"success":    true,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	for k, v := range extra {
		payload[k] = v
	}
	c.JSON(http.StatusOK, payload)
}

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success":    false,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	})
}

// queryInt reads an integer query param with a default.
func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "Request body is required")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
