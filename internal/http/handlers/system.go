package handlers

import (
	"net/http"

	intconfig "github.com/designarthur/catdump/internal/config"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		RespondError(c, http.StatusInternalServerError, "Database connection failed")
		return
	}
	RespondOK(c, "Database connection OK", nil)
}
