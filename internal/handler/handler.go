package handler

import (
	"log"
	"net/http"

	"aduan-portal/internal/model"

	"github.com/gin-gonic/gin"
)

// respondError maps a service failure onto the uniform {"error": message}
// envelope. Anything that is not a *model.Error is an unexpected failure:
// it is logged here and the caller only sees a generic message.
func respondError(c *gin.Context, err error) {
	if appErr, ok := model.AsError(err); ok {
		c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
		return
	}

	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
