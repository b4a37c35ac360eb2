package handler

import (
	"net/http"

	"aduan-portal/internal/middleware"
	"aduan-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Handles GET /complaints/statistics - portal-wide dashboard numbers for
// admin and petugas.
func (h *StatsHandler) Statistics(c *gin.Context) {
	stats, err := h.statsService.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}

// Handles GET /complaints/my-statistics - the caller's own complaints only.
func (h *StatsHandler) MyStatistics(c *gin.Context) {
	claims := middleware.Claims(c)
	stats, err := h.statsService.MyStatistics(c.Request.Context(), claims.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}
