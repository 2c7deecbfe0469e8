package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) DashboardStats(c *gin.Context) {
	stats, err := h.aggregation.DashboardStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h HandlerSet) Performance(c *gin.Context) {
	rollup, err := h.aggregation.PerformanceRollup(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

func (h HandlerSet) Analysis(c *gin.Context) {
	summary, err := h.aggregation.Analysis(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
