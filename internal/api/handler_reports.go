package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vending-fleet-backend/internal/store"
)

// GetMachineRevenue handles GET /api/machines/:serial/revenue.
func (h *Handler) GetMachineRevenue(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	total, err := h.store.TotalRevenue(c.Request.Context(), serial)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"machine_serial": serial, "total_revenue": total})
}

// GetExtremalRevenue handles GET /api/reports/revenue/extremes?direction=highest|lowest.
func (h *Handler) GetExtremalRevenue(c *gin.Context) {
	direction := store.RevenueDirection(c.DefaultQuery("direction", string(store.RevenueHighest)))

	result, err := h.store.ExtremalRevenue(c.Request.Context(), direction)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
