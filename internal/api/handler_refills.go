package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vending-fleet-backend/internal/model"
)

type requestRefillRequest struct {
	MachineSerial    int64  `json:"machine_serial" binding:"required"`
	RemainingPercent *int   `json:"remaining_percent" binding:"required"`
	ReportedAt       string `json:"reported_at"`
}

// RequestRefill handles POST /api/refill-requests.
func (h *Handler) RequestRefill(c *gin.Context) {
	var req requestRefillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reportedAt time.Time
	if req.ReportedAt != "" {
		t, err := time.Parse(time.RFC3339, req.ReportedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reported_at, use RFC3339"})
			return
		}
		reportedAt = t
	}

	id, err := h.store.RequestRefill(c.Request.Context(), req.MachineSerial, *req.RemainingPercent, reportedAt, model.RefillSourceOperator)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListRefillRequests handles GET /api/refill-requests.
func (h *Handler) ListRefillRequests(c *gin.Context) {
	requests, err := h.store.ListRefillRequests(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// CheckLowStock handles GET /api/machines/:serial/low-stock?product=N.
func (h *Handler) CheckLowStock(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	product, err := strconv.ParseInt(c.Query("product"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product serial"})
		return
	}

	status, err := h.store.CheckLowStock(c.Request.Context(), serial, product)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
