package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sellRequest struct {
	MachineSerial int64 `json:"machine_serial" binding:"required"`
	ProductSerial int64 `json:"product_serial" binding:"required"`
	Quantity      int   `json:"quantity"`
}

// Sell handles POST /api/sales.
func (h *Handler) Sell(c *gin.Context) {
	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result, err := h.store.Sell(c.Request.Context(), req.MachineSerial, req.ProductSerial, req.Quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type restockRequest struct {
	MachineSerial int64 `json:"machine_serial" binding:"required"`
	ProductSerial int64 `json:"product_serial" binding:"required"`
	Slot          int   `json:"slot" binding:"required"`
	Quantity      int   `json:"quantity" binding:"required"`
}

// Restock handles POST /api/restocks.
func (h *Handler) Restock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newCount, err := h.store.Restock(c.Request.Context(), req.MachineSerial, req.ProductSerial, req.Slot, req.Quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": req.Slot, "quantity": newCount})
}
