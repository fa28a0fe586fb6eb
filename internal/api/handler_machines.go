package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vending-fleet-backend/internal/model"
)

func serialParam(c *gin.Context) (int64, bool) {
	serial, err := strconv.ParseInt(c.Param("serial"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid serial"})
		return 0, false
	}
	return serial, true
}

type createMachineRequest struct {
	Location string `json:"location" binding:"required"`
	Address  string `json:"address"`
}

// CreateMachine handles POST /api/machines/:serial.
func (h *Handler) CreateMachine(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	var req createMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateMachine(c.Request.Context(), serial, req.Location, req.Address); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"serial": serial})
}

// DeleteMachine handles DELETE /api/machines/:serial.
func (h *Handler) DeleteMachine(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMachine(c.Request.Context(), serial); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type powerRequest struct {
	State string `json:"state" binding:"required"`
}

// SetMachinePower handles POST /api/machines/:serial/power.
func (h *Handler) SetMachinePower(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	var req powerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.State != model.MachineOn && req.State != model.MachineOff {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state must be \"on\" or \"off\""})
		return
	}

	if err := h.store.SetMachinePower(c.Request.Context(), serial, req.State == model.MachineOn); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"serial": serial, "state": req.State})
}

// GetMachineInfo handles GET /api/machines/:serial.
func (h *Handler) GetMachineInfo(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	info, err := h.store.MachineInfo(c.Request.Context(), serial)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetMachineProducts handles GET /api/machines/:serial/products.
func (h *Handler) GetMachineProducts(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	products, total, err := h.store.MachineProducts(c.Request.Context(), serial)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total_quantity": total})
}
