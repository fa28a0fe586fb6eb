package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vending-fleet-backend/internal/notify"
)

type reportIncidentRequest struct {
	MachineSerial int64  `json:"machine_serial" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Reporter      string `json:"reporter"`
}

// ReportIncident handles POST /api/incidents.
func (h *Handler) ReportIncident(c *gin.Context) {
	var req reportIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.store.ReportIncident(c.Request.Context(), req.MachineSerial, req.Description, req.Reporter)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.pool.Dispatch(notify.Event{
		MachineSerial: req.MachineSerial,
		Message:       fmt.Sprintf("Incident reported for machine %d: %s", req.MachineSerial, req.Description),
	})

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListIncidents handles GET /api/incidents.
func (h *Handler) ListIncidents(c *gin.Context) {
	incidents, err := h.store.ListIncidents(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, incidents)
}

// DeleteMachineIncidents handles DELETE /api/machines/:serial/incidents.
func (h *Handler) DeleteMachineIncidents(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteMachineIncidents(c.Request.Context(), serial)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
