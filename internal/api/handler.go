package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"vending-fleet-backend/internal/notify"
	"vending-fleet-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	pool    *notify.WorkerPool
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, pool *notify.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		pool:    pool,
		webpush: webpushOptions,
	}
}

// statusFor maps a store error to an HTTP status. Anything unrecognized is
// a storage failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrMachineNotFound),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrSlotNotFound),
		errors.Is(err, store.ErrNotStocked),
		errors.Is(err, store.ErrNoSalesData):
		return http.StatusNotFound
	case errors.Is(err, store.ErrMachineExists),
		errors.Is(err, store.ErrProductExists),
		errors.Is(err, store.ErrSlotOccupied),
		errors.Is(err, store.ErrSlotFull),
		errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrMachineOff):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
