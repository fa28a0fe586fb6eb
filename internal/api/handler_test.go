package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"vending-fleet-backend/internal/store"
)

func setupTransactionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	handler := NewHandler(nil, nil, nil)
	r.POST("/api/sales", handler.Sell)
	r.POST("/api/restocks", handler.Restock)
	r.POST("/api/machines/:serial", handler.CreateMachine)
	return r
}

func TestSellRejectsInvalidBody(t *testing.T) {
	router := setupTransactionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sales", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestockRejectsMissingFields(t *testing.T) {
	router := setupTransactionRouter()

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"machine_serial": 1}`)
	req, _ := http.NewRequest("POST", "/api/restocks", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMachineRejectsBadSerial(t *testing.T) {
	router := setupTransactionRouter()

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"location": "lobby"}`)
	req, _ := http.NewRequest("POST", "/api/machines/not-a-number", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid serial"}`, w.Body.String())
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{store.ErrMachineNotFound, http.StatusNotFound},
		{store.ErrProductNotFound, http.StatusNotFound},
		{store.ErrNotStocked, http.StatusNotFound},
		{store.ErrNoSalesData, http.StatusNotFound},
		{store.ErrMachineExists, http.StatusConflict},
		{store.ErrSlotOccupied, http.StatusConflict},
		{store.ErrSlotFull, http.StatusConflict},
		{store.ErrInsufficientStock, http.StatusConflict},
		{store.ErrMachineOff, http.StatusConflict},
		{store.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "error %v", tc.err)
	}
}

func TestAbortWithErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	abortWithError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}
