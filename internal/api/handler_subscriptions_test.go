package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vending-fleet-backend/internal/model"
	"vending-fleet-backend/internal/store"
)

func setupSubscriptionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Machine{}, &model.Slot{}, &model.OperatorSubscription{},
	))
	require.NoError(t, db.Create(&model.Machine{Serial: 1, Location: "Lobby"}).Error)
	require.NoError(t, db.Create(&model.Machine{Serial: 2, Location: "Station"}).Error)

	handler := NewHandler(store.NewGormStore(db, store.Defaults{}), nil, nil)
	r := gin.New()
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.GET("/api/subscriptions", handler.GetSubscription)
	r.DELETE("/api/subscriptions", handler.DeleteSubscription)
	return r
}

func subscriptionRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func subscribedMachines(t *testing.T, w *httptest.ResponseRecorder) []int64 {
	t.Helper()
	var resp struct {
		SubscribedMachines []int64 `json:"subscribed_machines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.SubscribedMachines
}

func TestPutSubscriptionRejectsInvalidBody(t *testing.T) {
	router := setupSubscriptionRouter(t)

	w := subscriptionRequest(router, "PUT", "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	router := setupSubscriptionRouter(t)
	const endpoint = "https://push.example.com/sub/abc123"

	t.Run("put stores the machine set", func(t *testing.T) {
		w := subscriptionRequest(router, "PUT", "/api/subscriptions",
			`{"endpoint":"`+endpoint+`","p256dh":"key","auth":"secret","subscribed_machines":[1,2]}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = subscriptionRequest(router, "GET", "/api/subscriptions?endpoint="+endpoint, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.ElementsMatch(t, []int64{1, 2}, subscribedMachines(t, w))
	})

	t.Run("put replaces the machine set on re-subscribe", func(t *testing.T) {
		w := subscriptionRequest(router, "PUT", "/api/subscriptions",
			`{"endpoint":"`+endpoint+`","p256dh":"key2","auth":"secret2","subscribed_machines":[2]}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = subscriptionRequest(router, "GET", "/api/subscriptions?endpoint="+endpoint, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int64{2}, subscribedMachines(t, w))
	})

	t.Run("delete removes the subscription", func(t *testing.T) {
		w := subscriptionRequest(router, "DELETE", "/api/subscriptions",
			`{"endpoint":"`+endpoint+`"}`)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = subscriptionRequest(router, "GET", "/api/subscriptions?endpoint="+endpoint, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get requires an endpoint", func(t *testing.T) {
		w := subscriptionRequest(router, "GET", "/api/subscriptions", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
