package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
)

func setupCachedRouter(hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := cache.New(time.Minute, time.Minute)

	r := gin.New()
	r.Use(InvalidateCache(store))
	r.GET("/report", Cache(store, time.Minute), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"hits": *hits})
	})
	r.POST("/mutate", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	r.POST("/reject", func(c *gin.Context) {
		c.Status(http.StatusConflict)
	})
	return r
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func post(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestCacheServesRepeatedReads(t *testing.T) {
	hits := 0
	router := setupCachedRouter(&hits)

	w := get(router, "/report")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())

	w = get(router, "/report")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hits":1}`, w.Body.String(), "second read must come from the cache")
	assert.Equal(t, 1, hits)
}

func TestMutationInvalidatesCache(t *testing.T) {
	hits := 0
	router := setupCachedRouter(&hits)

	get(router, "/report")
	assert.Equal(t, 1, hits)

	w := post(router, "/mutate")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = get(router, "/report")
	assert.JSONEq(t, `{"hits":2}`, w.Body.String(), "a successful write must flush cached reads")
}

func TestFailedMutationKeepsCache(t *testing.T) {
	hits := 0
	router := setupCachedRouter(&hits)

	get(router, "/report")

	w := post(router, "/reject")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = get(router, "/report")
	assert.JSONEq(t, `{"hits":1}`, w.Body.String(), "a rejected write must not flush the cache")
	assert.Equal(t, 1, hits)
}
