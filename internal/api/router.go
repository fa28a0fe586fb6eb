package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"vending-fleet-backend/config"
	"vending-fleet-backend/internal/mw"
	"vending-fleet-backend/internal/notify"
	"vending-fleet-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, pool *notify.WorkerPool, webpushOptions *webpush.Options, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, pool, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.InvalidateCache(cacheStore))
	{
		// Machines
		api.POST("/machines/:serial", handler.CreateMachine)
		api.DELETE("/machines/:serial", handler.DeleteMachine)
		api.POST("/machines/:serial/power", handler.SetMachinePower)
		api.GET("/machines/:serial", handler.GetMachineInfo)
		api.GET("/machines/:serial/products", caching, handler.GetMachineProducts)

		// Products
		api.POST("/products", handler.CreateProduct)
		api.PUT("/products/:serial", handler.UpdateProduct)
		api.DELETE("/products/:serial", handler.DeleteProduct)

		// Transactions
		api.POST("/sales", handler.Sell)
		api.POST("/restocks", handler.Restock)

		// Refill and low stock
		api.POST("/refill-requests", handler.RequestRefill)
		api.GET("/refill-requests", handler.ListRefillRequests)
		api.GET("/machines/:serial/low-stock", handler.CheckLowStock)

		// Incidents
		api.POST("/incidents", handler.ReportIncident)
		api.GET("/incidents", handler.ListIncidents)
		api.DELETE("/machines/:serial/incidents", handler.DeleteMachineIncidents)

		// Reports
		api.GET("/machines/:serial/revenue", caching, handler.GetMachineRevenue)
		api.GET("/reports/revenue/extremes", caching, handler.GetExtremalRevenue)

		// Operator subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
