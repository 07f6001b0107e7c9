// Package httpapi wires the HTTP transport (Gin) to the application services,
// middleware, and resource handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, structured logging, panic recovery, the terminal
// error mapping, metrics, rate limiting, CORS, compression, and security
// headers.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - One generic adapter per resource instead of nine hand-rolled CRUD sets
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/auth"
	"github.com/gauravsahdz/ecommerce-api/internal/config"
	"github.com/gauravsahdz/ecommerce-api/internal/domain"
	"github.com/gauravsahdz/ecommerce-api/internal/http/handlers"
	"github.com/gauravsahdz/ecommerce-api/internal/http/middleware"
	"github.com/gauravsahdz/ecommerce-api/internal/query"
	"github.com/gauravsahdz/ecommerce-api/internal/respond"
	"github.com/gauravsahdz/ecommerce-api/internal/services"
	"github.com/gauravsahdz/ecommerce-api/internal/store"
)

// RegisterRoutes attaches all middleware and endpoints to the given Gin
// engine and mounts the public API under /api.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate the correlation id
//  3. Logger: structured access logs with the correlation id
//  4. Recovery: capture panics after the logger is attached
//  5. ErrorHandler: terminal mapping of collected errors to envelopes
//  6. Body size limiter
//  7. Metrics
//  8. Rate limiter (per client IP)
//  9. CORS, compression, and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler(cfg.Dev()))
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))

	// Fallbacks keep the envelope uniform even off the routing table.
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "Route not found", nil)
	})
	r.NoMethod(func(c *gin.Context) {
		respond.Error(c, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, "Success", gin.H{"status": "ok"}, nil)
	})

	// Dependency injection: services ← store/db/config.
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := services.NewAuthService(store.NewCollection[domain.User](db), tokens)
	requireAuth := middleware.RequireAuth(tokens, authSvc.LookupSubject)

	listOpts := query.Options{
		DefaultLimit: cfg.PageSizeDefault,
		MaxLimit:     cfg.PageSizeMax,
	}

	api := r.Group("/api")

	ah := handlers.NewAuthHandlers(authSvc)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", ah.Register)
		authGroup.POST("/login", ah.Login)
		authGroup.POST("/logout", ah.Logout)
		authGroup.GET("/me", requireAuth, ah.Me)
	}

	editors := middleware.RequireRole(domain.RoleAdmin, domain.RoleEditor)
	admins := middleware.RequireRole(domain.RoleAdmin)

	mountResource(api, "/categories", handlers.NewCategoryResource(db, listOpts), requireAuth, editors)
	mountResource(api, "/products", handlers.NewProductResource(db, listOpts), requireAuth, editors)
	mountResource(api, "/customers", handlers.NewCustomerResource(db, listOpts), requireAuth, editors)
	mountResource(api, "/faqs", handlers.NewFaqResource(db, listOpts), requireAuth, editors)
	mountResource(api, "/discount-codes", handlers.NewDiscountCodeResource(db, listOpts), requireAuth, editors)
	mountResource(api, "/notifications", handlers.NewNotificationResource(db, listOpts), requireAuth, editors)
	mountResource(api, "/inventory", handlers.NewInventoryResource(db, listOpts), requireAuth, editors)

	// Order submission is additionally guarded against client retries.
	idem := middleware.Idempotency(db, "orders", cfg.IdempotencyTTL)
	mountResource(api, "/orders", handlers.NewOrderResource(db, listOpts), requireAuth, editors, idem)

	// Operator accounts are managed by admins only, reads included.
	uh := handlers.NewUsersHandler(db, listOpts)
	users := api.Group("/users", requireAuth, admins)
	{
		users.GET("", uh.List)
		users.GET("/:id", uh.Get)
		users.POST("", uh.Create)
		users.PUT("/:id", uh.Update)
		users.PUT("", uh.Update)
		users.DELETE("/:id", uh.Delete)
		users.DELETE("", uh.Delete)
	}
}

// mountResource registers the standard five endpoints for one resource.
// Reads are public; mutations require authentication plus the given role
// gate. extra middleware (e.g. idempotency) guards creation only.
func mountResource[T any](api *gin.RouterGroup, path string, res *handlers.Resource[T], requireAuth, requireRole gin.HandlerFunc, extra ...gin.HandlerFunc) {
	g := api.Group(path)

	g.GET("", res.List)
	g.GET("/:id", res.Get)

	mutate := g.Group("", requireAuth, requireRole)
	{
		create := append([]gin.HandlerFunc{}, extra...)
		create = append(create, res.Create)
		mutate.POST("", create...)
		mutate.PUT("/:id", res.Update)
		mutate.PUT("", res.Update)
		mutate.DELETE("/:id", res.Delete)
		mutate.DELETE("", res.Delete)
	}
}

// corsMiddleware builds the CORS posture: allow-all when no origins are
// configured, otherwise the explicit allowlist.
func corsMiddleware(cc config.CORSConfig) gin.HandlerFunc {
	base := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			middleware.HeaderIdempotencyKey,
		},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cc.AllowedOrigins) == 0 {
		base.AllowAllOrigins = true
	} else {
		base.AllowOrigins = cc.AllowedOrigins
	}
	return cors.New(base)
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies fail on first read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
