// Package httpapi wires the HTTP transport (Gin) to the exit-page services,
// middleware and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, session resolution, logging/redaction, panic
// recovery, metrics, CORS, security headers, idempotency and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-exitpage-backend/internal/config"
	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/http/handlers"
	"github.com/tbourn/go-exitpage-backend/internal/http/middleware"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
)

// idempotencyShim adapts the repository free functions to
// handlers.IdempotencyStore.
type idempotencyShim struct{ db *gorm.DB }

// Get proxies repo.GetIdempotency.
func (s idempotencyShim) Get(ctx context.Context, sessionID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, s.db, sessionID, scope, key, now)
}

// Create proxies repo.CreateIdempotency.
func (s idempotencyShim) Create(ctx context.Context, sessionID, scope, key, result string, status int, ttl time.Duration) error {
	_, err := repo.CreateIdempotency(ctx, s.db, sessionID, scope, key, result, status, ttl)
	return err
}

// lookup reports whether a live record exists; used by the validator to let
// replays bypass rate limiting.
func (s idempotencyShim) lookup(ctx context.Context, sessionID, scope, key string, now time.Time) (bool, error) {
	rec, err := s.Get(ctx, sessionID, scope, key, now)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

var (
	corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsHeaders = []string{
		"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match",
		middleware.HeaderSessionID, middleware.HeaderIdempotencyKey,
	}
	corsExpose = []string{"X-Request-ID", "Content-Length", "ETag", "Idempotency-Replayed"}
)

// RegisterRoutes attaches all middleware and endpoints to r and mounts the
// public API under cfg.APIBasePath. deps.Idempotency defaults to the
// database-backed store.
//
// Middleware order matters:
//  1. OpenTelemetry
//  2. RequestID
//  3. Session (rejects malformed X-Session-ID before anything is logged)
//  4. RedactingLogger
//  5. Recovery
//  6. Body size limiter
//  7. Metrics
//  8. Idempotency validator (before the limiter so replays bypass it)
//  9. Rate limiter (per session, or per IP for anonymous callers)
//  10. CORS, compression and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, deps handlers.Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Session())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	idem := idempotencyShim{db: db}
	if deps.Idempotency == nil {
		deps.Idempotency = idem
	}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.lookup))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySessionOrIP())
	r.Use(rl.Handler())

	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     corsMethods,
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(deps)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Generation and availability
		api.POST("/farewells", h.GenerateFarewell)
		api.GET("/status", h.GetStatus)
		api.POST("/status/probe", h.ProbeStatus)

		// Draft store
		api.GET("/draft", h.GetDraft)
		api.PUT("/draft", h.PutDraft)
		api.PATCH("/draft", h.PatchDraft)
		api.DELETE("/draft", h.DeleteDraft)
		api.POST("/draft/publish", h.PublishDraft)

		// Wizard
		api.GET("/wizard", h.GetWizard)
		api.PATCH("/wizard", h.PatchWizard)
		api.POST("/wizard/next", h.NextStep)
		api.POST("/wizard/back", h.PrevStep)
		api.POST("/wizard/regenerate", h.Regenerate)

		// Published pages
		api.GET("/pages/:id", h.GetPage)
		api.GET("/pages/:id/comments", h.ListComments)
		api.POST("/pages/:id/comments", h.CreateComment)
		api.DELETE("/pages/:id/comments/:commentId", h.DeleteComment)
		api.GET("/pages/:id/reactions", h.ReactionSummary)
		api.POST("/pages/:id/reactions", h.React)
	}
}

// limitBody caps request bodies at maxBytes; oversized reads fail downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
