package rest

import (
	"log/slog"
	"net/http"

	"github.com/Mohana-teja/loan-default-dashboard/pkg/auth"
)

// RouterConfig assembles the HTTP surface.
type RouterConfig struct {
	Health  *HealthHandler
	API     *PredictionHandler
	Metrics http.Handler
	// JWT enables bearer authentication on the v1 API when non-nil.
	JWT     *auth.JWTService
	Limiter *RateLimiter
	Logger  *slog.Logger
}

// probePaths are always served without authentication.
var probePaths = []string{"/healthz", "/readyz", "/metrics"}

// NewRouter builds the server handler. Middleware order, outermost first:
// logging, rate limit, auth.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Health.RegisterRoutes(mux)
	cfg.API.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	var h http.Handler = mux
	if cfg.JWT != nil {
		h = auth.HTTPMiddleware(cfg.JWT, probePaths)(h)
	}
	if cfg.Limiter != nil {
		h = RateLimitMiddleware(cfg.Limiter, probePaths...)(h)
	}
	return LoggingMiddleware(cfg.Logger)(h)
}
