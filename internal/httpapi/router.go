package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MrEthical07/authservice/internal/metrics"
)

// RouterDeps are the collaborators of NewRouter. Service is required.
type RouterDeps struct {
	Service Service
	Cookies CookieConfig
	Logger  *slog.Logger

	// Throttle limits the credential routes per client IP. Nil disables it.
	Throttle *Throttle
	// Metrics receives per-route request counts. Nil disables it.
	Metrics metrics.Recorder
	// MetricsHandler is mounted at GET /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter builds the service router.
//
// Middleware order:
//
//	RequestID → RealIP → withClientIP → accessLog → recoverer → observe
//
// The per-IP throttle wraps only /signup, /login and /verify-2fa.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(withClientIP)
	r.Use(accessLog(logger))
	r.Use(recoverer(logger))
	r.Use(observe(deps.Metrics))

	h := NewHandler(deps.Service, deps.Cookies)

	r.Get("/health", Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(deps.Throttle.Middleware())

		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/verify-2fa", h.Verify2FA)
	})

	r.Post("/logout", h.Logout)
	r.Post("/verify-token", h.VerifyToken)

	return r
}
