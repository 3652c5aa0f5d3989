package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innervoice/innervoice-go/internal/metrics"
	"github.com/innervoice/innervoice-go/internal/middleware"
)

// RouterDeps groups what NewRouter needs.
type RouterDeps struct {
	Logger *slog.Logger

	Programs  ProgramService
	Providers ProviderService
	Profiles  ProfileService
	Verifier  middleware.TokenVerifier

	// Metrics and MetricsHandler are optional.
	Metrics        *metrics.Collector
	MetricsHandler http.Handler

	// A non-positive RateLimitRPS disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter returns the chi router serving the whole HTTP surface.
//
// Middleware order:
//
//	Conversation → Logging → Recovery → CORS → Metrics
//
// Rate limiting keys on the socket address; forwarding headers are not trusted.
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Conversation())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())

	var authRec middleware.AuthFailureRecorder
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		authRec = deps.Metrics
	}

	limit := func(next http.Handler) http.Handler { return next }
	if deps.RateLimitRPS > 0 {
		limit = middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst)
	}

	programs := NewProgramHandler(deps.Programs)
	providers := NewProviderHandler(deps.Providers)
	profiles := NewProfileHandler(deps.Profiles)

	r.Get("/", HandleRoot)
	r.Get("/healthz", HandleHealth)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/programs", programs.HandleList)
		r.Get("/programs/{program_id}", programs.HandleGet)
		r.Get("/providers", providers.HandleList)
		r.Get("/providers/{provider_id}", providers.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/programs", programs.HandleCreate)
			r.Patch("/programs/{program_id}", programs.HandleUpdate)
		})

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Use(middleware.BearerAuth(deps.Verifier, authRec))
			r.Get("/profile", profiles.HandleProfile)
			r.Get("/debug-auth", profiles.HandleDebugAuth)
		})
	})

	return r
}
