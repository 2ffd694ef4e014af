// Package api serves the calculator over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/novique-ai/roi-cli/internal/intake"
)

// Options tunes the router.
type Options struct {
	CORSOrigins      []string
	SubmitRatePerMin float64
	SubmitBurst      int
}

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type handler struct {
	svc *intake.Service
}

// NewRouter returns the API handler.
func NewRouter(svc *intake.Service, opts Options) http.Handler {
	h := &handler{svc: svc}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/roi", func(r chi.Router) {
		r.Get("/workflows", h.listWorkflows)
		r.Get("/plans", h.listPlans)
		r.Get("/segments", h.listSegments)
		r.Get("/segments/{segment}", h.getSegment)
		r.Get("/pricing-settings", h.getPricingSettings)
		r.Post("/calculate", h.calculate)
		r.With(newIPLimiter(opts.SubmitRatePerMin, opts.SubmitBurst).Middleware).
			Post("/submissions", h.submit)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
