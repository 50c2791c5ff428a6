package httpserver

import (
	"net/http"
	"time"

	"gift-tracker-go/internal/config"
	"gift-tracker-go/internal/transport/httpserver/handler"
	"gift-tracker-go/internal/transport/httpserver/middleware"
	"gift-tracker-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP surface. metrics may be nil to leave /metrics
// unmounted.
func NewRouter(cfg config.Config, handlers *handler.Handlers, metrics http.Handler, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.NewCORS(cfg.AllowedOrigins()))

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := middleware.NewAPIKeyAuth(cfg.APIKey, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Group(func(r chi.Router) {
				if cfg.Import.MaxBodyBytes > 0 {
					r.Use(chimw.RequestSize(cfg.Import.MaxBodyBytes))
				}
				r.Post("/import/gifts", handlers.ImportGifts)
				r.Post("/import/people", handlers.ImportPeople)
			})

			r.Post("/resolve", handlers.Resolve)

			r.Get("/households", handlers.ListHouseholds)
			r.Get("/households/{id}", handlers.GetHousehold)
			r.Post("/households/merge", handlers.MergeHouseholds)
		})
	})

	return r
}
