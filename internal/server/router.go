package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ms-events/internal/database"
	"ms-events/internal/logger"
	"ms-events/internal/utils"
)

// Pinger is satisfied by *bun.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Store interface {
	database.Opener
	Pinger
}

type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter wires logging, panic recovery and the per-request session
// around the API routes. /healthz runs without a session.
func NewRouter(store Store, api RouteRegistrar, log *logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler(store))

	r.Group(func(r chi.Router) {
		r.Use(database.SessionMiddleware(store, log))
		api.RegisterRoutes(r)
	})

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
