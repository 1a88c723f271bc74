package main

import (
	"expvar"
	"net/http"

	"fomolt3d-engine/internal/app/public"
	"fomolt3d-engine/internal/archive"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func newRouter(svc *public.Service, st *archive.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())

		r.Get("/public/game", gameStatusHandler(svc))
		r.Get("/public/price", priceHandler(svc))
		r.Get("/public/players/{address}", playerStatusHandler(svc))
		r.Get("/public/leaderboard", leaderboardHandler(svc))
		r.Get("/public/events", eventsHandler(svc, st))
		r.Get("/public/spenders", topSpendersHandler(st))

		r.Post("/tx/buy", planBuyHandler(svc))
		r.Post("/tx/claim", planClaimHandler(svc))

		r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	})

	return r
}

func healthHandler(st *archive.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st != nil {
			if err := st.Ping(r.Context()); err != nil {
				writeHTTPError(w, http.StatusServiceUnavailable, "db_unavailable")
				return
			}
		}
		writeJSON(w, map[string]any{"ok": true})
	}
}
