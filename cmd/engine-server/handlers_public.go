package main

import (
	"errors"
	"net/http"

	"fomolt3d-engine/internal/app/public"
	"fomolt3d-engine/internal/archive"
	"fomolt3d-engine/internal/game"

	"github.com/go-chi/chi/v5"
)

func gameStatusHandler(svc *public.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.GameStatus(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func priceHandler(svc *public.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys := queryUint(r, "keys", 1)
		out, err := svc.Price(r.Context(), keys)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func playerStatusHandler(svc *public.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := chi.URLParam(r, "address")
		out, err := svc.PlayerStatus(r.Context(), address)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func leaderboardHandler(svc *public.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.Leaderboard(r.Context(), queryInt(r, "limit", 20))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

// eventsHandler serves the live RPC window by default; source=archive
// switches to persisted history when the archive is configured.
func eventsHandler(svc *public.Service, st *archive.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20)
		if r.URL.Query().Get("source") == "archive" {
			if st == nil {
				writeHTTPError(w, http.StatusNotFound, "archive_disabled")
				return
			}
			items, err := st.RecentEvents(r.Context(), limit)
			if err != nil {
				writeHTTPError(w, http.StatusInternalServerError, "internal_error")
				return
			}
			writeJSON(w, map[string]any{"items": items})
			return
		}
		out, err := svc.RecentEvents(r.Context(), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func topSpendersHandler(st *archive.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeHTTPError(w, http.StatusNotFound, "archive_disabled")
			return
		}
		items, err := st.TopSpenders(r.Context(), queryInt(r, "limit", 20))
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{"items": items})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var integrity *game.IntegrityError
	switch {
	case errors.Is(err, public.ErrInvalidRequest):
		writeHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, public.ErrNoRound):
		writeHTTPError(w, http.StatusNotFound, "no_round")
	case errors.As(err, &integrity):
		writeHTTPError(w, http.StatusBadGateway, "ledger_integrity")
	default:
		writeHTTPError(w, http.StatusBadGateway, "ledger_unavailable")
	}
}
