package main

import (
	"encoding/json"
	"net/http"

	"fomolt3d-engine/internal/app/public"
)

func planBuyHandler(svc *public.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req public.BuyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		out, err := svc.PlanBuy(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func planClaimHandler(svc *public.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req public.ClaimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		out, err := svc.PlanClaim(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, out)
	}
}
