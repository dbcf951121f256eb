package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remedyexcel/clinic-server/internal/scheduling"
)

// availabilityHandler serves both shapes of GET /api/availability: the full
// weekly template, or the open windows for one date when ?date= is present.
func availabilityHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if date := r.URL.Query().Get("date"); date != "" {
			slots, err := svc.AvailableSlots(r.Context(), date)
			if err != nil {
				if errors.Is(err, scheduling.ErrBadDate) {
					writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
				return
			}
			writeJSON(w, http.StatusOK, slots)
			return
		}

		av, err := svc.Availability(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, av)
	}
}

func replaceAvailabilityHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var av scheduling.WeeklyAvailability
		if err := json.NewDecoder(r.Body).Decode(&av); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := svc.ReplaceAvailability(r.Context(), &av)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}
