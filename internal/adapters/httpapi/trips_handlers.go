package httpapi

import (
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/innocentmk82/efecosall-sub001/internal/app/trips"
)

func (h *Handler) RecordTrip(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	var body RecordTripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Cost == nil {
		requiredField(w, r, "cost")
		return
	}

	h.idempotent(w, r, "/trips", canonicalTrip(body), http.StatusCreated, func() (any, error) {
		t, err := h.Trips.RecordTrip(r.Context(), p.ProfileID(), trips.RecordTripInput{
			VehicleLabel: body.VehicleLabel,
			StartTime:    body.StartTime,
			EndTime:      body.EndTime,
			DistanceKm:   body.DistanceKm,
			FuelLiters:   body.FuelLiters,
			Cost:         *body.Cost,
		})
		if err != nil {
			return nil, err
		}
		return TripResponse{Trip: tripFromDomain(t)}, nil
	})
}

func (h *Handler) ListMyTrips(w http.ResponseWriter, r *http.Request) {
	var month *string
	if err := runtime.BindQueryParameter("form", true, false, "month", r.URL.Query(), &month); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid month", map[string]any{"month": "must be YYYY-MM"})
		return
	}
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	m := ""
	if month != nil {
		m = strings.TrimSpace(*month)
	}
	ts, err := h.Trips.ListMyTrips(r.Context(), p.ProfileID(), m)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]Trip, 0, len(ts))
	for _, t := range ts {
		out = append(out, tripFromDomain(t))
	}
	writeJSON(w, http.StatusOK, TripListResponse{Trips: out})
}

func canonicalTrip(b RecordTripRequest) RecordTripRequest {
	canon := b
	if canon.VehicleLabel != nil {
		v := strings.TrimSpace(*canon.VehicleLabel)
		canon.VehicleLabel = &v
	}
	if canon.StartTime != nil {
		s := canon.StartTime.UTC()
		canon.StartTime = &s
	}
	if canon.EndTime != nil {
		e := canon.EndTime.UTC()
		canon.EndTime = &e
	}
	return canon
}
