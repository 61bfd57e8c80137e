package api

import (
	"errors"
	"net/http"

	"github.com/andrewzhng2/TRVL/internal/trip"
	"github.com/jackc/pgx/v5"
)

// legsHandler groups trip leg HTTP handlers. All routes are nested under
// /trips/{id} and verify the parent trip first.
type legsHandler struct {
	service *trip.Service
	trips   *tripsHandler
}

func newLegsHandler(svc *trip.Service, trips *tripsHandler) *legsHandler {
	return &legsHandler{service: svc, trips: trips}
}

// ListLegs handles GET /trips/{id}/legs.
func (h *legsHandler) ListLegs(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}

	legs, err := h.service.ListLegs(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list legs")
		return
	}
	writeJSON(w, http.StatusOK, legs)
}

// CreateLeg handles POST /trips/{id}/legs.
func (h *legsHandler) CreateLeg(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}

	var input trip.CreateLegInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	leg, err := h.service.CreateLeg(r.Context(), tripID, input)
	if err != nil {
		if errors.Is(err, trip.ErrLegNameRequired) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create leg")
		return
	}

	auditLog(r, "create", "leg", leg.ID, "trip_id", tripID, "name", leg.Name)

	writeJSON(w, http.StatusCreated, leg)
}

// UpdateLeg handles PATCH /trips/{id}/legs/{legID}.
func (h *legsHandler) UpdateLeg(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}
	legID, ok := pathID(w, r, "legID", "leg")
	if !ok {
		return
	}

	var input trip.UpdateLegInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	leg, err := h.service.UpdateLeg(r.Context(), tripID, legID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "leg not found")
			return
		}
		if errors.Is(err, trip.ErrLegNameRequired) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update leg")
		return
	}

	auditLog(r, "update", "leg", legID, "trip_id", tripID)

	writeJSON(w, http.StatusOK, leg)
}

// DeleteLeg handles DELETE /trips/{id}/legs/{legID}.
func (h *legsHandler) DeleteLeg(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}
	legID, ok := pathID(w, r, "legID", "leg")
	if !ok {
		return
	}

	if err := h.service.DeleteLeg(r.Context(), tripID, legID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "leg not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete leg")
		return
	}

	auditLog(r, "delete", "leg", legID, "trip_id", tripID)

	w.WriteHeader(http.StatusNoContent)
}
