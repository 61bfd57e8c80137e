package api

import (
	"errors"
	"net/http"

	"github.com/andrewzhng2/TRVL/internal/auth"
	"github.com/andrewzhng2/TRVL/internal/trip"
	"github.com/jackc/pgx/v5"
)

// tripsHandler groups trip, membership, and section HTTP handlers.
type tripsHandler struct {
	service *trip.Service
}

func newTripsHandler(svc *trip.Service) *tripsHandler {
	return &tripsHandler{service: svc}
}

// requireTrip parses {id} and verifies that the trip exists. It writes the
// error response and returns false when it does not.
func (h *tripsHandler) requireTrip(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathID(w, r, "id", "trip")
	if !ok {
		return 0, false
	}
	if _, err := h.service.GetTrip(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "trip not found")
			return 0, false
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load trip")
		return 0, false
	}
	return id, true
}

// ListTrips handles GET /trips.
func (h *tripsHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.service.ListTrips(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list trips")
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// CreateTrip handles POST /trips.
func (h *tripsHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var input trip.CreateTripInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	var createdBy *int64
	if u := auth.UserFromContext(r.Context()); u != nil {
		createdBy = &u.ID
	}

	t, err := h.service.CreateTrip(r.Context(), input, createdBy)
	if err != nil {
		if errors.Is(err, trip.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create trip")
		return
	}

	auditLog(r, "create", "trip", t.ID, "name", t.Name)

	writeJSON(w, http.StatusCreated, t)
}

// UpdateTrip handles PATCH /trips/{id}.
func (h *tripsHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "trip")
	if !ok {
		return
	}

	var input trip.UpdateTripInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.service.UpdateTrip(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "trip not found")
			return
		}
		if errors.Is(err, trip.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update trip")
		return
	}

	auditLog(r, "update", "trip", id)

	writeJSON(w, http.StatusOK, t)
}

// DeleteTrip handles DELETE /trips/{id}. Legs, travel segments, schedule
// entries, and memberships cascade with the trip.
func (h *tripsHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "trip")
	if !ok {
		return
	}

	if err := h.service.DeleteTrip(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "trip not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete trip")
		return
	}

	auditLog(r, "delete", "trip", id)

	w.WriteHeader(http.StatusNoContent)
}

// Join handles POST /trips/join.
func (h *tripsHandler) Join(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	var req struct {
		InviteCode string `json:"invite_code"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.InviteCode == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "invite code is required")
		return
	}

	t, err := h.service.Join(r.Context(), req.InviteCode, u.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "no trip matches that invite code")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to join trip")
		return
	}

	auditLog(r, "join", "trip", t.ID)

	writeJSON(w, http.StatusOK, t)
}

// ListMembers handles GET /trips/{id}/members.
func (h *tripsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireTrip(w, r)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list members")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// ListSections handles GET /trips/{id}/sections.
func (h *tripsHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireTrip(w, r)
	if !ok {
		return
	}

	sections, err := h.service.ListSections(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list sections")
		return
	}
	writeJSON(w, http.StatusOK, sections)
}
