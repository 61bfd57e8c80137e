package api

import (
	"errors"
	"net/http"

	"github.com/andrewzhng2/TRVL/internal/trip"
	"github.com/jackc/pgx/v5"
)

// travelHandler groups travel segment HTTP handlers.
type travelHandler struct {
	service *trip.Service
	trips   *tripsHandler
}

func newTravelHandler(svc *trip.Service, trips *tripsHandler) *travelHandler {
	return &travelHandler{service: svc, trips: trips}
}

// ListSegments handles GET /trips/{id}/travel.
func (h *travelHandler) ListSegments(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}

	segments, err := h.service.ListSegments(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list travel segments")
		return
	}
	writeJSON(w, http.StatusOK, segments)
}

// CreateSegment handles POST /trips/{id}/travel.
func (h *travelHandler) CreateSegment(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}

	var input trip.CreateSegmentInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	seg, err := h.service.CreateSegment(r.Context(), tripID, input)
	if err != nil {
		if errors.Is(err, trip.ErrEdgeTypeInvalid) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create travel segment")
		return
	}

	auditLog(r, "create", "travel_segment", seg.ID, "trip_id", tripID, "edge_type", seg.EdgeType)

	writeJSON(w, http.StatusCreated, seg)
}

// UpdateSegment handles PATCH /trips/{id}/travel/{segmentID}.
func (h *travelHandler) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}
	segmentID, ok := pathID(w, r, "segmentID", "segment")
	if !ok {
		return
	}

	var input trip.UpdateSegmentInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	seg, err := h.service.UpdateSegment(r.Context(), tripID, segmentID, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "travel segment not found")
			return
		}
		if errors.Is(err, trip.ErrEdgeTypeInvalid) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update travel segment")
		return
	}

	auditLog(r, "update", "travel_segment", segmentID, "trip_id", tripID)

	writeJSON(w, http.StatusOK, seg)
}

// DeleteSegment handles DELETE /trips/{id}/travel/{segmentID}.
func (h *travelHandler) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}
	segmentID, ok := pathID(w, r, "segmentID", "segment")
	if !ok {
		return
	}

	if err := h.service.DeleteSegment(r.Context(), tripID, segmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "travel segment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete travel segment")
		return
	}

	auditLog(r, "delete", "travel_segment", segmentID, "trip_id", tripID)

	w.WriteHeader(http.StatusNoContent)
}
