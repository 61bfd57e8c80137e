package api

import (
	"errors"
	"net/http"

	"github.com/andrewzhng2/TRVL/internal/auth"
	"github.com/andrewzhng2/TRVL/internal/metrics"
	"github.com/andrewzhng2/TRVL/internal/trip"
)

// scheduleHandler groups schedule grid HTTP handlers.
type scheduleHandler struct {
	service *trip.Service
	trips   *tripsHandler
	metrics *metrics.Metrics
}

func newScheduleHandler(svc *trip.Service, trips *tripsHandler, m *metrics.Metrics) *scheduleHandler {
	return &scheduleHandler{service: svc, trips: trips, metrics: m}
}

// ListSchedule handles GET /trips/{id}/schedule.
func (h *scheduleHandler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}

	events, err := h.service.ListSchedule(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list schedule")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// OverwriteSchedule handles POST /trips/{id}/schedule: a transactional
// replace of the whole grid. A duplicate slot rejects the entire request
// and leaves the previous schedule in place.
func (h *scheduleHandler) OverwriteSchedule(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.trips.requireTrip(w, r)
	if !ok {
		return
	}

	var slots []trip.SlotInput
	if err := readJSON(r, &slots); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	var createdBy *int64
	if u := auth.UserFromContext(r.Context()); u != nil {
		createdBy = &u.ID
	}

	events, err := h.service.OverwriteSchedule(r.Context(), tripID, slots, createdBy)
	if err != nil {
		if errors.Is(err, trip.ErrDuplicateSlot) {
			h.countOverwrite("conflict")
			writeError(w, http.StatusConflict, "conflict", err.Error())
			return
		}
		h.countOverwrite("error")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to overwrite schedule")
		return
	}

	h.countOverwrite("ok")
	auditLog(r, "overwrite", "schedule", tripID, "slots", len(slots))

	writeJSON(w, http.StatusOK, events)
}

func (h *scheduleHandler) countOverwrite(status string) {
	if h.metrics != nil {
		h.metrics.ScheduleOverwritesTotal.WithLabelValues(status).Inc()
	}
}
