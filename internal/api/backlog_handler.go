package api

import (
	"errors"
	"net/http"

	"github.com/andrewzhng2/TRVL/internal/auth"
	"github.com/andrewzhng2/TRVL/internal/backlog"
	"github.com/jackc/pgx/v5"
)

// backlogHandler groups backlog card HTTP handlers.
type backlogHandler struct {
	service *backlog.Service
}

func newBacklogHandler(svc *backlog.Service) *backlogHandler {
	return &backlogHandler{service: svc}
}

// ListCards handles GET /backlog/cards.
func (h *backlogHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list cards")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// CreateCard handles POST /backlog/cards. The creator is stamped when the
// request carries a valid session.
func (h *backlogHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var input backlog.CreateCardInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	var createdBy *int64
	if u := auth.UserFromContext(r.Context()); u != nil {
		createdBy = &u.ID
	}

	card, err := h.service.Create(r.Context(), input, createdBy)
	if err != nil {
		if errors.Is(err, backlog.ErrTitleRequired) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create card")
		return
	}

	auditLog(r, "create", "card", card.ID, "title", card.Title)

	writeJSON(w, http.StatusCreated, card)
}

// UpdateCard handles PATCH /backlog/cards/{id}.
func (h *backlogHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "card")
	if !ok {
		return
	}

	var input backlog.UpdateCardInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	card, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "card not found")
			return
		}
		if errors.Is(err, backlog.ErrTitleRequired) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update card")
		return
	}

	auditLog(r, "update", "card", id)

	writeJSON(w, http.StatusOK, card)
}

// DeleteCard handles DELETE /backlog/cards/{id}.
func (h *backlogHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "card")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "card not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete card")
		return
	}

	auditLog(r, "delete", "card", id)

	w.WriteHeader(http.StatusNoContent)
}
