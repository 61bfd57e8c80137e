package api

import (
	"errors"
	"net/http"

	"github.com/andrewzhng2/TRVL/internal/auth"
	"github.com/andrewzhng2/TRVL/internal/metrics"
	"github.com/andrewzhng2/TRVL/internal/user"
)

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	auth    *auth.Service
	metrics *metrics.Metrics
}

func newAuthHandler(svc *auth.Service, m *metrics.Metrics) *authHandler {
	return &authHandler{auth: svc, metrics: m}
}

// LoginGoogle handles POST /auth/google.
func (h *authHandler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	token, u, err := h.auth.Login(r.Context(), req.IDToken)
	if err != nil {
		if h.metrics != nil {
			h.metrics.AuthFailuresTotal.Inc()
		}
		if errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid identity token")
			return
		}
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "conflict", "email already registered to another account")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to log in")
		return
	}

	if h.metrics != nil {
		h.metrics.AuthSuccessesTotal.Inc()
	}
	auditLog(r, "login", "user", u.ID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

// Me handles GET /auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Logout handles POST /auth/logout. It succeeds whether or not a matching
// session exists.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.ExtractBearerToken(r)
	if err := h.auth.Logout(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to log out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
