package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/shopease/internal/domain"
	"github.com/utafrali/shopease/internal/service"
	"github.com/utafrali/shopease/pkg/httputil"
	"github.com/utafrali/shopease/pkg/validator"
)

// SessionHandler handles login, logout and session reads.
type SessionHandler struct {
	session *service.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(session *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{session: session, logger: logger}
}

// GetSession handles GET /api/v1/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.session.Session())
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := validator.DecodeAndValidate(r, &creds); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	session, err := h.session.Login(r.Context(), creds)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, session)
}

// Logout handles POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.session.Logout(r.Context()))
}
