package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/config"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/logger"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/model"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/services"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/utils"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(service services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: service,
	}
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	session, token, err := h.sessionService.CreateSession(config.Cfg.SessionTTL)
	if err != nil {
		ctxLogger.Error("Failed to create repricing session", "error", err)
		utils.SendJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	utils.SendJSONResponse(w, createSessionResponse{
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	}, http.StatusCreated)
}

func (h *SessionHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.sessionService.DeleteSession(sessionID); err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			utils.SendJSONError(w, "Session not found or expired", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Failed to delete session", "error", err)
		utils.SendJSONError(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
