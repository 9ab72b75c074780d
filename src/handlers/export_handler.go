package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/logger"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/services"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/utils"
)

type ExportHandler struct {
	sessionService services.SessionService
}

func NewExportHandler(service services.SessionService) *ExportHandler {
	return &ExportHandler{
		sessionService: service,
	}
}

// HandleExport streams the working table back as a Ready Pro CSV ready for
// re-import.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session not found in context", http.StatusUnauthorized)
		return
	}

	data, err := h.sessionService.Export(sessionID)
	if err != nil {
		ctxLogger.Warn("Export failed", "error", err)
		sendServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("annunci_aggiornati_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		ctxLogger.Error("Error writing export response", "error", err)
	}
}
