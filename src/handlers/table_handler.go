package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/logger"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/services"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/utils"
)

type TableHandler struct {
	sessionService services.SessionService
}

func NewTableHandler(service services.SessionService) *TableHandler {
	return &TableHandler{
		sessionService: service,
	}
}

// HandleProcess merges the uploaded inputs into the working table and runs
// the derivation pass.
func (h *TableHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session not found in context", http.StatusUnauthorized)
		return
	}

	table, err := h.sessionService.Process(sessionID)
	if err != nil {
		ctxLogger.Warn("Processing failed", "error", err)
		sendServiceError(w, err)
		return
	}

	utils.SendJSONResponse(w, table, http.StatusOK)
}

func (h *TableHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session not found in context", http.StatusUnauthorized)
		return
	}

	table, err := h.sessionService.GetTable(sessionID)
	if err != nil {
		ctxLogger.Warn("Table read failed", "error", err)
		sendServiceError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	currentETag, etagErr := utils.GenerateETag(table)
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		ctxLogger.Warn("Proceeding without ETag check", "error", etagErr)
	}

	utils.SendJSONResponse(w, table, http.StatusOK)
}

func (h *TableHandler) HandleGetASINs(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session not found in context", http.StatusUnauthorized)
		return
	}

	locale := r.URL.Query().Get("locale")
	if locale == "" {
		utils.SendJSONError(w, "locale query parameter is required", http.StatusBadRequest)
		return
	}

	codes, err := h.sessionService.ExtractASINs(sessionID, locale)
	if err != nil {
		ctxLogger.Warn("ASIN extraction failed", "locale", locale, "error", err)
		sendServiceError(w, err)
		return
	}

	utils.SendJSONResponse(w, map[string]any{"locale": strings.ToLower(locale), "asins": codes}, http.StatusOK)
}

type editCellRequest struct {
	Row    int     `json:"row"`
	Column string  `json:"column"`
	Value  *string `json:"value"`
}

// HandleEditCell updates one editable cell. A null value clears a numeric
// cell back to absent.
func (h *TableHandler) HandleEditCell(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session not found in context", http.StatusUnauthorized)
		return
	}

	var req editCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Column == "" {
		utils.SendJSONError(w, "column is required", http.StatusBadRequest)
		return
	}

	table, err := h.sessionService.EditCell(sessionID, req.Row, req.Column, req.Value)
	if err != nil {
		ctxLogger.Warn("Cell edit failed", "row", req.Row, "column", req.Column, "error", err)
		sendServiceError(w, err)
		return
	}

	utils.SendJSONResponse(w, table, http.StatusOK)
}

func (h *TableHandler) HandleScalePrice(w http.ResponseWriter, r *http.Request) {
	h.handleBulk(w, r, "scale-price", h.sessionService.ScalePrice)
}

func (h *TableHandler) HandleAlignToCompetitor(w http.ResponseWriter, r *http.Request) {
	h.handleBulk(w, r, "align-to-competitor", h.sessionService.AlignToCompetitor)
}

func (h *TableHandler) handleBulk(w http.ResponseWriter, r *http.Request, name string, op func(string, services.BulkSelection) (*services.TableResponse, error)) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session not found in context", http.StatusUnauthorized)
		return
	}

	var sel services.BulkSelection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	table, err := op(sessionID, sel)
	if err != nil {
		ctxLogger.Warn("Bulk price operation failed", "operation", name, "error", err)
		sendServiceError(w, err)
		return
	}

	ctxLogger.Info("Bulk price operation applied", "operation", name, "positions", len(sel.Positions), "amount", sel.Amount, "asPercentage", sel.AsPercentage)
	utils.SendJSONResponse(w, table, http.StatusOK)
}
