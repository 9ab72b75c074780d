package handlers

import (
	"errors"
	"net/http"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/model"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/services"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/utils"
)

// sendServiceError maps service errors onto HTTP status codes. Unmapped
// errors become an opaque 500; the caller logs the detail.
func sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		utils.SendJSONError(w, "Session not found or expired", http.StatusNotFound)
	case errors.Is(err, services.ErrMissingListings),
		errors.Is(err, services.ErrNotProcessed):
		utils.SendJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrParsingFailed),
		errors.Is(err, services.ErrUnknownUploadKind),
		errors.Is(err, services.ErrUneditableColumn),
		errors.Is(err, services.ErrRowOutOfRange):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.SendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
