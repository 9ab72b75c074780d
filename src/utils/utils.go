package utils

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/logger"
)

type jsonErrorResponse struct {
	Error string `json:"error"`
}

// SendJSONError writes a JSON error body with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(jsonErrorResponse{Error: message}); err != nil {
		logger.L.Error("Error encoding JSON error response", "error", err)
	}
}

// SendJSONResponse writes a JSON body with the given status code.
func SendJSONResponse(w http.ResponseWriter, payload any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

// GenerateETag returns a stable hash of the payload's JSON encoding, used by
// table reads to support If-None-Match revalidation.
func GenerateETag(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload for ETag: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
