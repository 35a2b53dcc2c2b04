// Package api holds the JSON response helpers shared by every handler
// package. Error is the terminal normalizer: whatever a controller
// propagates ends up here as `{"error": message}` with a status code.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ayush/subtrack/internal/apperr"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes the normalized error body. Untagged errors are logged and
// surface as a plain 500.
func Error(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	JSON(w, status, map[string]string{"error": apperr.UserMessage(err)})
}
