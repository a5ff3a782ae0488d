package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type JSONFunc func(w http.ResponseWriter, status int, payload interface{})

type ErrorFunc func(w http.ResponseWriter, status int, message string, field ...string)

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("JSON encoding error", slog.Any("error", err))
	}
}

// Error writes {"status":"error","message":...,"code":...} with an optional "field".
func Error(w http.ResponseWriter, status int, message string, field ...string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(field) > 0 && field[0] != "" {
		payload["field"] = field[0]
	}

	JSON(w, status, payload)
}

// NoContent writes a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
