package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// Request bodies larger than this are cut off; image bytes travel as
// multipart, never as JSON.
const maxJSONBody = 1 << 20

// writeJSON marshals data and sends it with the given status code. Marshal
// errors become a 500 since nothing has been written yet.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("write response", "error", err)
	}
}

// writeError sends a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes a size-capped request body into dst.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst)
}
