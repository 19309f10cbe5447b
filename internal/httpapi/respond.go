package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Response is the envelope every request terminates in. It is constructed
// once and never mutated after writing.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Output  any    `json:"output,omitempty"`
	Message string `json:"message,omitempty"`

	AccessToken   string     `json:"accessToken,omitempty"`
	AccessExpiry  *time.Time `json:"accessExpiry,omitempty"`
	RefreshToken  string     `json:"refreshToken,omitempty"`
	RefreshExpiry *time.Time `json:"refreshExpiry,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Response{Success: false, Message: message})
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}
