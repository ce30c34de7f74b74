// Package api implements the uniform response envelope every endpoint
// returns: {success, message, data, timestamp}.
package api

import (
	"encoding/json"
	"net/http"
	"time"
)

type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Success writes a 200 envelope with the given data.
func Success(w http.ResponseWriter, data any, message string) {
	Write(w, http.StatusOK, true, message, data)
}

// Error writes an envelope with success=false and the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, false, message, nil)
}

func Write(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success:   success,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
