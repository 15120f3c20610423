package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform body for errors and mutation acknowledgements
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// RespondJSON writes a JSON response with the given status code.
// It marshals first so an encoding failure never leaves a partial response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondOK writes a success envelope
func RespondOK(w http.ResponseWriter, message string, data any) {
	RespondJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError writes a failure envelope. detail is optional.
func RespondError(w http.ResponseWriter, status int, message, detail string) {
	payload, err := json.Marshal(Envelope{
		Success: false,
		Message: message,
		Error:   detail,
	})
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
