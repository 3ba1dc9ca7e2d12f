package handler

import (
	"encoding/json"
	"net/http"
)

// StatusResponse is the small JSON status object returned for every
// non-success outcome.
type StatusResponse struct {
	Status string `json:"status"`
}

// ResponseWriterImpl implements ResponseWriter interface
type ResponseWriterImpl struct{}

// NewResponseWriter creates a new response writer instance
func NewResponseWriter() *ResponseWriterImpl {
	return &ResponseWriterImpl{}
}

// WriteJSON writes a JSON response with the given status code
func (r *ResponseWriterImpl) WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(payload)
}

// WriteStatus writes a JSON status-message response
func (r *ResponseWriterImpl) WriteStatus(w http.ResponseWriter, statusCode int, status string) error {
	return r.WriteJSON(w, statusCode, StatusResponse{Status: status})
}
