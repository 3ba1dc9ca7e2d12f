package handler

import (
	"context"
	"net/http"
)

// FeedbackHandler defines the interface for HTTP request handling
type FeedbackHandler interface {
	// HandleIndex processes HTTP requests to the root endpoint
	HandleIndex(w http.ResponseWriter, r *http.Request, ctx context.Context)
}

// ResponseWriter wraps HTTP response writing functionality
type ResponseWriter interface {
	// WriteJSON writes a JSON response with the given status code
	WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) error

	// WriteStatus writes a JSON status-message response
	WriteStatus(w http.ResponseWriter, statusCode int, status string) error
}
