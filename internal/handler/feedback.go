package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"feedback-relay/internal/service"
)

// Status messages for the relay's response contract.
const (
	statusNotFound       = "page not found"
	statusBadRequest     = "bad request"
	statusUnauthorized   = "no authorization"
	statusCreationFailed = "error while creating issue"
)

// FeedbackHandlerImpl implements FeedbackHandler interface
type FeedbackHandlerImpl struct {
	feedbackService service.FeedbackService
	writer          ResponseWriter
}

// NewFeedbackHandler creates a new feedback handler instance
func NewFeedbackHandler(
	feedbackService service.FeedbackService,
	writer ResponseWriter,
) *FeedbackHandlerImpl {
	return &FeedbackHandlerImpl{
		feedbackService: feedbackService,
		writer:          writer,
	}
}

// HandleIndex processes HTTP requests to the root endpoint. Only POST
// submissions are served; everything else under / is not found.
func (h *FeedbackHandlerImpl) HandleIndex(w http.ResponseWriter, r *http.Request, ctx context.Context) {
	if r.URL.Path != "/" || r.Method != http.MethodPost {
		_ = h.writer.WriteStatus(w, http.StatusNotFound, statusNotFound)
		return
	}

	// Read the request body
	body, err := io.ReadAll(r.Body)
	if err != nil {
		_ = h.writer.WriteStatus(w, http.StatusBadRequest, statusBadRequest)
		return
	}
	defer func() { _ = r.Body.Close() }()

	// Parse the JSON payload
	var payload service.FeedbackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		_ = h.writer.WriteStatus(w, http.StatusBadRequest, statusBadRequest)
		return
	}

	// Validate the payload
	if err := h.feedbackService.ValidatePayload(&payload); err != nil {
		_ = h.writer.WriteStatus(w, http.StatusBadRequest, statusBadRequest)
		return
	}

	// Relay to the configured tracker
	result, err := h.feedbackService.ProcessFeedback(ctx, payload)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	// Return the created issue's representation
	if err := h.writer.WriteJSON(w, http.StatusOK, result); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeFailure maps the relay failure taxonomy onto the HTTP response
// contract. Anything outside the taxonomy is a generic creation error.
func (h *FeedbackHandlerImpl) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownRepo):
		_ = h.writer.WriteStatus(w, http.StatusBadRequest, statusBadRequest)
	case errors.Is(err, service.ErrNoCredentials):
		_ = h.writer.WriteStatus(w, http.StatusForbidden, statusUnauthorized)
	default:
		_ = h.writer.WriteStatus(w, http.StatusInternalServerError, statusCreationFailed)
	}
}
