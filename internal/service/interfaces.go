package service

import (
	"context"

	"feedback-relay/internal/config"
	"feedback-relay/internal/tracker"
)

// FeedbackPayload represents the JSON structure the feedback widget
// submits to the relay endpoint.
type FeedbackPayload struct {
	RepoID  string   `json:"repoID"`
	Title   string   `json:"title,omitempty"`
	Note    string   `json:"note"`
	URL     string   `json:"url"`
	Browser *Browser `json:"browser,omitempty"`
	Email   string   `json:"email,omitempty"`
	Img     string   `json:"img,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Browser carries the submitter's browser details.
type Browser struct {
	UserAgent string `json:"userAgent"`
}

// FeedbackResult represents the created issue returned to the widget.
type FeedbackResult struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// FeedbackService defines the core business logic interface for
// relaying feedback submissions to a configured tracker.
type FeedbackService interface {
	// ProcessFeedback handles the complete relay workflow
	ProcessFeedback(ctx context.Context, payload FeedbackPayload) (*FeedbackResult, error)

	// ValidatePayload ensures payload contains all required fields
	ValidatePayload(payload *FeedbackPayload) error
}

// TrackerFactory constructs the adapter behind a repo configuration.
type TrackerFactory interface {
	// TrackerFor builds the adapter for one configured repo id
	TrackerFor(ctx context.Context, repoID string, cfg config.RepoConfig) (tracker.Tracker, error)
}
