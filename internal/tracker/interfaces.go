package tracker

import "context"

// Draft is the normalized in-memory representation of an issue or card
// prior to creation. The staged image travels with the draft so adapter
// instances stay immutable and shareable across requests.
type Draft struct {
	Title       string
	Body        string
	AssigneeID  string
	SubmitterID string
	LabelIDs    []string
	Image       *Image
}

// Issue identifies a created issue or card on the remote tracker.
type Issue struct {
	ID     string `json:"id"`
	WebURL string `json:"url,omitempty"`
}

// Image is a transport-ready decoded screenshot.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Tracker is the uniform capability set over a specific issue-tracker
// REST API. Implementations resolve their project/board reference once
// at construction and are read-only afterwards.
type Tracker interface {
	// ResolveUserID maps an assignee identifier (numeric id or
	// username, depending on the backend) to the backend's user id.
	// Returns "" when the user cannot be resolved.
	ResolveUserID(ctx context.Context, identifier string) (string, error)

	// ResolveUsername looks up a user's handle by email address.
	// Returns "" when the backend has no email lookup or no match.
	ResolveUsername(ctx context.Context, email string) (string, error)

	// ResolveLabelIDs filters the project/board labels to those whose
	// name appears in tags, preserving the remote ordering. Empty tags
	// yield an empty result without a network call.
	ResolveLabelIDs(ctx context.Context, tags []string) ([]string, error)

	// CreateIssue performs the create call for the draft.
	CreateIssue(ctx context.Context, draft Draft) (*Issue, error)
}

// BodyUploader is implemented by backends that upload images before
// issue creation and splice the returned markdown into the body.
type BodyUploader interface {
	UploadImage(ctx context.Context, img *Image) (string, error)
}

// Attacher is implemented by backends that attach images to an already
// created issue.
type Attacher interface {
	AttachImage(ctx context.Context, issueID string, img *Image) error
}

// Commenter is implemented by backends that need a follow-up comment to
// force mention notifications the create call would not deliver.
type Commenter interface {
	PostComment(ctx context.Context, issueID, text string) error
}

// SubmitterAssociator is implemented by backends whose create call
// consumes Draft.SubmitterID as an additional issue member. Single
// assignee backends ignore the field, so resolving a submitter id for
// them would only burn a lookup.
type SubmitterAssociator interface {
	AssociatesSubmitters()
}
