package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"

	"feedback-relay/internal/config"
	"feedback-relay/internal/repository"
	"feedback-relay/internal/tracker"
)

// FeedbackServiceImpl implements the FeedbackService interface
type FeedbackServiceImpl struct {
	repos       map[string]config.RepoConfig
	factory     TrackerFactory
	submissions repository.SubmissionLog

	// Adapters are memoized per repo id so project/board resolution
	// runs once; they are immutable after construction.
	mu       sync.Mutex
	trackers map[string]tracker.Tracker
}

// NewFeedbackService creates a new feedback service instance. The repo
// mapping is loaded once at startup and never mutated; submissions may
// be nil to disable the submission log.
func NewFeedbackService(
	repos map[string]config.RepoConfig,
	factory TrackerFactory,
	submissions repository.SubmissionLog,
) *FeedbackServiceImpl {
	return &FeedbackServiceImpl{
		repos:       repos,
		factory:     factory,
		submissions: submissions,
		trackers:    make(map[string]tracker.Tracker),
	}
}

// ValidatePayload ensures payload contains all required fields
func (s *FeedbackServiceImpl) ValidatePayload(payload *FeedbackPayload) error {
	if payload.Note == "" {
		return fmt.Errorf("missing note in payload")
	}

	if payload.URL == "" {
		return fmt.Errorf("missing url in payload")
	}

	return nil
}

// ProcessFeedback handles the complete relay workflow: config lookup,
// adapter construction, identity and label resolution, body assembly,
// issue creation, and the best-effort follow-ups.
func (s *FeedbackServiceImpl) ProcessFeedback(ctx context.Context, payload FeedbackPayload) (*FeedbackResult, error) {
	slog.Info("Starting feedback relay",
		"repo", payload.RepoID,
		"has_image", payload.Img != "",
		"tags", len(payload.Tags),
	)

	cfg, ok := s.repos[payload.RepoID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRepo, payload.RepoID)
	}

	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("%w: %q", ErrNoCredentials, payload.RepoID)
	}

	t, err := s.trackerFor(ctx, payload.RepoID, cfg)
	if err != nil {
		slog.Error("Failed to construct tracker", "error", err, "repo", payload.RepoID)
		return nil, fmt.Errorf("failed to construct tracker: %w", err)
	}

	assigneeID, err := t.ResolveUserID(ctx, cfg.AssigneeID)
	if err != nil {
		slog.Error("Failed to resolve assignee", "error", err, "repo", payload.RepoID)
		return nil, fmt.Errorf("failed to resolve assignee: %w", err)
	}

	title := payload.Title
	if title == "" {
		title = payload.Note
	}

	body := payload.Note

	// Image ordering is backend-specific: GitLab-style trackers upload
	// up front and splice the returned markdown into the body; others
	// stage the image for a post-creation attachment.
	var staged *tracker.Image
	if payload.Img != "" {
		img, err := tracker.ParseDataURL(payload.Img)
		if err != nil {
			slog.Warn("Ignoring undecodable image", "error", err, "repo", payload.RepoID)
		} else if uploader, ok := t.(tracker.BodyUploader); ok {
			markdown, err := uploader.UploadImage(ctx, img)
			if err != nil {
				slog.Warn("Image upload failed, relaying without it", "error", err, "repo", payload.RepoID)
			} else if markdown != "" {
				body = appendBody(body, markdown)
			}
		} else {
			staged = img
		}
	}

	body = appendBody(body, "URL: "+payload.URL)
	if payload.Browser != nil && payload.Browser.UserAgent != "" {
		body = appendBody(body, "Useragent: "+payload.Browser.UserAgent)
	}

	handle, err := s.submitterHandle(ctx, t, payload.Email)
	if err != nil {
		slog.Error("Failed to resolve submitter", "error", err, "repo", payload.RepoID)
		return nil, fmt.Errorf("failed to resolve submitter: %w", err)
	}

	var submitterID string
	if handle != "" {
		body = appendBody(body, "Submitted by "+handle)

		// Only backends that take the submitter as an issue member get
		// the extra lookup; single-assignee backends ignore the id.
		if _, ok := t.(tracker.SubmitterAssociator); ok {
			submitterID, err = t.ResolveUserID(ctx, strings.TrimPrefix(handle, "@"))
			if err != nil {
				// Member association is an extra, not a requirement.
				slog.Warn("Failed to resolve submitter id", "error", err, "repo", payload.RepoID)
				submitterID = ""
			}
		}
	}

	labelIDs, err := t.ResolveLabelIDs(ctx, payload.Tags)
	if err != nil {
		slog.Error("Failed to resolve labels", "error", err, "repo", payload.RepoID)
		return nil, fmt.Errorf("failed to resolve labels: %w", err)
	}

	issue, err := t.CreateIssue(ctx, tracker.Draft{
		Title:       title,
		Body:        body,
		AssigneeID:  assigneeID,
		SubmitterID: submitterID,
		LabelIDs:    labelIDs,
		Image:       staged,
	})
	if err != nil {
		slog.Error("Issue creation failed", "error", err, "repo", payload.RepoID)
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	slog.Info("Issue created",
		"repo", payload.RepoID,
		"issue_id", issue.ID,
		"issue_url", issue.WebURL,
	)

	s.runFollowUps(ctx, t, payload, issue, staged)

	return &FeedbackResult{ID: issue.ID, URL: issue.WebURL}, nil
}

// runFollowUps performs the best-effort post-creation calls: image
// attachment, mention notification, and the submission record. Their
// failures are logged and never surfaced; the issue already exists.
func (s *FeedbackServiceImpl) runFollowUps(ctx context.Context, t tracker.Tracker, payload FeedbackPayload, issue *tracker.Issue, staged *tracker.Image) {
	if staged != nil {
		if attacher, ok := t.(tracker.Attacher); ok {
			if err := attacher.AttachImage(ctx, issue.ID, staged); err != nil {
				slog.Warn("Image attachment failed", "error", err, "issue_id", issue.ID)
			}
		}
	}

	if commenter, ok := t.(tracker.Commenter); ok {
		// Mentions come from the original note, not the final body:
		// the appended metadata lines must not trigger notifications.
		if mentions := tracker.FindMentions(payload.Note); len(mentions) > 0 {
			if err := commenter.PostComment(ctx, issue.ID, mentionComment(mentions)); err != nil {
				slog.Warn("Mention comment failed", "error", err, "issue_id", issue.ID)
			}
		}
	}

	if s.submissions != nil {
		if err := s.submissions.RecordSubmission(ctx, payload.RepoID, issue.ID, issue.WebURL); err != nil {
			slog.Warn("Failed to record submission", "error", err, "repo", payload.RepoID)
		}
	}
}

// trackerFor returns the memoized adapter for a repo id, constructing
// it on first use.
func (s *FeedbackServiceImpl) trackerFor(ctx context.Context, repoID string, cfg config.RepoConfig) (tracker.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.trackers[repoID]; ok {
		return t, nil
	}

	t, err := s.factory.TrackerFor(ctx, repoID, cfg)
	if err != nil {
		return nil, err
	}

	s.trackers[repoID] = t
	return t, nil
}

// submitterHandle derives the "Submitted by" handle from the payload
// email. An email already shaped like a handle is used verbatim; a
// parseable address with a domain is resolved to a tracker username;
// anything else falls back to the raw email behind an @. An empty email
// produces no handle.
func (s *FeedbackServiceImpl) submitterHandle(ctx context.Context, t tracker.Tracker, email string) (string, error) {
	if email == "" {
		return "", nil
	}
	if strings.HasPrefix(email, "@") {
		return email, nil
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || !strings.Contains(addr.Address, "@") {
		return "@" + email, nil
	}

	username, err := t.ResolveUsername(ctx, addr.Address)
	if err != nil {
		return "", fmt.Errorf("failed to resolve username for %q: %w", addr.Address, err)
	}
	if username == "" {
		// Resolution came up empty: fall back to the bare address, not
		// the full "Name <addr>" string.
		return "@" + addr.Address, nil
	}

	return "@" + username, nil
}

// mentionComment builds the follow-up comment that forces mention
// notifications.
func mentionComment(mentions []string) string {
	handles := make([]string, len(mentions))
	for i, m := range mentions {
		handles[i] = "@" + m
	}
	return "mentioning: " + strings.Join(handles, ", ")
}

// appendBody joins body sections with a blank line. Order matters for
// output stability.
func appendBody(body, line string) string {
	return body + "\n\n" + line
}
