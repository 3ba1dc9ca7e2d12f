package tracker

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabTracker implements Tracker against the GitLab REST API. The
// project id is resolved once at construction from the homepage URL's
// path and treated as constant afterwards.
type GitLabTracker struct {
	gl        *gitlab.Client
	projectID int64
}

// NewGitLabTracker builds a client for the GitLab instance hosting the
// homepage URL and resolves the project behind it. A project that
// cannot be resolved is a permanent construction failure; callers must
// not retry.
func NewGitLabTracker(ctx context.Context, homepage, token string) (*GitLabTracker, error) {
	base, projectPath, err := splitHomepage(homepage)
	if err != nil {
		return nil, err
	}

	gl, err := gitlab.NewClient(token, gitlab.WithBaseURL(base+"/api/v4"))
	if err != nil {
		return nil, fmt.Errorf("error creating gitlab client: %w", err)
	}

	slog.Debug("Resolving GitLab project", "base_url", base, "project_path", projectPath)

	project, _, err := gl.Projects.GetProject(projectPath, nil, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error resolving gitlab project %q: %w", projectPath, err)
	}

	slog.Info("GitLab project resolved", "project_path", projectPath, "project_id", project.ID)

	return &GitLabTracker{gl: gl, projectID: project.ID}, nil
}

// splitHomepage derives the API base URL and the namespaced project
// path from a project homepage URL.
func splitHomepage(homepage string) (base, projectPath string, err error) {
	u, err := url.Parse(homepage)
	if err != nil {
		return "", "", fmt.Errorf("invalid homepage URL %q: %w", homepage, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("homepage URL %q has no scheme or host", homepage)
	}

	projectPath = strings.Trim(u.Path, "/")
	if projectPath == "" {
		return "", "", fmt.Errorf("homepage URL %q has no project path", homepage)
	}

	return u.Scheme + "://" + u.Host, projectPath, nil
}

// ResolveUserID returns numeric identifiers verbatim without a network
// call; anything else is treated as a username and looked up.
func (t *GitLabTracker) ResolveUserID(ctx context.Context, identifier string) (string, error) {
	if identifier == "" {
		return "", nil
	}
	if _, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		return identifier, nil
	}

	users, _, err := t.gl.Users.ListUsers(&gitlab.ListUsersOptions{
		Username: gitlab.Ptr(identifier),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("error looking up gitlab user %q: %w", identifier, err)
	}
	if len(users) == 0 {
		slog.Debug("GitLab user not found", "username", identifier)
		return "", nil
	}

	return strconv.FormatInt(users[0].ID, 10), nil
}

// ResolveUsername looks up a user's handle by email address.
func (t *GitLabTracker) ResolveUsername(ctx context.Context, email string) (string, error) {
	users, _, err := t.gl.Users.ListUsers(&gitlab.ListUsersOptions{
		Search: gitlab.Ptr(email),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("error looking up gitlab user by email: %w", err)
	}
	if len(users) == 0 {
		slog.Debug("No GitLab user matches email", "email", email)
		return "", nil
	}

	return users[0].Username, nil
}

// ResolveLabelIDs filters the project's labels to those named in tags.
// GitLab attaches labels to issues by name, so the names are the ids
// the create call consumes.
func (t *GitLabTracker) ResolveLabelIDs(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	labels, _, err := t.gl.Labels.ListLabels(t.projectID, &gitlab.ListLabelsOptions{}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error listing gitlab labels: %w", err)
	}

	wanted := make(map[string]bool, len(tags))
	for _, tag := range tags {
		wanted[tag] = true
	}

	var ids []string
	for _, label := range labels {
		if wanted[label.Name] {
			ids = append(ids, label.Name)
		}
	}

	return ids, nil
}

// UploadImage uploads the screenshot to the project and returns the
// markdown to splice into the issue body. GitLab uploads before issue
// creation, unlike list-based trackers.
func (t *GitLabTracker) UploadImage(ctx context.Context, img *Image) (string, error) {
	file, _, err := t.gl.ProjectMarkdownUploads.UploadProjectMarkdown(t.projectID, bytes.NewReader(img.Data), img.Name, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("error uploading image to gitlab: %w", err)
	}

	return file.Markdown, nil
}

// CreateIssue creates the issue. GitLab accepts a single assignee id;
// the submitter is referenced in the body instead.
func (t *GitLabTracker) CreateIssue(ctx context.Context, draft Draft) (*Issue, error) {
	opts := &gitlab.CreateIssueOptions{
		Title:       gitlab.Ptr(draft.Title),
		Description: gitlab.Ptr(draft.Body),
	}

	if draft.AssigneeID != "" {
		assigneeID, err := strconv.ParseInt(draft.AssigneeID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gitlab assignee id %q: %w", draft.AssigneeID, err)
		}
		opts.AssigneeIDs = gitlab.Ptr([]int64{assigneeID})
	}

	if len(draft.LabelIDs) > 0 {
		opts.Labels = (*gitlab.LabelOptions)(&draft.LabelIDs)
	}

	issue, _, err := t.gl.Issues.CreateIssue(t.projectID, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error creating gitlab issue: %w", err)
	}
	if issue.IID == 0 {
		return nil, fmt.Errorf("gitlab issue creation returned no iid")
	}

	// IID is the project-scoped issue number
	return &Issue{
		ID:     strconv.FormatInt(issue.IID, 10),
		WebURL: issue.WebURL,
	}, nil
}
