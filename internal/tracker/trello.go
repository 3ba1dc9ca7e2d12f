package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const trelloBaseURL = "https://api.trello.com"

// Name of the list new cards land on.
const trelloFeedbackList = "Feedback"

// TrelloTracker implements Tracker against the Trello REST API. Board
// and list ids are resolved once at construction and treated as
// constant afterwards.
type TrelloTracker struct {
	httpClient *http.Client
	baseURL    string
	key        string
	token      string

	boardID string
	listID  string
}

// TrelloOption configures a TrelloTracker before construction-time
// resolution runs.
type TrelloOption func(*TrelloTracker)

// WithTrelloBaseURL overrides the API base URL. Used by tests.
func WithTrelloBaseURL(baseURL string) TrelloOption {
	return func(t *TrelloTracker) { t.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// NewTrelloTracker builds a client authenticated with the given key and
// token and resolves the board behind the homepage URL plus its
// feedback list. Either ref failing to resolve is a permanent
// construction failure; callers must not retry.
func NewTrelloTracker(ctx context.Context, homepage, key, token string, opts ...TrelloOption) (*TrelloTracker, error) {
	t := &TrelloTracker{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    trelloBaseURL,
		key:        key,
		token:      token,
	}
	for _, opt := range opts {
		opt(t)
	}

	shortID, err := boardShortID(homepage)
	if err != nil {
		return nil, err
	}

	slog.Debug("Resolving Trello board", "short_id", shortID)

	var board struct {
		ID string `json:"id"`
	}
	if err := t.get(ctx, "1/boards/"+shortID, nil, &board); err != nil {
		return nil, fmt.Errorf("error resolving trello board %q: %w", shortID, err)
	}
	if board.ID == "" {
		return nil, fmt.Errorf("trello board %q returned no id", shortID)
	}
	t.boardID = board.ID

	listID, err := t.lookupListID(ctx)
	if err != nil {
		return nil, err
	}
	t.listID = listID

	slog.Info("Trello board resolved", "board_id", t.boardID, "list_id", t.listID)

	return t, nil
}

// boardShortID extracts the board's short id from a homepage URL of the
// form https://trello.com/b/<short-id>/<name>.
func boardShortID(homepage string) (string, error) {
	u, err := url.Parse(homepage)
	if err != nil {
		return "", fmt.Errorf("invalid homepage URL %q: %w", homepage, err)
	}

	segments := strings.Split(u.Path, "/")
	if len(segments) < 3 || segments[2] == "" {
		return "", fmt.Errorf("homepage URL %q has no board short id", homepage)
	}

	return url.QueryEscape(segments[2]), nil
}

// lookupListID finds the feedback list on the resolved board.
func (t *TrelloTracker) lookupListID(ctx context.Context) (string, error) {
	var lists []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := t.get(ctx, "1/boards/"+t.boardID+"/lists", url.Values{"fields": {"name"}}, &lists); err != nil {
		return "", fmt.Errorf("error listing trello lists: %w", err)
	}

	for _, l := range lists {
		if l.Name == trelloFeedbackList {
			return l.ID, nil
		}
	}

	return "", fmt.Errorf("board has no %q list", trelloFeedbackList)
}

// ResolveUserID always resolves by username lookup; Trello has no
// numeric passthrough.
func (t *TrelloTracker) ResolveUserID(ctx context.Context, identifier string) (string, error) {
	if identifier == "" {
		return "", nil
	}

	var member struct {
		ID string `json:"id"`
	}
	err := t.get(ctx, "1/members/"+url.PathEscape(identifier), nil, &member)
	if err != nil {
		if isNotFound(err) {
			slog.Debug("Trello member not found", "username", identifier)
			return "", nil
		}
		return "", fmt.Errorf("error looking up trello member %q: %w", identifier, err)
	}

	return member.ID, nil
}

// ResolveUsername is unsupported: Trello has no lookup by email.
func (t *TrelloTracker) ResolveUsername(ctx context.Context, email string) (string, error) {
	return "", nil
}

// ResolveLabelIDs filters the board's labels to those named in tags,
// preserving the board's ordering.
func (t *TrelloTracker) ResolveLabelIDs(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	var labels []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := t.get(ctx, "1/boards/"+t.boardID+"/labels", nil, &labels); err != nil {
		return nil, fmt.Errorf("error listing trello labels: %w", err)
	}

	wanted := make(map[string]bool, len(tags))
	for _, tag := range tags {
		wanted[tag] = true
	}

	var ids []string
	for _, label := range labels {
		if label.Name != "" && wanted[label.Name] {
			ids = append(ids, label.ID)
		}
	}

	return ids, nil
}

// CreateIssue creates the card on the feedback list. Trello associates
// multiple members with a card, so the deduplicated assignee and
// submitter ids are joined into idMembers.
func (t *TrelloTracker) CreateIssue(ctx context.Context, draft Draft) (*Issue, error) {
	data := url.Values{
		"idList": {t.listID},
		"name":   {draft.Title},
		"desc":   {draft.Body},
		"pos":    {"top"},
	}

	if members := dedupMembers(draft.AssigneeID, draft.SubmitterID); len(members) > 0 {
		data.Set("idMembers", strings.Join(members, ","))
	}
	if len(draft.LabelIDs) > 0 {
		data.Set("idLabels", strings.Join(draft.LabelIDs, ","))
	}

	var card struct {
		ID       string `json:"id"`
		ShortURL string `json:"shortUrl"`
	}
	if err := t.postForm(ctx, "1/cards", data, &card); err != nil {
		return nil, fmt.Errorf("error creating trello card: %w", err)
	}
	if card.ID == "" {
		return nil, fmt.Errorf("trello card creation returned no id")
	}

	return &Issue{ID: card.ID, WebURL: card.ShortURL}, nil
}

// AttachImage uploads the staged screenshot to an existing card.
func (t *TrelloTracker) AttachImage(ctx context.Context, issueID string, img *Image) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, img.Name))
	header.Set("Content-Type", img.ContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("error building attachment form: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return fmt.Errorf("error writing attachment data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("error finalizing attachment form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("1/cards/"+issueID+"/attachments", nil), body)
	if err != nil {
		return fmt.Errorf("error creating attachment request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var attachment struct {
		ID string `json:"id"`
	}
	if err := t.do(req, &attachment); err != nil {
		return fmt.Errorf("error attaching image to card: %w", err)
	}
	if attachment.ID == "" {
		return fmt.Errorf("trello attachment returned no id")
	}

	return nil
}

// PostComment adds a comment to an existing card.
func (t *TrelloTracker) PostComment(ctx context.Context, issueID, text string) error {
	var comment struct {
		ID string `json:"id"`
	}
	if err := t.postForm(ctx, "1/cards/"+issueID+"/actions/comments", url.Values{"text": {text}}, &comment); err != nil {
		return fmt.Errorf("error commenting on card: %w", err)
	}
	if comment.ID == "" {
		return fmt.Errorf("trello comment returned no id")
	}

	return nil
}

// AssociatesSubmitters marks that card creation consumes the submitter
// id as an extra card member.
func (t *TrelloTracker) AssociatesSubmitters() {}

// dedupMembers returns the non-empty unique ids, assignee first.
func dedupMembers(ids ...string) []string {
	var members []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	return members
}

// endpoint builds a full URL with the key/token auth query parameters.
func (t *TrelloTracker) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", t.key)
	query.Set("token", t.token)
	return t.baseURL + "/" + path + "?" + query.Encode()
}

// get performs an authenticated GET and decodes the JSON response.
func (t *TrelloTracker) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint(path, query), nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	return t.do(req, v)
}

// postForm performs an authenticated form-encoded POST and decodes the
// JSON response.
func (t *TrelloTracker) postForm(ctx context.Context, path string, data url.Values, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(path, nil), strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return t.do(req, v)
}

func (t *TrelloTracker) do(req *http.Request, v interface{}) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &apiError{StatusCode: resp.StatusCode, Path: req.URL.Path}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

// apiError carries the status of a non-success Trello response.
type apiError struct {
	StatusCode int
	Path       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("received non-success status code %d for %s", e.StatusCode, e.Path)
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}
