package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Tracker kinds selectable per repo.
const (
	KindGitLab = "gitlab"
	KindTrello = "trello"
)

// RepoConfig describes one configured repo id: which tracker backend it
// forwards to, its credentials, and the default assignee. The repo id
// itself (the map key in the repos file) is the project or board
// homepage URL.
type RepoConfig struct {
	Kind         string `json:"kind,omitempty"`
	PrivateToken string `json:"private_token,omitempty"`
	Key          string `json:"key,omitempty"`
	Token        string `json:"token,omitempty"`
	AssigneeID   string `json:"assignee_id,omitempty"`
}

// TrackerKind returns the configured kind, inferring gitlab for entries
// that only carry a private token (the historic file format had no kind
// field).
func (r RepoConfig) TrackerKind() string {
	if r.Kind != "" {
		return r.Kind
	}
	if r.Key != "" {
		return KindTrello
	}
	return KindGitLab
}

// HasCredentials reports whether the entry carries usable credentials
// for its tracker kind.
func (r RepoConfig) HasCredentials() bool {
	switch r.TrackerKind() {
	case KindTrello:
		return r.Key != "" && r.Token != ""
	default:
		return r.PrivateToken != ""
	}
}

// LoadRepos reads the repo id to tracker configuration mapping from a
// JSON file. A missing or malformed file is a fatal startup error for
// the caller.
func LoadRepos(path string) (map[string]RepoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening repos file %s: %w", path, err)
	}

	repos := make(map[string]RepoConfig)
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("error parsing repos file %s: %w", path, err)
	}

	return repos, nil
}
