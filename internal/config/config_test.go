//go:build unit

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadRepos tests parsing of the repos configuration file
func TestLoadRepos(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
		expected    map[string]RepoConfig
	}{
		{
			name: "gitlab and trello entries",
			content: `{
				"https://gitlab.example.com/acme/widget": {
					"private_token": "glpat-abc",
					"assignee_id": "7"
				},
				"https://trello.com/b/abc123/feedback-board": {
					"key": "trello-key",
					"token": "trello-token"
				}
			}`,
			expectError: false,
			expected: map[string]RepoConfig{
				"https://gitlab.example.com/acme/widget": {
					PrivateToken: "glpat-abc",
					AssigneeID:   "7",
				},
				"https://trello.com/b/abc123/feedback-board": {
					Key:   "trello-key",
					Token: "trello-token",
				},
			},
		},
		{
			name: "explicit kind field",
			content: `{
				"https://gitlab.example.com/acme/widget": {
					"kind": "gitlab",
					"private_token": "glpat-abc"
				}
			}`,
			expectError: false,
			expected: map[string]RepoConfig{
				"https://gitlab.example.com/acme/widget": {
					Kind:         "gitlab",
					PrivateToken: "glpat-abc",
				},
			},
		},
		{
			name:        "empty mapping",
			content:     `{}`,
			expectError: false,
			expected:    map[string]RepoConfig{},
		},
		{
			name:        "malformed json",
			content:     `{"https://gitlab.example.com/acme/widget": `,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "repos.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			repos, err := LoadRepos(path)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, repos)
			}
		})
	}
}

func TestLoadRepos_MissingFile(t *testing.T) {
	repos, err := LoadRepos(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.Nil(t, repos)
}

// TestRepoConfig_TrackerKind tests backend inference for legacy entries
func TestRepoConfig_TrackerKind(t *testing.T) {
	tests := []struct {
		name     string
		config   RepoConfig
		expected string
	}{
		{
			name:     "explicit gitlab kind",
			config:   RepoConfig{Kind: KindGitLab, PrivateToken: "tok"},
			expected: KindGitLab,
		},
		{
			name:     "explicit trello kind",
			config:   RepoConfig{Kind: KindTrello, Key: "k", Token: "t"},
			expected: KindTrello,
		},
		{
			name:     "inferred trello from key",
			config:   RepoConfig{Key: "k", Token: "t"},
			expected: KindTrello,
		},
		{
			name:     "inferred gitlab from private token",
			config:   RepoConfig{PrivateToken: "tok"},
			expected: KindGitLab,
		},
		{
			name:     "empty entry defaults to gitlab",
			config:   RepoConfig{},
			expected: KindGitLab,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.TrackerKind())
		})
	}
}

// TestRepoConfig_HasCredentials tests credential presence per backend
func TestRepoConfig_HasCredentials(t *testing.T) {
	tests := []struct {
		name     string
		config   RepoConfig
		expected bool
	}{
		{
			name:     "gitlab with token",
			config:   RepoConfig{PrivateToken: "tok"},
			expected: true,
		},
		{
			name:     "gitlab without token",
			config:   RepoConfig{Kind: KindGitLab},
			expected: false,
		},
		{
			name:     "trello with key and token",
			config:   RepoConfig{Key: "k", Token: "t"},
			expected: true,
		},
		{
			name:     "trello missing token",
			config:   RepoConfig{Kind: KindTrello, Key: "k"},
			expected: false,
		},
		{
			name:     "empty entry",
			config:   RepoConfig{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.HasCredentials())
		})
	}
}

// TestConfig_Validate tests required configuration checks
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectError bool
	}{
		{
			name:        "valid configuration",
			config:      &Config{ReposFile: "/etc/relay/repos.json"},
			expectError: false,
		},
		{
			name:        "missing repos file",
			config:      &Config{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				assert.Error(t, err)
				var cfgErr *ConfigError
				assert.ErrorAs(t, err, &cfgErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestConfig_GetLogLevel tests log level parsing
func TestConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			assert.Equal(t, tt.expected, cfg.GetLogLevel())
		})
	}
}
