package tracker

import (
	"context"
	"fmt"

	"feedback-relay/internal/config"
)

// Factory constructs the tracker variant a repo config selects.
type Factory struct {
	trelloOpts []TrelloOption
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithTrelloOptions applies options to every Trello tracker the factory
// builds. Used by tests to point at a mock server.
func WithTrelloOptions(opts ...TrelloOption) FactoryOption {
	return func(f *Factory) { f.trelloOpts = opts }
}

// NewFactory creates a tracker factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, o := range opts {
		o(f)
	}
	return f
}

// TrackerFor builds the adapter for one configured repo. The repo id is
// the project or board homepage URL; construction resolves the remote
// refs and fails permanently when they cannot be resolved.
func (f *Factory) TrackerFor(ctx context.Context, repoID string, cfg config.RepoConfig) (Tracker, error) {
	switch kind := cfg.TrackerKind(); kind {
	case config.KindGitLab:
		return NewGitLabTracker(ctx, repoID, cfg.PrivateToken)
	case config.KindTrello:
		return NewTrelloTracker(ctx, repoID, cfg.Key, cfg.Token, f.trelloOpts...)
	default:
		return nil, fmt.Errorf("unsupported tracker kind %q", kind)
	}
}
