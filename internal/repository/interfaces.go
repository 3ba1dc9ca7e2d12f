package repository

import "context"

// SubmissionLog records forwarded feedback submissions. All writes are
// best-effort: the relay result never depends on them.
type SubmissionLog interface {
	// RecordSubmission stores the outcome of a forwarded submission and
	// bumps the per-repo counter.
	RecordSubmission(ctx context.Context, repoID, issueID, issueURL string) error

	// SubmissionCount returns how many submissions were forwarded for
	// the repo id.
	SubmissionCount(ctx context.Context, repoID string) (int, error)

	// LastSubmission retrieves the most recently recorded submission data
	// for the repo id as a field map.
	LastSubmission(ctx context.Context, repoID string) (map[string]string, error)
}
