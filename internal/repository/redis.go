package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSubmissionLog implements SubmissionLog on a Redis hash per repo
// id plus a per-repo counter.
type RedisSubmissionLog struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisSubmissionLog creates a new Redis submission log instance
func NewRedisSubmissionLog(client *redis.Client) *RedisSubmissionLog {
	return &RedisSubmissionLog{
		client: client,
		now:    time.Now,
	}
}

func submissionKey(repoID string) string {
	return "feedback:" + repoID
}

// RecordSubmission stores the outcome of a forwarded submission and
// bumps the per-repo counter.
func (r *RedisSubmissionLog) RecordSubmission(ctx context.Context, repoID, issueID, issueURL string) error {
	key := submissionKey(repoID)

	slog.Debug("Recording submission",
		"key", key,
		"issue_id", issueID,
	)

	err := r.client.HSet(ctx, key,
		"lastIssueID", issueID,
		"lastIssueURL", issueURL,
		"lastSubmittedAt", r.now().Format(time.RFC3339),
	).Err()
	if err != nil {
		slog.Error("Failed to record submission", "key", key, "issue_id", issueID)
		return fmt.Errorf("error recording submission: %w", err)
	}

	if err := r.client.HIncrBy(ctx, key, "submissionCount", 1).Err(); err != nil {
		slog.Error("Failed to increment submission counter", "key", key)
		return fmt.Errorf("error incrementing submission counter: %w", err)
	}

	slog.Debug("Submission recorded successfully", "key", key, "issue_id", issueID)
	return nil
}

// SubmissionCount returns how many submissions were forwarded for the
// repo id.
func (r *RedisSubmissionLog) SubmissionCount(ctx context.Context, repoID string) (int, error) {
	key := submissionKey(repoID)

	value, err := r.client.HGet(ctx, key, "submissionCount").Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil // No submissions recorded yet
		}
		slog.Error("Failed to get submission count", "key", key)
		return 0, fmt.Errorf("error getting submission count: %w", err)
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid submission count value: %w", err)
	}

	return count, nil
}

// LastSubmission retrieves the most recently recorded submission data
// for the repo id.
func (r *RedisSubmissionLog) LastSubmission(ctx context.Context, repoID string) (map[string]string, error) {
	key := submissionKey(repoID)

	data, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		slog.Error("Failed to retrieve submission data", "key", key)
		return nil, fmt.Errorf("error retrieving submission data: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("no submissions recorded for repo: %s", repoID)
	}

	return data, nil
}
