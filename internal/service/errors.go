package service

import "errors"

// Relay failure taxonomy. The handler maps these onto HTTP statuses.
var (
	// ErrUnknownRepo means no tracker is configured for the repo id.
	ErrUnknownRepo = errors.New("no repo configured for id")

	// ErrNoCredentials means the repo is configured without usable
	// tracker credentials.
	ErrNoCredentials = errors.New("repo has no tracker credentials")

	// ErrCreateFailed means the tracker's create call did not produce
	// an issue.
	ErrCreateFailed = errors.New("issue creation failed")
)
