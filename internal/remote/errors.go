package remote

import "errors"

var (
	// ErrRateLimited is returned when the remote API answers 429. Treated
	// as a transient per-resource failure, never fatal to sibling fetches.
	ErrRateLimited = errors.New("remote: rate limited")

	// ErrUnauthorized is returned on 401/403. Usually means the credential
	// is missing or expired; fatal to the current sync attempt.
	ErrUnauthorized = errors.New("remote: unauthorized")

	// ErrNoCredentials is returned when no token source is configured.
	ErrNoCredentials = errors.New("remote: no credentials configured")
)
