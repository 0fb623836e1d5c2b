package repository

import "context"

// TokenRepository persists the single session token under a fixed key.
// A missing token is not an error: Get returns "".
type TokenRepository interface {
	// Get returns the persisted token, or "" when none is stored.
	Get(ctx context.Context) (string, error)

	// Save stores token, replacing any previous one.
	Save(ctx context.Context, token string) error

	// Delete removes the token. Deleting a missing token succeeds.
	Delete(ctx context.Context) error
}
