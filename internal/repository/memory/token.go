package memory

import (
	"context"
	"sync"
)

// TokenRepository keeps the token in process memory. The token does not
// survive a restart.
type TokenRepository struct {
	mu    sync.RWMutex
	token string
}

// NewTokenRepository creates an empty in-memory token repository.
func NewTokenRepository() *TokenRepository {
	return &TokenRepository{}
}

func (r *TokenRepository) Get(context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token, nil
}

func (r *TokenRepository) Save(_ context.Context, token string) error {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
	return nil
}

func (r *TokenRepository) Delete(context.Context) error {
	r.mu.Lock()
	r.token = ""
	r.mu.Unlock()
	return nil
}
