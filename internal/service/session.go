package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/utafrali/shopease/internal/domain"
	"github.com/utafrali/shopease/internal/repository"
	apperrors "github.com/utafrali/shopease/pkg/errors"
	"github.com/utafrali/shopease/pkg/validator"
)

// LoginClient exchanges credentials for a token.
type LoginClient interface {
	Login(ctx context.Context, creds domain.Credentials) (string, error)
}

// SessionService tracks whether the storefront is signed in. The session is
// authenticated exactly when a non-empty token is persisted.
type SessionService struct {
	client LoginClient
	tokens repository.TokenRepository
	logger *slog.Logger

	mu       sync.Mutex
	state    domain.SessionState
	token    string
	username string
	// generation changes on every logout so a login that finishes after a
	// logout does not resurrect the session.
	generation uint64
}

// NewSessionService creates an unauthenticated session.
func NewSessionService(client LoginClient, tokens repository.TokenRepository, logger *slog.Logger) *SessionService {
	return &SessionService{
		client: client,
		tokens: tokens,
		logger: logger,
		state:  domain.StateUnauthenticated,
	}
}

// Restore loads the persisted token. Any non-empty token is trusted as is.
// A storage failure leaves the session unauthenticated.
func (s *SessionService) Restore(ctx context.Context) domain.Session {
	token, err := s.tokens.Get(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read persisted token", slog.String("error", err.Error()))
		s.setUnauthenticated()
		return s.snapshot()
	}
	if token == "" {
		s.setUnauthenticated()
		return s.snapshot()
	}

	s.setAuthenticated(token)
	s.logger.InfoContext(ctx, "session restored", slog.String("username", s.username))
	return s.snapshot()
}

// Login authenticates against the catalog and persists the token. A second
// call while one is in flight fails with a conflict. Logging in again drops
// the current session first. Any failure leaves the session unauthenticated
// with no persisted token.
func (s *SessionService) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	if err := validator.Validate(creds); err != nil {
		return s.Session(), apperrors.AuthenticationFailed(err)
	}

	s.mu.Lock()
	if s.state == domain.StateAuthenticating {
		s.mu.Unlock()
		return s.Session(), apperrors.Conflict("login already in progress")
	}
	if s.state == domain.StateAuthenticated {
		if err := s.tokens.Delete(ctx); err != nil {
			s.logger.ErrorContext(ctx, "failed to remove persisted token", slog.String("error", err.Error()))
		}
	}
	s.setUnauthenticated()
	s.state = domain.StateAuthenticating
	gen := s.generation
	s.mu.Unlock()

	token, err := s.client.Login(ctx, creds)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.InfoContext(ctx, "discarding login result after logout", slog.String("username", creds.Username))
		return s.snapshot(), apperrors.Conflict("session was logged out during login")
	}

	if err == nil {
		err = s.tokens.Save(ctx, token)
	}
	if err != nil {
		if delErr := s.tokens.Delete(ctx); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove persisted token", slog.String("error", delErr.Error()))
		}
		s.setUnauthenticated()
		s.logger.WarnContext(ctx, "login failed",
			slog.String("username", creds.Username),
			slog.String("error", err.Error()),
		)
		return s.snapshot(), apperrors.AuthenticationFailed(err)
	}

	s.setAuthenticated(token)
	s.logger.InfoContext(ctx, "logged in", slog.String("username", creds.Username))
	return s.snapshot(), nil
}

// Logout removes the persisted token. It never fails; storage errors are
// logged.
func (s *SessionService) Logout(ctx context.Context) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if err := s.tokens.Delete(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove persisted token", slog.String("error", err.Error()))
	}
	s.setUnauthenticated()
	s.logger.InfoContext(ctx, "logged out")
	return s.snapshot()
}

// Session returns a snapshot of the session.
func (s *SessionService) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Authenticated reports whether a token is held.
func (s *SessionService) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == domain.StateAuthenticated
}

// Token returns the current token, or "" when not authenticated.
func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Username returns the name decoded from the token, if any.
func (s *SessionService) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *SessionService) setAuthenticated(token string) {
	s.state = domain.StateAuthenticated
	s.token = token
	s.username = usernameFromToken(token)
}

func (s *SessionService) setUnauthenticated() {
	s.state = domain.StateUnauthenticated
	s.token = ""
	s.username = ""
}

func (s *SessionService) snapshot() domain.Session {
	return domain.Session{
		State:         s.state,
		Authenticated: s.state == domain.StateAuthenticated,
		Username:      s.username,
	}
}

// usernameFromToken reads the "user" or "sub" claim without verifying the
// signature. Opaque tokens yield "".
func usernameFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"user", "username", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
