package domain

// SessionState is the authentication state of the storefront session.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticating  SessionState = "authenticating"
	StateAuthenticated   SessionState = "authenticated"
)

// Credentials are submitted to the catalog login endpoint.
type Credentials struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=128"`
}

// Session is a read-only snapshot of the session.
type Session struct {
	State         SessionState `json:"state"`
	Authenticated bool         `json:"authenticated"`
	Username      string       `json:"username,omitempty"`
}
