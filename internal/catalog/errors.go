package catalog

import (
	"errors"
	"fmt"

	apperrors "github.com/utafrali/shopease/pkg/errors"
)

// FetchError reports a failed catalog request. It matches
// apperrors.ErrFetchFailed and whatever Err matches.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{apperrors.ErrFetchFailed, e.Err}
}

// errRejected is the cause used when the login endpoint refuses credentials.
var errRejected = errors.New("credentials rejected")

// errNoToken is returned when a successful login response carries no token.
var errNoToken = errors.New("login response carried no token")
