package port

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("port: not found")

	// ErrTransport wraps network, server and database failures.
	ErrTransport = errors.New("port: transport failure")
)

// AuthError is a credential failure reported by the identity provider.
// Message is the provider's raw text; callers classify it.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Message
}

// Transport wraps err as a transport failure of op.
func Transport(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}
