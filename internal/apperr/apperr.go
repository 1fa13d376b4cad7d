// Package apperr is the error taxonomy shared by the client core. Every
// error a user can see is one of these types; they all unwrap to their
// cause so errors.Is keeps working across layers.
package apperr

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/barber-client/internal/port"
)

// ValidationError rejects an input before any network call is made.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func Invalid(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

type CredentialKind string

const (
	CredentialInvalid           CredentialKind = "invalid_credentials"
	CredentialEmailNotConfirmed CredentialKind = "email_not_confirmed"
	CredentialAlreadyRegistered CredentialKind = "already_registered"
	CredentialWeakPassword      CredentialKind = "weak_password"
	CredentialUnknown           CredentialKind = "unknown"
)

// CredentialError is an identity-provider rejection with its localized,
// user-facing message.
type CredentialError struct {
	Kind    CredentialKind
	Message string
	Err     error
}

func (e *CredentialError) Error() string { return e.Message }

func (e *CredentialError) Unwrap() error { return e.Err }

// TransportError is a network or server failure on a data-port call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func Transport(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// IsNotFound reports a missing record, as opposed to a failed call.
func IsNotFound(err error) bool {
	return errors.Is(err, port.ErrNotFound)
}
