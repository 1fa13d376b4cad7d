package session

import (
	"errors"
	"strings"

	"github.com/BruksfildServices01/barber-client/internal/apperr"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

var (
	ErrSignInInProgress = errors.New("session: sign-in already in progress")
	ErrAlreadySignedIn  = errors.New("session: already signed in")

	errNoSession = errors.New("provider returned no session")
)

const (
	msgFillAllFields      = "Por favor, preencha todos os campos."
	msgFillRequiredFields = "Preencha todos os campos obrigatórios."
	msgInvalidEmail       = "Informe um e-mail válido."
)

var credentialMessages = []struct {
	match   string
	kind    apperr.CredentialKind
	message string
}{
	{"Invalid login credentials", apperr.CredentialInvalid, "E-mail ou senha incorretos. Verifique se você já criou sua conta."},
	{"Email not confirmed", apperr.CredentialEmailNotConfirmed, "E-mail não confirmado. Verifique sua caixa de entrada ou spam."},
	{"User already registered", apperr.CredentialAlreadyRegistered, "Este e-mail já está cadastrado. Tente fazer login."},
	{"Password should be", apperr.CredentialWeakPassword, "A senha deve ter pelo menos 6 caracteres."},
}

// Classify maps a provider rejection to its localized message. Unknown
// messages keep the provider's text as detail.
func Classify(err *port.AuthError) *apperr.CredentialError {
	for _, m := range credentialMessages {
		if strings.Contains(err.Message, m.match) {
			return &apperr.CredentialError{Kind: m.kind, Message: m.message, Err: err}
		}
	}
	return &apperr.CredentialError{
		Kind:    apperr.CredentialUnknown,
		Message: "Ocorreu um erro: " + err.Message,
		Err:     err,
	}
}

// classify splits a provider error into a credential rejection or a
// transport failure.
func classify(op string, err error) error {
	var authErr *port.AuthError
	if errors.As(err, &authErr) {
		return Classify(authErr)
	}
	return apperr.Transport(op, err)
}
