package validators

import (
	"net/mail"
	"strings"
)

// IsEmail reports whether email is a bare address ("a@b.com"), without
// display name or angle brackets.
func IsEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

// NormalizeEmail lowercases and trims an address before it is sent to the
// identity provider.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
