package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-client/internal/httperr"
)

const ContextAccountID = "accountID"

// AccountSource answers who is signed in right now.
type AccountSource interface {
	AccountID() (string, bool)
}

// RequireSession rejects the request unless the session is ready, and
// exposes the account id to handlers.
func RequireSession(accounts AccountSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := accounts.AccountID()
		if !ok {
			httperr.Unauthorized(c, "not_authenticated", "Usuário não autenticado.")
			c.Abort()
			return
		}

		c.Set(ContextAccountID, accountID)
		c.Next()
	}
}
