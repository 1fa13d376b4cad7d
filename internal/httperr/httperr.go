package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-client/internal/apperr"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

const msgTransport = "Não foi possível completar a operação. Verifique sua conexão e tente novamente."

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// Respond writes err using the first matching rule, then the shared
// error types. Anything else is a 500.
func Respond(c *gin.Context, err error, rules ...Rule) {
	if r, ok := Match(err, rules); ok {
		Write(c, r.Status, r.Code, r.Message)
		return
	}

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    "validation_error",
			Message: ve.Message,
			Field:   ve.Field,
		})
		return
	}

	var ce *apperr.CredentialError
	if errors.As(err, &ce) {
		Write(c, credentialStatus(ce.Kind), string(ce.Kind), ce.Message)
		return
	}

	var te *apperr.TransportError
	if errors.As(err, &te) {
		Write(c, http.StatusBadGateway, "transport_error", msgTransport)
		return
	}

	_ = c.Error(err)
	Internal(c, "internal_error", "Ocorreu um erro inesperado.")
}

func credentialStatus(kind apperr.CredentialKind) int {
	switch kind {
	case apperr.CredentialInvalid:
		return http.StatusUnauthorized
	case apperr.CredentialEmailNotConfirmed:
		return http.StatusForbidden
	case apperr.CredentialAlreadyRegistered:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
