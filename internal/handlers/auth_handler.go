package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-client/internal/dto"
	"github.com/BruksfildServices01/barber-client/internal/httperr"
	"github.com/BruksfildServices01/barber-client/internal/httpresp"
	"github.com/BruksfildServices01/barber-client/internal/session"
)

type AuthHandler struct {
	sessions *session.Manager
}

func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// --------- Requests ---------

// Field checks are left to the session manager so the messages stay the
// same for every caller.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	account, err := h.sessions.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httperr.Respond(c, err, sessionRules...)
		return
	}

	httpresp.Created(c, gin.H{
		"account": gin.H{
			"id":    account.ID,
			"email": account.Email,
		},
		"message": "Conta criada! Faça login para continuar.",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		httperr.Respond(c, err, sessionRules...)
		return
	}

	httpresp.OK(c, dto.NewSessionView(h.sessions.Snapshot()))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// The local session is gone even when this fails.
	if err := h.sessions.SignOut(c.Request.Context()); err != nil {
		_ = c.Error(err)
	}
	httpresp.NoContent(c)
}
