package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-client/internal/dto"
	"github.com/BruksfildServices01/barber-client/internal/httpresp"
	"github.com/BruksfildServices01/barber-client/internal/session"
)

type MeHandler struct {
	sessions *session.Manager
}

func NewMeHandler(sessions *session.Manager) *MeHandler {
	return &MeHandler{sessions: sessions}
}

// GetMe reports the session state in every state, signed in or not.
func (h *MeHandler) GetMe(c *gin.Context) {
	httpresp.OK(c, dto.NewSessionView(h.sessions.Snapshot()))
}
