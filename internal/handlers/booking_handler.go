package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-client/internal/booking"
	"github.com/BruksfildServices01/barber-client/internal/dto"
	"github.com/BruksfildServices01/barber-client/internal/httperr"
	"github.com/BruksfildServices01/barber-client/internal/httpresp"
)

type BookingHandler struct {
	workflow *booking.Workflow
}

func NewBookingHandler(workflow *booking.Workflow) *BookingHandler {
	return &BookingHandler{workflow: workflow}
}

type SelectRequest struct {
	Value string `json:"value"`
}

func (h *BookingHandler) view(c *gin.Context) {
	httpresp.OK(c, dto.NewBookingView(h.workflow.Snapshot(), h.workflow.Slots()))
}

func (h *BookingHandler) Get(c *gin.Context) {
	h.view(c)
}

func (h *BookingHandler) Load(c *gin.Context) {
	if err := h.workflow.Load(c.Request.Context()); err != nil {
		httperr.Respond(c, err, bookingRules...)
		return
	}
	h.view(c)
}

// Select sets one draft field: service, barber, date or time.
func (h *BookingHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var err error
	switch field := c.Param("field"); field {
	case "service":
		err = h.workflow.SelectService(req.Value)
	case "barber":
		err = h.workflow.SelectBarber(req.Value)
	case "date":
		err = h.workflow.SelectDate(req.Value)
	case "time":
		err = h.workflow.SelectTime(req.Value)
	default:
		httperr.NotFound(c, "unknown_field", "Campo desconhecido: "+field)
		return
	}
	if err != nil {
		httperr.Respond(c, err, bookingRules...)
		return
	}

	h.view(c)
}

func (h *BookingHandler) Submit(c *gin.Context) {
	ap, err := h.workflow.Submit(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, bookingRules...)
		return
	}

	httpresp.Created(c, gin.H{
		"appointment": ap,
		"message":     "Seu agendamento foi realizado com sucesso.",
	})
}

func (h *BookingHandler) Discard(c *gin.Context) {
	if err := h.workflow.Discard(); err != nil {
		httperr.Respond(c, err, bookingRules...)
		return
	}
	h.view(c)
}
