package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-client/internal/history"
	"github.com/BruksfildServices01/barber-client/internal/httperr"
	"github.com/BruksfildServices01/barber-client/internal/httpresp"
)

type AppointmentHandler struct {
	aggregator *history.Aggregator
}

func NewAppointmentHandler(aggregator *history.Aggregator) *AppointmentHandler {
	return &AppointmentHandler{aggregator: aggregator}
}

func (h *AppointmentHandler) History(c *gin.Context) {
	entries, err := h.aggregator.LoadHistory(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, historyRules...)
		return
	}
	httpresp.List(c, entries)
}

func (h *AppointmentHandler) Next(c *gin.Context) {
	next, err := h.aggregator.LoadNext(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, historyRules...)
		return
	}
	httpresp.OK(c, next)
}

func (h *AppointmentHandler) Payments(c *gin.Context) {
	view, err := h.aggregator.LoadPayments(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, historyRules...)
		return
	}
	if view.Entries == nil {
		view.Entries = []history.Entry{}
	}
	httpresp.OK(c, view)
}
