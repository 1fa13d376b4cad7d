package dto

import (
	"github.com/BruksfildServices01/barber-client/internal/booking"
	"github.com/BruksfildServices01/barber-client/internal/port"
	"github.com/BruksfildServices01/barber-client/internal/session"
)

type ErrorView struct {
	Message string `json:"message"`
}

func errorView(err error) *ErrorView {
	if err == nil {
		return nil
	}
	return &ErrorView{Message: err.Error()}
}

type SessionView struct {
	State     session.State        `json:"state"`
	AccountID string               `json:"account_id,omitempty"`
	Email     string               `json:"email,omitempty"`
	Profile   *port.AccountProfile `json:"profile,omitempty"`
	Error     *ErrorView           `json:"error,omitempty"`
}

// NewSessionView never exposes the token.
func NewSessionView(s session.Snapshot) SessionView {
	v := SessionView{
		State:   s.State,
		Profile: s.Profile,
		Error:   errorView(s.Err),
	}
	if s.Session != nil {
		v.AccountID = s.Session.AccountID
		v.Email = s.Session.Email
	}
	return v
}

type BookingView struct {
	Phase         booking.Phase     `json:"phase"`
	ReadyToSubmit bool              `json:"ready_to_submit"`
	Draft         booking.Draft     `json:"draft"`
	Loaded        bool              `json:"loaded"`
	Services      []port.Service    `json:"services"`
	Barbers       []port.Barber     `json:"barbers"`
	Slots         []string          `json:"slots"`
	MinDate       string            `json:"min_date"`
	Appointment   *port.Appointment `json:"appointment,omitempty"`
	Error         *ErrorView        `json:"error,omitempty"`
}

func NewBookingView(s booking.Snapshot, slots []string) BookingView {
	services := s.Services
	if services == nil {
		services = []port.Service{}
	}
	barbers := s.Barbers
	if barbers == nil {
		barbers = []port.Barber{}
	}

	return BookingView{
		Phase:         s.Phase,
		ReadyToSubmit: s.ReadyToSubmit(),
		Draft:         s.Draft,
		Loaded:        s.Loaded,
		Services:      services,
		Barbers:       barbers,
		Slots:         slots,
		MinDate:       s.MinDate,
		Appointment:   s.Appointment,
		Error:         errorView(s.Err),
	}
}
