package booking

import "github.com/BruksfildServices01/barber-client/internal/port"

type Phase string

const (
	PhaseSelectingService Phase = "selecting_service"
	PhaseSelectingBarber  Phase = "selecting_barber"
	PhaseSelectingDate    Phase = "selecting_date"
	PhaseSelectingTime    Phase = "selecting_time"
	PhaseReadyToSubmit    Phase = "ready_to_submit"
	PhaseSubmitting       Phase = "submitting"
	PhaseSubmitted        Phase = "submitted"
	PhaseFailed           Phase = "failed"
)

// Draft is the in-progress selection. Fields may be set in any order.
type Draft struct {
	ServiceID string `json:"service_id"`
	BarberID  string `json:"barber_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

func (d Draft) Complete() bool {
	return d.ServiceID != "" && d.BarberID != "" && d.Date != "" && d.Time != ""
}

// phase is the selecting phase implied by the first missing field.
func (d Draft) phase() Phase {
	switch {
	case d.ServiceID == "":
		return PhaseSelectingService
	case d.BarberID == "":
		return PhaseSelectingBarber
	case d.Date == "":
		return PhaseSelectingDate
	case d.Time == "":
		return PhaseSelectingTime
	default:
		return PhaseReadyToSubmit
	}
}

type Snapshot struct {
	Phase    Phase
	Draft    Draft
	Loaded   bool
	Services []port.Service
	Barbers  []port.Barber
	// MinDate is the first bookable day in the shop's timezone.
	MinDate string
	// Appointment is set once the request was accepted.
	Appointment *port.Appointment
	Err         error
}

func (s Snapshot) ReadyToSubmit() bool {
	return s.Phase == PhaseReadyToSubmit || (s.Phase == PhaseFailed && s.Draft.Complete())
}
