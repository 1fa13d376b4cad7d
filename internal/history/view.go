// Package history derives the account's read-only views from its
// appointments: the full history, the payments list and the next visit.
package history

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-client/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-client/internal/money"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

const (
	ColorPending   = "orange"
	ColorConfirmed = "#32D74B"
	ColorCancelled = "#FF453A"
	ColorUnknown   = "#A0A0A0"
)

type StatusDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// DisplayStatus labels a status for the UI. Statuses this build does not
// know are shown as they are.
func DisplayStatus(s appointment.Status) StatusDisplay {
	switch s {
	case appointment.StatusPending:
		return StatusDisplay{Label: "Pendente", Color: ColorPending}
	case appointment.StatusConfirmed:
		return StatusDisplay{Label: "Confirmado", Color: ColorConfirmed}
	case appointment.StatusCancelled:
		return StatusDisplay{Label: "Cancelado", Color: ColorCancelled}
	default:
		return StatusDisplay{Label: string(s), Color: ColorUnknown}
	}
}

type Entry struct {
	port.AppointmentDetail
	Display StatusDisplay `json:"status_display"`
}

// History returns the appointments newest first, by date then time.
func History(list []port.AppointmentDetail) []Entry {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b port.AppointmentDetail) int {
		return -compareSchedule(a, b)
	})

	entries := make([]Entry, len(sorted))
	for i, a := range sorted {
		entries[i] = Entry{AppointmentDetail: a, Display: DisplayStatus(a.Status)}
	}
	return entries
}

type PaymentsView struct {
	Entries   []Entry         `json:"entries"`
	Total     decimal.Decimal `json:"total"`
	TotalText string          `json:"total_text"`
}

// Payments keeps confirmed appointments only and sums their prices. A
// price that cannot be parsed counts as zero.
func Payments(list []port.AppointmentDetail) PaymentsView {
	confirmed := make([]port.AppointmentDetail, 0, len(list))
	for _, a := range list {
		if appointment.IsPaid(a.Status) {
			confirmed = append(confirmed, a)
		}
	}

	entries := History(confirmed)

	total := decimal.Zero
	for _, e := range entries {
		price, err := money.ParsePrice(e.ServicePrice)
		if err != nil {
			continue
		}
		total = total.Add(price)
	}

	return PaymentsView{
		Entries:   entries,
		Total:     total,
		TotalText: money.FormatAmount(total),
	}
}

type NextState string

const (
	NextScheduled NextState = "scheduled"
	NextNone      NextState = "none"
)

type NextView struct {
	State       NextState `json:"state"`
	Appointment *Entry    `json:"appointment,omitempty"`
}

// Next picks the earliest active appointment on or after today
// ("2006-01-02").
func Next(list []port.AppointmentDetail, today string) NextView {
	var best *port.AppointmentDetail
	for i := range list {
		a := &list[i]
		if a.Date < today || !appointment.IsActive(a.Status) {
			continue
		}
		if best == nil || compareSchedule(*a, *best) < 0 {
			best = a
		}
	}

	if best == nil {
		return NextView{State: NextNone}
	}
	return NextView{
		State:       NextScheduled,
		Appointment: &Entry{AppointmentDetail: *best, Display: DisplayStatus(best.Status)},
	}
}

// Dates and times are fixed-width, so string order is chronological.
func compareSchedule(a, b port.AppointmentDetail) int {
	if c := cmp.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Time, b.Time)
}
