package history

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-client/internal/apperr"
	"github.com/BruksfildServices01/barber-client/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-client/internal/port"
	"github.com/BruksfildServices01/barber-client/internal/timezone"
)

var ErrNotAuthenticated = errors.New("history: not authenticated")

// AccountSource answers who is signed in right now. It is asked on every
// load, never cached.
type AccountSource interface {
	AccountID() (string, bool)
}

type Aggregator struct {
	store    port.AppointmentStore
	accounts AccountSource
	log      *zap.Logger
	tz       string
	now      timezone.Clock
}

func NewAggregator(
	store port.AppointmentStore,
	accounts AccountSource,
	tz string,
	log *zap.Logger,
) *Aggregator {
	return &Aggregator{
		store:    store,
		accounts: accounts,
		log:      log.Named("history"),
		tz:       tz,
		now:      timezone.SystemClock,
	}
}

// WithClock replaces the clock used to decide "today".
func (a *Aggregator) WithClock(c timezone.Clock) *Aggregator {
	a.now = c
	return a
}

func (a *Aggregator) LoadHistory(ctx context.Context) ([]Entry, error) {
	list, err := a.query(ctx, "load history", port.AppointmentQuery{Descending: true})
	if err != nil {
		return nil, err
	}
	return History(list), nil
}

func (a *Aggregator) LoadPayments(ctx context.Context) (PaymentsView, error) {
	list, err := a.query(ctx, "load payments", port.AppointmentQuery{
		Statuses:   []appointment.Status{appointment.StatusConfirmed},
		Descending: true,
	})
	if err != nil {
		return PaymentsView{}, err
	}
	return Payments(list), nil
}

func (a *Aggregator) LoadNext(ctx context.Context) (NextView, error) {
	today := timezone.Day(a.tz, a.now())

	list, err := a.query(ctx, "load next appointment", port.AppointmentQuery{
		Statuses: []appointment.Status{appointment.StatusPending, appointment.StatusConfirmed},
		DateFrom: today,
		Limit:    1,
	})
	if err != nil {
		return NextView{}, err
	}
	return Next(list, today), nil
}

func (a *Aggregator) query(ctx context.Context, op string, q port.AppointmentQuery) ([]port.AppointmentDetail, error) {
	accountID, ok := a.accounts.AccountID()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	q.AccountID = accountID

	list, err := a.store.QueryAppointments(ctx, q)
	if err != nil {
		a.log.Warn("appointment query failed",
			zap.String("op", op),
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return nil, apperr.Transport(op, err)
	}
	return list, nil
}
