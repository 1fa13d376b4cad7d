// Package booking drives one appointment request from service selection
// to submission.
package booking

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/BruksfildServices01/barber-client/internal/apperr"
	"github.com/BruksfildServices01/barber-client/internal/audit"
	"github.com/BruksfildServices01/barber-client/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-client/internal/money"
	"github.com/BruksfildServices01/barber-client/internal/port"
	"github.com/BruksfildServices01/barber-client/internal/timezone"
)

// AccountSource answers who is signed in right now.
type AccountSource interface {
	AccountID() (string, bool)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Option func(*Workflow)

// WithClock pins "now" for the date check.
func WithClock(c timezone.Clock) Option {
	return func(w *Workflow) { w.now = c }
}

func WithTimezone(tz string) Option {
	return func(w *Workflow) { w.tz = tz }
}

type Workflow struct {
	catalog  port.CatalogReader
	store    port.AppointmentStore
	accounts AccountSource
	audit    Auditor
	log      *zap.Logger
	tz       string
	now      timezone.Clock

	mu       sync.Mutex
	draft    Draft
	services []port.Service
	barbers  []port.Barber
	loaded   bool
	// phase overrides the draft-derived phase while submitting and after.
	phase     Phase
	submitted *port.Appointment
	lastErr   error
	// epoch changes on Discard; a catalog load started earlier is dropped.
	epoch uint64
	// owner is the account the draft was started by.
	owner string
	loads singleflight.Group

	listeners map[int]func(Snapshot)
	nextID    int
}

func NewWorkflow(
	catalog port.CatalogReader,
	store port.AppointmentStore,
	accounts AccountSource,
	auditor Auditor,
	log *zap.Logger,
	opts ...Option,
) *Workflow {
	w := &Workflow{
		catalog:   catalog,
		store:     store,
		accounts:  accounts,
		audit:     auditor,
		log:       log.Named("booking"),
		tz:        timezone.DefaultTimezone,
		now:       timezone.SystemClock,
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load fetches services and barbers once per workflow session. Services
// come back cheapest first.
func (w *Workflow) Load(ctx context.Context) error {
	w.mu.Lock()
	if w.loaded {
		w.mu.Unlock()
		return nil
	}
	epoch := w.epoch
	w.mu.Unlock()

	// Concurrent loads within one session share a single fetch, run with
	// the first caller's ctx.
	_, err, _ := w.loads.Do(strconv.FormatUint(epoch, 10), func() (any, error) {
		return nil, w.fetchCatalog(ctx, epoch)
	})
	return err
}

func (w *Workflow) fetchCatalog(ctx context.Context, epoch uint64) error {
	services, err := w.catalog.Services(ctx)
	if err == nil {
		var barbers []port.Barber
		barbers, err = w.catalog.Barbers(ctx)
		if err == nil {
			sortByPrice(services)
			w.applyCatalog(epoch, services, barbers)
			return nil
		}
	}

	err = apperr.Transport("load catalog", err)
	w.log.Warn("catalog load failed", zap.Error(err))

	w.mu.Lock()
	if w.epoch == epoch && !w.loaded {
		w.lastErr = err
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
	return err
}

func (w *Workflow) applyCatalog(epoch uint64, services []port.Service, barbers []port.Barber) {
	w.mu.Lock()
	if w.epoch != epoch || w.loaded {
		w.mu.Unlock()
		return
	}
	w.services = services
	w.barbers = barbers
	w.loaded = true
	w.lastErr = nil
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.log.Debug("catalog loaded",
		zap.Int("services", len(services)),
		zap.Int("barbers", len(barbers)),
	)
	w.notify(snap)
}

// sortByPrice orders services by ascending price. Equal prices keep the
// catalog order and unparseable prices go last.
func sortByPrice(services []port.Service) {
	type priced struct {
		svc   port.Service
		price decimal.Decimal
		ok    bool
	}

	keyed := make([]priced, len(services))
	for i, s := range services {
		p, err := money.ParsePrice(s.Price)
		keyed[i] = priced{svc: s, price: p, ok: err == nil}
	}

	slices.SortStableFunc(keyed, func(a, b priced) int {
		switch {
		case a.ok && b.ok:
			return a.price.Cmp(b.price)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	for i, k := range keyed {
		services[i] = k.svc
	}
}

func (w *Workflow) SelectService(id string) error {
	return w.edit(func() error {
		for _, s := range w.services {
			if s.ID == id {
				w.draft.ServiceID = id
				return nil
			}
		}
		return apperr.Invalid("service", msgUnknownService, nil)
	})
}

func (w *Workflow) SelectBarber(id string) error {
	return w.edit(func() error {
		for _, b := range w.barbers {
			if b.ID == id {
				w.draft.BarberID = id
				return nil
			}
		}
		return apperr.Invalid("barber", msgUnknownBarber, nil)
	})
}

// SelectDate accepts a "2006-01-02" date no earlier than today in the
// shop's timezone.
func (w *Workflow) SelectDate(date string) error {
	return w.edit(func() error {
		if _, err := time.Parse(appointment.DateLayout, date); err != nil {
			return apperr.Invalid("date", msgInvalidDate, err)
		}
		if date < timezone.Day(w.tz, w.now()) {
			return apperr.Invalid("date", msgPastDate, nil)
		}
		w.draft.Date = date
		return nil
	})
}

func (w *Workflow) SelectTime(t string) error {
	return w.edit(func() error {
		if !appointment.IsSlot(t) {
			return apperr.Invalid("time", msgInvalidTime, nil)
		}
		w.draft.Time = t
		return nil
	})
}

// edit runs apply under the lock once the workflow accepts selections.
// A rejected selection leaves the draft as it was.
func (w *Workflow) edit(apply func() error) error {
	w.mu.Lock()
	switch w.phase {
	case PhaseSubmitting:
		w.mu.Unlock()
		return ErrSubmissionInFlight
	case PhaseSubmitted:
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if !w.loaded {
		w.mu.Unlock()
		return ErrCatalogNotLoaded
	}

	if err := apply(); err != nil {
		w.mu.Unlock()
		return err
	}

	// Editing after a failed submit goes back to the derived phases.
	if w.phase == PhaseFailed {
		w.phase = ""
	}
	if w.owner == "" {
		w.owner, _ = w.accounts.AccountID()
	}
	w.lastErr = nil
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.notify(snap)
	return nil
}

// Submit sends the draft as a pending appointment. At most one request
// is in flight per workflow; once sent it runs to completion even if ctx
// is canceled.
func (w *Workflow) Submit(ctx context.Context) (*port.Appointment, error) {
	w.mu.Lock()
	switch w.phase {
	case PhaseSubmitting:
		w.mu.Unlock()
		return nil, ErrSubmissionInFlight
	case PhaseSubmitted:
		w.mu.Unlock()
		return nil, ErrWorkflowClosed
	}
	if !w.draft.Complete() {
		w.mu.Unlock()
		return nil, ErrDraftIncomplete
	}
	accountID, ok := w.accounts.AccountID()
	if !ok {
		w.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	if w.owner != "" && w.owner != accountID {
		owner := w.owner
		w.resetLocked()
		snap := w.snapshotLocked()
		w.mu.Unlock()
		w.notify(snap)

		w.log.Warn("draft discarded, account changed",
			zap.String("draft_account_id", owner),
			zap.String("account_id", accountID),
		)
		return nil, ErrAccountChanged
	}

	draft := w.draft
	w.owner = accountID
	w.phase = PhaseSubmitting
	w.lastErr = nil
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)

	ap, err := w.store.InsertAppointment(context.WithoutCancel(ctx), port.NewAppointment{
		AccountID: accountID,
		ServiceID: draft.ServiceID,
		BarberID:  draft.BarberID,
		Date:      draft.Date,
		Time:      draft.Time,
		Status:    appointment.InitialStatus(),
	})

	w.mu.Lock()
	// The account changed while the request was in flight: nobody is
	// left to see the outcome, so start over instead of keeping it.
	switched := w.owner != accountID
	if switched {
		w.resetLocked()
		snap = w.snapshotLocked()
		w.mu.Unlock()
		w.notify(snap)
		if err != nil {
			return nil, apperr.Transport("submit appointment", err)
		}
	}
	if err != nil {
		err = apperr.Transport("submit appointment", err)
		w.phase = PhaseFailed
		w.lastErr = err
		snap = w.snapshotLocked()
		w.mu.Unlock()
		w.notify(snap)

		w.log.Warn("appointment request failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return nil, err
	}

	if !switched {
		w.phase = PhaseSubmitted
		w.draft = Draft{}
		w.submitted = ap
		snap = w.snapshotLocked()
		w.mu.Unlock()
		w.notify(snap)
	}

	w.log.Info("appointment requested",
		zap.String("account_id", accountID),
		zap.String("appointment_id", ap.ID),
		zap.String("date", ap.Date),
		zap.String("time", ap.Time),
	)
	if w.audit != nil {
		w.audit.Dispatch(audit.Event{
			AccountID: accountID,
			Action:    audit.ActionAppointmentRequested,
			Entity:    "appointment",
			EntityID:  ap.ID,
			Metadata:  draft,
		})
	}
	return ap, nil
}

// Discard abandons the current session and starts a fresh one. It is
// refused while a request is in flight.
func (w *Workflow) Discard() error {
	w.mu.Lock()
	if w.phase == PhaseSubmitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	w.resetLocked()
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.notify(snap)
	return nil
}

// SessionChanged tells the workflow who is signed in now (empty when
// nobody is). A draft started by another account is dropped; while a
// request is in flight the drop happens when it completes.
func (w *Workflow) SessionChanged(accountID string) {
	w.mu.Lock()
	if w.owner == "" || w.owner == accountID {
		w.mu.Unlock()
		return
	}
	if w.phase == PhaseSubmitting {
		w.owner = accountID
		w.mu.Unlock()
		return
	}
	w.resetLocked()
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.log.Info("booking reset after session change")
	w.notify(snap)
}

// resetLocked starts a fresh workflow session. It must be called with mu
// held.
func (w *Workflow) resetLocked() {
	w.epoch++
	w.draft = Draft{}
	w.services = nil
	w.barbers = nil
	w.loaded = false
	w.phase = ""
	w.submitted = nil
	w.lastErr = nil
	w.owner = ""
}

// Slots is the fixed set of bookable times.
func (w *Workflow) Slots() []string {
	return appointment.Slots()
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workflow) snapshotLocked() Snapshot {
	phase := w.phase
	if phase == "" {
		phase = w.draft.phase()
	}

	snap := Snapshot{
		Phase:    phase,
		Draft:    w.draft,
		Loaded:   w.loaded,
		Services: slices.Clone(w.services),
		Barbers:  slices.Clone(w.barbers),
		MinDate:  timezone.Day(w.tz, w.now()),
		Err:      w.lastErr,
	}
	if w.submitted != nil {
		ap := *w.submitted
		snap.Appointment = &ap
	}
	return snap
}

// Watch registers fn for every change and returns its unsubscribe
// function.
func (w *Workflow) Watch(fn func(Snapshot)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

func (w *Workflow) notify(snap Snapshot) {
	w.mu.Lock()
	fns := make([]func(Snapshot), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
