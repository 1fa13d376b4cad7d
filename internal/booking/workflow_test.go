package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-client/internal/apperr"
	"github.com/BruksfildServices01/barber-client/internal/audit"
	"github.com/BruksfildServices01/barber-client/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

type fakeCatalog struct {
	services []port.Service
	barbers  []port.Barber
	err      error

	mu    sync.Mutex
	calls int

	gate    chan struct{}
	started chan struct{}
}

func (f *fakeCatalog) Services(context.Context) ([]port.Service, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]port.Service, len(f.services))
	copy(out, f.services)
	return out, nil
}

func (f *fakeCatalog) Barbers(context.Context) ([]port.Barber, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.barbers, nil
}

type fakeStore struct {
	mu       sync.Mutex
	inserted []port.NewAppointment
	ctxErrs  []error
	err      error

	gate    chan struct{}
	started chan struct{}
}

func (f *fakeStore) InsertAppointment(ctx context.Context, in port.NewAppointment) (*port.Appointment, error) {
	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, in)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.err != nil {
		return nil, f.err
	}
	return &port.Appointment{
		ID:        "ap-1",
		AccountID: in.AccountID,
		ServiceID: in.ServiceID,
		BarberID:  in.BarberID,
		Date:      in.Date,
		Time:      in.Time,
		Status:    in.Status,
	}, nil
}

func (f *fakeStore) QueryAppointments(context.Context, port.AppointmentQuery) ([]port.AppointmentDetail, error) {
	return nil, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

type fakeAccounts struct {
	id string
}

func (f fakeAccounts) AccountID() (string, bool) {
	return f.id, f.id != ""
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAuditor) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// 2026-03-10 02:00 UTC is still March 9th in São Paulo.
var fixedNow = time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: []port.Service{
			{ID: "s-beard", Name: "Barba", Price: "R$ 35,00"},
			{ID: "s-combo", Name: "Corte + Barba", Price: "R$ 70,00"},
			{ID: "s-cut", Name: "Corte", Price: "R$ 35,00"},
			{ID: "s-ask", Name: "Pigmentação", Price: "sob consulta"},
			{ID: "s-day", Name: "Dia do Noivo", Price: "R$ 1.200,00"},
		},
		barbers: []port.Barber{
			{ID: "b-1", Name: "Carlos", Rating: 4.9},
			{ID: "b-2", Name: "Rafael", Rating: 4.7},
		},
	}
}

func newTestWorkflow(catalog *fakeCatalog, store *fakeStore, accountID string) (*Workflow, *recordingAuditor) {
	auditor := &recordingAuditor{}
	w := NewWorkflow(catalog, store, fakeAccounts{id: accountID}, auditor, zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
	)
	return w, auditor
}

func fillDraft(t *testing.T, w *Workflow) {
	t.Helper()
	require.NoError(t, w.SelectService("s-cut"))
	require.NoError(t, w.SelectBarber("b-1"))
	require.NoError(t, w.SelectDate("2026-03-12"))
	require.NoError(t, w.SelectTime("14:00"))
}

func TestLoadSortsServicesByPrice(t *testing.T) {
	catalog := testCatalog()
	w, _ := newTestWorkflow(catalog, &fakeStore{}, "acc-1")

	require.NoError(t, w.Load(context.Background()))

	snap := w.Snapshot()
	require.True(t, snap.Loaded)

	ids := make([]string, 0, len(snap.Services))
	for _, s := range snap.Services {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s-beard", "s-cut", "s-combo", "s-day", "s-ask"}, ids)
	assert.Len(t, snap.Barbers, 2)
	assert.Equal(t, PhaseSelectingService, snap.Phase)
	assert.Equal(t, "2026-03-09", snap.MinDate)
}

func TestLoadFetchesOncePerSession(t *testing.T) {
	catalog := testCatalog()
	w, _ := newTestWorkflow(catalog, &fakeStore{}, "acc-1")

	require.NoError(t, w.Load(context.Background()))
	require.NoError(t, w.Load(context.Background()))
	assert.Equal(t, 1, catalog.calls)

	require.NoError(t, w.Discard())
	require.NoError(t, w.Load(context.Background()))
	assert.Equal(t, 2, catalog.calls)
}

func TestLoadFailureLeavesWorkflowUnloaded(t *testing.T) {
	catalog := testCatalog()
	catalog.err = errors.New("connection reset")
	w, _ := newTestWorkflow(catalog, &fakeStore{}, "acc-1")

	err := w.Load(context.Background())

	var te *apperr.TransportError
	require.ErrorAs(t, err, &te)
	assert.False(t, w.Snapshot().Loaded)
	assert.Equal(t, err, w.Snapshot().Err)
	assert.ErrorIs(t, w.SelectService("s-cut"), ErrCatalogNotLoaded)
}

func TestDiscardDropsInFlightLoad(t *testing.T) {
	catalog := testCatalog()
	catalog.gate = make(chan struct{})
	catalog.started = make(chan struct{}, 1)
	w, _ := newTestWorkflow(catalog, &fakeStore{}, "acc-1")

	done := make(chan error, 1)
	go func() { done <- w.Load(context.Background()) }()

	<-catalog.started
	require.NoError(t, w.Discard())
	close(catalog.gate)
	require.NoError(t, <-done)

	assert.False(t, w.Snapshot().Loaded)
	assert.Empty(t, w.Snapshot().Services)
}

func TestPhaseFollowsFirstMissingField(t *testing.T) {
	w, _ := newTestWorkflow(testCatalog(), &fakeStore{}, "acc-1")
	require.NoError(t, w.Load(context.Background()))

	require.NoError(t, w.SelectTime("09:00"))
	assert.Equal(t, PhaseSelectingService, w.Snapshot().Phase)

	require.NoError(t, w.SelectDate("2026-03-20"))
	require.NoError(t, w.SelectBarber("b-2"))
	assert.Equal(t, PhaseSelectingService, w.Snapshot().Phase)

	require.NoError(t, w.SelectService("s-day"))
	snap := w.Snapshot()
	assert.Equal(t, PhaseReadyToSubmit, snap.Phase)
	assert.True(t, snap.ReadyToSubmit())
	assert.Equal(t, Draft{ServiceID: "s-day", BarberID: "b-2", Date: "2026-03-20", Time: "09:00"}, snap.Draft)
}

func TestInvalidSelectionsKeepDraft(t *testing.T) {
	w, _ := newTestWorkflow(testCatalog(), &fakeStore{}, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)
	before := w.Snapshot().Draft

	cases := []struct {
		field string
		err   error
	}{
		{"service", w.SelectService("s-missing")},
		{"barber", w.SelectBarber("")},
		{"date", w.SelectDate("12/03/2026")},
		{"date", w.SelectDate("2026-03-08")},
		{"time", w.SelectTime("12:00")},
		{"time", w.SelectTime("19:00")},
	}
	for _, tc := range cases {
		var ve *apperr.ValidationError
		require.ErrorAs(t, tc.err, &ve)
		assert.Equal(t, tc.field, ve.Field)
	}

	assert.Equal(t, before, w.Snapshot().Draft)
}

func TestSelectDateUsesShopCalendarDay(t *testing.T) {
	w, _ := newTestWorkflow(testCatalog(), &fakeStore{}, "acc-1")
	require.NoError(t, w.Load(context.Background()))

	// Already the 10th in UTC, but the shop is still on the 9th.
	assert.NoError(t, w.SelectDate("2026-03-09"))
}

func TestSubmitIncompleteDraftSendsNothing(t *testing.T) {
	store := &fakeStore{}
	w, _ := newTestWorkflow(testCatalog(), store, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	require.NoError(t, w.SelectService("s-cut"))

	_, err := w.Submit(context.Background())

	assert.ErrorIs(t, err, ErrDraftIncomplete)
	assert.Zero(t, store.count())
	assert.Equal(t, PhaseSelectingBarber, w.Snapshot().Phase)
}

func TestSubmitRequiresAccount(t *testing.T) {
	store := &fakeStore{}
	w, _ := newTestWorkflow(testCatalog(), store, "")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)

	_, err := w.Submit(context.Background())

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, store.count())
	assert.Equal(t, PhaseReadyToSubmit, w.Snapshot().Phase)
}

func TestDoubleSubmitSendsOneRequest(t *testing.T) {
	store := &fakeStore{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	w, auditor := newTestWorkflow(testCatalog(), store, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)

	type result struct {
		ap  *port.Appointment
		err error
	}
	first := make(chan result, 1)
	go func() {
		ap, err := w.Submit(context.Background())
		first <- result{ap, err}
	}()

	<-store.started
	assert.Equal(t, PhaseSubmitting, w.Snapshot().Phase)

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.ErrorIs(t, w.SelectTime("15:00"), ErrSubmissionInFlight)
	assert.ErrorIs(t, w.Discard(), ErrSubmissionInFlight)

	close(store.gate)
	res := <-first
	require.NoError(t, res.err)
	assert.Equal(t, "ap-1", res.ap.ID)

	require.Equal(t, 1, store.count())
	assert.Equal(t, port.NewAppointment{
		AccountID: "acc-1",
		ServiceID: "s-cut",
		BarberID:  "b-1",
		Date:      "2026-03-12",
		Time:      "14:00",
		Status:    appointment.StatusPending,
	}, store.inserted[0])

	snap := w.Snapshot()
	assert.Equal(t, PhaseSubmitted, snap.Phase)
	assert.Equal(t, Draft{}, snap.Draft)
	require.NotNil(t, snap.Appointment)

	require.Len(t, auditor.events, 1)
	assert.Equal(t, audit.ActionAppointmentRequested, auditor.events[0].Action)
	assert.Equal(t, "ap-1", auditor.events[0].EntityID)
}

func TestSubmitSurvivesCallerCancellation(t *testing.T) {
	store := &fakeStore{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	w, _ := newTestWorkflow(testCatalog(), store, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(ctx)
		done <- err
	}()

	<-store.started
	cancel()
	close(store.gate)

	require.NoError(t, <-done)
	assert.NoError(t, store.ctxErrs[0])
	assert.Equal(t, PhaseSubmitted, w.Snapshot().Phase)
}

func TestSubmitFailureKeepsDraftForRetry(t *testing.T) {
	store := &fakeStore{err: errors.New("503 service unavailable")}
	w, auditor := newTestWorkflow(testCatalog(), store, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)
	draft := w.Snapshot().Draft

	_, err := w.Submit(context.Background())

	var te *apperr.TransportError
	require.ErrorAs(t, err, &te)
	snap := w.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, draft, snap.Draft)
	assert.True(t, snap.ReadyToSubmit())
	assert.Empty(t, auditor.events)

	store.err = nil
	_, err = w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.count())
	assert.Equal(t, PhaseSubmitted, w.Snapshot().Phase)
}

func TestEditAfterFailureReturnsToDerivedPhase(t *testing.T) {
	store := &fakeStore{err: errors.New("timeout")}
	w, _ := newTestWorkflow(testCatalog(), store, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)

	_, err := w.Submit(context.Background())
	require.Error(t, err)

	require.NoError(t, w.SelectTime("16:00"))
	snap := w.Snapshot()
	assert.Equal(t, PhaseReadyToSubmit, snap.Phase)
	assert.Nil(t, snap.Err)
}

func TestSubmittedWorkflowIsClosedUntilDiscarded(t *testing.T) {
	store := &fakeStore{}
	w, _ := newTestWorkflow(testCatalog(), store, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)
	_, err := w.Submit(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, w.SelectService("s-cut"), ErrWorkflowClosed)
	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrWorkflowClosed)

	require.NoError(t, w.Discard())
	snap := w.Snapshot()
	assert.Equal(t, PhaseSelectingService, snap.Phase)
	assert.False(t, snap.Loaded)
	assert.Nil(t, snap.Appointment)
	assert.Equal(t, 1, store.count())
}

func TestWatchReceivesPhases(t *testing.T) {
	w, _ := newTestWorkflow(testCatalog(), &fakeStore{}, "acc-1")

	var mu sync.Mutex
	var phases []Phase
	stop := w.Watch(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, s.Phase)
	})
	defer stop()

	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)
	_, err := w.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Phase{
		PhaseSelectingService,
		PhaseSelectingBarber,
		PhaseSelectingDate,
		PhaseSelectingTime,
		PhaseReadyToSubmit,
		PhaseSubmitting,
		PhaseSubmitted,
	}, phases)
}

func TestSlots(t *testing.T) {
	w, _ := newTestWorkflow(testCatalog(), &fakeStore{}, "acc-1")
	assert.Equal(t, appointment.Slots(), w.Slots())
}

type switchableAccounts struct {
	mu sync.Mutex
	id string
}

func (s *switchableAccounts) AccountID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.id != ""
}

func (s *switchableAccounts) set(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

func TestSubmitRejectsDraftStartedByAnotherAccount(t *testing.T) {
	store := &fakeStore{}
	accounts := &switchableAccounts{id: "acc-A"}
	w := NewWorkflow(testCatalog(), store, accounts, nil, zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)

	accounts.set("acc-B")
	ap, err := w.Submit(context.Background())

	assert.Nil(t, ap)
	assert.ErrorIs(t, err, ErrAccountChanged)
	assert.Zero(t, store.count())

	snap := w.Snapshot()
	assert.Equal(t, PhaseSelectingService, snap.Phase)
	assert.Equal(t, Draft{}, snap.Draft)
	assert.False(t, snap.Loaded)

	// The new account starts its own draft and can submit it.
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)
	ap, err = w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc-B", ap.AccountID)
}

func TestSessionChangedDropsDraftOfPreviousAccount(t *testing.T) {
	w, _ := newTestWorkflow(testCatalog(), &fakeStore{}, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)

	// Same account, e.g. a refreshed token: nothing changes.
	w.SessionChanged("acc-1")
	assert.Equal(t, PhaseReadyToSubmit, w.Snapshot().Phase)

	w.SessionChanged("")
	snap := w.Snapshot()
	assert.Equal(t, Draft{}, snap.Draft)
	assert.False(t, snap.Loaded)
}

func TestSessionChangedWithoutDraftKeepsCatalog(t *testing.T) {
	w, _ := newTestWorkflow(testCatalog(), &fakeStore{}, "")
	require.NoError(t, w.Load(context.Background()))

	w.SessionChanged("acc-1")

	assert.True(t, w.Snapshot().Loaded)
}

func TestSessionChangedDuringSubmitResetsOnCompletion(t *testing.T) {
	store := &fakeStore{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	w, auditor := newTestWorkflow(testCatalog(), store, "acc-1")
	require.NoError(t, w.Load(context.Background()))
	fillDraft(t, w)

	type result struct {
		ap  *port.Appointment
		err error
	}
	done := make(chan result, 1)
	go func() {
		ap, err := w.Submit(context.Background())
		done <- result{ap, err}
	}()

	<-store.started
	w.SessionChanged("")
	assert.Equal(t, PhaseSubmitting, w.Snapshot().Phase)

	close(store.gate)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "acc-1", res.ap.AccountID)

	snap := w.Snapshot()
	assert.Equal(t, PhaseSelectingService, snap.Phase)
	assert.Nil(t, snap.Appointment)
	assert.False(t, snap.Loaded)
	assert.Len(t, auditor.events, 1)
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	catalog := testCatalog()
	catalog.gate = make(chan struct{})
	catalog.started = make(chan struct{}, 2)
	w, _ := newTestWorkflow(catalog, &fakeStore{}, "acc-1")

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { errs <- w.Load(context.Background()) }()
	}

	<-catalog.started
	time.Sleep(20 * time.Millisecond)
	close(catalog.gate)

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	assert.Equal(t, 1, catalog.calls)
	assert.True(t, w.Snapshot().Loaded)
	assert.Nil(t, w.Snapshot().Err)
}
