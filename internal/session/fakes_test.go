package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/BruksfildServices01/barber-client/internal/audit"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

type fakeAuth struct {
	mu sync.Mutex

	signInSession *port.Session
	signInErr     error
	signInCalls   int
	// onSignIn runs before SignIn returns, like a provider that also
	// broadcasts the new session on its change stream.
	onSignIn func(*port.Session)

	signUpAccount *port.Account
	signUpErr     error
	seeds         []port.ProfileSeed

	signOutErr   error
	signOutCalls int

	current    *port.Session
	currentErr error

	changes chan *port.Session
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{changes: make(chan *port.Session)}
}

func (f *fakeAuth) SignIn(_ context.Context, _, _ string) (*port.Session, error) {
	f.mu.Lock()
	f.signInCalls++
	sess, err, announce := f.signInSession, f.signInErr, f.onSignIn
	f.mu.Unlock()

	if announce != nil && err == nil {
		announce(sess)
	}
	return sess, err
}

func (f *fakeAuth) SignUp(_ context.Context, seed port.ProfileSeed) (*port.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeds = append(f.seeds, seed)
	return f.signUpAccount, f.signUpErr
}

func (f *fakeAuth) SignOut(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeAuth) CurrentSession(_ context.Context) (*port.Session, error) {
	return f.current, f.currentErr
}

func (f *fakeAuth) Subscribe() (<-chan *port.Session, func()) {
	return f.changes, func() {}
}

func (f *fakeAuth) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signInCalls
}

type fakeProfiles struct {
	profile *port.AccountProfile
	err     error

	calls atomic.Int32
	// When gate is set every lookup signals started and then waits for gate.
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeProfiles) Profile(ctx context.Context, _ string) (*port.AccountProfile, error) {
	f.calls.Add(1)
	if f.gate != nil {
		f.started <- struct{}{}
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.profile == nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, f.err
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

// stateLog records every emitted state in order.
type stateLog struct {
	mu     sync.Mutex
	states []State
}

func (l *stateLog) record(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, s.State)
}

func (l *stateLog) count(s State) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, st := range l.states {
		if st == s {
			n++
		}
	}
	return n
}
