package session

import "github.com/BruksfildServices01/barber-client/internal/port"

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateProfileLoading  State = "profile_loading"
	StateReady           State = "ready"
	StateError           State = "error"
)

// transitions lists, per state, where the manager may move next.
// ProfileLoading is reachable from everywhere because the provider can
// push a new session at any time.
var transitions = map[State][]State{
	StateUnauthenticated: {StateAuthenticating, StateProfileLoading},
	StateAuthenticating:  {StateProfileLoading, StateUnauthenticated, StateError},
	StateProfileLoading:  {StateProfileLoading, StateReady, StateError, StateUnauthenticated},
	StateReady:           {StateProfileLoading, StateUnauthenticated},
	StateError:           {StateAuthenticating, StateProfileLoading, StateUnauthenticated},
}

func canTransition(from, to State) bool {
	if from == to && to == StateUnauthenticated {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Snapshot is a copy of the manager's state; holding one never blocks
// the manager.
type Snapshot struct {
	State   State
	Session *port.Session
	Profile *port.AccountProfile
	Err     error
}

func (s Snapshot) Authenticated() bool {
	return s.State == StateReady && s.Session != nil
}
