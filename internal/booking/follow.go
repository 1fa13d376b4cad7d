package booking

import "github.com/BruksfildServices01/barber-client/internal/session"

// Follow keeps w in step with the signed-in account so a draft never
// outlives the account that started it. The returned function detaches.
func Follow(w *Workflow, sessions *session.Manager) func() {
	return sessions.Watch(func(s session.Snapshot) {
		var accountID string
		if s.Session != nil {
			accountID = s.Session.AccountID
		}
		w.SessionChanged(accountID)
	})
}
