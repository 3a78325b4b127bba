package intake

import (
	"sync"
	"time"
)

type entry struct {
	mu      sync.Mutex
	session Session
	removed bool
}

// Sessions holds the drafts of all submitters. Work on one user's session is
// serialised; different users proceed in parallel.
type Sessions struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

func NewSessions() *Sessions {
	return &Sessions{entries: make(map[int64]*entry)}
}

func (r *Sessions) get(userID int64) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		e = &entry{session: Session{UserID: userID}}
		r.entries[userID] = e
	}
	return e
}

// With runs fn with exclusive access to the user's session, creating an idle
// one if needed.
func (r *Sessions) With(userID int64, fn func(s *Session)) {
	for {
		e := r.get(userID)
		e.mu.Lock()
		if e.removed {
			// Swept between lookup and lock; take the replacement.
			e.mu.Unlock()
			continue
		}
		defer e.mu.Unlock()
		fn(&e.session)
		return
	}
}

// Sweep resets drafts untouched since before cutoff and forgets idle sessions.
// It returns how many active drafts were dropped.
func (r *Sessions) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, e := range r.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.session.UpdatedAt.Before(cutoff) {
			if e.session.Active() {
				dropped++
			}
			e.session.reset()
		}
		if !e.session.Active() {
			e.removed = true
			delete(r.entries, id)
		}
		e.mu.Unlock()
	}
	return dropped
}
