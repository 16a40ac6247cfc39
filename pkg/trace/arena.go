package trace

import (
	"sync"
)

// Arena is an in-process, per-session append-only trace log. Records are
// indexed by sequence number within their session; lineage stays in
// parent_trace_id as a plain identifier, so nothing handed out can mutate
// a stored record's ancestry.
type Arena struct {
	mu       sync.RWMutex
	sessions map[string][]*Record
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		sessions: make(map[string][]*Record),
	}
}

// Append stores a record and returns its sequence number within the
// session (0-based).
func (a *Arena) Append(record *Record) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	log := a.sessions[record.SessionID]
	a.sessions[record.SessionID] = append(log, record)
	return len(log)
}

// Latest returns the most recent record for a session, if any.
func (a *Arena) Latest(sessionID string) (*Record, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	log := a.sessions[sessionID]
	if len(log) == 0 {
		return nil, false
	}
	return log[len(log)-1], true
}

// At returns the record with the given sequence number, if it exists.
func (a *Arena) At(sessionID string, seq int) (*Record, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	log := a.sessions[sessionID]
	if seq < 0 || seq >= len(log) {
		return nil, false
	}
	return log[seq], true
}

// Records returns a copy of a session's log in append order.
func (a *Arena) Records(sessionID string) []*Record {
	a.mu.RLock()
	defer a.mu.RUnlock()

	log := a.sessions[sessionID]
	out := make([]*Record, len(log))
	copy(out, log)
	return out
}

// Len returns the number of records stored for a session.
func (a *Arena) Len(sessionID string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sessions[sessionID])
}

// Sessions returns the IDs of all sessions with at least one record.
func (a *Arena) Sessions() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]string, 0, len(a.sessions))
	for id := range a.sessions {
		out = append(out, id)
	}
	return out
}
