package booking

import "sync"

// Gate serializes booking attempts per acting user. Holding the gate
// for the duration of a BookSlot call guarantees that a user's second
// attempt observes the first attempt's committed state before
// re-validating. The gate does not order attempts across different
// users; that is left to the backing calendar.
//
// Entries are ref-counted and evicted when the last holder releases,
// so the registry does not grow with the user population.
type Gate struct {
	mu    sync.Mutex
	users map[string]*gateUser
}

type gateUser struct {
	mu   sync.Mutex
	refs int
}

// NewGate creates an empty gate.
func NewGate() *Gate {
	return &Gate{users: make(map[string]*gateUser)}
}

// Acquire blocks until the calling goroutine holds the exclusive lock
// for userKey and returns the release function. Release exactly once.
func (g *Gate) Acquire(userKey string) (release func()) {
	g.mu.Lock()
	u, ok := g.users[userKey]
	if !ok {
		u = &gateUser{}
		g.users[userKey] = u
	}
	u.refs++
	g.mu.Unlock()

	u.mu.Lock()

	return func() {
		u.mu.Unlock()

		g.mu.Lock()
		u.refs--
		if u.refs == 0 {
			delete(g.users, userKey)
		}
		g.mu.Unlock()
	}
}

// Len returns the number of users with an active or queued attempt.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.users)
}
