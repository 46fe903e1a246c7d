package state

import "sync"

// Renderer receives a snapshot after every committed transition. Render is
// called in commit order and must not call back into the controller.
type Renderer interface {
	Render(Snapshot)
}

// Store keeps the most recently rendered snapshot for readers that poll, such
// as the TUI redraw loop.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	notify   chan struct{}
}

var _ Renderer = (*Store)(nil)

// Render replaces the stored snapshot.
func (s *Store) Render(snap Snapshot) {
	s.mu.Lock()
	s.snapshot = snap.Clone()
	ch := s.notify
	s.notify = nil
	s.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// Snapshot returns a copy of the stored snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Changed returns a channel that is closed on the next Render.
func (s *Store) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notify == nil {
		s.notify = make(chan struct{})
	}
	return s.notify
}
