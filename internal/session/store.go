package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/cart"
)

var ErrNotFound = errors.New("session not found")

type entry struct {
	mu       sync.Mutex
	ledger   *cart.Ledger
	lastSeen time.Time

	// requests holding or waiting for mu; guarded by Store.mu
	active int
}

// Store keeps one cart ledger per visitor session in memory. Each session
// has its own lock, so requests of different visitors never contend.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Create starts a session with an empty ledger and returns its id.
func (s *Store) Create(cfg cart.Config) string {
	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = &entry{ledger: cart.New(cfg), lastSeen: s.now()}
	s.mu.Unlock()

	return id
}

// With runs fn with exclusive access to the session's ledger.
func (s *Store) With(id string, fn func(*cart.Ledger) error) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok {
		e.active++
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return s.run(e, fn)
}

// Resume is With for a session that may have been swept or lost in a
// restart: a missing session is recreated empty from cfg under the same id.
func (s *Store) Resume(id string, cfg cart.Config, fn func(*cart.Ledger) error) error {
	if id == "" {
		return ErrNotFound
	}

	s.mu.Lock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{ledger: cart.New(cfg), lastSeen: s.now()}
		s.sessions[id] = e
	}
	e.active++
	s.mu.Unlock()

	if !ok {
		log.Debug().Str("session_id", id).Msg("session resumed empty")
	}
	return s.run(e, fn)
}

// run expects e.active to have been raised by the caller, which keeps
// Sweep from dropping the entry until fn has returned.
func (s *Store) run(e *entry, fn func(*cart.Ledger) error) error {
	defer func() {
		s.mu.Lock()
		e.active--
		s.mu.Unlock()
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastSeen = s.now()
	return fn(e.ledger)
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep drops sessions idle for longer than maxIdle and reports how many
// were removed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if e.active > 0 {
			continue
		}

		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()

		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				log.Info().Int("removed", n).Int("active", s.Len()).Msg("idle sessions swept")
			}
		}
	}
}
