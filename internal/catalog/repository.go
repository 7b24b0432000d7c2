package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrNotLoaded = errors.New("catalog not loaded")

// Source loads the catalog document from wherever it is published.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
	Name() string
}

// Store holds the active catalog. Reload swaps it atomically, so readers
// always see one complete document.
type Store struct {
	source   Source
	current  atomic.Pointer[Catalog]
	loadedAt atomic.Pointer[time.Time]
}

func NewStore(source Source) *Store {
	return &Store{source: source}
}

// NewStaticStore serves a fixed catalog; Reload is a no-op.
func NewStaticStore(c *Catalog) *Store {
	s := &Store{}
	s.set(c)
	return s
}

// --------------------------------------------------
// Reload
// --------------------------------------------------
func (s *Store) Reload(ctx context.Context) (*Catalog, error) {
	if s.source == nil {
		if c := s.current.Load(); c != nil {
			return c, nil
		}
		return nil, ErrNotLoaded
	}

	c, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", s.source.Name(), err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", s.source.Name(), err)
	}

	s.set(c)

	log.Info().
		Str("source", s.source.Name()).
		Int("categories", len(c.categories)).
		Msg("catalog loaded")

	return c, nil
}

func (s *Store) set(c *Catalog) {
	now := time.Now()
	s.current.Store(c)
	s.loadedAt.Store(&now)
}

// Current returns the active catalog, or ErrNotLoaded before the first load.
func (s *Store) Current() (*Catalog, error) {
	c := s.current.Load()
	if c == nil {
		return nil, ErrNotLoaded
	}
	return c, nil
}

// LoadedAt is the time of the last successful load.
func (s *Store) LoadedAt() time.Time {
	if t := s.loadedAt.Load(); t != nil {
		return *t
	}
	return time.Time{}
}
