package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/catalog"
)

var ErrNoDestination = errors.New("no catalog destination configured")

// Repository keeps every published catalog document; the newest wins.
type Repository interface {
	Publish(ctx context.Context, filename string, doc []byte) (*catalog.Revision, error)
	Revisions(ctx context.Context, limit int) ([]catalog.Revision, error)
}

// Storage uploads a catalog document to object storage.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// PublishResult reports where a document went.
type PublishResult struct {
	Revision   *catalog.Revision `json:"revision,omitempty"`
	ObjectURL  string            `json:"object_url,omitempty"`
	Categories int               `json:"categories"`
	Items      int               `json:"items"`
}

type Service struct {
	store     *catalog.Store
	repo      Repository
	storage   Storage
	objectKey string
}

// NewService wires the active catalog store to its publish destinations.
// repo and storage are both optional; Publish needs at least one.
func NewService(store *catalog.Store, repo Repository, storage Storage, objectKey string) *Service {
	if objectKey == "" {
		objectKey = "menu.json"
	}
	return &Service{store: store, repo: repo, storage: storage, objectKey: objectKey}
}

// --------------------------------------------------
// Publish Catalog
// --------------------------------------------------
// The document is decoded before anything is written, so a broken file
// never reaches a destination.
func (s *Service) Publish(ctx context.Context, filename string, doc []byte) (*PublishResult, error) {
	if err := ValidateFileExtension(filename); err != nil {
		return nil, err
	}
	if s.repo == nil && s.storage == nil {
		return nil, ErrNoDestination
	}

	c, err := catalog.Decode(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res := &PublishResult{}
	for _, cat := range c.Categories() {
		res.Categories++
		res.Items += len(cat.Items)
	}

	if s.storage != nil {
		url, err := s.storage.Upload(ctx, s.objectKey, bytes.NewReader(doc), "application/json")
		if err != nil {
			return nil, fmt.Errorf("upload catalog: %w", err)
		}
		res.ObjectURL = url
	}

	if s.repo != nil {
		rev, err := s.repo.Publish(ctx, filename, doc)
		if err != nil {
			return nil, fmt.Errorf("store catalog revision: %w", err)
		}
		res.Revision = rev
	}

	log.Info().
		Str("filename", filename).
		Int("categories", res.Categories).
		Int("items", res.Items).
		Msg("catalog published")

	return res, nil
}

// Reload swaps in the latest published catalog. On failure the previous
// catalog keeps serving.
func (s *Service) Reload(ctx context.Context) (*catalog.Catalog, error) {
	return s.store.Reload(ctx)
}

// Revisions lists the newest published revisions.
func (s *Service) Revisions(ctx context.Context, limit int) ([]catalog.Revision, error) {
	if s.repo == nil {
		return []catalog.Revision{}, nil
	}
	return s.repo.Revisions(ctx, limit)
}

func (s *Service) Current() (*catalog.Catalog, error) {
	return s.store.Current()
}

func (s *Service) LoadedAt() time.Time {
	return s.store.LoadedAt()
}
