package catalog

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoPublishedCatalog = errors.New("no catalog published")

// Revision is one published version of the catalog document.
type Revision struct {
	ID          int       `json:"id"`
	Version     string    `json:"version"`
	Filename    string    `json:"filename"`
	PublishedAt time.Time `json:"published_at"`
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Name() string {
	return "postgres:menu_catalogs"
}

// --------------------------------------------------
// LOAD LATEST PUBLISHED CATALOG
// --------------------------------------------------
func (r *PostgresRepository) Load(ctx context.Context) (*Catalog, error) {
	var doc []byte

	err := r.db.QueryRow(ctx, `
		SELECT document
		FROM menu_catalogs
		ORDER BY published_at DESC, id DESC
		LIMIT 1
	`).Scan(&doc)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoPublishedCatalog
		}
		return nil, err
	}

	return Decode(bytes.NewReader(doc))
}

// --------------------------------------------------
// PUBLISH (APPEND-ONLY, LATEST WINS)
// --------------------------------------------------
func (r *PostgresRepository) Publish(
	ctx context.Context,
	filename string,
	doc []byte,
) (*Revision, error) {

	// decode first so a broken document never becomes the latest revision
	c, err := Decode(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rev := &Revision{
		Version:  uuid.New().String(),
		Filename: filename,
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO menu_catalogs (
			version,
			source_filename,
			document,
			published_at
		)
		VALUES ($1, $2, $3, now())
		RETURNING id, published_at
	`, rev.Version, filename, doc).Scan(&rev.ID, &rev.PublishedAt)
	if err != nil {
		return nil, err
	}

	return rev, tx.Commit(ctx)
}

// --------------------------------------------------
// HISTORY
// --------------------------------------------------
func (r *PostgresRepository) Revisions(
	ctx context.Context,
	limit int,
) ([]Revision, error) {

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, version, source_filename, published_at
		FROM menu_catalogs
		ORDER BY published_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(
			&rev.ID,
			&rev.Version,
			&rev.Filename,
			&rev.PublishedAt,
		); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}

	return revisions, rows.Err()
}
