package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrMissingDSN = errors.New("DATABASE_URL not set")

// ConnectPostgres opens a pool, checks it and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.Info().Str("host", config.ConnConfig.Host).Msg("connected to postgres")

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return pool, nil
}

// initSchema creates the tables the service needs if they are missing.
func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	log.Info().Msg("schema initialized")
	return nil
}

var schema = []string{
	// -------------------------------
	// OPERATORS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS operators (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'ADMIN',
		created_at TIMESTAMPTZ DEFAULT now()
	)
	`,

	// -------------------------------
	// PUBLISHED CATALOGS (APPEND-ONLY)
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS menu_catalogs (
		id SERIAL PRIMARY KEY,
		version UUID UNIQUE NOT NULL,
		source_filename VARCHAR(255) NOT NULL,
		document JSON NOT NULL,
		published_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
	`,
	// JSON keeps the document text as published; JSONB would re-sort the
	// category keys and lose their display order.
	`
	DO $$
	BEGIN
		IF EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'menu_catalogs'
				AND column_name = 'document'
				AND data_type = 'jsonb'
		) THEN
			ALTER TABLE menu_catalogs
				ALTER COLUMN document TYPE JSON USING document::json;
		END IF;
	END $$
	`,
	`
	CREATE INDEX IF NOT EXISTS menu_catalogs_published_at_idx
		ON menu_catalogs (published_at DESC, id DESC)
	`,
}
