package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/config"
	"github.com/el-modasser/elkababgy/internal/db"
	"github.com/el-modasser/elkababgy/internal/logging"
	"github.com/el-modasser/elkababgy/internal/menu"
	"github.com/el-modasser/elkababgy/internal/storage"
)

// catalog-sync validates a local menu document and publishes it to the
// configured destinations so the API can load it.
func main() {
	path := flag.String("file", "data/menu.json", "catalog document to publish")
	toPostgres := flag.Bool("postgres", true, "publish a revision to DATABASE_URL when set")
	toR2 := flag.Bool("r2", true, "upload to the R2 bucket when configured")
	dryRun := flag.Bool("dry-run", false, "only validate the document")
	flag.Parse()

	logging.Setup(os.Getenv("APP_ENV") == "production")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	doc, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("read catalog")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *dryRun {
		c, err := catalog.NewFileSource(*path).Load(ctx)
		if err == nil {
			err = c.Validate()
		}
		if err != nil {
			log.Fatal().Err(err).Msg("invalid catalog")
		}
		log.Info().Int("categories", len(c.Categories())).Msg("catalog is valid")
		return
	}

	var (
		repo    menu.Repository
		objects menu.Storage
	)

	if *toPostgres && cfg.DatabaseURL != "" {
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		repo = catalog.NewPostgresRepository(pool)
	}

	if *toR2 && cfg.R2.Enabled() {
		r2, err := storage.NewR2Client(ctx, cfg.R2)
		if err != nil {
			log.Fatal().Err(err).Msg("R2 init failed")
		}
		objects = r2
	}

	service := menu.NewService(nil, repo, objects, cfg.Catalog.ObjectKey)

	res, err := service.Publish(ctx, filepath.Base(*path), doc)
	if err != nil {
		log.Fatal().Err(err).Msg("publish failed")
	}

	event := log.Info().Int("categories", res.Categories).Int("items", res.Items)
	if res.Revision != nil {
		event = event.Str("version", res.Revision.Version)
	}
	if res.ObjectURL != "" {
		event = event.Str("object_url", res.ObjectURL)
	}
	event.Msg("catalog published, POST /admin/catalog/reload to serve it")
}
