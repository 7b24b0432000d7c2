package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/auth"
	"github.com/el-modasser/elkababgy/internal/cart"
	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/config"
	"github.com/el-modasser/elkababgy/internal/db"
	"github.com/el-modasser/elkababgy/internal/logging"
	"github.com/el-modasser/elkababgy/internal/menu"
	"github.com/el-modasser/elkababgy/internal/order"
	"github.com/el-modasser/elkababgy/internal/pricing"
	"github.com/el-modasser/elkababgy/internal/router"
	"github.com/el-modasser/elkababgy/internal/session"
	"github.com/el-modasser/elkababgy/internal/storage"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	logging.Setup(os.Getenv("APP_ENV") == "production")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var r2 *storage.R2Client
	if cfg.R2.Enabled() {
		r2, err = storage.NewR2Client(ctx, cfg.R2)
		if err != nil {
			log.Fatal().Err(err).Msg("R2 init failed")
		}
	}

	// ───────────────────────── CATALOG ─────────────────────────
	var (
		source  catalog.Source
		repo    menu.Repository
		objects menu.Storage
	)
	if pool != nil {
		repo = catalog.NewPostgresRepository(pool)
	}
	if r2 != nil {
		objects = r2
	}

	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		source = catalog.NewPostgresRepository(pool)
	case config.SourceR2:
		source = catalog.NewObjectSource(r2, cfg.Catalog.ObjectKey)
	default:
		source = catalog.NewFileSource(cfg.Catalog.Path)
	}

	store := catalog.NewStore(source)
	if _, err := store.Reload(ctx); err != nil {
		// The menu answers 503 until a catalog is published and reloaded.
		log.Warn().Err(err).Msg("starting without a catalog")
	}

	menuService := menu.NewService(store, repo, objects, cfg.Catalog.ObjectKey)

	// ───────────────────────── AUTH ─────────────────────────
	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("tokens")
	}

	var users auth.UserRepository = auth.NewInMemoryUserRepository()
	if pool != nil {
		users = auth.NewPostgresUserRepository(pool)
	}
	authService := auth.NewService(users, tokens)

	if cfg.AdminEnabled() {
		if _, err := authService.SeedOperator("Operator", cfg.AdminEmail, cfg.AdminPasswordHash); err != nil {
			log.Fatal().Err(err).Msg("seed operator")
		}
	}

	// ───────────────────────── SESSIONS ─────────────────────────
	sessions := session.NewStore()
	go sessions.RunSweeper(ctx, cfg.SessionSweepInterval, cfg.SessionIdleTTL)

	// ───────────────────────── HANDLERS ─────────────────────────
	formatter := pricing.NewFormatter(cfg.Currency)

	branches, err := order.NewDirectory(cfg.Branches, cfg.DefaultBranch)
	if err != nil {
		log.Fatal().Err(err).Msg("branches")
	}

	r := router.NewRouter(router.Deps{
		Tokens:   tokens,
		Menu:     menu.NewHandler(menuService, formatter, cfg.AssetBaseURL, cfg.DefaultLanguage),
		Catalog:  menu.NewAdminHandler(menuService),
		Sessions: session.NewHandler(sessions, tokens, cfg.DefaultLanguage),
		Cart:     cart.NewHandler(sessions, store, formatter),
		Orders: order.NewHandler(sessions, branches, formatter, order.HandlerConfig{
			Brand:    cfg.Brand,
			Host:     cfg.WhatsAppHost,
			Location: cfg.Location,
		}),
		Auth:        auth.NewHandler(authService),
		CORSOrigins: cfg.CORSOrigins,
	})

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("catalog", source.Name()).Msg("API running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("API stopped")
}
