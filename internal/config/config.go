package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/order"
	"github.com/el-modasser/elkababgy/internal/pricing"
	"github.com/el-modasser/elkababgy/internal/storage"
)

var (
	ErrMissingEnv    = errors.New("missing env var")
	ErrInvalidEnv    = errors.New("invalid env var")
	ErrUnknownSource = errors.New("unknown catalog source")
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceR2       = "r2"
)

type CatalogConfig struct {
	Source    string
	Path      string
	ObjectKey string
}

type Config struct {
	Env  string
	Port string

	CORSOrigins []string

	JWTSecret string
	TokenTTL  time.Duration

	Brand           string
	Currency        pricing.Currency
	DefaultLanguage i18n.Language
	Location        *time.Location

	Branches      []order.Branch
	DefaultBranch string
	WhatsAppHost  string

	Catalog      CatalogConfig
	DatabaseURL  string
	R2           storage.R2Config
	AssetBaseURL string

	SessionIdleTTL       time.Duration
	SessionSweepInterval time.Duration

	AdminEmail        string
	AdminPasswordHash string
}

// eat is used when the tz database is unavailable.
var eat = time.FixedZone("EAT", 3*60*60)

// DefaultBranches are the Nairobi outlets.
var DefaultBranches = []order.Branch{
	{
		ID:            "kilimani",
		Name:          "Kilimani",
		NameLocalized: i18n.Localized{i18n.Arabic: "كيليماني"},
		WhatsApp:      "+254769723159",
		DirectionsURL: "https://www.google.com/maps/dir//PQ4Q%2B45,+Ring+Rd+Kilimani,+Nairobi",
	},
	{
		ID:            "parklands",
		Name:          "Parklands",
		NameLocalized: i18n.Localized{i18n.Arabic: "باركلاندز"},
		WhatsApp:      "+254799025071",
		DirectionsURL: "https://www.google.com/maps/dir//Limuru+Road,+Parklands,+Nairobi",
	},
	{
		ID:            "south-c",
		Name:          "South C",
		NameLocalized: i18n.Localized{i18n.Arabic: "ساوث سي"},
		WhatsApp:      "+254723555569",
		DirectionsURL: "https://www.google.com/maps/dir//Muhoho+Avenue,+South+C,+Nairobi",
	},
}

// Load reads .env (outside production) and then the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("no .env file loaded")
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8000"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Brand:           getEnv("BRAND_NAME", "El Kebabgy"),
		DefaultLanguage: i18n.Parse(getEnv("DEFAULT_LANGUAGE", "en")),
		Currency: pricing.Currency{
			Code: getEnv("CURRENCY_CODE", pricing.KenyanShilling.Code),
			Symbols: map[i18n.Language]string{
				i18n.English: getEnv("CURRENCY_SYMBOL_EN", pricing.KenyanShilling.Symbols[i18n.English]),
				i18n.Arabic:  getEnv("CURRENCY_SYMBOL_AR", pricing.KenyanShilling.Symbols[i18n.Arabic]),
			},
			Locale: getEnv("CURRENCY_LOCALE", pricing.DefaultLocale),
		},

		DefaultBranch: getEnv("DEFAULT_BRANCH", "parklands"),
		WhatsAppHost:  getEnv("WHATSAPP_HOST", order.DefaultHost),

		Catalog: CatalogConfig{
			Source:    strings.ToLower(getEnv("CATALOG_SOURCE", SourceFile)),
			Path:      getEnv("CATALOG_PATH", "data/menu.json"),
			ObjectKey: getEnv("CATALOG_OBJECT_KEY", "catalog/menu.json"),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		R2: storage.R2Config{
			Endpoint:      os.Getenv("R2_ENDPOINT"),
			AccessKey:     os.Getenv("R2_ACCESS_KEY"),
			SecretKey:     os.Getenv("R2_SECRET_KEY"),
			Bucket:        os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		AssetBaseURL: os.Getenv("ASSET_BASE_URL"),

		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = getDuration("SESSION_IDLE_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	tz := getEnv("TIMEZONE", "Africa/Nairobi")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		log.Warn().Err(err).Str("timezone", tz).Msg("falling back to EAT")
		cfg.Location = eat
	}

	cfg.Branches = DefaultBranches
	if raw := os.Getenv("BRANCHES"); raw != "" {
		var branches []order.Branch
		if err := json.Unmarshal([]byte(raw), &branches); err != nil {
			return nil, fmt.Errorf("%w: BRANCHES: %v", ErrInvalidEnv, err)
		}
		cfg.Branches = branches
	}

	return cfg, nil
}

// Validate reports the first setting the API cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingEnv)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: PORT %q", ErrInvalidEnv, c.Port)
	}
	if len(c.Branches) == 0 {
		return fmt.Errorf("%w: BRANCHES is empty", ErrInvalidEnv)
	}
	for i, b := range c.Branches {
		if b.ID == "" || order.Recipient(b.WhatsApp) == "" {
			return fmt.Errorf("%w: BRANCHES[%d] needs id and whatsapp", ErrInvalidEnv, i)
		}
	}

	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("%w: CATALOG_PATH", ErrMissingEnv)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnv)
		}
	case SourceR2:
		if !c.R2.Enabled() {
			return fmt.Errorf("%w: R2_ENDPOINT and R2_BUCKET_NAME", ErrMissingEnv)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Catalog.Source)
	}

	if (c.AdminEmail == "") != (c.AdminPasswordHash == "") {
		return fmt.Errorf("%w: ADMIN_EMAIL and ADMIN_PASSWORD_HASH go together", ErrInvalidEnv)
	}

	return nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

// AdminEnabled reports whether an operator account is configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidEnv, key, raw)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
