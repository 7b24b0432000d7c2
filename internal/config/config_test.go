package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/el-modasser/elkababgy/internal/i18n"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, i18n.English, cfg.DefaultLanguage)
	assert.Equal(t, SourceFile, cfg.Catalog.Source)
	assert.Equal(t, "Ksh", cfg.Currency.Symbol(i18n.English))
	assert.Equal(t, "Ksh", cfg.Currency.Symbol(i18n.Arabic))
	assert.Equal(t, "en-KE", cfg.Currency.Locale)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Len(t, cfg.Branches, 3)
	assert.Equal(t, "parklands", cfg.DefaultBranch)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.NotNil(t, cfg.Location)
	assert.False(t, cfg.Production())
	assert.False(t, cfg.AdminEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DEFAULT_LANGUAGE", "ar")
	t.Setenv("SESSION_IDLE_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "https://menu.example.com, ")
	t.Setenv("BRANCHES", `[{"id":"gallant","name":"Gallant Mall","whatsapp":"+254 798 008898"}]`)
	t.Setenv("DEFAULT_BRANCH", "gallant")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Production())
	assert.Equal(t, i18n.Arabic, cfg.DefaultLanguage)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, []string{"https://menu.example.com"}, cfg.CORSOrigins)
	require.Len(t, cfg.Branches, 1)
	assert.Equal(t, "Gallant Mall", cfg.Branches[0].Name)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "soon")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrInvalidEnv)

	t.Setenv("SESSION_IDLE_TTL", "")
	t.Setenv("BRANCHES", "not json")
	_, err = FromEnv()
	assert.ErrorIs(t, err, ErrInvalidEnv)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"missing secret", map[string]string{}, ErrMissingEnv},
		{"bad port", map[string]string{"JWT_SECRET": "s", "PORT": "http"}, ErrInvalidEnv},
		{"postgres without dsn", map[string]string{"JWT_SECRET": "s", "CATALOG_SOURCE": "postgres"}, ErrMissingEnv},
		{"r2 without bucket", map[string]string{"JWT_SECRET": "s", "CATALOG_SOURCE": "r2"}, ErrMissingEnv},
		{"unknown source", map[string]string{"JWT_SECRET": "s", "CATALOG_SOURCE": "ftp"}, ErrUnknownSource},
		{"admin email without hash", map[string]string{"JWT_SECRET": "s", "ADMIN_EMAIL": "a@b.c"}, ErrInvalidEnv},
		{"branch without number", map[string]string{"JWT_SECRET": "s", "BRANCHES": `[{"id":"x","whatsapp":"n/a"}]`}, ErrInvalidEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"JWT_SECRET", "PORT", "CATALOG_SOURCE", "ADMIN_EMAIL", "ADMIN_PASSWORD_HASH", "BRANCHES", "DATABASE_URL", "R2_ENDPOINT", "R2_BUCKET_NAME"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := FromEnv()
			require.NoError(t, err)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}
