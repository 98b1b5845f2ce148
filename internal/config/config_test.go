package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProperties(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.properties")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.properties"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Source)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost:5432/restaurant_db", cfg.Database.URL)
	assert.Equal(t, "change-me-in-production", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.InDelta(t, 0.08, cfg.TaxRate, 1e-9)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, []string{"http://127.0.0.1:8080", "http://localhost:8080"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.DashboardRefresh)
	assert.Equal(t, "staff", cfg.DefaultRole)
}

func TestLoadPropertiesFile(t *testing.T) {
	path := writeProperties(t, `
db.url=postgres://db.internal:5432/rms
db.user=rms
db.password=s3cret
jwt.secret=from-file
jwt.expiration=60000
session.timeout=120000
tax.rate=0.1
currency=EUR
cors.origins=http://localhost:5173, http://127.0.0.1:5173
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "postgres://db.internal:5432/rms", cfg.Database.URL)
	assert.Equal(t, "rms", cfg.Database.User)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, time.Minute, cfg.JWTTTL)
	assert.Equal(t, 2*time.Minute, cfg.SessionTimeout)
	assert.InDelta(t, 0.1, cfg.TaxRate, 1e-9)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeProperties(t, "jwt.secret=from-file\n")
	t.Setenv("BACKOFFICE_JWT_SECRET", "from-env")
	t.Setenv("BACKOFFICE_DB_DRIVER", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "memory", cfg.Database.Driver)
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	path := writeProperties(t, "jwt.expiration=soon\nsession.timeout=-5\ntax.rate=lots\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.InDelta(t, 0.08, cfg.TaxRate, 1e-9)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := writeProperties(t, "db.driver=mysql\n")
	_, err := Load(path)
	assert.Error(t, err)
}
