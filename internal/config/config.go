package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. BACKOFFICE_JWT_SECRET.
const EnvPrefix = "BACKOFFICE"

// DefaultPath is read when no path is given and BACKOFFICE_CONFIG is unset.
const DefaultPath = "config.properties"

var defaults = map[string]string{
	"db.driver":         "postgres",
	"db.url":            "postgres://localhost:5432/restaurant_db",
	"db.user":           "postgres",
	"db.password":       "",
	"jwt.secret":        "change-me-in-production",
	"jwt.expiration":    "86400000",
	"session.timeout":   "1800000",
	"tax.rate":          "0.08",
	"currency":          "USD",
	"http.address":      "127.0.0.1:8080",
	"cors.origins":      "http://127.0.0.1:8080,http://localhost:8080",
	"log.level":         "info",
	"log.format":        "json",
	"dashboard.refresh": "30000",
	"auth.default_role": "staff",
}

// DatabaseConfig locates the relational store.
type DatabaseConfig struct {
	Driver   string
	URL      string
	User     string
	Password string
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string
	Format string
}

// Config holds process-wide settings. It is loaded once and passed by value.
type Config struct {
	Database         DatabaseConfig
	JWTSecret        string
	JWTTTL           time.Duration
	SessionTimeout   time.Duration
	TaxRate          float64
	Currency         string
	HTTPAddress      string
	CORSOrigins      []string
	Logging          LoggingConfig
	DashboardRefresh time.Duration
	DefaultRole      string
	// Source is the file the values came from, empty when only defaults and env applied.
	Source string
}

// Load reads a properties file, applies BACKOFFICE_* environment overrides, and
// falls back to built-in defaults for anything missing. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = fallback(os.Getenv(EnvPrefix+"_CONFIG"), DefaultPath)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source := path
	if err := v.ReadInConfig(); err != nil {
		if !isMissingFile(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		source = ""
	}

	cfg := Config{
		Database: DatabaseConfig{
			Driver:   strings.ToLower(str(v, "db.driver")),
			URL:      str(v, "db.url"),
			User:     str(v, "db.user"),
			Password: v.GetString("db.password"),
		},
		JWTSecret:        str(v, "jwt.secret"),
		JWTTTL:           millis(v, "jwt.expiration"),
		SessionTimeout:   millis(v, "session.timeout"),
		TaxRate:          float(v, "tax.rate"),
		Currency:         str(v, "currency"),
		HTTPAddress:      str(v, "http.address"),
		CORSOrigins:      parseCSV(str(v, "cors.origins")),
		Logging:          LoggingConfig{Level: str(v, "log.level"), Format: str(v, "log.format")},
		DashboardRefresh: millis(v, "dashboard.refresh"),
		DefaultRole:      str(v, "auth.default_role"),
		Source:           source,
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("jwt.secret is required")
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "memory" {
		return Config{}, fmt.Errorf("unsupported db.driver %q", cfg.Database.Driver)
	}

	return cfg, nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// str returns the trimmed value for key, or its default when blank.
func str(v *viper.Viper, key string) string {
	return fallback(v.GetString(key), defaults[key])
}

// millis parses a millisecond count, falling back to the default when malformed or non-positive.
func millis(v *viper.Viper, key string) time.Duration {
	n, err := strconv.ParseInt(str(v, key), 10, 64)
	if err != nil || n <= 0 {
		n, _ = strconv.ParseInt(defaults[key], 10, 64)
	}
	return time.Duration(n) * time.Millisecond
}

func float(v *viper.Viper, key string) float64 {
	f, err := strconv.ParseFloat(str(v, key), 64)
	if err != nil || f < 0 {
		f, _ = strconv.ParseFloat(defaults[key], 64)
	}
	return f
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
