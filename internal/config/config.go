// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dojo/internal/domain/account"
	"dojo/internal/domain/billing"
	"dojo/internal/domain/membership"
)

// EnvProduction is the GYM_ENV value that enables production checks.
const EnvProduction = "production"

// Config holds every setting the server reads at startup.
type Config struct {
	Addr   string
	Env    string
	DBPath string

	// BackendURL enables the remote is_admin role check when set.
	BackendURL        string
	BackendAnonKey    string
	BackendServiceKey string

	SessionSecret string
	CSRFKey       string

	ResendKey string
	MailFrom  string
	ReplyTo   string

	Location           *time.Location
	AdminEmails        []string
	ReminderWindowDays int
	SlowQueryMs        int
	SlowRequestMs      int
}

// ErrMissingSecret is returned in production when a required secret is unset.
var ErrMissingSecret = errors.New("required secret is not set")

// Load reads .env (if present) and then the environment.
// POST: Returns a Config with defaults applied, or an error for invalid values
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("dotenv_load_failed", "error", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Addr:              get("GYM_ADDR", ":8080"),
		Env:               get("GYM_ENV", "development"),
		DBPath:            get("GYM_DB_PATH", "dojo.db"),
		BackendURL:        get("GYM_BACKEND_URL", ""),
		BackendAnonKey:    get("GYM_BACKEND_ANON_KEY", ""),
		BackendServiceKey: get("GYM_BACKEND_SERVICE_KEY", ""),
		SessionSecret:     get("GYM_SESSION_SECRET", ""),
		CSRFKey:           get("GYM_CSRF_KEY", ""),
		ResendKey:         get("GYM_RESEND_KEY", ""),
		MailFrom:          get("GYM_MAIL_FROM", "C.A.M Amezcuas <noreply@amezcuas.mx>"),
		ReplyTo:           get("GYM_REPLY_TO", "contacto@amezcuas.mx"),
		AdminEmails:       splitEmails(get("GYM_ADMIN_EMAILS", "")),
	}

	loc, err := billing.LoadLocation(get("GYM_TIMEZONE", billing.DefaultTimezone))
	if err != nil {
		return Config{}, fmt.Errorf("GYM_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"GYM_REMINDER_WINDOW_DAYS", membership.DefaultExpiringWindowDays, &cfg.ReminderWindowDays},
		{"GYM_SLOW_QUERY_MS", 50, &cfg.SlowQueryMs},
		{"GYM_SLOW_REQUEST_MS", 500, &cfg.SlowRequestMs},
	}
	for _, it := range ints {
		raw := get(it.key, "")
		if raw == "" {
			*it.dst = it.fallback
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: must be a non-negative integer, got %q", it.key, raw)
		}
		*it.dst = n
	}
	if cfg.ReminderWindowDays < 1 {
		return Config{}, fmt.Errorf("GYM_REMINDER_WINDOW_DAYS: must be at least 1, got %d", cfg.ReminderWindowDays)
	}

	if cfg.IsProduction() {
		for key, v := range map[string]string{
			"GYM_SESSION_SECRET": cfg.SessionSecret,
			"GYM_CSRF_KEY":       cfg.CSRFKey,
		} {
			if v == "" {
				return Config{}, fmt.Errorf("%s: %w", key, ErrMissingSecret)
			}
		}
	}
	return cfg, nil
}

// IsProduction reports whether production checks apply.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsAdminEmail reports whether email is listed in GYM_ADMIN_EMAILS.
func (c Config) IsAdminEmail(email string) bool {
	email = account.NormalizeEmail(email)
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

func splitEmails(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if e := account.NormalizeEmail(part); e != "" {
			out = append(out, e)
		}
	}
	return out
}
