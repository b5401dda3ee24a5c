package funnel

import (
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-funnel/internal/debounce"
)

var (
	ErrLoggingProviderUnknown = errors.New("funnel: unknown logging provider")
	ErrLoggingLevelInvalid    = errors.New("funnel: invalid logging level")
	ErrLoggingFormatInvalid   = errors.New("funnel: invalid logging format")
	ErrCacheRequiresDatabase  = errors.New("funnel: repository cache requires a database")
)

// Config captures the runtime configuration for the funnel module.
type Config struct {
	Logging  LoggingConfig
	Database DatabaseConfig
	Debounce DebounceConfig
	Features Features
}

// LoggingConfig selects and tunes the logging backend.
type LoggingConfig struct {
	// Provider is "noop" or "gologger". Empty defaults to noop.
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DatabaseConfig carries the storage handle. A nil DB selects the
// in-memory repositories.
type DatabaseConfig struct {
	DB *bun.DB
}

// DebounceConfig tunes the commit quiet windows.
type DebounceConfig struct {
	ContentWindow time.Duration
	StyleWindow   time.Duration
}

// Features toggles optional subsystems.
type Features struct {
	// Cache wraps the bun repositories with the repository cache.
	Cache bool
}

// DefaultConfig returns the configuration used when the host provides
// nothing: no-op logging, in-memory persistence, standard quiet windows.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Provider: "noop"},
		Debounce: DebounceConfig{
			ContentWindow: debounce.DefaultContentWindow,
			StyleWindow:   debounce.DefaultStyleWindow,
		},
	}
}

// Validate checks cross-field constraints before wiring.
func (c Config) Validate() error {
	switch c.Logging.Provider {
	case "", "noop", "gologger":
	default:
		return ErrLoggingProviderUnknown
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}
	switch c.Logging.Format {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}
	if c.Features.Cache && c.Database.DB == nil {
		return ErrCacheRequiresDatabase
	}
	return nil
}
