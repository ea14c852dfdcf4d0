// Package config loads recipebox runtime settings from the environment.
//
// A Config is built once in main and handed to the constructors that need it.
// Nothing in the module reads the environment after that point.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process-wide settings for the CLI, the MCP server and the
// parse client.
type Config struct {
	// APIBaseURL is the root of the recipe parsing service. It has no default:
	// request building fails fast when it is missing.
	APIBaseURL string `env:"RECIPEBOX_API_BASE_URL"`

	// AuthScheme prefixes the stored access token in the Authorization header.
	// "Basic" matches what the service receives today.
	AuthScheme string `env:"RECIPEBOX_AUTH_SCHEME" envDefault:"Basic"`

	// RequestRate caps outgoing requests per second. Zero disables the limit.
	RequestRate float64 `env:"RECIPEBOX_REQUEST_RATE" envDefault:"0"`

	// Local store.
	DBPath       string `env:"RECIPEBOX_DB_PATH"`
	StorageGroup string `env:"RECIPEBOX_STORAGE_GROUP" envDefault:"group.recipebox"`
	WAL          bool   `env:"RECIPEBOX_WAL" envDefault:"false"`
	SyncMode     string `env:"RECIPEBOX_SYNC" envDefault:"FULL"`

	SearchDebounce time.Duration `env:"RECIPEBOX_SEARCH_DEBOUNCE" envDefault:"500ms"`

	LogLevel    string `env:"RECIPEBOX_LOG_LEVEL" envDefault:"info"`
	Environment string `env:"RECIPEBOX_ENV" envDefault:"production"`
}

// Load reads an optional dotenv file and then parses the environment.
// A missing dotenv file is not an error; pass "" to skip it entirely.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to load %s: %w", dotenvPath, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether verbose, human-readable logging is wanted.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
