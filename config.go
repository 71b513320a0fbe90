package spotify

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds application credentials and client settings, for callers
// that prefer loading them from a file or the environment instead of
// hard-coding them. The client constructors take the values explicitly;
// this is a convenience layer on top.
type Config struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURI  string   `toml:"redirect_uri"`
	Scopes       []string `toml:"scopes"`
	AutoRefresh  bool     `toml:"auto_refresh"`
	RateLimit    int      `toml:"rate_limit"`
	LogLevel     string   `toml:"log_level"`
}

// LoadConfig reads configuration from the given TOML files in order
// (later files override earlier ones; missing files are skipped) and
// then applies environment variable overrides.
func LoadConfig(paths ...string) (*Config, error) {
	config := &Config{
		AutoRefresh: true,
		RateLimit:   DefaultRateLimit,
	}

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if id := os.Getenv("SPOTIFY_CLIENT_ID"); id != "" {
		config.ClientID = id
	}

	if secret := os.Getenv("SPOTIFY_CLIENT_SECRET"); secret != "" {
		config.ClientSecret = secret
	}

	if uri := os.Getenv("SPOTIFY_REDIRECT_URI"); uri != "" {
		config.RedirectURI = uri
	}

	if limit := os.Getenv("SPOTIFY_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			config.RateLimit = n
		}
	}

	if level := os.Getenv("SPOTIFY_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
}

// Validate checks that the fields every flow needs are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("config: client_id is required")
	}
	return nil
}

// ScopeSet returns the configured scopes as a scope set.
func (c *Config) ScopeSet() Scopes {
	return NewScopes(c.Scopes...)
}

// ClientOptions translates the config's client settings into options for
// the flow constructors.
func (c *Config) ClientOptions() []ClientOption {
	var opts []ClientOption
	if c.RateLimit > 0 {
		opts = append(opts, WithRateLimit(c.RateLimit))
	}
	if c.LogLevel != "" {
		opts = append(opts, WithLogLevel(c.LogLevel))
	}
	return opts
}
