// Package config reads process settings once at start: an optional .env file,
// an optional shelf.yaml and SHELF_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-shelf/internal/logging"
)

// EnvPrefix namespaces every environment variable.
const EnvPrefix = "SHELF"

// Reconcile modes.
const (
	ReconcileLocal   = "local"
	ReconcileRefetch = "refetch"
)

type Config struct {
	Store   StoreConfig
	HTTP    HTTPConfig
	Log     logging.Config
	Sandbox SandboxConfig
}

type StoreConfig struct {
	URL       string
	Timeout   time.Duration
	Reconcile string // local or refetch
}

type HTTPConfig struct {
	Addr            string
	BasePath        string
	ShutdownTimeout time.Duration
}

type SandboxConfig struct {
	Addr string
	Seed bool
}

type loadConfig struct {
	envFiles    []string
	configName  string
	configPaths []string
}

// LoadOption customises where Load looks for settings.
type LoadOption func(*loadConfig)

// WithEnvFiles replaces the default ".env" lookup. Missing files are skipped.
func WithEnvFiles(files ...string) LoadOption {
	return func(c *loadConfig) {
		c.envFiles = files
	}
}

// WithConfigPaths replaces the directories searched for shelf.yaml.
func WithConfigPaths(paths ...string) LoadOption {
	return func(c *loadConfig) {
		c.configPaths = paths
	}
}

// Load resolves the configuration.
func Load(opts ...LoadOption) (*Config, error) {
	lc := loadConfig{
		envFiles:    []string{".env"},
		configName:  "shelf",
		configPaths: []string{"."},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&lc)
		}
	}

	for _, file := range lc.envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.SetConfigName(lc.configName)
	v.SetConfigType("yaml")
	for _, path := range lc.configPaths {
		v.AddConfigPath(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Store: StoreConfig{
			URL:       strings.TrimSpace(v.GetString("store_url")),
			Timeout:   v.GetDuration("store_timeout"),
			Reconcile: strings.ToLower(strings.TrimSpace(v.GetString("reconcile"))),
		},
		HTTP: HTTPConfig{
			Addr:            v.GetString("addr"),
			BasePath:        v.GetString("base_path"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Sandbox: SandboxConfig{
			Addr: v.GetString("sandbox.addr"),
			Seed: v.GetBool("sandbox.seed"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := logging.DefaultConfig()
	v.SetDefault("store_timeout", 10*time.Second)
	v.SetDefault("reconcile", ReconcileLocal)
	v.SetDefault("addr", ":8080")
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetDefault("log.level", defaults.Level)
	v.SetDefault("log.format", defaults.Format)
	v.SetDefault("log.output", defaults.Output)
	v.SetDefault("sandbox.addr", ":8090")
	v.SetDefault("sandbox.seed", true)
}

func (c *Config) validate() error {
	switch c.Store.Reconcile {
	case ReconcileLocal, ReconcileRefetch:
	default:
		return fmt.Errorf("config: reconcile must be %q or %q, got %q", ReconcileLocal, ReconcileRefetch, c.Store.Reconcile)
	}
	if c.Store.Timeout < 0 {
		return fmt.Errorf("config: store_timeout must not be negative")
	}
	return nil
}

// RequireStore checks that the store base URL is set and absolute. Commands
// that talk to the remote store call it after applying flag overrides.
func (c *Config) RequireStore() error {
	if c.Store.URL == "" {
		return fmt.Errorf("config: %s_STORE_URL is required", EnvPrefix)
	}
	u, err := url.Parse(c.Store.URL)
	if err != nil {
		return fmt.Errorf("config: store url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: store url %q must be an absolute http(s) URL", c.Store.URL)
	}
	return nil
}
