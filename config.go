package pensieve

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Content sources.
const (
	SourceWordPress = "wordpress"
	SourceSQLite    = "sqlite"
)

// SiteConfig holds all configuration for a pensieve build.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Pensieve")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD

	BasePath  string `mapstructure:"base_path"`  // Blog section prefix (default "pensieve")
	OutputDir string `mapstructure:"output_dir"` // Build output (default "public")

	Source       string          `mapstructure:"source"`        // "wordpress" (default) or "sqlite"
	WordPress    WordPressConfig `mapstructure:"wordpress"`     // WPGraphQL settings
	DatabasePath string          `mapstructure:"database_path"` // SQLite path (default "data/pensieve.db")

	Concurrency int    `mapstructure:"concurrency"` // In-flight page renders (default 8)
	Addr        string `mapstructure:"addr"`        // Preview listen address (default ":3000")
}

// WordPressConfig locates the WPGraphQL endpoint.
type WordPressConfig struct {
	Endpoint string `mapstructure:"endpoint"` // e.g. https://cms.example.com/graphql
	Token    string `mapstructure:"token"`    // optional bearer token
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Pensieve"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.BasePath == "" {
		c.BasePath = "pensieve"
	}
	c.BasePath = strings.Trim(c.BasePath, "/")
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.Source == "" {
		c.Source = SourceWordPress
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pensieve.db"
	}
	if c.Concurrency == 0 {
		c.Concurrency = 8
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
}

// Validate reports configuration that cannot produce a build.
func (c SiteConfig) Validate() error {
	var errs []error
	switch c.Source {
	case SourceWordPress:
		if c.WordPress.Endpoint == "" {
			errs = append(errs, errors.New("wordpress.endpoint is required when source is wordpress"))
		}
	case SourceSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("database_path is required when source is sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q: must be %s or %s", c.Source, SourceWordPress, SourceSQLite))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("pensieve: invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads configuration from path (or ./pensieve.yaml when path is
// empty and the file exists), PENSIEVE_* environment variables, and .env
// files, then applies defaults.
func LoadConfig(path string) (SiteConfig, error) {
	for _, f := range []string{".env", ".env.local"} {
		if err := godotenv.Load(f); err == nil {
			slog.Debug("loaded environment file", "path", f)
		}
	}

	v := viper.New()
	for _, key := range []string{
		"name", "url", "description", "author", "base_path", "output_dir",
		"source", "wordpress.endpoint", "wordpress.token", "database_path",
		"concurrency", "addr",
	} {
		// Registering every key lets AutomaticEnv fill fields absent from the file.
		v.SetDefault(key, "")
	}
	v.SetDefault("concurrency", 0)
	v.SetEnvPrefix("PENSIEVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pensieve")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("pensieve: read config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment")
	} else {
		slog.Debug("using config file", "path", v.ConfigFileUsed())
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("pensieve: decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the logger used by the build.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithOutputDir overrides the configured output directory.
func WithOutputDir(dir string) Option {
	return func(a *App) {
		if dir != "" {
			a.Config.OutputDir = dir
		}
	}
}
