package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TOOLHUB_SERVER_PORT.
const EnvPrefix = "TOOLHUB"

// Preference storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Settings is the typed toolhub configuration.
type Settings struct {
	Server      ServerSettings      `mapstructure:"server"`
	Log         LogSettings         `mapstructure:"log"`
	Catalog     CatalogSettings     `mapstructure:"catalog"`
	Preferences PreferencesSettings `mapstructure:"preferences"`
	Profile     ProfileSettings     `mapstructure:"profile"`
	Session     SessionSettings     `mapstructure:"session"`
}

type ServerSettings struct {
	Host      string            `mapstructure:"host"`
	Port      int               `mapstructure:"port"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type RateLimitSettings struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
}

// CatalogSettings selects the catalog source. An empty Path serves the
// embedded catalog.
type CatalogSettings struct {
	Path     string `mapstructure:"path"`
	Watch    bool   `mapstructure:"watch"`
	PageSize int    `mapstructure:"page_size"`
}

type PreferencesSettings struct {
	Backend    string        `mapstructure:"backend"`
	Namespace  string        `mapstructure:"namespace"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	Redis      RedisSettings `mapstructure:"redis"`
	CacheSize  int           `mapstructure:"cache_size"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProfileSettings configures the remote profile lookup. An empty BaseURL
// disables reconciliation.
type ProfileSettings struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionSettings struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit.rps", 20.0)
	v.SetDefault("server.rate_limit.burst", 40)

	v.SetDefault("log.level", "info")

	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.watch", false)
	v.SetDefault("catalog.page_size", 9)

	v.SetDefault("preferences.backend", BackendSQLite)
	v.SetDefault("preferences.namespace", "userPreferences")
	v.SetDefault("preferences.sqlite_path", "toolhub.db")
	v.SetDefault("preferences.redis.addr", "localhost:6379")
	v.SetDefault("preferences.redis.password", "")
	v.SetDefault("preferences.redis.db", 0)
	v.SetDefault("preferences.cache_size", 10000)
	v.SetDefault("preferences.cache_ttl", 15*time.Minute)

	v.SetDefault("profile.base_url", "")
	v.SetDefault("profile.timeout", 5*time.Second)

	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.sweep_interval", time.Minute)
}

// Load builds a viper instance from defaults, the optional YAML file at path
// and TOOLHUB_* environment overrides, in increasing precedence. With an
// empty path, ./toolhub.yaml is read if present.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("toolhub")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Settings decodes the typed settings and validates them.
func (c *Config) Settings() (Settings, error) {
	var s Settings
	if err := c.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the server cannot start with.
func (s Settings) Validate() error {
	switch s.Preferences.Backend {
	case BackendSQLite:
		if s.Preferences.SQLitePath == "" {
			return errors.New("preferences.sqlite_path is required for the sqlite backend")
		}
	case BackendRedis:
		if s.Preferences.Redis.Addr == "" {
			return errors.New("preferences.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown preferences.backend %q (want %q or %q)",
			s.Preferences.Backend, BackendSQLite, BackendRedis)
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", s.Server.Port)
	}
	return nil
}
