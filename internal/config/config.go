package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/napolitain/seldon-idle/internal/economy"
)

// Config is the deployment configuration of the server and CLI
type Config struct {
	Log     LogConfig      `toml:"log"`
	Server  ServerConfig   `toml:"server"`
	DB      DBConfig       `toml:"db"`
	Engine  economy.Config `toml:"engine"`
	DataDir string         `toml:"data_dir"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"` // text, json or console
	AddSource bool       `toml:"add_source"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	AllowOrigins    string   `toml:"allow_origins"`
	ClicksPerSecond float64  `toml:"clicks_per_second"` // per user
	ClickBurst      int      `toml:"click_burst"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	CacheSize       int      `toml:"cache_size"` // cached game states, 0 disables
}

type DBConfig struct {
	Driver   string `toml:"driver"` // sqlite or postgres
	Path     string `toml:"path"`   // sqlite file, ":memory:" for tests
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

// PostgresDSN builds a pgx connection string
func (d DBConfig) PostgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Database,
	}
	if d.PoolSize > 0 {
		u.RawQuery = fmt.Sprintf("pool_max_conns=%d", d.PoolSize)
	}
	return u.String()
}

// Default returns a config that runs locally against a sqlite file
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  slog.LevelInfo,
			Format: "console",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			AllowOrigins:    "*",
			ClicksPerSecond: 20,
			ClickBurst:      40,
			ShutdownTimeout: Duration(10 * time.Second),
			CacheSize:       1024,
		},
		DB: DBConfig{
			Driver:   "sqlite",
			Path:     "seldon.db",
			Host:     "localhost",
			Port:     5432,
			PoolSize: 10,
		},
		Engine:  economy.DefaultConfig(),
		DataDir: "data",
	}
}

var ErrInvalidConfig = errors.New("invalid config")

// Load reads a TOML file over Default. Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	if err = toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section
func (c Config) Validate() error {
	switch c.Log.Format {
	case "text", "json", "console":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			return fmt.Errorf("%w: db.path is required for sqlite", ErrInvalidConfig)
		}
	case "postgres":
		if c.DB.Host == "" || c.DB.Database == "" {
			return fmt.Errorf("%w: db.host and db.database are required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown db driver %q", ErrInvalidConfig, c.DB.Driver)
	}
	if c.Server.ClicksPerSecond <= 0 || c.Server.ClickBurst < 1 {
		return fmt.Errorf("%w: server click rate limit must be positive", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
