package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/logging"
)

// Sink backends.
const (
	SinkMemory = "memory"
	SinkSQLite = "sqlite"
	SinkRedis  = "redis"
)

// Config is the top-level configuration for a trailmark service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Recorder RecorderConfig `yaml:"recorder"`
	Sink     SinkConfig     `yaml:"sink"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// RecordFile receives the raw event log of all sessions on shutdown.
	RecordFile string `yaml:"record_file"`
}

// RecorderConfig mirrors behavior.Options for file-based configuration.
type RecorderConfig struct {
	TrackClickCount    bool                `yaml:"track_click_count"`
	TrackClickDetails  bool                `yaml:"track_click_details"`
	TrackMouseMovement bool                `yaml:"track_mouse_movement"`
	TrackVisibility    bool                `yaml:"track_visibility"`
	TrackKeyLog        bool                `yaml:"track_key_log"`
	FlushInterval      int                 `yaml:"flush_interval"`
	MaxMouseMovements  int                 `yaml:"max_mouse_movements"`
	ActionTrigger      ActionTriggerConfig `yaml:"action_trigger"`
}

// ActionTriggerConfig configures flushing on a custom element event.
type ActionTriggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Selector string `yaml:"selector"`
	Event    string `yaml:"event"`
}

// SinkConfig selects and configures where flushed snapshots go.
type SinkConfig struct {
	Backend string       `yaml:"backend"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
	Redis   RedisConfig  `yaml:"redis"`
}

// SQLiteConfig configures the SQLite sink.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig configures the Redis sink.
type RedisConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	Cluster      bool          `yaml:"cluster"`
	ClusterNodes []string      `yaml:"cluster_nodes,omitempty"`
	PoolSize     int           `yaml:"pool_size"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	// TTL bounds how long a session snapshot is kept. 0 keeps it forever.
	TTL time.Duration `yaml:"ttl"`
}

// LoggingConfig holds log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	opts := behavior.DefaultOptions()
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Recorder: RecorderConfig{
			TrackClickCount:    opts.TrackClickCount,
			TrackClickDetails:  opts.TrackClickDetails,
			TrackMouseMovement: opts.TrackMouseMovement,
			TrackVisibility:    opts.TrackVisibility,
			TrackKeyLog:        opts.TrackKeyLog,
			FlushInterval:      opts.FlushInterval,
		},
		Sink: SinkConfig{
			Backend: SinkMemory,
			SQLite: SQLiteConfig{
				Path: "trailmark.db",
			},
			Redis: RedisConfig{
				Host:        "localhost",
				Port:        6379,
				PoolSize:    20,
				MaxRetries:  3,
				DialTimeout: 5 * time.Second,
				TTL:         24 * time.Hour,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the config is valid.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.Recorder.FlushInterval < 0 {
		return fmt.Errorf("recorder.flush_interval must not be negative, got %d", c.Recorder.FlushInterval)
	}
	if c.Recorder.MaxMouseMovements < 0 {
		return fmt.Errorf("recorder.max_mouse_movements must not be negative, got %d", c.Recorder.MaxMouseMovements)
	}
	if t := c.Recorder.ActionTrigger; t.Enabled && (t.Selector == "" || t.Event == "") {
		return fmt.Errorf("recorder.action_trigger needs both selector and event when enabled")
	}
	if err := c.Sink.Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch logging.NormalizeFormat(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging.format %q, must be one of: text, json", c.Logging.Format)
	}
	return nil
}

// Validate checks the selected backend's settings.
func (s SinkConfig) Validate() error {
	switch s.Backend {
	case SinkMemory:
	case SinkSQLite:
		if s.SQLite.Path == "" {
			return fmt.Errorf("sink.sqlite.path is required for the sqlite backend")
		}
	case SinkRedis:
		if s.Redis.Cluster {
			if len(s.Redis.ClusterNodes) == 0 {
				return fmt.Errorf("sink.redis.cluster_nodes is required when cluster=true")
			}
		} else {
			if s.Redis.Host == "" {
				return fmt.Errorf("sink.redis.host is required")
			}
			if s.Redis.Port <= 0 {
				return fmt.Errorf("sink.redis.port must be positive, got %d", s.Redis.Port)
			}
		}
		if s.Redis.TTL < 0 {
			return fmt.Errorf("sink.redis.ttl must not be negative, got %s", s.Redis.TTL)
		}
	default:
		return fmt.Errorf("unknown sink backend %q, must be one of: memory, sqlite, redis", s.Backend)
	}
	return nil
}

// Options converts the recorder section into recorder options. Clock,
// Logger and OnFlush are left for the caller.
func (r RecorderConfig) Options() behavior.Options {
	opts := behavior.Options{
		TrackClickCount:    r.TrackClickCount,
		TrackClickDetails:  r.TrackClickDetails,
		TrackMouseMovement: r.TrackMouseMovement,
		TrackVisibility:    r.TrackVisibility,
		TrackKeyLog:        r.TrackKeyLog,
		FlushInterval:      r.FlushInterval,
		MaxMouseMovements:  r.MaxMouseMovements,
	}
	if r.ActionTrigger.Enabled {
		opts.ActionTrigger = &behavior.ActionTrigger{
			Enabled:  true,
			Selector: r.ActionTrigger.Selector,
			Event:    r.ActionTrigger.Event,
		}
	}
	return opts
}

// LoadFile reads a YAML (or JSON) config file and merges it over defaults.
// Fields not specified in the file retain their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// WriteExample writes the default config as an annotated YAML file.
func WriteExample(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encoding example config: %w", err)
	}
	header := "# trailmark configuration. Command-line flags override these values.\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
