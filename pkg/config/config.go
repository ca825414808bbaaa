package config

import internalconfig "github.com/SmitUplenchwar2687/Trailmark/internal/config"

// Config is the top-level configuration for a trailmark service.
type Config = internalconfig.Config

// ServerConfig holds HTTP server settings.
type ServerConfig = internalconfig.ServerConfig

// RecorderConfig holds recorder settings.
type RecorderConfig = internalconfig.RecorderConfig

// ActionTriggerConfig configures flushing on a custom element event.
type ActionTriggerConfig = internalconfig.ActionTriggerConfig

// SinkConfig selects and configures the snapshot sink.
type SinkConfig = internalconfig.SinkConfig

// SQLiteConfig configures the SQLite sink.
type SQLiteConfig = internalconfig.SQLiteConfig

// RedisConfig configures the Redis sink.
type RedisConfig = internalconfig.RedisConfig

// LoggingConfig holds log level and format.
type LoggingConfig = internalconfig.LoggingConfig

// Default returns a Config with sensible defaults.
func Default() Config {
	return internalconfig.Default()
}

// LoadFile reads a YAML config file and merges it with defaults.
func LoadFile(path string) (Config, error) {
	return internalconfig.LoadFile(path)
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	return internalconfig.WriteExample(path)
}
