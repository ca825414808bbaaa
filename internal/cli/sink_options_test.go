package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
)

func TestNormalizeRedisHostPort(t *testing.T) {
	host, port, err := normalizeRedisHostPort("localhost:6380", 6379)
	if err != nil {
		t.Fatalf("normalizeRedisHostPort() error = %v", err)
	}
	if host != "localhost" || port != 6380 {
		t.Fatalf("normalizeRedisHostPort() = %s:%d, want localhost:6380", host, port)
	}

	host, port, err = normalizeRedisHostPort("redis.internal", 6379)
	if err != nil {
		t.Fatalf("normalizeRedisHostPort() error = %v", err)
	}
	if host != "redis.internal" || port != 6379 {
		t.Fatalf("normalizeRedisHostPort() = %s:%d, want redis.internal:6379", host, port)
	}
}

func TestNormalizeRedisHostPort_Invalid(t *testing.T) {
	if _, _, err := normalizeRedisHostPort("", 6379); err == nil {
		t.Fatal("expected error for empty host")
	}
	if _, _, err := normalizeRedisHostPort("localhost", 0); err == nil {
		t.Fatal("expected error for non-positive port")
	}
	if _, _, err := normalizeRedisHostPort("localhost:abc", 6379); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func newSinkFlagCmd(o *sinkOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	o.addFlags(cmd)
	return cmd
}

func TestSinkOptions_ConfigFillsUnsetFlags(t *testing.T) {
	var o sinkOptions
	cmd := newSinkFlagCmd(&o)
	if err := cmd.ParseFlags([]string{"--redis-port", "7000"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg := config.Default().Sink
	cfg.Backend = config.SinkRedis
	cfg.Redis.Host = "cache.internal"
	cfg.Redis.Port = 6390
	cfg.Redis.TTL = time.Hour

	o.applyConfigIfUnset(cmd, &cfg)
	got := o.toConfig()

	if got.Backend != config.SinkRedis {
		t.Errorf("Backend = %q, want redis", got.Backend)
	}
	if got.Redis.Host != "cache.internal" {
		t.Errorf("Host = %q, want cache.internal", got.Redis.Host)
	}
	if got.Redis.Port != 7000 {
		t.Errorf("Port = %d, want flag value 7000", got.Redis.Port)
	}
	if got.Redis.TTL != time.Hour {
		t.Errorf("TTL = %s, want 1h", got.Redis.TTL)
	}
}

func TestSinkOptions_NilConfig(t *testing.T) {
	var o sinkOptions
	cmd := newSinkFlagCmd(&o)
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	o.applyConfigIfUnset(cmd, nil)

	if got := o.toConfig(); got.Backend != config.SinkMemory || got.SQLite.Path != "trailmark.db" {
		t.Errorf("toConfig() = %+v, want defaults", got)
	}
}

func TestSinkOptions_NormalizeSplitsHost(t *testing.T) {
	o := defaultSinkOptions()
	o.backend = config.SinkRedis
	o.redisHost = "10.0.0.5:6381"

	if err := o.normalize(); err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if o.redisHost != "10.0.0.5" || o.redisPort != 6381 {
		t.Errorf("normalize() = %s:%d, want 10.0.0.5:6381", o.redisHost, o.redisPort)
	}
}

func TestSinkOptions_NormalizeIgnoresOtherBackends(t *testing.T) {
	o := defaultSinkOptions()
	o.redisHost = "not a host:port:pair"

	if err := o.normalize(); err != nil {
		t.Fatalf("normalize() error = %v for memory backend", err)
	}
}
