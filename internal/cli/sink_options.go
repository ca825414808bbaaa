package cli

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
)

type sinkOptions struct {
	backend           string
	sqlitePath        string
	redisHost         string
	redisPort         int
	redisPassword     string
	redisDB           int
	redisCluster      bool
	redisClusterNodes []string
	redisPoolSize     int
	redisMaxRetries   int
	redisDialTimeout  time.Duration
	redisTTL          time.Duration
}

func defaultSinkOptions() sinkOptions {
	def := config.Default().Sink
	return sinkOptions{
		backend:          def.Backend,
		sqlitePath:       def.SQLite.Path,
		redisHost:        def.Redis.Host,
		redisPort:        def.Redis.Port,
		redisPoolSize:    def.Redis.PoolSize,
		redisMaxRetries:  def.Redis.MaxRetries,
		redisDialTimeout: def.Redis.DialTimeout,
		redisTTL:         def.Redis.TTL,
	}
}

func (o *sinkOptions) addFlags(cmd *cobra.Command) {
	def := defaultSinkOptions()
	cmd.Flags().StringVar(&o.backend, "sink", def.backend, "snapshot sink (memory, sqlite, redis)")
	cmd.Flags().StringVar(&o.sqlitePath, "sqlite-path", def.sqlitePath, "sqlite database file for the sqlite sink")
	cmd.Flags().StringVar(&o.redisHost, "redis-host", def.redisHost, "redis host (or host:port)")
	cmd.Flags().IntVar(&o.redisPort, "redis-port", def.redisPort, "redis port")
	cmd.Flags().StringVar(&o.redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&o.redisDB, "redis-db", 0, "redis database index")
	cmd.Flags().BoolVar(&o.redisCluster, "redis-cluster", false, "enable redis cluster mode")
	cmd.Flags().StringSliceVar(&o.redisClusterNodes, "redis-cluster-nodes", nil, "redis cluster nodes host:port list")
	cmd.Flags().IntVar(&o.redisPoolSize, "redis-pool-size", def.redisPoolSize, "redis connection pool size")
	cmd.Flags().IntVar(&o.redisMaxRetries, "redis-max-retries", def.redisMaxRetries, "redis max retries")
	cmd.Flags().DurationVar(&o.redisDialTimeout, "redis-dial-timeout", def.redisDialTimeout, "redis dial timeout")
	cmd.Flags().DurationVar(&o.redisTTL, "redis-ttl", def.redisTTL, "how long redis keeps a session snapshot (0 = forever)")
}

func (o *sinkOptions) applyConfigIfUnset(cmd *cobra.Command, cfg *config.SinkConfig) {
	if cfg == nil {
		return
	}

	if !cmd.Flags().Changed("sink") {
		o.backend = cfg.Backend
	}
	if !cmd.Flags().Changed("sqlite-path") {
		o.sqlitePath = cfg.SQLite.Path
	}
	if !cmd.Flags().Changed("redis-host") {
		o.redisHost = cfg.Redis.Host
	}
	if !cmd.Flags().Changed("redis-port") {
		o.redisPort = cfg.Redis.Port
	}
	if !cmd.Flags().Changed("redis-password") {
		o.redisPassword = cfg.Redis.Password
	}
	if !cmd.Flags().Changed("redis-db") {
		o.redisDB = cfg.Redis.DB
	}
	if !cmd.Flags().Changed("redis-cluster") {
		o.redisCluster = cfg.Redis.Cluster
	}
	if !cmd.Flags().Changed("redis-cluster-nodes") {
		o.redisClusterNodes = cfg.Redis.ClusterNodes
	}
	if !cmd.Flags().Changed("redis-pool-size") {
		o.redisPoolSize = cfg.Redis.PoolSize
	}
	if !cmd.Flags().Changed("redis-max-retries") {
		o.redisMaxRetries = cfg.Redis.MaxRetries
	}
	if !cmd.Flags().Changed("redis-dial-timeout") {
		o.redisDialTimeout = cfg.Redis.DialTimeout
	}
	if !cmd.Flags().Changed("redis-ttl") {
		o.redisTTL = cfg.Redis.TTL
	}
}

func (o *sinkOptions) normalize() error {
	if o.backend != config.SinkRedis || o.redisCluster {
		return nil
	}

	host, port, err := normalizeRedisHostPort(o.redisHost, o.redisPort)
	if err != nil {
		return err
	}
	o.redisHost = host
	o.redisPort = port
	return nil
}

func (o *sinkOptions) toConfig() config.SinkConfig {
	return config.SinkConfig{
		Backend: o.backend,
		SQLite: config.SQLiteConfig{
			Path: o.sqlitePath,
		},
		Redis: config.RedisConfig{
			Host:         o.redisHost,
			Port:         o.redisPort,
			Password:     o.redisPassword,
			DB:           o.redisDB,
			Cluster:      o.redisCluster,
			ClusterNodes: append([]string(nil), o.redisClusterNodes...),
			PoolSize:     o.redisPoolSize,
			MaxRetries:   o.redisMaxRetries,
			DialTimeout:  o.redisDialTimeout,
			TTL:          o.redisTTL,
		},
	}
}

func normalizeRedisHostPort(host string, port int) (string, int, error) {
	if strings.Contains(host, ":") {
		h, p, err := net.SplitHostPort(host)
		if err != nil {
			return "", 0, fmt.Errorf("invalid --redis-host value %q: %w", host, err)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid redis port in --redis-host %q: %w", host, err)
		}
		host = h
		port = n
	}

	if host == "" {
		return "", 0, fmt.Errorf("redis host cannot be empty")
	}
	if port <= 0 {
		return "", 0, fmt.Errorf("redis port must be positive, got %d", port)
	}

	return host, port, nil
}
