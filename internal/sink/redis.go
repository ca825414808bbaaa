package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/config"
)

const (
	defaultRedisPoolSize    = 20
	defaultRedisMaxRetries  = 3
	defaultRedisDialTimeout = 5 * time.Second

	redisSnapshotPrefix = "trailmark:snap:"
	redisSessionIndex   = "trailmark:sessions"
)

// RedisSink stores the latest snapshot of each session as a JSON string
// and indexes sessions in a sorted set scored by save time.
type RedisSink struct {
	client redis.UniversalClient
	clock  clock.Clock
	ttl    time.Duration

	closeOnce sync.Once
	closeErr  error
}

// NewRedisSink constructs a Redis backend and verifies connectivity.
func NewRedisSink(cfg *config.RedisConfig, c clock.Clock) (*RedisSink, error) {
	conf, err := normalizeRedisConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &RedisSink{
		client: newRedisClient(conf),
		clock:  c,
		ttl:    conf.TTL,
	}

	if err := s.pingWithRetry(context.Background(), conf.MaxRetries); err != nil {
		_ = s.client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return s, nil
}

func (s *RedisSink) Save(ctx context.Context, sessionID string, results behavior.Results) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	snap := Snapshot{
		SessionID: sessionID,
		SavedAt:   s.clock.Now().UnixMilli(),
		Results:   results,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisSnapshotPrefix+sessionID, data, s.ttl)
		p.ZAdd(ctx, redisSessionIndex, redis.Z{Score: float64(snap.SavedAt), Member: sessionID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func (s *RedisSink) Latest(ctx context.Context, sessionID string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, redisSnapshotPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", sessionID, err)
	}
	return &snap, nil
}

// List walks the session index. Sessions whose snapshot expired are
// dropped from the index as they are found.
func (s *RedisSink) List(ctx context.Context) ([]Snapshot, error) {
	ids, err := s.client.ZRange(ctx, redisSessionIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading session index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.StringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.Get(ctx, redisSnapshotPrefix+id)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}

	out := make([]Snapshot, 0, len(ids))
	var expired []any
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			expired = append(expired, ids[i])
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading snapshot %s: %w", ids[i], err)
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot %s: %w", ids[i], err)
		}
		out = append(out, snap)
	}
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, redisSessionIndex, expired...).Err(); err != nil {
			return nil, fmt.Errorf("pruning session index: %w", err)
		}
	}

	sortSnapshots(out)
	return out, nil
}

// Close releases Redis resources. It is idempotent.
func (s *RedisSink) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}

func (s *RedisSink) pingWithRetry(ctx context.Context, maxRetries int) error {
	attempts := max(maxRetries+1, 1)

	backoff := 100 * time.Millisecond
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := s.client.Ping(ctx).Err()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}

func normalizeRedisConfig(cfg *config.RedisConfig) (*config.RedisConfig, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}

	conf := *cfg
	if conf.PoolSize <= 0 {
		conf.PoolSize = defaultRedisPoolSize
	}
	if conf.MaxRetries <= 0 {
		conf.MaxRetries = defaultRedisMaxRetries
	}
	if conf.DialTimeout <= 0 {
		conf.DialTimeout = defaultRedisDialTimeout
	}
	if conf.TTL < 0 {
		return nil, fmt.Errorf("ttl must not be negative, got %s", conf.TTL)
	}

	if conf.Cluster {
		if len(conf.ClusterNodes) == 0 {
			return nil, fmt.Errorf("cluster_nodes is required when cluster=true")
		}
	} else {
		if conf.Host == "" {
			return nil, fmt.Errorf("host is required when cluster=false")
		}
		if conf.Port <= 0 {
			return nil, fmt.Errorf("port must be positive when cluster=false, got %d", conf.Port)
		}
	}
	return &conf, nil
}

func newRedisClient(cfg *config.RedisConfig) redis.UniversalClient {
	if cfg.Cluster {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:       cfg.ClusterNodes,
			Password:    cfg.Password,
			PoolSize:    cfg.PoolSize,
			MaxRetries:  cfg.MaxRetries,
			DialTimeout: cfg.DialTimeout,
		})
	}

	return redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: cfg.DialTimeout,
	})
}
