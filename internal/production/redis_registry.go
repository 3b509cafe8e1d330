package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/primitives"
)

// RedisRegistry implements core.Registry using Redis.
//
// Layout under the prefix:
//
//	index                 ZSET of chart names (score 0, lexicographic)
//	chart:<name>:seq      registration counter
//	chart:<name>:versions ZSET of versions scored by registration order
//	chart:<name>:v:<ver>  JSON ChartVersion, expiring after the TTL if set
type RedisRegistry struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ core.Registry = (*RedisRegistry)(nil)

type RedisOption func(*RedisRegistry)

// WithTTL sets the expiration for stored documents.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *RedisRegistry) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisRegistry) {
		r.prefix = prefix
	}
}

// NewRedisRegistry creates a registry with its own client.
func NewRedisRegistry(address, password string, db int, opts ...RedisOption) *RedisRegistry {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisRegistryFromClient(rdb, opts...)
}

// NewRedisRegistryFromClient creates a registry over an existing client.
func NewRedisRegistryFromClient(client *backend.Client, opts ...RedisOption) *RedisRegistry {
	r := &RedisRegistry{
		client: client,
		prefix: "chartpath:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisRegistry) indexKey() string {
	return r.prefix + "index"
}

func (r *RedisRegistry) chartKey(name, suffix string) string {
	return r.prefix + "chart:" + name + ":" + suffix
}

func (r *RedisRegistry) docKey(name, version string) string {
	return r.chartKey(name, "v:"+version)
}

func (r *RedisRegistry) Register(ctx context.Context, name string, cfg *primitives.ChartConfig) (string, error) {
	if err := checkRegistration(name, cfg); err != nil {
		return "", err
	}
	version := primitives.ComputeVersion(cfg)

	// A version whose document expired is stored again under a fresh sequence.
	stored, err := r.client.Exists(ctx, r.docKey(name, version)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to check version: %w", err)
	}
	if stored > 0 {
		return version, nil
	}

	seq, err := r.client.Incr(ctx, r.chartKey(name, "seq")).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate sequence: %w", err)
	}

	data, err := json.Marshal(&core.ChartVersion{
		Name:      name,
		Version:   version,
		Config:    cfg,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chart: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.docKey(name, version), data, r.ttl)
	pipe.ZAdd(ctx, r.chartKey(name, "versions"), backend.Z{Score: float64(seq), Member: version})
	pipe.ZAdd(ctx, r.indexKey(), backend.Z{Score: 0, Member: name})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to save to redis: %w", err)
	}
	return version, nil
}

func (r *RedisRegistry) Latest(ctx context.Context, name string) (*core.ChartVersion, error) {
	versions, err := r.liveVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("chart %q: %w", name, core.ErrChartNotFound)
	}
	return r.Version(ctx, name, versions[0])
}

func (r *RedisRegistry) Version(ctx context.Context, name, version string) (*core.ChartVersion, error) {
	val, err := r.client.Get(ctx, r.docKey(name, version)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("chart %q version %q: %w", name, version, core.ErrChartNotFound)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var cv core.ChartVersion
	if err := json.Unmarshal([]byte(val), &cv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chart: %w", err)
	}
	return &cv, nil
}

func (r *RedisRegistry) ListVersions(ctx context.Context, name string) ([]string, error) {
	versions, err := r.liveVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("chart %q: %w", name, core.ErrChartNotFound)
	}
	return versions, nil
}

// liveVersions returns the versions of name whose documents still exist, newest first.
// Versions whose documents expired are removed from the version set.
func (r *RedisRegistry) liveVersions(ctx context.Context, name string) ([]string, error) {
	key := r.chartKey(name, "versions")
	versions, err := r.client.ZRevRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	if len(versions) == 0 || r.ttl == 0 {
		return versions, nil
	}

	pipe := r.client.Pipeline()
	exists := make([]*backend.IntCmd, len(versions))
	for i, v := range versions {
		exists[i] = pipe.Exists(ctx, r.docKey(name, v))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check versions: %w", err)
	}

	live := make([]string, 0, len(versions))
	var expired []any
	for i, v := range versions {
		if exists[i].Val() > 0 {
			live = append(live, v)
		} else {
			expired = append(expired, v)
		}
	}
	if len(expired) > 0 {
		if err := r.client.ZRem(ctx, key, expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune versions: %w", err)
		}
	}
	return live, nil
}

func (r *RedisRegistry) ListCharts(ctx context.Context) ([]string, error) {
	names, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}
	return names, nil
}

// Close closes the redis client.
func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
