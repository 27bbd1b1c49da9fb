package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"registry-client/registry/domain"

	"github.com/redis/go-redis/v9"
)

type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal.
	// total e por grupo são cumulativos e não expiram.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "registry:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keys devolve as chaves tocadas por um evento (total, bucket, grupo).
func (s *RedisStatsStore) Keys(ev domain.StatsEvent) (total, bucket, group string) {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	total = s.prefix + ":total"
	if s.bucket == "minute" {
		bucket = fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	}
	if ev.Group != "" {
		group = s.prefix + ":group:" + ev.Group.APIValue()
	}
	return total, bucket, group
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	field := ev.Outcome
	if field == "" {
		field = "unknown"
	}
	totalKey, bucketKey, groupKey := s.Keys(ev)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, totalKey, field, 1)

	if bucketKey != "" {
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if groupKey != "" {
		pipe.HIncrBy(ctx, groupKey, field, 1)
		if ev.Type != "" {
			pipe.HIncrBy(ctx, groupKey+":type", string(ev.Type)+":"+field, 1)
		}
	}

	if ev.Wait > 0 {
		pipe.HIncrBy(ctx, s.prefix+":wait_ms", "sum", ev.Wait.Milliseconds())
		pipe.HIncrBy(ctx, s.prefix+":wait_ms", "count", 1)
	}

	_, err := pipe.Exec(ctx)
	return err
}
