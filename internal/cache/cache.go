// Package cache keeps fetched tender listings in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/etenders"
	"github.com/spigell/tender-responder/internal/tender"
)

const (
	DefaultPrefix = "tender-responder:releases"
	DefaultTTL    = time.Hour

	dialTimeout = 5 * time.Second
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and checks the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// Cached wraps a listing source with a Redis cache. Redis failures never fail
// a search; they are logged and the wrapped source is used.
type Cached struct {
	Source etenders.Source
	Redis  redis.Cmdable
	TTL    time.Duration
	Prefix string

	logger *zap.Logger
	now    func() time.Time
}

func New(source etenders.Source, rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cached{
		Source: source,
		Redis:  rdb,
		TTL:    ttl,
		Prefix: DefaultPrefix,
		logger: logger,
		now:    time.Now,
	}
}

// Key is the cache key for a search made at the current time.
func (c *Cached) Key(p *etenders.SearchParams) string {
	params := p.WithDefaults()
	from, to := params.Window(c.now())
	return fmt.Sprintf("%s:%s:%s:%d:%d", c.Prefix, from, to, params.PageSize, params.MaxPages)
}

func (c *Cached) Search(ctx context.Context, p *etenders.SearchParams) (*tender.Listings, error) {
	key := c.Key(p)
	log := c.logger.With(zap.String("key", key))

	data, err := c.Redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var listings tender.Listings
		decodeErr := json.Unmarshal(data, &listings)
		if decodeErr == nil {
			log.Info("releases loaded from cache", zap.Int("count", listings.Len()))
			return &listings, nil
		}
		log.Warn("ignoring broken cache entry", zap.Error(decodeErr))
	case errors.Is(err, redis.Nil):
		log.Debug("cache miss")
	default:
		log.Warn("reading cache failed", zap.Error(err))
	}

	listings, err := c.Source.Search(ctx, p)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(listings)
	if err != nil {
		log.Warn("encoding releases for cache failed", zap.Error(err))
		return listings, nil
	}

	if err := c.Redis.Set(ctx, key, encoded, c.TTL).Err(); err != nil {
		log.Warn("writing cache failed", zap.Error(err))
	}

	return listings, nil
}
