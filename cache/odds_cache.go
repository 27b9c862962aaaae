package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// OddsCache is a Redis read-through cache for currently advertised odds.
// It only ever serves the display path; bet placement reads quotes inside
// its own transaction.
type OddsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and returns an odds cache over it
func Connect(ctx context.Context, addr string, ttl time.Duration) (*OddsCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &OddsCache{client: client, ttl: ttl}, nil
}

func key(matchID, teamID uuid.UUID) string {
	return fmt.Sprintf("odds:%s:%s", matchID, teamID)
}

// Get returns the cached odds for a (match, team) pair, if present
func (c *OddsCache) Get(ctx context.Context, matchID, teamID uuid.UUID) (decimal.Decimal, bool) {
	val, err := c.client.Get(ctx, key(matchID, teamID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("Odds cache read failed")
		}
		return decimal.Zero, false
	}

	odds, err := decimal.NewFromString(val)
	if err != nil {
		log.WithField("value", val).Warn("Odds cache holds an unparsable value")
		return decimal.Zero, false
	}

	return odds, true
}

// Set stores the odds for a (match, team) pair with the configured TTL.
// Cache failures are logged, never surfaced; the database stays the
// source of truth.
func (c *OddsCache) Set(ctx context.Context, matchID, teamID uuid.UUID, odds decimal.Decimal) {
	if err := c.client.Set(ctx, key(matchID, teamID), odds.String(), c.ttl).Err(); err != nil {
		log.WithError(err).Warn("Odds cache write failed")
	}
}

// Invalidate drops the cached odds for a (match, team) pair
func (c *OddsCache) Invalidate(ctx context.Context, matchID, teamID uuid.UUID) {
	if err := c.client.Del(ctx, key(matchID, teamID)).Err(); err != nil {
		log.WithError(err).Warn("Odds cache invalidation failed")
	}
}

// Close releases the underlying Redis connection
func (c *OddsCache) Close() error {
	return c.client.Close()
}
