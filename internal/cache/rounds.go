// internal/cache/rounds.go

// Package cache stores computed round assignments in Redis. The round
// builder is deterministic over a sorted match list, so entries are
// keyed by a fingerprint of the input and replayed exactly.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/database"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/logger"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/partition"
)

// AssignmentCache is a Redis-backed implementation of rounds.Cache.
// Every Redis failure degrades to recomputation; the cache never makes
// a run fail.
type AssignmentCache struct {
	client *database.RedisClient
	ttl    time.Duration
	log    logger.Logger
}

// New creates an AssignmentCache. A non-positive ttl means entries do
// not expire.
func New(client *database.RedisClient, ttl time.Duration, log logger.Logger) *AssignmentCache {
	if ttl < 0 {
		ttl = 0
	}
	return &AssignmentCache{client: client, ttl: ttl, log: log}
}

// Fingerprint hashes the fields the builder depends on, in the group's
// sorted order. Any change to the match list produces a new key.
func Fingerprint(group partition.Group) string {
	h := sha256.New()
	for _, m := range group.Matches {
		seq := ""
		if m.HasDateNumber {
			seq = strconv.Itoa(m.DateNumber)
		}
		fmt.Fprintf(h, "%s|%s|%s|%s|%s\n", m.ID, m.RawDate, seq, m.Home, m.Away)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func key(group partition.Group) string {
	return fmt.Sprintf("rounds:%s:%s:%s", group.Season.Tournament, group.Season.Season, Fingerprint(group))
}

// Lookup fetches a cached assignment for the group.
func (c *AssignmentCache) Lookup(ctx context.Context, group partition.Group) ([]int, bool) {
	k := key(group)
	payload, err := c.client.Get(ctx, k)
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.WithError(errors.NewCacheUnavailableError(err)).Warn("cache lookup failed", map[string]interface{}{
			"key": k,
		})
		return nil, false
	}

	var assignment []int
	if err := json.Unmarshal([]byte(payload), &assignment); err != nil {
		c.log.Warn("cache entry undecodable", map[string]interface{}{
			"key":   k,
			"error": err.Error(),
		})
		return nil, false
	}
	return assignment, true
}

// Store writes the assignment computed for the group.
func (c *AssignmentCache) Store(ctx context.Context, group partition.Group, assignment []int) {
	payload, err := json.Marshal(assignment)
	if err != nil {
		return
	}
	k := key(group)
	if err := c.client.Set(ctx, k, payload, c.ttl); err != nil {
		c.log.WithError(errors.NewCacheUnavailableError(err)).Warn("cache store failed", map[string]interface{}{
			"key": k,
		})
	}
}

// Invalidate drops the entry for the group, forcing the next run to
// rebuild it.
func (c *AssignmentCache) Invalidate(ctx context.Context, group partition.Group) {
	k := key(group)
	if err := c.client.Del(ctx, k); err != nil {
		c.log.WithError(errors.NewCacheUnavailableError(err)).Warn("cache invalidation failed", map[string]interface{}{
			"key": k,
		})
	}
}
