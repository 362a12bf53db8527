// internal/cache/rounds_test.go

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/database"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/logger"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/matchday/partition"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*AssignmentCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl, logger.NewTestLogger(t)), mr
}

func testGroup() partition.Group {
	day := time.Date(2020, 8, 15, 0, 0, 0, 0, time.UTC)
	return partition.Group{
		Season: models.TournamentSeason{Tournament: "laliga", Season: "2020"},
		Matches: []models.Match{
			{ID: "m1", Date: day, RawDate: "15.08.2020", Home: "A", Away: "B"},
			{ID: "m2", Date: day, RawDate: "15.08.2020", Home: "C", Away: "D"},
		},
	}
}

func TestLookup_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	group := testGroup()

	_, ok := c.Lookup(ctx, group)
	assert.False(t, ok)

	c.Store(ctx, group, []int{1, 1})

	assignment, ok := c.Lookup(ctx, group)
	require.True(t, ok)
	assert.Equal(t, []int{1, 1}, assignment)
}

func TestFingerprint_ChangesWithInput(t *testing.T) {
	group := testGroup()
	base := Fingerprint(group)

	changed := testGroup()
	changed.Matches[1].Away = "E"
	assert.NotEqual(t, base, Fingerprint(changed))

	reordered := testGroup()
	reordered.Matches[0], reordered.Matches[1] = reordered.Matches[1], reordered.Matches[0]
	assert.NotEqual(t, base, Fingerprint(reordered))

	assert.Equal(t, base, Fingerprint(testGroup()))
}

func TestStore_SetsTTL(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Minute)
	group := testGroup()

	c.Store(context.Background(), group, []int{1, 1})

	ttl := mr.TTL(key(group))
	assert.Equal(t, 30*time.Minute, ttl)
}

func TestLookup_UndecodableEntryIgnored(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	group := testGroup()

	require.NoError(t, mr.Set(key(group), "not-json"))

	_, ok := c.Lookup(context.Background(), group)
	assert.False(t, ok)
}

func TestLookup_ServerDownDegradesToMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()
	group := testGroup()

	c.Store(ctx, group, []int{1, 1})
	mr.Close()

	_, ok := c.Lookup(ctx, group)
	assert.False(t, ok)

	// Store after the outage must not panic either.
	c.Store(ctx, group, []int{1, 1})
}

func TestInvalidate_ForcesMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	group := testGroup()

	c.Store(ctx, group, []int{1, 1})
	_, ok := c.Lookup(ctx, group)
	require.True(t, ok)

	c.Invalidate(ctx, group)

	_, ok = c.Lookup(ctx, group)
	assert.False(t, ok)
}

func TestKey_IncludesSeasonAndFingerprint(t *testing.T) {
	group := testGroup()
	k := key(group)
	assert.Contains(t, k, "rounds:laliga:2020:")
	assert.Contains(t, k, Fingerprint(group))
}
