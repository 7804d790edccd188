package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresenceWithRedis(t *testing.T) (*Presence, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewPresence(rdb), rdb
}

func TestPresence_LocalOnly(t *testing.T) {
	t.Parallel()

	p := NewPresence(nil)
	ctx := context.Background()

	assert.False(t, p.Online(ctx, 1))

	p.Track(ctx, 1)
	p.Track(ctx, 1)
	assert.True(t, p.Online(ctx, 1))

	p.Release(ctx, 1)
	assert.True(t, p.Online(ctx, 1), "one connection still open")

	p.Release(ctx, 1)
	assert.False(t, p.Online(ctx, 1))

	p.Stop()
}

func TestPresence_TrackWritesRedisKeys(t *testing.T) {
	t.Parallel()

	p, rdb := newPresenceWithRedis(t)
	ctx := context.Background()

	p.Track(ctx, 33)

	isMember, err := rdb.SIsMember(ctx, presenceOnlineSetKey, "33").Result()
	require.NoError(t, err)
	assert.True(t, isMember)

	ttl, err := rdb.TTL(ctx, presenceLastSeenNS+"33").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	p.Stop()
}

func TestPresence_OnlineFallsBackToRedis(t *testing.T) {
	t.Parallel()

	p, rdb := newPresenceWithRedis(t)
	ctx := context.Background()

	// Presence written by another instance, no local connection here.
	require.NoError(t, rdb.SAdd(ctx, presenceOnlineSetKey, "77").Err())
	require.NoError(t, rdb.SetEx(ctx, presenceLastSeenNS+"77", "now", presenceTTL).Err())

	assert.True(t, p.Online(ctx, 77))
}

func TestPresence_ReconnectWithinGraceKeepsPresence(t *testing.T) {
	t.Parallel()

	p, rdb := newPresenceWithRedis(t)
	ctx := context.Background()

	p.Track(ctx, 5)
	p.Release(ctx, 5)
	p.Track(ctx, 5)

	// The reconnect cancelled the pending grace timer, so running the
	// expiry path leaves the Redis entry alone.
	p.expire(ctx, 5)

	exists, err := rdb.Exists(ctx, presenceLastSeenNS+"5").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, exists)
	assert.True(t, p.Online(ctx, 5))

	p.Stop()
}

func TestPresence_ExpireRemovesStaleSetMember(t *testing.T) {
	t.Parallel()

	p, rdb := newPresenceWithRedis(t)
	ctx := context.Background()

	p.Track(ctx, 12)
	p.Release(ctx, 12)

	// Simulate the last-seen TTL lapsing before the grace timer fires.
	require.NoError(t, rdb.Del(ctx, presenceLastSeenNS+"12").Err())
	p.expire(ctx, 12)

	isMember, err := rdb.SIsMember(ctx, presenceOnlineSetKey, "12").Result()
	require.NoError(t, err)
	assert.False(t, isMember)

	p.Stop()
}

func TestPresence_OnlineIDsPrunesStaleMembers(t *testing.T) {
	t.Parallel()

	p, rdb := newPresenceWithRedis(t)
	ctx := context.Background()

	// Live remote user: set member with a fresh last-seen key.
	require.NoError(t, rdb.SAdd(ctx, presenceOnlineSetKey, "20").Err())
	require.NoError(t, rdb.SetEx(ctx, presenceLastSeenNS+"20", "now", presenceTTL).Err())

	// Stale remote user: set member whose last-seen key expired.
	require.NoError(t, rdb.SAdd(ctx, presenceOnlineSetKey, "21").Err())

	// Local user without any Redis state.
	p.Track(ctx, 22)
	require.NoError(t, rdb.Del(ctx, presenceLastSeenNS+"22").Err())
	require.NoError(t, rdb.SRem(ctx, presenceOnlineSetKey, "22").Err())

	ids := p.OnlineIDs(ctx)
	assert.ElementsMatch(t, []uint{20, 22}, ids)

	isMember, err := rdb.SIsMember(ctx, presenceOnlineSetKey, "21").Result()
	require.NoError(t, err)
	assert.False(t, isMember, "stale member should be pruned")

	p.Stop()
}
