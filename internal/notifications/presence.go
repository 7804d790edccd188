package notifications

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	presenceOnlineSetKey = "ws:online_users"
	presenceLastSeenNS   = "ws:last_seen:"
	presenceTTL          = 90 * time.Second
	presenceOfflineGrace = 5 * time.Second
)

// Presence tracks which users currently hold a websocket connection. Local
// connection counts are authoritative for this process; Redis mirrors them
// with a TTL so peers behind other instances still look online. A short
// grace window on disconnect absorbs page reloads.
type Presence struct {
	rdb *redis.Client

	mu         sync.RWMutex
	connCounts map[uint]int
	graceTimer map[uint]*time.Timer
}

// NewPresence creates a presence tracker. A nil Redis client degrades to
// local-only tracking.
func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{
		rdb:        rdb,
		connCounts: make(map[uint]int),
		graceTimer: make(map[uint]*time.Timer),
	}
}

// Track records a new connection for the user and refreshes Redis presence.
func (p *Presence) Track(ctx context.Context, userID uint) {
	p.mu.Lock()
	if t, ok := p.graceTimer[userID]; ok {
		t.Stop()
		delete(p.graceTimer, userID)
	}
	p.connCounts[userID]++
	p.mu.Unlock()

	p.Heartbeat(ctx, userID)
}

// Release records a dropped connection. The Redis entry is removed only
// after the grace window passes without a reconnect.
func (p *Presence) Release(ctx context.Context, userID uint) {
	p.mu.Lock()
	if n := p.connCounts[userID]; n > 1 {
		p.connCounts[userID] = n - 1
		p.mu.Unlock()
		return
	}
	delete(p.connCounts, userID)

	if t, ok := p.graceTimer[userID]; ok {
		t.Stop()
	}
	p.graceTimer[userID] = time.AfterFunc(presenceOfflineGrace, func() {
		p.expire(context.Background(), userID)
	})
	p.mu.Unlock()
}

// Heartbeat refreshes the user's presence TTL in Redis.
func (p *Presence) Heartbeat(ctx context.Context, userID uint) {
	if p.rdb == nil {
		return
	}
	uid := strconv.FormatUint(uint64(userID), 10)
	if err := p.rdb.SAdd(ctx, presenceOnlineSetKey, uid).Err(); err != nil {
		log.Printf("presence SADD failed for user %d: %v", userID, err)
	}
	if err := p.rdb.SetEx(ctx, presenceLastSeenNS+uid, strconv.FormatInt(time.Now().Unix(), 10), presenceTTL).Err(); err != nil {
		log.Printf("presence SETEX failed for user %d: %v", userID, err)
	}
}

// Online reports whether the user is connected here or, per Redis, anywhere.
func (p *Presence) Online(ctx context.Context, userID uint) bool {
	p.mu.RLock()
	local := p.connCounts[userID] > 0
	p.mu.RUnlock()
	if local || p.rdb == nil {
		return local
	}

	uid := strconv.FormatUint(uint64(userID), 10)
	exists, err := p.rdb.Exists(ctx, presenceLastSeenNS+uid).Result()
	return err == nil && exists > 0
}

// OnlineIDs returns the cluster-wide set of online user IDs, pruning stale
// Redis set members along the way.
func (p *Presence) OnlineIDs(ctx context.Context) []uint {
	seen := make(map[uint]struct{})
	var result []uint

	p.mu.RLock()
	for userID, count := range p.connCounts {
		if count > 0 {
			seen[userID] = struct{}{}
			result = append(result, userID)
		}
	}
	p.mu.RUnlock()

	if p.rdb == nil {
		return result
	}

	members, err := p.rdb.SMembers(ctx, presenceOnlineSetKey).Result()
	if err != nil {
		return result
	}
	for _, raw := range members {
		id64, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			continue
		}
		userID := uint(id64)
		if _, ok := seen[userID]; ok {
			continue
		}
		exists, existsErr := p.rdb.Exists(ctx, presenceLastSeenNS+raw).Result()
		if existsErr != nil {
			continue
		}
		if exists == 0 {
			_ = p.rdb.SRem(ctx, presenceOnlineSetKey, raw).Err()
			continue
		}
		seen[userID] = struct{}{}
		result = append(result, userID)
	}

	return result
}

// Stop cancels any pending grace timers.
func (p *Presence) Stop() {
	p.mu.Lock()
	for userID, t := range p.graceTimer {
		t.Stop()
		delete(p.graceTimer, userID)
	}
	p.mu.Unlock()
}

func (p *Presence) expire(ctx context.Context, userID uint) {
	p.mu.Lock()
	if p.connCounts[userID] > 0 {
		delete(p.graceTimer, userID)
		p.mu.Unlock()
		return
	}
	delete(p.graceTimer, userID)
	p.mu.Unlock()

	if p.rdb == nil {
		return
	}
	uid := strconv.FormatUint(uint64(userID), 10)
	exists, err := p.rdb.Exists(ctx, presenceLastSeenNS+uid).Result()
	if err == nil && exists > 0 {
		// Another instance refreshed presence. Keep the user online.
		return
	}
	_ = p.rdb.SRem(ctx, presenceOnlineSetKey, uid).Err()
}
