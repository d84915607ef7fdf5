package services

import (
	"hash/fnv"
	"sync"
	"time"
)

const lockStripes = 64

// IdempotencyGuard serializes concurrent deliveries for the same payment and
// suppresses byte-identical redeliveries for a short window.
//
// The digest cache is process-local and best-effort: the store's
// compare-and-swap plus the state machine's no-op rules are what guarantee
// correctness. The cache only saves a database round trip on the common
// gateway-timeout redelivery.
type IdempotencyGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time

	locks [lockStripes]sync.Mutex
}

func NewIdempotencyGuard(ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{
		ttl:  ttl,
		seen: make(map[string]time.Time),
	}
}

// SeenRecently reports whether a payload with this digest was processed
// within the TTL window.
func (g *IdempotencyGuard) SeenRecently(digest string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	at, ok := g.seen[digest]
	if !ok {
		return false
	}
	if time.Since(at) > g.ttl {
		delete(g.seen, digest)
		return false
	}
	return true
}

// MarkProcessed records a digest after its delivery reached a settled
// outcome. Expired entries are evicted opportunistically.
func (g *IdempotencyGuard) MarkProcessed(digest string) {
	now := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()
	for d, at := range g.seen {
		if now.Sub(at) > g.ttl {
			delete(g.seen, d)
		}
	}
	g.seen[digest] = now
}

// LockKey serializes processing per payment key. Locks are striped, so two
// distinct payments may occasionally share a mutex; different payments never
// need mutual ordering, so that only costs a little parallelism, never
// correctness.
func (g *IdempotencyGuard) LockKey(key string) (unlock func()) {
	h := fnv.New32a()
	h.Write([]byte(key))
	m := &g.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
