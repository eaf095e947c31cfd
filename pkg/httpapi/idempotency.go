package httpapi

import (
	"container/list"
	"sync"

	"github.com/google/uuid"
)

// idempotencyCacheSize bounds the number of recently-seen
// (key_id, client uuid) pairs POST /v1/torrents remembers per spec
// §4.11: request-level dedup only, not cross-restart durability, so a
// small bounded LRU suffices in place of a database round trip.
const idempotencyCacheSize = 4096

// idempotencyCache is a bounded LRU of idempotency_key -> created
// torrent id, grounded on the reference stack's container/list-backed
// cache (engine/resources/manager.go): a doubly-linked list for
// recency order plus a map for O(1) lookup, evicting the list's back
// element past capacity.
type idempotencyCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type idempotencyEntry struct {
	key string
	id  uuid.UUID
}

func newIdempotencyCache(capacity int) *idempotencyCache {
	return &idempotencyCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// scopedKey combines the caller's api key id (or "anonymous") with the
// client-supplied idempotency key so two different keys can't collide
// on the same UUID.
func scopedKey(apiKeyID, idempotencyKey string) string {
	if apiKeyID == "" {
		apiKeyID = "anonymous"
	}
	return apiKeyID + ":" + idempotencyKey
}

// lookup returns the torrent id previously created for key, if any.
func (c *idempotencyCache) lookup(key string) (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return uuid.Nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*idempotencyEntry).id, true
}

// put records that key produced id, evicting the least-recently-used
// entry if the cache is at capacity.
func (c *idempotencyCache) put(key string, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*idempotencyEntry).id = id
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&idempotencyEntry{key: key, id: id})
	c.entries[key] = el
	if c.order.Len() > c.capacity {
		back := c.order.Back()
		if back != nil {
			c.order.Remove(back)
			delete(c.entries, back.Value.(*idempotencyEntry).key)
		}
	}
}
