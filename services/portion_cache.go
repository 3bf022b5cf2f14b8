package services

import (
	"container/list"
	"encoding/base64"
	"sync"
	"time"
)

// PortionCache memoizes resolution results. Purely an optimization:
// resolution must behave identically with NoopPortionCache plugged in.
type PortionCache interface {
	Get(key string) (*PortionResult, bool)
	Put(key string, result PortionResult)
}

const (
	portionCacheSize = 100
	portionCacheTTL  = 5 * time.Minute
)

type cacheEntry struct {
	key      string
	result   PortionResult
	storedAt time.Time
}

// Bounded TTL cache evicting the oldest-inserted entry when full.
// Safe for concurrent use; one writer at a time is plenty at this size.
type portionLRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	order    *list.List // oldest insert at front
	entries  map[string]*list.Element
}

func NewPortionCache() *portionLRU {
	return &portionLRU{
		capacity: portionCacheSize,
		ttl:      portionCacheTTL,
		now:      time.Now,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

func (c *portionLRU) Get(key string) (*PortionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, false
	}
	result := entry.result
	return &result, true
}

func (c *portionLRU) Put(key string, result PortionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.result = result
		entry.storedAt = c.now()
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, result: result, storedAt: c.now()})
}

// NoopPortionCache disables memoization; used by tests and one-shot tools.
type NoopPortionCache struct{}

func (NoopPortionCache) Get(string) (*PortionResult, bool) { return nil, false }
func (NoopPortionCache) Put(string, PortionResult)         {}

// PortionCacheKey builds the composite lookup key: barcode (or id, or a
// name prefix when unbranded) plus a short digest of the OCR text, so the
// same product photographed with a different label state resolves fresh.
func PortionCacheKey(product ProductData, ocrText string) string {
	id := product.Barcode
	if id == "" {
		name := product.Name
		if len(name) > 20 {
			name = name[:20]
		}
		id = name
	}

	ocrHash := ""
	if ocrText != "" {
		sample := ocrText
		if len(sample) > 100 {
			sample = sample[:100]
		}
		encoded := base64.StdEncoding.EncodeToString([]byte(sample))
		if len(encoded) > 8 {
			encoded = encoded[:8]
		}
		ocrHash = encoded
	}

	return id + "_" + ocrHash
}
