package cache

import (
	"sync"

	"github.com/pgperffarm/farmplot/internal/util"
)

// DefaultMaxEntries bounds the cache when no size is given.
const DefaultMaxEntries = 64

// Entry is one cached rendition of a chart.
type Entry struct {
	Data        []byte
	ContentType string

	lastAccess uint64
}

// MemoryCache keeps recently rendered charts. When full, the least
// recently used entry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	maxEntries int
	clock      uint64
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]*Entry),
		maxEntries: maxEntries,
	}
}

func (mc *MemoryCache) Set(key string, entry *Entry) {
	if entry == nil {
		return
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.entries[key]; !exists && len(mc.entries) >= mc.maxEntries {
		mc.evictOldest()
	}
	mc.clock++
	entry.lastAccess = mc.clock
	mc.entries[key] = entry
}

func (mc *MemoryCache) Get(key string) (*Entry, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if ok {
		mc.clock++
		entry.lastAccess = mc.clock
	}
	return entry, ok
}

// Len returns the number of cached entries.
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.entries)
}

// Clear drops every entry.
func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	n := len(mc.entries)
	mc.entries = make(map[string]*Entry)
	util.LogDebugf("MemoryCache: cleared %d entries", n)
}

// evictOldest must be called with mu held.
func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest uint64
	first := true
	for k, e := range mc.entries {
		if first || e.lastAccess < oldest {
			oldestKey, oldest, first = k, e.lastAccess, false
		}
	}
	if !first {
		delete(mc.entries, oldestKey)
	}
}
