package matching

import (
	"strings"
	"sync"

	"github.com/storelens/matcher/internal/catalog"
	"github.com/storelens/matcher/internal/domain"
)

// Deduplicator prevents duplicate acceptance within a single batch: once a
// (videoID, mentionName) pair has been resolved against a snapshot, the
// identical pair short-circuits to the cached outcome instead of rescoring.
// This keeps batch matching idempotent and spares the persistence layer
// duplicate writes.
type Deduplicator struct {
	mu     sync.RWMutex
	engine *Engine
	cache  map[dedupKey]domain.Outcome
}

type dedupKey struct {
	videoID string
	mention string
}

// NewDeduplicator wraps an engine with a per-batch cache. A Deduplicator
// is scoped to one catalog snapshot; create a fresh one per batch.
func NewDeduplicator(engine *Engine) *Deduplicator {
	return &Deduplicator{
		engine: engine,
		cache:  make(map[dedupKey]domain.Outcome),
	}
}

// Match resolves a mention, consulting the cache first. Safe for
// concurrent use across mentions.
func (d *Deduplicator) Match(m domain.Mention, snap *catalog.Snapshot) domain.Outcome {
	key := dedupKey{
		videoID: m.VideoID,
		mention: strings.ToLower(strings.TrimSpace(m.RawName)),
	}

	d.mu.RLock()
	cached, hit := d.cache[key]
	d.mu.RUnlock()
	if hit {
		return cached
	}

	outcome := d.engine.Match(m, snap)

	d.mu.Lock()
	d.cache[key] = outcome
	d.mu.Unlock()
	return outcome
}

// Size returns the number of cached pairs, for diagnostics.
func (d *Deduplicator) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cache)
}
