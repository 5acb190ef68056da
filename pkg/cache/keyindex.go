package cache

import "sync"

// KeyIndex tracks which cache keys belong to which subject so that all
// entries scoped to a subject can be invalidated without enumerating the
// cache's internal key set. It also carries a per-subject generation counter,
// bumped on every invalidation: callers embed the generation in derived cache
// keys, so a read that races a write and stores its result after the
// invalidation writes under a stale key that no later read will consult.
type KeyIndex struct {
	mu          sync.Mutex
	keys        map[string]map[string]struct{}
	generations map[string]uint64
}

// NewKeyIndex creates an empty index.
func NewKeyIndex() *KeyIndex {
	return &KeyIndex{
		keys:        make(map[string]map[string]struct{}),
		generations: make(map[string]uint64),
	}
}

// Add associates a cache key with a subject. Adding the same pair twice is a
// no-op.
func (i *KeyIndex) Add(subject, key string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	set, ok := i.keys[subject]
	if !ok {
		set = make(map[string]struct{})
		i.keys[subject] = set
	}
	set[key] = struct{}{}
}

// Generation returns the subject's current invalidation generation.
func (i *KeyIndex) Generation(subject string) uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.generations[subject]
}

// Take removes and returns every key associated with the subject, bumping its
// generation. The caller is expected to delete the returned keys from the
// cache.
func (i *KeyIndex) Take(subject string) []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.generations[subject]++

	set, ok := i.keys[subject]
	if !ok {
		return nil
	}
	delete(i.keys, subject)

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}

// Invalidate deletes every cache entry associated with the subject from c
// and drops the association, bumping the subject's generation.
func (i *KeyIndex) Invalidate(c *Cache, subject string) {
	for _, key := range i.Take(subject) {
		c.Delete(key)
	}
}
