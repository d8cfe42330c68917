package erroranalyzer

import "container/list"

// embeddingCache is an LRU cache for phrase embeddings, capped at
// maxSize entries. container/list backs eviction order; no third-party
// LRU library appears anywhere in the example pack, so this is a
// deliberate, justified stdlib exception.
type embeddingCache struct {
	maxSize int
	entries map[string]*list.Element
	order   *list.List
}

type cacheEntry struct {
	key   string
	value []float64
}

func newEmbeddingCache(maxSize int) *embeddingCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &embeddingCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *embeddingCache) get(key string) ([]float64, bool) {
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *embeddingCache) put(key string, value []float64) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, value: value})
	c.entries[key] = el
	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}
