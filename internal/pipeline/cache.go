package pipeline

import "sync"

// labelCache is a thread-safe LRU memo for label classification. The raw
// EVTYPE vocabulary is small relative to record volume (hundreds of distinct
// labels across hundreds of thousands of rows), so memoizing the rule-table
// scan keeps the hot path to a single map lookup.
type labelCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*labelEntry
	head       *labelEntry // most recently used
	tail       *labelEntry // least recently used
}

type labelEntry struct {
	label    string
	category string
	prev     *labelEntry
	next     *labelEntry
}

func newLabelCache(maxEntries int) *labelCache {
	return &labelCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*labelEntry),
	}
}

func (c *labelCache) get(label string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[label]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.category, true
}

func (c *labelCache) put(label, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[label]; ok {
		e.category = category
		c.moveToFront(e)
		return
	}

	e := &labelEntry{label: label, category: category}
	c.entries[label] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *labelCache) moveToFront(e *labelEntry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *labelCache) addToFront(e *labelEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *labelCache) unlink(e *labelEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *labelCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.label)
	c.unlink(c.tail)
}
