package queryengine

import (
	"sync"

	"sqlcli/internal/dataview"
)

// DefaultCacheMaxEntries caps the query-result cache (adapted from the
// teacher's byte-budget LRU in app/cache/lru.go, here sized by entry
// count since a DataView is index slices, not row copies).
const DefaultCacheMaxEntries = 32

// Cache is an LRU of recent query results keyed by raw SQL text, built
// around the same intrusive doubly-linked list the teacher's LRUList
// uses for eviction order.
type Cache struct {
	mu       sync.Mutex
	maxSize  int
	entries  map[string]*lruNode
	head     *lruNode
	tail     *lruNode
}

type lruNode struct {
	key        string
	view       *dataview.DataView
	prev, next *lruNode
}

func NewCache(maxSize int) *Cache {
	head := &lruNode{}
	tail := &lruNode{}
	head.next = tail
	tail.prev = head
	return &Cache{
		maxSize: maxSize,
		entries: make(map[string]*lruNode),
		head:    head,
		tail:    tail,
	}
}

func (c *Cache) Get(key string) (*dataview.DataView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(node)
	return node.view, true
}

func (c *Cache) Put(key string, view *dataview.DataView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if node, ok := c.entries[key]; ok {
		node.view = view
		c.moveToFront(node)
		return
	}
	node := &lruNode{key: key, view: view}
	c.entries[key] = node
	c.addToFront(node)
	if len(c.entries) > c.maxSize {
		oldest := c.tail.prev
		c.removeNode(oldest)
		delete(c.entries, oldest.key)
	}
}

func (c *Cache) addToFront(node *lruNode) {
	node.next = c.head.next
	node.prev = c.head
	c.head.next.prev = node
	c.head.next = node
}

func (c *Cache) moveToFront(node *lruNode) {
	c.removeNode(node)
	c.addToFront(node)
}

func (c *Cache) removeNode(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}
