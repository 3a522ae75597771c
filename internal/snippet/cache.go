package snippet

import lru "github.com/hashicorp/golang-lru/v2"

// Cache keeps parsed payloads for visited locations so that history
// traversal can restore content without refetching. A disabled cache
// still exists as a collaborator; it just never stores or hits, which
// pushes popstate restores onto the refetch path.
type Cache struct {
	payloads *lru.Cache[string, *Payload]
	enabled  bool
}

// NewCache creates a payload cache holding up to size entries.
func NewCache(size int, enabled bool) (*Cache, error) {
	payloads, err := lru.New[string, *Payload](size)
	if err != nil {
		return nil, err
	}
	return &Cache{payloads: payloads, enabled: enabled}, nil
}

// Enabled reports whether the cache participates in history restores.
func (c *Cache) Enabled() bool { return c != nil && c.enabled }

// Add stores a payload under its location. No-op when disabled.
func (c *Cache) Add(location string, p *Payload) {
	if !c.Enabled() {
		return
	}
	c.payloads.Add(location, p)
}

// Get returns the cached payload for a location.
func (c *Cache) Get(location string) (*Payload, bool) {
	if !c.Enabled() {
		return nil, false
	}
	return c.payloads.Get(location)
}
