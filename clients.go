package gonuthoard

import (
	"sort"
	"sync"

	"github.com/Keksclan/goNutHoard/contextx"
)

// Clients tracks the open client connections (controlled pages) a worker is
// responsible for. Activation claims all of them, so that requests from
// already-open pages flow through the newly current generation.
type Clients struct {
	mu      sync.Mutex
	known   map[string]contextx.Client
	claimed map[string]struct{}
}

// Register adds or updates a client connection.
func (c *Clients) Register(cl contextx.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.known == nil {
		c.known = make(map[string]contextx.Client)
	}
	c.known[cl.ID] = cl
}

// Unregister removes a closed client connection.
func (c *Clients) Unregister(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.known, id)
	delete(c.claimed, id)
}

// Claim marks every registered client as controlled by this worker and
// returns how many were claimed.
func (c *Clients) Claim() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claimed == nil {
		c.claimed = make(map[string]struct{})
	}
	for id := range c.known {
		c.claimed[id] = struct{}{}
	}
	return len(c.claimed)
}

// Claimed reports whether the client with the given ID is controlled by this
// worker.
func (c *Clients) Claimed(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.claimed[id]
	return ok
}

// IDs returns the registered client IDs in lexical order.
func (c *Clients) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.known))
	for id := range c.known {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
