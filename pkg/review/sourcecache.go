package review

import "sync"

// SourceCache memoizes the local-target source payload. It is installed
// once per orchestration: the first local-target pass across every agent
// pays the collection cost, every later pass reuses the cached value.
//
// A failed compute is not cached; the next caller retries.
type SourceCache struct {
	mu      sync.Mutex
	content string
	ready   bool
}

// Peek returns the cached content without computing it.
func (c *SourceCache) Peek() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content, c.ready
}

// GetOrCompute returns the cached content if present; otherwise it invokes
// compute while holding the lock (serializing concurrent first-callers) and
// installs the result.
func (c *SourceCache) GetOrCompute(compute func() (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return c.content, nil
	}
	content, err := compute()
	if err != nil {
		return "", err
	}
	c.content = content
	c.ready = true
	return content, nil
}
