package banhash

import "sync"

// ConcurrentRegistry is a Registry guarded by a reader/writer lock.
// Register takes the write lock; every query takes the read lock, so checks
// run in parallel with each other and wait only for registrations.
type ConcurrentRegistry struct {
	mu  sync.RWMutex
	reg *Registry
}

// NewConcurrent creates an empty registry that is safe for concurrent use.
func NewConcurrent(opts Options) *ConcurrentRegistry {
	return &ConcurrentRegistry{reg: NewWithOptions(opts)}
}

// Register bans every string in strs. See Registry.Register.
func (c *ConcurrentRegistry) Register(strs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg.Register(strs...)
}

// IsFlagged reports whether candidate is flagged. See Registry.IsFlagged.
func (c *ConcurrentRegistry) IsFlagged(candidate string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.IsFlagged(candidate)
}

// Match reports the first flagged prefix length. See Registry.Match.
func (c *ConcurrentRegistry) Match(candidate string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.Match(candidate)
}

// Contains reports whether h is registered for length. See Registry.Contains.
func (c *ConcurrentRegistry) Contains(length int, h uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.Contains(length, h)
}

// Bucket returns the sorted hashes registered for length. See Registry.Bucket.
func (c *ConcurrentRegistry) Bucket(length int) []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.Bucket(length)
}

// Lengths returns the sorted registered lengths. See Registry.Lengths.
func (c *ConcurrentRegistry) Lengths() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.Lengths()
}

// Count returns the number of distinct (length, hash) pairs. See Registry.Count.
func (c *ConcurrentRegistry) Count() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.Count()
}

// NumBuckets returns the number of distinct registered lengths. See Registry.NumBuckets.
func (c *ConcurrentRegistry) NumBuckets() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.NumBuckets()
}

// Stats returns a snapshot of the registry's statistics. See Registry.Stats.
func (c *ConcurrentRegistry) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.Stats()
}
