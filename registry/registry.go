// Package registry tracks per-module completion summaries for one run.
package registry

import (
	"sort"
	"sync"

	"github.com/james-s-tayler/xunit/types"
)

// Completions is a thread-safe, append-once-per-key map from module
// identity to final execution summary. Parallel module pipelines share one
// instance; at most one registration per key succeeds and later attempts
// are silently dropped, since a duplicate indicates a sequencing bug rather
// than a legitimate race to win.
type Completions struct {
	mu      sync.Mutex
	entries map[string]types.Summary
}

// NewCompletions creates an empty completion registry.
func NewCompletions() *Completions {
	return &Completions{
		entries: make(map[string]types.Summary),
	}
}

// Register inserts the summary for a module if no entry exists yet.
// It reports whether this call won the registration; the first write is
// never overwritten.
func (c *Completions) Register(moduleID string, summary types.Summary) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[moduleID]; exists {
		return false
	}
	c.entries[moduleID] = summary
	return true
}

// Get returns the registered summary for a module, if any.
func (c *Completions) Get(moduleID string) (types.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[moduleID]
	return s, ok
}

// Len returns the number of registered modules.
func (c *Completions) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Modules returns the registered module identities in sorted order, for
// deterministic aggregate output.
func (c *Completions) Modules() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns a copy of all registered summaries.
func (c *Completions) Snapshot() map[string]types.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]types.Summary, len(c.entries))
	for id, s := range c.entries {
		out[id] = s
	}
	return out
}

// FailedAndErrored sums failed plus errored counts across all registered
// modules. This is the aggregate that feeds the exit code.
func (c *Completions) FailedAndErrored() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, s := range c.entries {
		n += s.Failed + s.Errored
	}
	return n
}
