// Package debounce provides the commit-coalescing policy used by panels
// that edit continuous values (rich text, sliders, color pickers). Rapid
// proposals within the quiet window collapse into a single commit carrying
// the latest value.
package debounce

import (
	"sync"
	"time"

	"github.com/goliatone/go-funnel/internal/elements"
)

// Default quiet windows. Style-only commits (drags, color picks) settle
// faster than free-text commits.
const (
	DefaultContentWindow = 300 * time.Millisecond
	DefaultStyleWindow   = 80 * time.Millisecond
)

// CommitFunc receives the final coalesced partial once the quiet window
// elapses without further proposals.
type CommitFunc func(partial elements.Content)

// Committer buffers the latest proposed partial and commits it once the
// quiet window elapses. Each new proposal cancels and reschedules the
// pending commit; intermediate values are discarded. The zero value is not
// usable; construct with New.
type Committer struct {
	mu      sync.Mutex
	window  time.Duration
	commit  CommitFunc
	timer   *time.Timer
	pending elements.Content
	armed   bool
	closed  bool
}

// New builds a committer with the given quiet window. A non-positive window
// falls back to DefaultContentWindow.
func New(window time.Duration, commit CommitFunc) *Committer {
	if window <= 0 {
		window = DefaultContentWindow
	}
	return &Committer{window: window, commit: commit}
}

// Propose buffers a partial, replacing any pending one, and restarts the
// quiet window. Proposals after Close are dropped.
func (c *Committer) Propose(partial elements.Content) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.pending = partial
	c.armed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, c.fire)
	c.mu.Unlock()
}

// Flush commits any pending partial immediately and cancels the timer.
func (c *Committer) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	partial, ok := c.takeLocked()
	c.mu.Unlock()
	if ok {
		c.commit(partial)
	}
}

// Close flushes the pending commit, then permanently disables the
// committer. The commit callback never fires after Close returns.
func (c *Committer) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	partial, ok := c.takeLocked()
	c.mu.Unlock()
	if ok {
		c.commit(partial)
	}
}

// Pending reports whether a proposal is waiting for its quiet window.
func (c *Committer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

func (c *Committer) fire() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	partial, ok := c.takeLocked()
	c.mu.Unlock()
	if ok {
		c.commit(partial)
	}
}

func (c *Committer) takeLocked() (elements.Content, bool) {
	if !c.armed {
		return nil, false
	}
	partial := c.pending
	c.pending = nil
	c.armed = false
	return partial, true
}
