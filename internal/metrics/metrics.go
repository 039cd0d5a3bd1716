// Package metrics provides lightweight, lock-free counters for
// tracking runtime statistics of a gotel session.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a telnet session.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	connectionsActive atomic.Int64
	bytesIn           atomic.Int64
	bytesOut          atomic.Int64
	promptMatches     atomic.Int64
	commandsTotal     atomic.Int64
	optionsRefused    atomic.Int64
	errorsTotal       atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connection metrics ───────────────────────────────────────────────

// ConnectionOpened increments the active connection counter.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(-1)
}

// ── I/O metrics ──────────────────────────────────────────────────────

// BytesReceived records n raw bytes read from the transport.
func (c *Collector) BytesReceived(n int64) {
	if c == nil {
		return
	}
	c.bytesIn.Add(n)
}

// BytesSent records n bytes written to the transport, refusal replies
// included.
func (c *Collector) BytesSent(n int64) {
	if c == nil {
		return
	}
	c.bytesOut.Add(n)
}

// ── Protocol metrics ─────────────────────────────────────────────────

// PromptMatched records a completed output block.
func (c *Collector) PromptMatched() {
	if c == nil {
		return
	}
	c.promptMatches.Add(1)
}

// CommandExecuted records a successfully executed remote command.
func (c *Collector) CommandExecuted() {
	if c == nil {
		return
	}
	c.commandsTotal.Add(1)
}

// OptionsRefused records n telnet options refused with WONT/DONT.
func (c *Collector) OptionsRefused(n int64) {
	if c == nil {
		return
	}
	c.optionsRefused.Add(n)
}

// RecordError counts an error and remembers the most recent one.
func (c *Collector) RecordError(err error) {
	if c == nil || err == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = err.Error()
	c.mu.Unlock()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Uptime         time.Duration `json:"uptime"`
	BytesIn        int64         `json:"bytes_in"`
	BytesOut       int64         `json:"bytes_out"`
	PromptMatches  int64         `json:"prompt_matches"`
	CommandsTotal  int64         `json:"commands_total"`
	OptionsRefused int64         `json:"options_refused"`
	ErrorsTotal    int64         `json:"errors_total"`
	LastError      string        `json:"last_error,omitempty"`
}

// Snapshot returns a consistent copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	start := c.startTime
	lastMsg := c.lastErrorMsg
	c.mu.RUnlock()

	return Snapshot{
		Uptime:         time.Since(start),
		BytesIn:        c.bytesIn.Load(),
		BytesOut:       c.bytesOut.Load(),
		PromptMatches:  c.promptMatches.Load(),
		CommandsTotal:  c.commandsTotal.Load(),
		OptionsRefused: c.optionsRefused.Load(),
		ErrorsTotal:    c.errorsTotal.Load(),
		LastError:      lastMsg,
	}
}

// String renders the snapshot as compact JSON for debug logging.
func (s Snapshot) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}
