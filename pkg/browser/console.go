package browser

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ConsoleEntry is a single console message emitted by a page.
type ConsoleEntry struct {
	// Level is the console method used (log, info, warning, error, debug)
	Level string

	// Text is the rendered message text
	Text string

	// URL is the page URL at the time the message was emitted
	URL string

	// Timestamp is when the message was captured
	Timestamp time.Time
}

// ConsoleBuffer is a bounded ring of console entries. When the buffer is
// full, the oldest entry is evicted.
type ConsoleBuffer struct {
	mu       sync.Mutex
	entries  []ConsoleEntry
	capacity int
	dropped  int
}

// NewConsoleBuffer creates a buffer holding at most capacity entries.
func NewConsoleBuffer(capacity int) *ConsoleBuffer {
	if capacity <= 0 {
		capacity = DefaultConsoleCapacity
	}
	return &ConsoleBuffer{
		entries:  make([]ConsoleEntry, 0, capacity),
		capacity: capacity,
	}
}

// Append records a console entry, evicting the oldest if at capacity.
func (b *ConsoleBuffer) Append(entry ConsoleEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if len(b.entries) >= b.capacity {
		b.entries = b.entries[1:]
		b.dropped++
	}
	b.entries = append(b.entries, entry)
}

// Entries returns a copy of the buffered entries, oldest first.
func (b *ConsoleBuffer) Entries() []ConsoleEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]ConsoleEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of buffered entries.
func (b *ConsoleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Dropped returns how many entries have been evicted since creation.
func (b *ConsoleBuffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Clear removes all buffered entries.
func (b *ConsoleBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = b.entries[:0]
}

// Render formats the buffer as plain text, one entry per line.
func (b *ConsoleBuffer) Render() string {
	entries := b.Entries()
	if len(entries) == 0 {
		return "No console output captured."
	}

	var sb strings.Builder
	b.mu.Lock()
	dropped := b.dropped
	b.mu.Unlock()
	if dropped > 0 {
		fmt.Fprintf(&sb, "[%d earlier entries dropped]\n", dropped)
	}
	for _, e := range entries {
		fmt.Fprintf(&sb, "[%s] [%s] %s\n", e.Timestamp.Format("15:04:05.000"), e.Level, e.Text)
	}
	return sb.String()
}
