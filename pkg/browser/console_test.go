package browser

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleBuffer_AppendAndEntries(t *testing.T) {
	buf := NewConsoleBuffer(10)

	buf.Append(ConsoleEntry{Level: "log", Text: "first"})
	buf.Append(ConsoleEntry{Level: "error", Text: "second"})

	entries := buf.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, "error", entries[1].Level)
	assert.False(t, entries[0].Timestamp.IsZero(), "timestamp should be defaulted")
}

func TestConsoleBuffer_EvictsOldest(t *testing.T) {
	buf := NewConsoleBuffer(3)

	for i := 0; i < 5; i++ {
		buf.Append(ConsoleEntry{Level: "log", Text: fmt.Sprintf("msg-%d", i)})
	}

	entries := buf.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "msg-2", entries[0].Text)
	assert.Equal(t, "msg-4", entries[2].Text)
	assert.Equal(t, 2, buf.Dropped())
}

func TestConsoleBuffer_DefaultCapacity(t *testing.T) {
	buf := NewConsoleBuffer(0)
	assert.Equal(t, DefaultConsoleCapacity, buf.capacity)

	buf = NewConsoleBuffer(-5)
	assert.Equal(t, DefaultConsoleCapacity, buf.capacity)
}

func TestConsoleBuffer_Clear(t *testing.T) {
	buf := NewConsoleBuffer(10)
	buf.Append(ConsoleEntry{Level: "log", Text: "something"})
	require.Equal(t, 1, buf.Len())

	buf.Clear()
	assert.Equal(t, 0, buf.Len())
}

func TestConsoleBuffer_Render(t *testing.T) {
	buf := NewConsoleBuffer(2)

	assert.Equal(t, "No console output captured.", buf.Render())

	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	buf.Append(ConsoleEntry{Level: "warning", Text: "low disk", Timestamp: now})

	rendered := buf.Render()
	assert.Contains(t, rendered, "[warning] low disk")
	assert.Contains(t, rendered, "10:30:00")

	buf.Append(ConsoleEntry{Level: "log", Text: "a"})
	buf.Append(ConsoleEntry{Level: "log", Text: "b"})
	assert.Contains(t, buf.Render(), "[1 earlier entries dropped]")
}
