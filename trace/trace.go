package trace

import (
	"bufio"
	"fmt"
	"io"
)

// Entry is one logged event: a cycle number, a short kind tag, and a
// human-readable message.
type Entry struct {
	Cycle   uint64
	Kind    string
	Message string
}

// ExecutionLog buffers per-cycle events (kernel-config writes, memory
// service summaries, violations) and flushes them to an io.Writer.
// Disabled by default; callers check Enabled before calling Record to
// avoid paying for string formatting on a hot loop.
type ExecutionLog struct {
	Enabled    bool
	MaxEntries int

	entries []Entry
}

// NewExecutionLog creates a disabled log with no entry cap.
func NewExecutionLog() *ExecutionLog {
	return &ExecutionLog{}
}

// Record appends one entry, dropping it silently once MaxEntries is
// reached (0 means unlimited).
func (l *ExecutionLog) Record(cycle uint64, kind, message string) {
	if !l.Enabled {
		return
	}
	if l.MaxEntries > 0 && len(l.entries) >= l.MaxEntries {
		return
	}
	l.entries = append(l.entries, Entry{Cycle: cycle, Kind: kind, Message: message})
}

// Recordf is Record with fmt.Sprintf-style message formatting.
func (l *ExecutionLog) Recordf(cycle uint64, kind, format string, args ...any) {
	if !l.Enabled {
		return
	}
	l.Record(cycle, kind, fmt.Sprintf(format, args...))
}

// Entries returns the buffered log, most recent last.
func (l *ExecutionLog) Entries() []Entry { return l.entries }

// Flush writes every buffered entry as one line each, "cycle kind: message".
func (l *ExecutionLog) Flush(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range l.entries {
		if _, err := fmt.Fprintf(bw, "%d %s: %s\n", e.Cycle, e.Kind, e.Message); err != nil {
			return err
		}
	}
	return bw.Flush()
}
