// Package trace holds the simulator's optional per-cycle execution log and
// end-of-run statistics, exported as JSON, CSV, or HTML.
package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"
)

// InstructionCount is one mnemonic's retirement count.
type InstructionCount struct {
	Mnemonic string
	Count    uint64
}

// RunStatistics accumulates end-of-run counters: cycles consumed,
// instructions retired per mnemonic, memory traffic, and violations
// (out-of-range memory accesses and undecodable instruction words).
type RunStatistics struct {
	Enabled bool

	CyclesRun         uint64
	ExecutionTime     time.Duration
	InstructionCounts map[string]uint64

	MemoryReads  uint64
	MemoryWrites uint64
	Violations   uint64

	startTime time.Time
}

// NewRunStatistics creates an enabled, empty statistics tracker.
func NewRunStatistics() *RunStatistics {
	return &RunStatistics{
		Enabled:           true,
		InstructionCounts: make(map[string]uint64),
	}
}

// Start marks the beginning of a run, for ExecutionTime accounting.
func (s *RunStatistics) Start() {
	s.startTime = time.Now()
}

// RecordInstruction tallies a retired instruction by mnemonic.
func (s *RunStatistics) RecordInstruction(mnemonic string) {
	if !s.Enabled {
		return
	}
	s.InstructionCounts[mnemonic]++
}

// RecordMemoryRead/RecordMemoryWrite/RecordViolation tally memory traffic.
func (s *RunStatistics) RecordMemoryRead()  { s.MemoryReads++ }
func (s *RunStatistics) RecordMemoryWrite() { s.MemoryWrites++ }
func (s *RunStatistics) RecordViolation()   { s.Violations++ }

// Finalize stamps ExecutionTime from Start. Safe to call more than once.
func (s *RunStatistics) Finalize() {
	if !s.startTime.IsZero() {
		s.ExecutionTime = time.Since(s.startTime)
	}
}

// TopInstructions returns instruction counts sorted by count descending,
// capped at n (0 means unlimited).
func (s *RunStatistics) TopInstructions(n int) []InstructionCount {
	out := make([]InstructionCount, 0, len(s.InstructionCounts))
	for m, c := range s.InstructionCounts {
		out = append(out, InstructionCount{Mnemonic: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mnemonic < out[j].Mnemonic
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ExportJSON writes the statistics as indented JSON.
func (s *RunStatistics) ExportJSON(w io.Writer) error {
	s.Finalize()
	data := map[string]any{
		"cycles_run":         s.CyclesRun,
		"execution_time_ms":  s.ExecutionTime.Milliseconds(),
		"memory_reads":       s.MemoryReads,
		"memory_writes":      s.MemoryWrites,
		"violations":         s.Violations,
		"instruction_counts": s.TopInstructions(0),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a two-column summary followed by a per-mnemonic table.
func (s *RunStatistics) ExportCSV(w io.Writer) error {
	s.Finalize()
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	rows := [][]string{
		{"Cycles Run", fmt.Sprintf("%d", s.CyclesRun)},
		{"Execution Time (ms)", fmt.Sprintf("%d", s.ExecutionTime.Milliseconds())},
		{"Memory Reads", fmt.Sprintf("%d", s.MemoryReads)},
		{"Memory Writes", fmt.Sprintf("%d", s.MemoryWrites)},
		{"Violations", fmt.Sprintf("%d", s.Violations)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write([]string{"Mnemonic", "Count"}); err != nil {
		return err
	}
	for _, ic := range s.TopInstructions(0) {
		if err := cw.Write([]string{ic.Mnemonic, fmt.Sprintf("%d", ic.Count)}); err != nil {
			return err
		}
	}
	return nil
}

var htmlTemplate = template.Must(template.New("stats").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>gpusim run statistics</title>
  <style>
    body { font-family: sans-serif; margin: 20px; }
    table { border-collapse: collapse; }
    td, th { border: 1px solid #ccc; padding: 4px 8px; }
  </style>
</head>
<body>
  <h1>Run statistics</h1>
  <table>
    <tr><th>Cycles run</th><td>{{.CyclesRun}}</td></tr>
    <tr><th>Execution time</th><td>{{.ExecutionTime}}</td></tr>
    <tr><th>Memory reads</th><td>{{.MemoryReads}}</td></tr>
    <tr><th>Memory writes</th><td>{{.MemoryWrites}}</td></tr>
    <tr><th>Violations</th><td>{{.Violations}}</td></tr>
  </table>
  <h2>Instructions retired</h2>
  <table>
    <tr><th>Mnemonic</th><th>Count</th></tr>
    {{range .Top}}<tr><td>{{.Mnemonic}}</td><td>{{.Count}}</td></tr>
    {{end}}
  </table>
</body>
</html>
`))

// ExportHTML writes an HTML summary page.
func (s *RunStatistics) ExportHTML(w io.Writer) error {
	s.Finalize()
	return htmlTemplate.Execute(w, struct {
		CyclesRun     uint64
		ExecutionTime time.Duration
		MemoryReads   uint64
		MemoryWrites  uint64
		Violations    uint64
		Top           []InstructionCount
	}{s.CyclesRun, s.ExecutionTime, s.MemoryReads, s.MemoryWrites, s.Violations, s.TopInstructions(20)})
}
