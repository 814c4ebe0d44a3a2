package trace_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gpusim/trace"
)

func TestExecutionLogDisabledByDefault(t *testing.T) {
	log := trace.NewExecutionLog()
	log.Record(0, "violation", "should not be stored")
	assert.Empty(t, log.Entries())
}

func TestExecutionLogRecordsAndFlushes(t *testing.T) {
	log := trace.NewExecutionLog()
	log.Enabled = true
	log.Record(1, "violation", "out-of-range read")
	log.Recordf(2, "config", "base_inst=%d", 0)

	var buf bytes.Buffer
	require.NoError(t, log.Flush(&buf))
	out := buf.String()
	assert.True(t, strings.Contains(out, "1 violation: out-of-range read"))
	assert.True(t, strings.Contains(out, "2 config: base_inst=0"))
}

func TestExecutionLogRespectsMaxEntries(t *testing.T) {
	log := trace.NewExecutionLog()
	log.Enabled = true
	log.MaxEntries = 1
	log.Record(0, "a", "first")
	log.Record(1, "a", "second")
	assert.Len(t, log.Entries(), 1)
}

func TestRunStatisticsTopInstructionsSortedDescending(t *testing.T) {
	stats := trace.NewRunStatistics()
	stats.InstructionCounts["ADD"] = 2
	stats.InstructionCounts["HALT"] = 5
	stats.InstructionCounts["SUB"] = 2

	top := stats.TopInstructions(2)
	require.Len(t, top, 2)
	assert.Equal(t, "HALT", top[0].Mnemonic)
}

func TestRunStatisticsExportJSON(t *testing.T) {
	stats := trace.NewRunStatistics()
	stats.CyclesRun = 10
	stats.MemoryReads = 3
	stats.Violations = 1

	var buf bytes.Buffer
	require.NoError(t, stats.ExportJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 10, decoded["cycles_run"])
}

func TestRunStatisticsExportCSV(t *testing.T) {
	stats := trace.NewRunStatistics()
	stats.CyclesRun = 4
	stats.InstructionCounts["HALT"] = 1

	var buf bytes.Buffer
	require.NoError(t, stats.ExportCSV(&buf))

	r := csv.NewReader(&buf)
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value"}, records[0])
}

func TestRunStatisticsExportHTML(t *testing.T) {
	stats := trace.NewRunStatistics()
	stats.CyclesRun = 7

	var buf bytes.Buffer
	require.NoError(t, stats.ExportHTML(&buf))
	assert.Contains(t, buf.String(), "Run statistics")
}
