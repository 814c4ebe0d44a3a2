// Command gpusim assembles a GPU-ISA source file and runs it against the
// cycle-driven simulator, exiting 0 on a halt within the cycle budget and
// nonzero on assembler errors or budget exhaustion.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lookbusy1344/gpusim/config"
	"github.com/lookbusy1344/gpusim/dut"
	"github.com/lookbusy1344/gpusim/loader"
	"github.com/lookbusy1344/gpusim/memory"
	"github.com/lookbusy1344/gpusim/sim"
	"github.com/lookbusy1344/gpusim/trace"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("gpusim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		maxCycles   = fs.Uint64("max-cycles", 0, "maximum cycles before budget exhaustion (0 = use config default)")
		numBlocks   = fs.Uint("blocks", 0, "default block count if the source has no .blocks directive (0 = use config default)")
		numWarps    = fs.Uint("warps", 0, "default warps-per-block if the source has no .warps directive (0 = use config default)")
		enableTrace = fs.Bool("trace", false, "write a per-cycle execution/violation trace")
		traceFile   = fs.String("trace-file", "", "trace output file (default: config trace.output_file)")
		enableStats = fs.Bool("stats", false, "write end-of-run statistics")
		statsFile   = fs.String("stats-file", "", "statistics output file (default: config statistics.output_file)")
		statsFormat = fs.String("stats-format", "", "statistics format: json, csv, html (default: config statistics.format)")
		configPath  = fs.String("config", "", "config file path (default: platform config directory)")
	)

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: gpusim [flags] <file.asm>")
		fs.PrintDefaults()
		return 1
	}
	asmFile := fs.Arg(0)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "gpusim: loading config: %v\n", err)
		return 1
	}

	if *maxCycles == 0 {
		*maxCycles = cfg.Execution.MaxCycles
	}
	blocks := uint32(*numBlocks)
	if blocks == 0 {
		blocks = cfg.Execution.DefaultNumBlocks
	}
	warps := uint32(*numWarps)
	if warps == 0 {
		warps = cfg.Execution.DefaultNumWarps
	}
	if *enableTrace {
		cfg.Trace.Enable = true
	}
	if *traceFile != "" {
		cfg.Trace.OutputFile = *traceFile
	}
	if *enableStats {
		cfg.Statistics.Enable = true
	}
	if *statsFile != "" {
		cfg.Statistics.OutputFile = *statsFile
	}
	if *statsFormat != "" {
		cfg.Statistics.Format = *statsFormat
	}

	loaded, err := loader.LoadFile(asmFile, cfg.Memory.InstructionSize, blocks, warps)
	if err != nil {
		fmt.Fprintf(stderr, "gpusim: %v\n", err)
		return 1
	}

	dataMem := memory.NewDataMemory(cfg.Memory.DataSize)
	g := dut.New()
	sim.SetKernelConfig(g, loaded.Program.Config.BaseInstructionsAddr, loaded.Program.Config.BaseDataAddr, loaded.NumBlocks, loaded.NumWarps)

	var stats *trace.RunStatistics
	if cfg.Statistics.Enable {
		stats = trace.NewRunStatistics()
	}
	var log *trace.ExecutionLog
	if cfg.Trace.Enable {
		log = trace.NewExecutionLog()
		log.Enabled = true
	}

	ok, err := sim.Simulate(context.Background(), g, loaded.Instruction, dataMem, *maxCycles, stats, log)
	if err != nil {
		fmt.Fprintf(stderr, "gpusim: %v\n", err)
		return 1
	}

	if log != nil {
		if werr := writeToFile(cfg.Trace.OutputFile, log.Flush); werr != nil {
			fmt.Fprintf(stderr, "gpusim: writing trace: %v\n", werr)
		}
	}
	if stats != nil {
		exporter := statsExporter(cfg.Statistics.Format, stats)
		if werr := writeToFile(cfg.Statistics.OutputFile, exporter); werr != nil {
			fmt.Fprintf(stderr, "gpusim: writing statistics: %v\n", werr)
		}
	}

	for _, v := range g.Violations() {
		fmt.Fprintf(stderr, "gpusim: %s\n", v)
	}

	if !ok {
		fmt.Fprintln(stderr, "gpusim: cycle budget exhausted before halt")
		return 1
	}
	fmt.Fprintln(stdout, "gpusim: halted")
	return 0
}

func statsExporter(format string, stats *trace.RunStatistics) func(w io.Writer) error {
	switch format {
	case "csv":
		return stats.ExportCSV
	case "html":
		return stats.ExportHTML
	default:
		return stats.ExportJSON
	}
}

func writeToFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path) // #nosec G304 -- user-configured output path
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
