package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/justlayme/chat-insights/analysis"
	"github.com/justlayme/chat-insights/analysis/fileutils"
)

// tableValueMax caps one flat-table cell so multi-line summaries stay on one
// row of the output.
const tableValueMax = 120

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	var report analysis.CompositeReport
	if cfg.ReportPath != "" {
		if err := fileutils.ReadJSONFile(cfg.ReportPath, &report); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	} else {
		logger := zap.NewNop()
		if cfg.Verbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
			defer logger.Sync()
		}

		raw, err := os.ReadFile(cfg.InputPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		pers := analysis.Personalization{
			RequesterName:   cfg.RequesterName,
			CounterpartName: cfg.CounterpartName,
			AnalysisGoal:    cfg.AnalysisGoal,
		}
		report = analysis.NewPipeline(logger).Run(raw, analysis.FormatHint(cfg.Format), pers)
	}

	if cfg.Table {
		renderTable(os.Stdout, report)
	} else if cfg.OutputPath != "" {
		if !cfg.Overwrite && fileutils.FileExists(cfg.OutputPath) {
			fmt.Fprintf(os.Stderr, "%s already exists (pass -overwrite to replace it)\n", cfg.OutputPath)
			os.Exit(1)
		}
		if err := fileutils.WriteJSONFileAtomic(cfg.OutputPath, report, cfg.Pretty); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", cfg.OutputPath)
	} else {
		b, err := report.JSON(cfg.Pretty)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Fprintln(os.Stdout, string(b))
	}

	if !report.Success {
		fmt.Fprintln(os.Stderr, report.Error)
		os.Exit(1)
	}
}

// renderTable prints the flat key/value view, one row per line.
func renderTable(w io.Writer, report analysis.CompositeReport) {
	table := report.FlatTable()
	for _, k := range report.FlatTableKeys() {
		v := fileutils.SanitizeNewlines(fileutils.Truncate(table[k], tableValueMax))
		fmt.Fprintf(w, "%s\t%s\n", k, v)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Path to a transcript file (plain text, block-exported text, or JSON)")
	fs.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "Path to a previously written report JSON to render instead of analyzing")
	fs.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "Path to write the report JSON to (default: stdout)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Transcript format hint: freeform, structured-text or structured-data (default: auto-detect)")
	fs.StringVar(&cfg.RequesterName, "requester", "", "Display name of the party requesting the analysis")
	fs.StringVar(&cfg.CounterpartName, "counterpart", "", "Display name of the other party")
	fs.StringVar(&cfg.AnalysisGoal, "goal", "", "Free-text goal woven into the report summary")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "Pretty-print the report JSON")
	fs.BoolVar(&cfg.Table, "table", false, "Print a flat key/value table instead of JSON")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite an existing -out file")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log normalization details to stderr")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExample:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/analyze -in transcript.txt -requester Alice -counterpart Bob -out report.json")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.InputPath != "" {
		cfg.InputPath = filepath.Clean(cfg.InputPath)
	}
	if cfg.ReportPath != "" {
		cfg.ReportPath = filepath.Clean(cfg.ReportPath)
	}
	if cfg.OutputPath != "" {
		cfg.OutputPath = filepath.Clean(cfg.OutputPath)
	}
	return cfg, nil
}
