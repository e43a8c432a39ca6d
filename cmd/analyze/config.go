package main

import (
	"errors"
	"fmt"

	"github.com/justlayme/chat-insights/analysis"
)

type Config struct {
	InputPath       string
	ReportPath      string
	OutputPath      string
	Format          string
	RequesterName   string
	CounterpartName string
	AnalysisGoal    string
	Pretty          bool
	Table           bool
	Overwrite       bool
	Verbose         bool
}

func (c Config) Validate() error {
	if c.InputPath == "" && c.ReportPath == "" {
		return errors.New("missing -in (or -report to render a saved report)")
	}
	if c.InputPath != "" && c.ReportPath != "" {
		return errors.New("use only one of -in or -report")
	}
	switch analysis.FormatHint(c.Format) {
	case analysis.FormatAuto, analysis.FormatFreeform,
		analysis.FormatStructuredText, analysis.FormatStructuredData:
	default:
		return fmt.Errorf("unknown -format %q (use freeform, structured-text or structured-data)", c.Format)
	}
	if c.Table && c.OutputPath != "" {
		return errors.New("use only one of -out or -table")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InputPath:  "",
		OutputPath: "",
		Format:     "",
		Pretty:     true,
	}
}
