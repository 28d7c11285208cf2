// Command ctcompare renders comparison pages for current-transformer
// waveform captures taken by an ADS1015/ADS1115 pair, overlaying both
// devices against an ideal reference synthesized from the signal name.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cwbudde/ct-compare/config"
	"github.com/cwbudde/ct-compare/internal/batch"
	"github.com/cwbudde/ct-compare/log"
	"github.com/cwbudde/ct-compare/report"
)

type opts struct {
	iPrimary   float64
	logsDir    string
	outputDir  string
	configPath string
	xlsxPath   string
	pdfDir     string
	logFile    string
	jobs       int
	debug      bool
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "ctcompare [signal_name]...",
		Short: "Compare dual-ADC CT captures against an ideal reference",
		Long: `ctcompare reads paired waveform logs (<name>_ads1015.log and
<name>_ads1115.log), synthesizes the ideal reference waveform encoded in the
signal name, and writes one HTML page per signal with an overlay chart, a
spectrum panel, and a comparative metrics table (RMS, peak, peak-to-peak,
derived primary current).

With no arguments, every complete pair found in the logs directory is
processed.

Examples:
  ctcompare --i-primary 100
  ctcompare --i-primary 100 sine_60hz_33.85mVrms dimmer_50pct_60hz_118mVrms
  ctcompare --i-primary 100 --xlsx output/metrics.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, args)
		},
	}

	root.Flags().Float64Var(&o.iPrimary, "i-primary", 0, "CT nominal primary current in amperes (required)")
	root.Flags().StringVar(&o.logsDir, "logs", "", "directory containing the waveform logs (default from config)")
	root.Flags().StringVar(&o.outputDir, "out", "", "directory for generated pages (default from config)")
	root.Flags().StringVar(&o.configPath, "config", "", "YAML configuration file")
	root.Flags().StringVar(&o.xlsxPath, "xlsx", "", "also write a batch metrics workbook to this path")
	root.Flags().StringVar(&o.pdfDir, "pdf", "", "also write per-signal PDF sheets into this directory")
	root.Flags().StringVar(&o.logFile, "log-file", "", "rotating run log (default from config)")
	root.Flags().IntVar(&o.jobs, "jobs", runtime.NumCPU(), "maximum concurrent signal comparisons")
	root.Flags().BoolVar(&o.debug, "debug", false, "verbose console logging")
	_ = root.MarkFlagRequired("i-primary")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(o opts, args []string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logsDir != "" {
		cfg.LogsDir = o.logsDir
	}
	if o.outputDir != "" {
		cfg.OutputDir = o.outputDir
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	if o.debug {
		cfg.Debug = true
	}
	if o.iPrimary <= 0 {
		return fmt.Errorf("i-primary must be > 0: %f", o.iPrimary)
	}

	log.Setup(cfg.LogFile, cfg.Debug)

	names := args
	if len(names) == 0 {
		names, err = batch.FindPairs(cfg.LogsDir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return fmt.Errorf("no signal pairs found in %s", cfg.LogsDir)
		}
	}

	fmt.Printf("Found %d signal pair(s).\n", len(names))

	entries, failures := batch.Run(cfg, names, o.iPrimary, o.jobs)

	for _, e := range entries {
		fmt.Printf("  %s OK\n", e.SignalName)
	}

	if o.xlsxPath != "" && len(entries) > 0 {
		if err := writeWorkbook(o.xlsxPath, entries); err != nil {
			return err
		}
	}
	if o.pdfDir != "" {
		for _, e := range entries {
			if err := writePDF(o.pdfDir, e); err != nil {
				return err
			}
		}
	}

	fmt.Printf("\nDone: %d/%d generated.\n", len(entries), len(names))
	if len(failures) > 0 {
		fmt.Println("Failed:")
		for _, f := range failures {
			fmt.Printf("  - %s: %v\n", f.Name, f.Err)
		}

		return fmt.Errorf("%d of %d signal(s) failed", len(failures), len(names))
	}

	return nil
}

func writeWorkbook(path string, entries []report.Entry) error {
	data, err := report.BuildWorkbook(entries)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0o644)
}

func writePDF(dir string, e report.Entry) error {
	data, err := report.BuildPDF(e)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, e.SignalName+".pdf"), data, 0o644)
}
