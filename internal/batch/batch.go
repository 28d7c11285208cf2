// Package batch discovers signal pairs in a log directory and runs the
// comparison pipeline over them. Each pair's computation touches only its own
// data, so pairs fan out over a bounded worker pool with no coordination
// beyond result collection.
package batch

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/cwbudde/ct-compare/capture"
	"github.com/cwbudde/ct-compare/config"
	"github.com/cwbudde/ct-compare/metrics"
	"github.com/cwbudde/ct-compare/report"
	"github.com/cwbudde/ct-compare/spectrum"
	"github.com/cwbudde/ct-compare/waveform"
)

var pairFileRE = regexp.MustCompile(`(?i)^(.+)_ads1[01]15\.log$`)

// FindPairs returns the sorted signal names that have both an ADS1015 and an
// ADS1115 log in logsDir.
func FindPairs(logsDir string) ([]string, error) {
	files, err := os.ReadDir(logsDir)
	if err != nil {
		return nil, fmt.Errorf("find pairs: %w", err)
	}

	names := make(map[string]bool)
	for _, f := range files {
		if m := pairFileRE.FindStringSubmatch(f.Name()); m != nil {
			names[m[1]] = true
		}
	}

	var pairs []string
	for name := range names {
		if fileExists(filepath.Join(logsDir, name+"_ads1015.log")) &&
			fileExists(filepath.Join(logsDir, name+"_ads1115.log")) {
			pairs = append(pairs, name)
		}
	}
	sort.Strings(pairs)

	return pairs, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// Compare runs the full pipeline for one signal name: load the device pair,
// parse the name into a waveform descriptor, synthesize the reference, and
// compute the comparative metrics and spectra. The HTML page is written to
// the configured output directory.
func Compare(cfg *config.Config, name string, iPrimary float64) (report.Entry, error) {
	desc, err := waveform.ParseName(name)
	if err != nil {
		return report.Entry{}, err
	}

	cap1015, err := capture.LoadLog(filepath.Join(cfg.LogsDir, name+"_ads1015.log"), cfg.ADC.VRef, cfg.ADC.MaxCode)
	if err != nil {
		return report.Entry{}, err
	}
	cap1115, err := capture.LoadLog(filepath.Join(cfg.LogsDir, name+"_ads1115.log"), cfg.ADC.VRef, cfg.ADC.MaxCode)
	if err != nil {
		return report.Entry{}, err
	}

	refTimes, refWave, err := waveform.Synthesize(desc,
		waveform.WithDuration(cfg.Reference.Duration),
		waveform.WithSamples(cfg.Reference.Samples))
	if err != nil {
		return report.Entry{}, err
	}

	entry := report.Entry{
		SignalName: name,
		NominalRMS: desc.TargetRMS,
		IPrimary:   iPrimary,
	}

	fs := cfg.CT.FullScaleVoltage
	if entry.Reference, err = metrics.Calculate(refWave, cfg.Percentile, iPrimary, fs); err != nil {
		return report.Entry{}, fmt.Errorf("%s: reference: %w", name, err)
	}
	if entry.ADS1015, err = metrics.Calculate(cap1015.Voltage, cfg.Percentile, iPrimary, fs); err != nil {
		return report.Entry{}, fmt.Errorf("%s: ads1015: %w", name, err)
	}
	if entry.ADS1115, err = metrics.Calculate(cap1115.Voltage, cfg.Percentile, iPrimary, fs); err != nil {
		return report.Entry{}, fmt.Errorf("%s: ads1115: %w", name, err)
	}

	page := report.Page{
		SignalName: name,
		IPrimary:   iPrimary,
		Rows:       report.MetricsRows(entry),
	}

	// The chart shows the AC component of the captures against the
	// synthesized reference, all in ms/mV.
	ac1015, err := metrics.RemoveDCBias(cap1015.Voltage)
	if err != nil {
		return report.Entry{}, fmt.Errorf("%s: ads1015: %w", name, err)
	}
	ac1115, err := metrics.RemoveDCBias(cap1115.Voltage)
	if err != nil {
		return report.Entry{}, fmt.Errorf("%s: ads1115: %w", name, err)
	}

	page.Traces = []report.Series{
		report.ToDisplay("Reference", refTimes, refWave, true),
		report.ToDisplayUS("ADS1015", cap1015.TimestampsUS, ac1015, false),
		report.ToDisplayUS("ADS1115", cap1115.TimestampsUS, ac1115, false),
	}

	refRate := float64(cfg.Reference.Samples) / cfg.Reference.Duration
	page.Spectra = spectra(
		spectrumSource{"Reference", refWave, refRate},
		spectrumSource{"ADS1015", ac1015, cap1015.SampleRate()},
		spectrumSource{"ADS1115", ac1115, cap1115.SampleRate()},
	)

	if err := writePage(cfg.OutputDir, name, &page); err != nil {
		return report.Entry{}, err
	}

	return entry, nil
}

type spectrumSource struct {
	name       string
	signal     []float64
	sampleRate float64
}

// spectra analyzes each source that is long enough and has a usable clock.
// Sources that cannot be analyzed are skipped; the panel is cosmetic and must
// not fail the comparison.
func spectra(sources ...spectrumSource) []report.Series {
	var out []report.Series
	for _, src := range sources {
		size := fftSizeFor(len(src.signal))
		if size == 0 || src.sampleRate <= 0 {
			continue
		}

		a, err := spectrum.Analyze(src.signal, src.sampleRate, size)
		if err != nil {
			slog.Debug("spectrum skipped", "source", src.name, "err", err)
			continue
		}

		mv := make([]float64, len(a.Magnitude))
		for i, m := range a.Magnitude {
			mv[i] = m * 1000
		}
		out = append(out, report.Series{Name: src.name, X: a.Freqs, Y: mv})
	}

	return out
}

// fftSizeFor picks the largest power of two not exceeding n, capped at 16384.
// Returns 0 for signals too short to be worth analyzing.
func fftSizeFor(n int) int {
	if n < 256 {
		return 0
	}

	size := 1 << int(math.Floor(math.Log2(float64(n))))
	if size > 16384 {
		size = 16384
	}

	return size
}

func writePage(outputDir, name string, page *report.Page) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	path := filepath.Join(outputDir, name+".html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer f.Close()

	if err := page.WriteHTML(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

// Failure records one signal that could not be processed.
type Failure struct {
	Name string
	Err  error
}

// Run compares every named signal, fanning out over at most jobs workers.
// A failing pair never aborts the batch; failures are collected and returned
// alongside the successful entries, which come back in input order.
func Run(cfg *config.Config, names []string, iPrimary float64, jobs int) ([]report.Entry, []Failure) {
	if jobs < 1 {
		jobs = 1
	}

	results := make([]report.Entry, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	sem := make(chan struct{}, jobs)
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i], errs[i] = Compare(cfg, name, iPrimary)
		}(i, name)
	}
	wg.Wait()

	var (
		entries  []report.Entry
		failures []Failure
	)
	for i, name := range names {
		if errs[i] != nil {
			slog.Error("comparison failed", "signal", name, "err", errs[i])
			failures = append(failures, Failure{Name: name, Err: errs[i]})

			continue
		}
		slog.Info("comparison written", "signal", name)
		entries = append(entries, results[i])
	}

	return entries, failures
}
