// Package capture loads ADC waveform logs into in-memory sample sequences.
//
// A log is a flat CSV file with one row per sample:
//
//	sample,timestamp_us,raw,voltage_V
//
// preceded by any number of "#" comment lines and an optional column header.
// Voltages are always recomputed from the raw ADC code so the conversion
// constants live in exactly one place.
package capture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Acquisition constants for the supported converters. Both devices share the
// same PGA full scale; they differ only in resolution.
const (
	DefaultVRef    = 4.096 // PGA full-scale voltage (V)
	DefaultMaxCode = 32768 // 2^15, positive half of the signed 16-bit register

	ADS1015LSB = 2.0e-3   // 12-bit device, 4.096/2048
	ADS1115LSB = 0.125e-3 // 16-bit device, 4.096/32768
)

// Capture holds one device's sample sequence as parallel slices of equal
// length. Timestamps are in microseconds and monotonically non-decreasing;
// voltages are in volts.
type Capture struct {
	TimestampsUS []float64
	Raw          []int
	Voltage      []float64
}

// CodeToVoltage converts a raw ADC code to volts: raw * vref / maxCode.
func CodeToVoltage(raw int, vref float64, maxCode int) float64 {
	return float64(raw) * vref / float64(maxCode)
}

// ParseLog reads a waveform log, skipping comment and header lines, and
// returns the capture with voltages derived from the raw codes.
func ParseLog(r io.Reader, vref float64, maxCode int) (*Capture, error) {
	if maxCode <= 0 {
		return nil, fmt.Errorf("parse log: max code must be > 0: %d", maxCode)
	}

	c := &Capture{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "sample") {
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields) < 3 {
			return nil, fmt.Errorf("parse log: line %d: want at least 3 columns, got %d", line, len(fields))
		}

		ts, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse log: line %d: timestamp: %w", line, err)
		}
		raw, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("parse log: line %d: raw code: %w", line, err)
		}

		c.TimestampsUS = append(c.TimestampsUS, ts)
		c.Raw = append(c.Raw, raw)
		c.Voltage = append(c.Voltage, CodeToVoltage(raw, vref, maxCode))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse log: %w", err)
	}
	if len(c.Voltage) == 0 {
		return nil, fmt.Errorf("parse log: no data rows")
	}

	return c, nil
}

// LoadLog opens and parses a waveform log file.
func LoadLog(path string, vref float64, maxCode int) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	defer f.Close()

	c, err := ParseLog(f, vref, maxCode)
	if err != nil {
		return nil, fmt.Errorf("load log %s: %w", path, err)
	}

	return c, nil
}

// SampleRate estimates the acquisition rate in Hz from the mean timestamp
// spacing. Returns 0 for captures with fewer than two samples or a
// non-advancing clock.
func (c *Capture) SampleRate() float64 {
	n := len(c.TimestampsUS)
	if n < 2 {
		return 0
	}

	spanUS := c.TimestampsUS[n-1] - c.TimestampsUS[0]
	if spanUS <= 0 {
		return 0
	}

	return float64(n-1) / (spanUS * 1e-6)
}
