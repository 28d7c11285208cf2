// Package metrics computes noise-robust scalar metrics for sampled
// current-transformer signals: bias-removed RMS, percentile-based peak and
// peak-to-peak estimates, and the linear secondary-voltage to primary-current
// conversion.
//
// All functions are pure: they never modify their input and identical inputs
// produce identical outputs. Peak estimation uses a high percentile of the
// sample distribution instead of the true maximum so that a single
// digitization glitch cannot dominate the result.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"
)

// DefaultPercentile is the percentile used for peak and peak-to-peak
// estimation when the caller has no reason to choose another. It discards
// roughly the top 0.5% of absolute excursions.
const DefaultPercentile = 99.5

// Result holds the comparable metrics of one sampled signal.
type Result struct {
	RMS        float64 // bias-removed root mean square (V)
	Peak       float64 // percentile of |bias-removed signal| (V)
	PeakToPeak float64 // symmetric percentile span (V)
	Current    float64 // derived primary current (A)
}

// RemoveDCBias subtracts the arithmetic mean from every sample and returns a
// new slice. The input is not modified.
func RemoveDCBias(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("remove dc bias: empty signal")
	}

	mean := vecmath.Sum(signal) / float64(len(signal))
	out := make([]float64, len(signal))
	for i, x := range signal {
		out[i] = x - mean
	}

	return out, nil
}

// RMS returns the root-mean-square of the bias-removed signal.
// A constant signal yields exactly 0.
func RMS(signal []float64) (float64, error) {
	ac, err := RemoveDCBias(signal)
	if err != nil {
		return 0, fmt.Errorf("rms: %w", err)
	}

	return math.Sqrt(vecmath.DotProduct(ac, ac) / float64(len(ac))), nil
}

// Peak returns the given percentile of the absolute bias-removed signal.
// This is a robust peak estimate, not the maximum: outlier samples above the
// percentile are discarded.
func Peak(signal []float64, percentile float64) (float64, error) {
	ac, err := RemoveDCBias(signal)
	if err != nil {
		return 0, fmt.Errorf("peak: %w", err)
	}
	for i, x := range ac {
		ac[i] = math.Abs(x)
	}

	p, err := Percentile(ac, percentile)
	if err != nil {
		return 0, fmt.Errorf("peak: %w", err)
	}

	return p, nil
}

// PeakToPeak returns the span between the upper and lower symmetric
// percentiles of the bias-removed signal:
//
//	percentile(ac, p) - percentile(ac, 100-p)
//
// Both percentiles are taken over the signed samples. For asymmetric signals
// this differs from 2*Peak, which folds both polarities into one
// distribution; the signed span preserves the asymmetry.
func PeakToPeak(signal []float64, percentile float64) (float64, error) {
	ac, err := RemoveDCBias(signal)
	if err != nil {
		return 0, fmt.Errorf("peak to peak: %w", err)
	}

	high, err := Percentile(ac, percentile)
	if err != nil {
		return 0, fmt.Errorf("peak to peak: %w", err)
	}
	low, err := Percentile(ac, 100-percentile)
	if err != nil {
		return 0, fmt.Errorf("peak to peak: %w", err)
	}

	return high - low, nil
}

// Percentile returns the p-th percentile of the signal using linear
// interpolation between closest order statistics: the value at fractional
// rank p/100*(n-1) of the sorted samples. This matches NumPy's default
// "linear" method, keeping results bit-comparable with reference data.
func Percentile(signal []float64, p float64) (float64, error) {
	if len(signal) == 0 {
		return 0, fmt.Errorf("percentile: empty signal")
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile must be in [0,100]: %f", p)
	}

	sorted := make([]float64, len(signal))
	copy(sorted, signal)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}

	frac := rank - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
}

// VrmsToCurrent converts a secondary RMS voltage to primary current through
// the CT's linear transfer ratio: vrms * iPrimary / ctFSVoltage. iPrimary is
// the nominal primary current rating (A) and ctFSVoltage the secondary
// full-scale voltage (V). No clamping or saturation modeling is applied.
func VrmsToCurrent(vrms, iPrimary, ctFSVoltage float64) (float64, error) {
	if ctFSVoltage <= 0 {
		return 0, fmt.Errorf("ct full-scale voltage must be > 0: %f", ctFSVoltage)
	}

	return vrms * iPrimary / ctFSVoltage, nil
}

// Calculate computes the full metric tuple for one signal in a single call.
func Calculate(signal []float64, percentile, iPrimary, ctFSVoltage float64) (Result, error) {
	rms, err := RMS(signal)
	if err != nil {
		return Result{}, err
	}
	peak, err := Peak(signal, percentile)
	if err != nil {
		return Result{}, err
	}
	pp, err := PeakToPeak(signal, percentile)
	if err != nil {
		return Result{}, err
	}
	current, err := VrmsToCurrent(rms, iPrimary, ctFSVoltage)
	if err != nil {
		return Result{}, err
	}

	return Result{
		RMS:        rms,
		Peak:       peak,
		PeakToPeak: pp,
		Current:    current,
	}, nil
}
