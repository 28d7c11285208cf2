// Package testutil provides deterministic signal fixtures and tolerance
// helpers shared by the package tests.
package testutil

import "math"

// GridSine generates a sine wave over the half-open uniform grid
// t[i] = i*duration/n, matching the reference synthesis grid.
func GridSine(freqHz, amplitude, duration float64, n int) []float64 {
	out := make([]float64, n)
	step := duration / float64(n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freqHz*float64(i)*step)
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Offset returns a copy of the signal with a constant added to each sample.
func Offset(signal []float64, k float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v + k
	}
	return out
}
