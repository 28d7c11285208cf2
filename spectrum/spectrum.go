// Package spectrum computes single-sided magnitude spectra of captured and
// synthesized waveforms for the comparison report's spectrum panel. The
// analysis is a Hann-windowed FFT with window-gain compensation, plus a
// fundamental readout taken from the strongest non-DC bin.
package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Analysis holds a single-sided magnitude spectrum.
type Analysis struct {
	Freqs            []float64 // bin center frequencies (Hz)
	Magnitude        []float64 // amplitude per bin (V)
	FundamentalHz    float64   // strongest non-DC bin
	FundamentalLevel float64   // amplitude of that bin (V)
}

// Analyze computes the magnitude spectrum of a signal sampled at sampleRate.
// The signal is Hann-windowed and zero-padded or truncated to fftSize, which
// must be a power of two accepted by the FFT plan.
func Analyze(signal []float64, sampleRate float64, fftSize int) (Analysis, error) {
	if len(signal) == 0 {
		return Analysis{}, fmt.Errorf("spectrum: empty signal")
	}
	if sampleRate <= 0 {
		return Analysis{}, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Analysis{}, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	win := hann(fftSize)
	winGain := vecmath.Sum(win) / float64(fftSize)

	n := len(signal)
	if n > fftSize {
		n = fftSize
	}

	in := make([]complex128, fftSize)
	for i := 0; i < n; i++ {
		in[i] = complex(signal[i]*win[i], 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Analysis{}, fmt.Errorf("spectrum: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	// Normalize: FFT length, window gain, and the factor 2 for folding the
	// negative frequencies into the single-sided spectrum (not applied to DC
	// and Nyquist).
	scale := 1 / (float64(fftSize) * winGain)
	for i := range mag {
		s := scale
		if i != 0 && i != bins-1 {
			s *= 2
		}
		mag[i] *= s
	}

	freqs := make([]float64, bins)
	binWidth := sampleRate / float64(fftSize)
	for i := range freqs {
		freqs[i] = float64(i) * binWidth
	}

	a := Analysis{Freqs: freqs, Magnitude: mag}
	for i := 1; i < bins; i++ {
		if mag[i] > a.FundamentalLevel {
			a.FundamentalLevel = mag[i]
			a.FundamentalHz = freqs[i]
		}
	}

	return a, nil
}

// hann returns a periodic Hann window of length n.
func hann(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}

	return out
}
