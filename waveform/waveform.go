// Package waveform synthesizes ideal reference waveforms from structured
// descriptors. A Descriptor identifies one of a closed set of waveform
// families (sine, square, triangle, leading-edge dimmer cut, amplitude
// modulated sine) with exactly the parameters that family requires, and
// Synthesize produces a densely sampled waveform scaled so that its own RMS
// equals the descriptor's target.
package waveform

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Family identifies a waveform family.
type Family int

const (
	FamilySine Family = iota
	FamilySquare
	FamilyTriangle
	FamilyDimmer
	FamilySineMod
)

// String returns the family tag as it appears in signal identifiers.
func (f Family) String() string {
	switch f {
	case FamilySine:
		return "sine"
	case FamilySquare:
		return "square"
	case FamilyTriangle:
		return "triangle"
	case FamilyDimmer:
		return "dimmer"
	case FamilySineMod:
		return "sine_mod"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Descriptor describes one reference waveform. Descriptors are built through
// the per-family constructors, which validate that exactly the required
// parameters are present; a zero Descriptor is a valid plain sine with zero
// frequency and zero target RMS.
type Descriptor struct {
	Family    Family
	FreqHz    float64 // fundamental frequency
	DutyPct   float64 // dimmer only: conduction duty in [0,100]
	ModFreqHz float64 // sine_mod only: modulation frequency
	TargetRMS float64 // RMS the synthesized waveform is scaled to (V)
}

func validateCommon(family Family, freqHz, targetRMS float64) error {
	if freqHz < 0 {
		return fmt.Errorf("%s frequency must be >= 0: %f", family, freqHz)
	}
	if targetRMS < 0 {
		return fmt.Errorf("%s target rms must be >= 0: %f", family, targetRMS)
	}

	return nil
}

// NewSine builds a plain sine descriptor.
func NewSine(freqHz, targetRMS float64) (Descriptor, error) {
	if err := validateCommon(FamilySine, freqHz, targetRMS); err != nil {
		return Descriptor{}, err
	}

	return Descriptor{Family: FamilySine, FreqHz: freqHz, TargetRMS: targetRMS}, nil
}

// NewSquare builds a square wave descriptor.
func NewSquare(freqHz, targetRMS float64) (Descriptor, error) {
	if err := validateCommon(FamilySquare, freqHz, targetRMS); err != nil {
		return Descriptor{}, err
	}

	return Descriptor{Family: FamilySquare, FreqHz: freqHz, TargetRMS: targetRMS}, nil
}

// NewTriangle builds a triangle wave descriptor.
func NewTriangle(freqHz, targetRMS float64) (Descriptor, error) {
	if err := validateCommon(FamilyTriangle, freqHz, targetRMS); err != nil {
		return Descriptor{}, err
	}

	return Descriptor{Family: FamilyTriangle, FreqHz: freqHz, TargetRMS: targetRMS}, nil
}

// NewDimmer builds a leading-edge dimmer (TRIAC phase-cut) descriptor.
// dutyPct is the conduction duty: 100 means full conduction (pure sine),
// 0 means no conduction at all.
func NewDimmer(freqHz, dutyPct, targetRMS float64) (Descriptor, error) {
	if err := validateCommon(FamilyDimmer, freqHz, targetRMS); err != nil {
		return Descriptor{}, err
	}
	if dutyPct < 0 || dutyPct > 100 {
		return Descriptor{}, fmt.Errorf("dimmer duty must be in [0,100]: %f", dutyPct)
	}

	return Descriptor{Family: FamilyDimmer, FreqHz: freqHz, DutyPct: dutyPct, TargetRMS: targetRMS}, nil
}

// NewSineMod builds a 100%-depth amplitude-modulated sine descriptor with
// carrier frequency freqHz and modulation frequency modFreqHz.
func NewSineMod(freqHz, modFreqHz, targetRMS float64) (Descriptor, error) {
	if err := validateCommon(FamilySineMod, freqHz, targetRMS); err != nil {
		return Descriptor{}, err
	}
	if modFreqHz < 0 {
		return Descriptor{}, fmt.Errorf("sine_mod modulation frequency must be >= 0: %f", modFreqHz)
	}

	return Descriptor{Family: FamilySineMod, FreqHz: freqHz, ModFreqHz: modFreqHz, TargetRMS: targetRMS}, nil
}

const (
	defaultDuration = 1.0
	defaultSamples  = 10000
)

type synthConfig struct {
	duration float64
	samples  int
}

// Option configures synthesis.
type Option func(*synthConfig)

// WithDuration sets the synthesized duration in seconds.
func WithDuration(seconds float64) Option {
	return func(c *synthConfig) {
		c.duration = seconds
	}
}

// WithSamples sets the number of generated samples.
func WithSamples(n int) Option {
	return func(c *synthConfig) {
		c.samples = n
	}
}

// Synthesize produces the ideal reference waveform for a descriptor as
// parallel (times, volts) slices of equal length. The time grid is uniform
// and half-open: t[i] = i*duration/n, so the final sample never repeats the
// start phase. After shape generation the wave is scaled so its own RMS
// equals the descriptor's target; a degenerate all-zero shape (raw RMS 0) is
// returned unscaled.
func Synthesize(d Descriptor, opts ...Option) (times, volts []float64, err error) {
	cfg := synthConfig{duration: defaultDuration, samples: defaultSamples}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.samples <= 0 {
		return nil, nil, fmt.Errorf("synthesize samples must be > 0: %d", cfg.samples)
	}
	if cfg.duration <= 0 {
		return nil, nil, fmt.Errorf("synthesize duration must be > 0: %f", cfg.duration)
	}

	times = make([]float64, cfg.samples)
	step := cfg.duration / float64(cfg.samples)
	for i := range times {
		times[i] = float64(i) * step
	}

	volts, err = shape(d, times)
	if err != nil {
		return nil, nil, err
	}

	raw := rawRMS(volts)
	if raw > 0 {
		vecmath.ScaleBlockInPlace(volts, d.TargetRMS/raw)
	}

	return times, volts, nil
}

// shape evaluates the unscaled waveform of d over the time grid.
func shape(d Descriptor, times []float64) ([]float64, error) {
	out := make([]float64, len(times))

	switch d.Family {
	case FamilySine:
		for i, t := range times {
			out[i] = math.Sin(2 * math.Pi * d.FreqHz * t)
		}

	case FamilySquare:
		// sign(sin): exact ±1, with 0 at exact zero crossings.
		for i, t := range times {
			s := math.Sin(2 * math.Pi * d.FreqHz * t)
			switch {
			case s > 0:
				out[i] = 1
			case s < 0:
				out[i] = -1
			default:
				out[i] = 0
			}
		}

	case FamilyTriangle:
		// Linear ramp -1..+1 and back with period 1/f.
		for i, t := range times {
			phase := d.FreqHz * t
			phase -= math.Floor(phase)
			out[i] = 4*math.Abs(phase-0.5) - 1
		}

	case FamilyDimmer:
		// Blanked from the start of each half-cycle until the firing angle,
		// then the sine conducts for the rest of the half-cycle. Both
		// polarities cut at the same angle.
		firingAngle := math.Pi * (1 - d.DutyPct/100)
		for i, t := range times {
			arg := 2 * math.Pi * d.FreqHz * t
			if math.Mod(arg, math.Pi) >= firingAngle {
				out[i] = math.Sin(arg)
			}
		}

	case FamilySineMod:
		// 100%-depth AM: envelope swings 0..2 around the carrier.
		for i, t := range times {
			carrier := math.Sin(2 * math.Pi * d.FreqHz * t)
			envelope := 1 + math.Cos(2*math.Pi*d.ModFreqHz*t)
			out[i] = carrier * envelope
		}

	default:
		return nil, fmt.Errorf("unknown waveform family: %s", d.Family)
	}

	return out, nil
}

// rawRMS is the plain (not bias-removed) RMS used for target-RMS scaling.
func rawRMS(wave []float64) float64 {
	if len(wave) == 0 {
		return 0
	}

	return math.Sqrt(vecmath.DotProduct(wave, wave) / float64(len(wave)))
}
