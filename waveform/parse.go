package waveform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Signal identifier grammar. The nominal RMS is encoded in millivolts.
//
//	dimmer_50pct_60hz_118mVrms
//	sine_60hz_mod_400hz_10.18mVrms
//	sine_60hz_33.85mVrms  (also square, triangle)
var (
	dimmerNameRE  = regexp.MustCompile(`(?i)^dimmer_(\d+)pct_(\d+)hz_([\d.]+)mVrms$`)
	sineModNameRE = regexp.MustCompile(`(?i)^sine_(\d+)hz_mod_(\d+)hz_([\d.]+)mVrms$`)
	simpleNameRE  = regexp.MustCompile(`(?i)^(sine|square|triangle)_(\d+)hz_([\d.]+)mVrms$`)
)

// ParseName parses a structured signal identifier into a Descriptor.
// An identifier that matches none of the known forms is an error.
func ParseName(name string) (Descriptor, error) {
	if m := dimmerNameRE.FindStringSubmatch(name); m != nil {
		duty, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("signal name %q: duty: %w", name, err)
		}
		freq, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("signal name %q: frequency: %w", name, err)
		}
		mvrms, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("signal name %q: rms: %w", name, err)
		}

		return NewDimmer(freq, duty, mvrms*1e-3)
	}

	if m := sineModNameRE.FindStringSubmatch(name); m != nil {
		freq, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("signal name %q: frequency: %w", name, err)
		}
		modFreq, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("signal name %q: modulation frequency: %w", name, err)
		}
		mvrms, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("signal name %q: rms: %w", name, err)
		}

		return NewSineMod(freq, modFreq, mvrms*1e-3)
	}

	if m := simpleNameRE.FindStringSubmatch(name); m != nil {
		freq, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("signal name %q: frequency: %w", name, err)
		}
		mvrms, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("signal name %q: rms: %w", name, err)
		}

		switch strings.ToLower(m[1]) {
		case "sine":
			return NewSine(freq, mvrms*1e-3)
		case "square":
			return NewSquare(freq, mvrms*1e-3)
		default:
			return NewTriangle(freq, mvrms*1e-3)
		}
	}

	return Descriptor{}, fmt.Errorf("unrecognized signal name: %q", name)
}
