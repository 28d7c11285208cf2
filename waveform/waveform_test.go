package waveform

import (
	"math"
	"testing"

	"github.com/cwbudde/ct-compare/internal/testutil"
	"github.com/cwbudde/ct-compare/metrics"
)

func TestSynthesizeGrid(t *testing.T) {
	d, err := NewSine(60, 0.1)
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}

	times, volts, err := Synthesize(d)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(times) != 10000 || len(volts) != 10000 {
		t.Fatalf("len = %d/%d, want 10000/10000", len(times), len(volts))
	}
	if times[0] != 0 {
		t.Fatalf("times[0] = %v, want 0", times[0])
	}
	// Half-open interval: the last sample stops one step short of duration.
	testutil.RequireNearlyEqual(t, times[9999], 0.9999, 1e-12)
}

func TestSineRoundTripRMS(t *testing.T) {
	d, err := NewSine(60, 0.03385)
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}

	_, volts, err := Synthesize(d)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	rms, err := metrics.RMS(volts)
	if err != nil {
		t.Fatalf("RMS() error = %v", err)
	}
	testutil.RequireNearlyEqual(t, rms, 0.03385, 1e-9)
}

func TestRoundTripAllFamilies(t *testing.T) {
	mk := func(d Descriptor, err error) Descriptor {
		t.Helper()
		if err != nil {
			t.Fatalf("descriptor error = %v", err)
		}
		return d
	}

	cases := []struct {
		name string
		desc Descriptor
		tol  float64
	}{
		{"sine", mk(NewSine(60, 0.03385)), 1e-9},
		{"square", mk(NewSquare(50, 0.2)), 1e-8},
		{"triangle", mk(NewTriangle(60, 0.05)), 1e-9},
		{"dimmer", mk(NewDimmer(60, 50, 0.118)), 1e-9},
		{"sine_mod", mk(NewSineMod(60, 400, 0.01018)), 1e-9},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, volts, err := Synthesize(c.desc)
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			testutil.RequireFinite(t, volts)

			rms, err := metrics.RMS(volts)
			if err != nil {
				t.Fatalf("RMS() error = %v", err)
			}
			testutil.RequireNearlyEqual(t, rms, c.desc.TargetRMS, c.tol)
		})
	}
}

func TestDimmerFullDutyIsSine(t *testing.T) {
	sine, err := NewSine(60, 0.1)
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}
	dimmer, err := NewDimmer(60, 100, 0.1)
	if err != nil {
		t.Fatalf("NewDimmer() error = %v", err)
	}

	_, wantVolts, err := Synthesize(sine)
	if err != nil {
		t.Fatalf("Synthesize(sine) error = %v", err)
	}
	_, gotVolts, err := Synthesize(dimmer)
	if err != nil {
		t.Fatalf("Synthesize(dimmer) error = %v", err)
	}

	for i := range wantVolts {
		if math.Abs(gotVolts[i]-wantVolts[i]) > 1e-12 {
			t.Fatalf("sample %d: dimmer %v, sine %v", i, gotVolts[i], wantVolts[i])
		}
	}
}

func TestDimmerZeroDutyStaysUnscaled(t *testing.T) {
	d, err := NewDimmer(60, 0, 0.118)
	if err != nil {
		t.Fatalf("NewDimmer() error = %v", err)
	}

	_, volts, err := Synthesize(d)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	// Firing angle pi means no conduction: zero raw RMS, wave left unscaled.
	for i, v := range volts {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestSquarePeakMatchesRMS(t *testing.T) {
	d, err := NewSquare(50, 0.2)
	if err != nil {
		t.Fatalf("NewSquare() error = %v", err)
	}

	_, volts, err := Synthesize(d)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	// |square| is constant-magnitude equal to its RMS, so the percentile
	// peak lands on the target RMS up to percentile discretization.
	peak, err := metrics.Peak(volts, metrics.DefaultPercentile)
	if err != nil {
		t.Fatalf("Peak() error = %v", err)
	}
	testutil.RequireNearlyEqual(t, peak, 0.2, 1e-3)
}

func TestSineModZeroModulationIsSine(t *testing.T) {
	// With f_mod = 0 the envelope is the constant 2, which the RMS
	// normalization cancels: the result equals a plain sine at the same
	// target RMS.
	sine, err := NewSine(60, 0.01018)
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}
	am, err := NewSineMod(60, 0, 0.01018)
	if err != nil {
		t.Fatalf("NewSineMod() error = %v", err)
	}

	_, wantVolts, err := Synthesize(sine)
	if err != nil {
		t.Fatalf("Synthesize(sine) error = %v", err)
	}
	_, gotVolts, err := Synthesize(am)
	if err != nil {
		t.Fatalf("Synthesize(sine_mod) error = %v", err)
	}

	for i := range wantVolts {
		if math.Abs(gotVolts[i]-wantVolts[i]) > 1e-12 {
			t.Fatalf("sample %d: sine_mod %v, sine %v", i, gotVolts[i], wantVolts[i])
		}
	}
}

func TestConstructorValidation(t *testing.T) {
	if _, err := NewSine(-1, 0.1); err == nil {
		t.Fatal("expected error for negative frequency")
	}
	if _, err := NewDimmer(60, 101, 0.1); err == nil {
		t.Fatal("expected error for duty > 100")
	}
	if _, err := NewDimmer(60, -1, 0.1); err == nil {
		t.Fatal("expected error for duty < 0")
	}
	if _, err := NewSineMod(60, -400, 0.1); err == nil {
		t.Fatal("expected error for negative modulation frequency")
	}
	if _, err := NewTriangle(60, -0.1); err == nil {
		t.Fatal("expected error for negative target rms")
	}
}

func TestSynthesizeUnknownFamily(t *testing.T) {
	if _, _, err := Synthesize(Descriptor{Family: Family(99), FreqHz: 60}); err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestSynthesizeOptionValidation(t *testing.T) {
	d, err := NewSine(60, 0.1)
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}

	if _, _, err := Synthesize(d, WithSamples(0)); err == nil {
		t.Fatal("expected error for zero samples")
	}
	if _, _, err := Synthesize(d, WithDuration(0)); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestSynthesizeCustomGrid(t *testing.T) {
	d, err := NewSine(50, 0.1)
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}

	times, volts, err := Synthesize(d, WithDuration(0.5), WithSamples(2000))
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(times) != 2000 || len(volts) != 2000 {
		t.Fatalf("len = %d/%d, want 2000/2000", len(times), len(volts))
	}
	testutil.RequireNearlyEqual(t, times[1]-times[0], 0.00025, 1e-15)
}
