package metrics

import (
	"math"
	"testing"
)

func makeBenchSignal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.1 + math.Sin(2*math.Pi*float64(i)/float64(n))
	}

	return out
}

func BenchmarkRMS(b *testing.B) {
	signal := makeBenchSignal(10000)
	b.ReportAllocs()

	for range b.N {
		_, _ = RMS(signal)
	}
}

func BenchmarkPeak(b *testing.B) {
	signal := makeBenchSignal(10000)
	b.ReportAllocs()

	for range b.N {
		_, _ = Peak(signal, DefaultPercentile)
	}
}

func BenchmarkCalculate(b *testing.B) {
	signal := makeBenchSignal(10000)
	b.ReportAllocs()

	for range b.N {
		_, _ = Calculate(signal, DefaultPercentile, 100, 0.333)
	}
}
