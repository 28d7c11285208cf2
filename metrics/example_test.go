package metrics_test

import (
	"fmt"

	"github.com/cwbudde/ct-compare/metrics"
)

func ExampleVrmsToCurrent() {
	// Full-scale secondary voltage maps to full nominal primary current.
	i, err := metrics.VrmsToCurrent(0.333, 100, 0.333)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.1f A\n", i)

	// Output:
	// 100.0 A
}

func ExamplePercentile() {
	p, err := metrics.Percentile([]float64{1, 2, 3, 4}, 75)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f\n", p)

	// Output:
	// 3.25
}
