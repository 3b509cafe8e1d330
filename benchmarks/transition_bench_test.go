// Package benchmarks provides performance benchmarks for resolver queries.
package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/chartpath"
	"github.com/comalice/chartpath/testutil"
)

func BenchmarkTransitionPath(b *testing.B) {
	for _, depth := range []int{3, 10, 50} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			chart, deepest, shallow := testutil.DeepChart(depth, 4)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := chartpath.TransitionPath(chart, deepest, shallow); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkComputeActionSequence(b *testing.B) {
	for _, depth := range []int{3, 10, 50} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			chart := MustCompile(GenDeepConfig(depth))
			from := MustID(chart, fmt.Sprintf("a%d", depth))
			to := MustID(chart, "b1")
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := chartpath.ComputeActionSequence(chart, from, to); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkResolveEvent(b *testing.B) {
	for _, depth := range []int{3, 10, 50} {
		chart, deepest, _ := testutil.DeepChart(depth, 4)
		evt := chartpath.NewEvent("jump", nil)

		b.Run(fmt.Sprintf("path/depth=%d", depth), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := chartpath.ResolveEvent(chart, deepest, evt); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(fmt.Sprintf("family/depth=%d", depth), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := chartpath.ResolveEventInFamilyTree(chart, deepest, evt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkResolveEventWide(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("transitions=%d", n), func(b *testing.B) {
			chart := MustCompile(GenWideTransitions(n))
			main := MustID(chart, "main")
			evt := chartpath.NewEvent("tick", nil)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := chartpath.ResolveEvent(chart, main, evt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkResolveDefaultLeaf(b *testing.B) {
	for _, depth := range []int{3, 10, 50} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			chart, _, _ := testutil.DeepChart(depth, 4)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := chartpath.ResolveDefaultLeaf(chart, chart.Root()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkResolveStateReference(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			chart := MustCompile(GenFlatConfig(n))
			ref := chartpath.ByName(fmt.Sprintf("s%d", n-1))
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := chartpath.ResolveStateReference(chart, ref); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPlan(b *testing.B) {
	chart := MustCompile(GenDeepConfig(10))
	current := MustID(chart, "a10")
	evt := chartpath.NewEvent("reset", nil)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := chartpath.Plan(chart, current, evt); err != nil {
			b.Fatal(err)
		}
	}
}
