package benchmarks

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/comalice/hfsm"
)

// reportFootprint starts count machines from def and reports the heap
// allocated per machine and per state.
func reportFootprint(b *testing.B, def *hfsm.Definition, count, states int) {
	b.Helper()
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	machines := make([]*hfsm.Machine, count)
	for i := range machines {
		m, err := def.NewMachine(hfsm.WithID(fmt.Sprintf("m%d", i)))
		if err != nil {
			b.Fatal(err)
		}
		machines[i] = m
	}
	runtime.ReadMemStats(&after)
	runtime.KeepAlive(machines)

	perMachine := (after.TotalAlloc - before.TotalAlloc) / uint64(count)
	b.ReportMetric(float64(perMachine), "B/machine")
	b.ReportMetric(float64(perMachine)/float64(states), "B/state")
}

func BenchmarkMemoryFlat(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			def := MustDefinition(FlatDocument(n))
			for b.Loop() {
				reportFootprint(b, def, 100, n)
			}
		})
	}
}

func BenchmarkMemoryDeep(b *testing.B) {
	for _, depth := range []int{1, 4, 12} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			def := MustDefinition(DeepDocument(depth))
			for b.Loop() {
				reportFootprint(b, def, 100, 2*(depth+1))
			}
		})
	}
}

func BenchmarkNewMachine(b *testing.B) {
	def := MustDefinition(DeepDocument(4))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := def.NewMachine(hfsm.WithID("bench")); err != nil {
			b.Fatal(err)
		}
	}
}
