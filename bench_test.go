package immutability

import (
	"fmt"
	"reflect"
	"testing"
)

// Registry reads are lock-free; throughput should scale with workers.
func BenchmarkClassify(b *testing.B) {
	reg := NewRegistry(DefaultConfig())
	cases := []struct {
		name string
		typ  reflect.Type
	}{
		{"intrinsic", typeOf[string]()},
		{"product", typeOf[Outer]()},
		{"invariant", typeOf[Money]()},
		{"sequence", typeOf[[]int]()},
	}
	for _, tt := range cases {
		b.Run(tt.name, func(b *testing.B) {
			for b.Loop() {
				reg.Classify(tt.typ)
			}
		})
	}
}

func BenchmarkClassify_Parallel(b *testing.B) {
	reg := NewRegistry(DefaultConfig())
	typ := typeOf[Mixed]()
	for _, procs := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("N=%d", procs), func(b *testing.B) {
			b.SetParallelism(procs)
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					reg.Classify(typ)
				}
			})
		})
	}
}

func BenchmarkVerify(b *testing.B) {
	reg := NewRegistry(DefaultConfig())
	ledger := &Ledger{}
	ledger.Close()
	values := map[string]any{
		"constant": Flags{Visible: true},
		"latch":    ledger,
		"nested":   Outer{Inner: Envelope{Doc: ledger}},
	}
	for name, v := range values {
		b.Run(name, func(b *testing.B) {
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					reg.Verify(v)
				}
			})
		})
	}
}
