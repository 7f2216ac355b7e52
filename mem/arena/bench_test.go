package arena

import (
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
	"github.com/zeebo/mwc"

	"github.com/memkit/memkit/mem"
)

func newBenchArena(b *testing.B, size int, cfg *Config) *Arena {
	b.Helper()
	r, err := mem.NewRegion(size)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = r.Close() })

	a, err := New(r, cfg)
	if err != nil {
		b.Fatal(err)
	}
	return a
}

func BenchmarkArena(b *testing.B) {
	b.Run("AllocFree64", func(b *testing.B) {
		a := newBenchArena(b, 1<<20, &Config{})

		perfbench.Open(b)
		b.ReportAllocs()
		b.ResetTimer()

		for b.Loop() {
			ref, _, err := a.Alloc(64)
			if err != nil {
				b.Fatal(err)
			}
			if err := a.Free(ref); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("AllocFree64_Toggled", func(b *testing.B) {
		a := newBenchArena(b, 1<<20, &Config{Toggle: &mem.LockToggle{}})

		perfbench.Open(b)
		b.ReportAllocs()
		b.ResetTimer()

		for b.Loop() {
			ref, _, err := a.Alloc(64)
			if err != nil {
				b.Fatal(err)
			}
			if err := a.Free(ref); err != nil {
				b.Fatal(err)
			}
		}
	})

	// Churn keeps a few hundred allocations live and randomly replaces
	// them, so first-fit walks past used blocks and splits and merges keep
	// happening at steady state.
	b.Run("Churn", func(b *testing.B) {
		a := newBenchArena(b, 4<<20, &Config{})
		rng := mwc.Rand()

		refs := make([]Ref, 0, 512)
		for len(refs) < 512 {
			ref, _, err := a.Alloc(32 + int(rng.Uint32n(480)))
			if err != nil {
				b.Fatal(err)
			}
			refs = append(refs, ref)
		}

		perfbench.Open(b)
		b.ReportAllocs()
		b.ResetTimer()

		for b.Loop() {
			idx := int(rng.Uint32n(uint32(len(refs))))
			if err := a.Free(refs[idx]); err != nil {
				b.Fatal(err)
			}
			ref, _, err := a.Alloc(32 + int(rng.Uint32n(480)))
			if err != nil {
				b.Fatal(err)
			}
			refs[idx] = ref
		}
	})

	b.Run("FirstFitDeepWalk", func(b *testing.B) {
		a := newBenchArena(b, 4<<20, &Config{})

		// Fill with small blocks, then free the last one so each alloc
		// walks the full used prefix.
		var last Ref
		for {
			ref, _, err := a.Alloc(32)
			if err != nil {
				break
			}
			last = ref
		}
		if err := a.Free(last); err != nil {
			b.Fatal(err)
		}

		perfbench.Open(b)
		b.ReportAllocs()
		b.ResetTimer()

		for b.Loop() {
			ref, _, err := a.Alloc(32)
			if err != nil {
				b.Fatal(err)
			}
			if err := a.Free(ref); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkSelfTest(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"64KiB", 64 << 10},
		{"1MiB", 1 << 20},
	}
	for _, tc := range sizes {
		b.Run(tc.name, func(b *testing.B) {
			data := make([]byte, tc.size)

			perfbench.Open(b)
			b.SetBytes(int64(tc.size))
			b.ResetTimer()

			for b.Loop() {
				if err := selfTest(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
