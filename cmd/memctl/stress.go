package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeebo/mwc"

	"github.com/memkit/memkit/mem"
	"github.com/memkit/memkit/mem/arena"
	"github.com/memkit/memkit/mem/verify"
)

var (
	stressSize       int
	stressOps        int
	stressSeed       uint64
	stressCheckEvery int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressSize, "size", 1<<20, "Region size in bytes")
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of alloc/free operations")
	cmd.Flags().Uint64Var(&stressSeed, "seed", 1, "RNG seed (runs are reproducible per seed)")
	cmd.Flags().IntVar(&stressCheckEvery, "check-every", 1024, "Validate all region invariants every N operations (0 = only at the end)")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Drive a randomized alloc/free workload against a fresh arena",
		Long: `The stress command formats a fresh arena and runs a seeded random
mixture of allocations and frees against it, periodically validating every
region invariant (header seal, block links, accounting, occupancy). At the
end it frees everything still live and validates once more.

Example:
  memctl stress --size 1048576 --ops 100000 --seed 42
  memctl stress --ops 1000000 --check-every 4096
  memctl stress --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

func runStress() error {
	printVerbose("Formatting %d byte region\n", stressSize)

	r, err := mem.NewRegion(stressSize)
	if err != nil {
		return fmt.Errorf("failed to allocate region: %w", err)
	}
	defer r.Close()

	a, err := arena.New(r, nil)
	if err != nil {
		return fmt.Errorf("failed to format arena: %w", err)
	}

	rng := mwc.New(stressSeed, stressSeed)
	var refs []arena.Ref

	start := time.Now()
	var verifyErr error
	opsDone := 0

	for i := 1; i <= stressOps; i++ {
		doAlloc := len(refs) == 0 || rng.Uint32n(2) == 0

		if doAlloc {
			size := 8 + int(rng.Uint32n(1024))
			ref, _, aerr := a.Alloc(size)
			if aerr == nil {
				refs = append(refs, ref)
			} else {
				// Arena full: give a block back instead.
				doAlloc = false
			}
		}
		if !doAlloc && len(refs) > 0 {
			idx := int(rng.Uint32n(uint32(len(refs))))
			ref := refs[idx]
			refs[idx] = refs[len(refs)-1]
			refs = refs[:len(refs)-1]
			if ferr := a.Free(ref); ferr != nil {
				verifyErr = fmt.Errorf("free after %d ops: %w", i, ferr)
				break
			}
		}
		opsDone = i

		if stressCheckEvery > 0 && i%stressCheckEvery == 0 {
			if verr := verify.Region(r.Bytes()); verr != nil {
				verifyErr = fmt.Errorf("invariant violation after %d ops: %w", i, verr)
				break
			}
		}
	}

	// Drain and validate one final time.
	if verifyErr == nil {
		for _, ref := range refs {
			if ferr := a.Free(ref); ferr != nil {
				verifyErr = fmt.Errorf("drain free: %w", ferr)
				break
			}
		}
	}
	if verifyErr == nil {
		if verr := verify.Region(r.Bytes()); verr != nil {
			verifyErr = fmt.Errorf("invariant violation after drain: %w", verr)
		}
	}

	elapsed := time.Since(start)
	st := a.Stats()
	capacity := a.Capacity()

	opsPerSec := 0.0
	if elapsed > 0 {
		opsPerSec = float64(opsDone) / elapsed.Seconds()
	}
	highWaterPct := 0.0
	if capacity > 0 {
		highWaterPct = float64(st.HighWater) * 100.0 / float64(capacity)
	}

	result := map[string]interface{}{
		"size":           stressSize,
		"capacity":       capacity,
		"ops":            opsDone,
		"seed":           stressSeed,
		"check_every":    stressCheckEvery,
		"alloc_calls":    st.AllocCalls,
		"failed_allocs":  st.FailedAllocs,
		"free_calls":     st.FreeCalls,
		"bad_frees":      st.BadFrees,
		"splits":         st.Splits,
		"coalesce_left":  st.CoalesceLeft,
		"coalesce_right": st.CoalesceRight,
		"high_water":     st.HighWater,
		"bytes_in_use":   st.BytesInUse,
		"duration_ms":    float64(elapsed.Microseconds()) / 1000.0,
		"ops_per_sec":    opsPerSec,
		"valid":          verifyErr == nil,
	}
	if verifyErr != nil {
		result["error"] = verifyErr.Error()
	}

	if jsonOut {
		if jerr := printJSON(result); jerr != nil {
			return jerr
		}
		return verifyErr
	}

	printInfo("\nStress: %d ops over %d bytes (seed %d)...\n\n", stressOps, stressSize, stressSeed)

	if verifyErr != nil {
		printInfo("  ✗ %v\n", verifyErr)
		printInfo("\nResult: ✗ FAIL\n")
		return verifyErr
	}

	if stressCheckEvery > 0 {
		printInfo("  ✓ Invariants verified every %d ops\n", stressCheckEvery)
	}
	printInfo("  ✓ Final drain clean\n\n")

	printInfo("Operations:\n")
	printInfo("  Allocs: %d (%d rejected full)\n", st.AllocCalls, st.FailedAllocs)
	printInfo("  Frees:  %d\n", st.FreeCalls)
	printInfo("  Splits: %d\n", st.Splits)
	printInfo("  Merges: %d left / %d right\n\n", st.CoalesceLeft, st.CoalesceRight)

	printInfo("Load:\n")
	printInfo("  High water:   %d bytes (%.1f%% of capacity)\n", st.HighWater, highWaterPct)
	printInfo("  Final in use: %d bytes\n\n", st.BytesInUse)

	printInfo("Duration: %s (%.0f ops/sec)\n", elapsed.Round(time.Millisecond), opsPerSec)

	return nil
}
