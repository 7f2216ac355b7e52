package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/memkit/memkit/mem"
	"github.com/memkit/memkit/mem/arena"
)

var (
	selftestSize   int
	selftestMmap   bool
	selftestLocked bool
)

func init() {
	cmd := newSelftestCmd()
	cmd.Flags().IntVar(&selftestSize, "size", 1<<20, "Region size in bytes")
	cmd.Flags().BoolVar(&selftestMmap, "mmap", false, "Back the region with an anonymous mapping")
	cmd.Flags().BoolVar(&selftestLocked, "locked", false, "Pin the mapping resident (requires --mmap)")
	rootCmd.AddCommand(cmd)
}

func newSelftestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the memory self-test over a fresh region",
		Long: `The selftest command allocates a fresh region, writes and verifies the
four test patterns (ascending counter, 0x55, 0xAA, zero) over every byte,
and formats the region. A failure points at defective or misbehaving
backing memory.

Example:
  memctl selftest --size 1048576
  memctl selftest --size 16777216 --mmap --locked
  memctl selftest --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelftest()
		},
	}
	return cmd
}

func runSelftest() error {
	if selftestLocked && !selftestMmap {
		return fmt.Errorf("--locked requires --mmap")
	}

	mode := "heap"
	if selftestMmap {
		mode = "mmap"
		if selftestLocked {
			mode = "mmap+locked"
		}
	}

	printVerbose("Allocating %d byte region (%s)\n", selftestSize, mode)

	var (
		r   *mem.Region
		err error
	)
	if selftestMmap {
		r, err = mem.AnonRegion(selftestSize, selftestLocked)
	} else {
		r, err = mem.NewRegion(selftestSize)
	}
	if err != nil {
		return fmt.Errorf("failed to allocate region: %w", err)
	}
	defer r.Close()

	start := time.Now()
	a, err := arena.New(r, &arena.Config{SelfTest: true})
	elapsed := time.Since(start)

	result := map[string]interface{}{
		"size":        selftestSize,
		"mode":        mode,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
		"passed":      err == nil,
	}
	if err == nil {
		result["capacity"] = a.Capacity()
	} else {
		result["error"] = err.Error()
	}

	if jsonOut {
		if jerr := printJSON(result); jerr != nil {
			return jerr
		}
		return err
	}

	printInfo("\nSelf-test over %d bytes (%s)...\n\n", selftestSize, mode)
	printInfo("Patterns:\n")
	printInfo("  1. Ascending counter\n")
	printInfo("  2. 0x55\n")
	printInfo("  3. 0xAA\n")
	printInfo("  4. Zero\n\n")

	if err != nil {
		printInfo("  ✗ Pattern verification failed: %v\n", err)
		printInfo("\nResult: ✗ FAIL\n")
		return err
	}

	printInfo("  ✓ All patterns verified\n\n")
	printInfo("Region:\n")
	printInfo("  Capacity: %d bytes\n", a.Capacity())
	printInfo("  Duration: %s\n", elapsed.Round(time.Microsecond))
	printInfo("\nResult: ✓ PASS\n")

	return nil
}
