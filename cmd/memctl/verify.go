package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/memkit/memkit/mem"
	"github.com/memkit/memkit/mem/verify"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <region-file>",
		Short: "Validate a region file's structure",
		Long: `The verify command maps a formatted region file and checks every
structural invariant: the sealed header, the block list links, the size
accounting, and byte occupancy.

Example:
  memctl verify shared.region
  memctl verify shared.region --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
	return cmd
}

func runVerify(args []string) error {
	path := args[0]

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("region file not found: %s", path)
	}

	printVerbose("Mapping region file: %s\n", path)

	r, err := mem.MapRegion(path)
	if err != nil {
		return fmt.Errorf("failed to map region: %w", err)
	}
	defer r.Close()

	data := r.Bytes()

	checks := []struct {
		name string
		fn   func([]byte) error
	}{
		{"Header", verify.Header},
		{"Blocks", verify.Blocks},
		{"Accounting", verify.Accounting},
		{"Occupancy", verify.Occupancy},
	}

	var firstErr error
	results := make([]map[string]interface{}, 0, len(checks))
	for _, c := range checks {
		cerr := c.fn(data)
		entry := map[string]interface{}{
			"check": c.name,
			"valid": cerr == nil,
		}
		if cerr != nil {
			entry["error"] = cerr.Error()
			if firstErr == nil {
				firstErr = cerr
			}
		}
		results = append(results, entry)
	}

	if jsonOut {
		out := map[string]interface{}{
			"file":   path,
			"size":   r.Size(),
			"valid":  firstErr == nil,
			"checks": results,
		}
		if jerr := printJSON(out); jerr != nil {
			return jerr
		}
		return firstErr
	}

	printInfo("\nVerifying %s (%d bytes)...\n\n", path, r.Size())

	printInfo("Structure Validation:\n")
	for _, entry := range results {
		if entry["valid"] == true {
			printInfo("  ✓ %s\n", entry["check"])
		} else {
			printInfo("  ✗ %s: %s\n", entry["check"], entry["error"])
		}
	}

	if firstErr != nil {
		printInfo("\nResult: ✗ INVALID\n")
		return firstErr
	}

	printInfo("\nResult: ✓ VALID\n")
	return nil
}
