package main

import (
	"github.com/spf13/cobra"

	"github.com/memkit/memkit/internal/format"
	"github.com/memkit/memkit/mem"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the on-region layout",
	Long: `The layout command prints the byte layout of a formatted region: the
region header fields, the block header fields, and the sizing limits the
allocator enforces. All values come from the running binary, so the output
always matches the code.

Example:
  memctl layout
  memctl layout --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayout()
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}

func runLayout() error {
	if jsonOut {
		return printJSON(map[string]interface{}{
			"region_header": map[string]interface{}{
				"size":      format.RegionHeaderSize,
				"signature": string(format.RegionSignature),
				"offsets": map[string]int{
					"signature": format.RegionSignatureOffset,
					"head":      format.RegionHeadOffset,
					"capacity":  format.RegionCapacityOffset,
					"sum":       format.RegionSumOffset,
					"reserved":  format.RegionReservedOffset,
				},
				"summed_bytes": format.RegionSummedLen,
			},
			"block_header": map[string]interface{}{
				"size":      format.BlockHeaderSize,
				"signature": string(format.BlockSignature),
				"offsets": map[string]int{
					"signature": format.BlockSignatureOffset,
					"attr":      format.BlockAttrOffset,
					"prev":      format.BlockPrevOffset,
					"next":      format.BlockNextOffset,
					"size":      format.BlockSizeOffset,
					"reserved":  format.BlockReservedOffset,
				},
				"attr_used": format.AttrUsed,
			},
			"limits": map[string]interface{}{
				"alignment":       format.Alignment,
				"min_payload":     format.MinPayload,
				"min_region_size": format.MinRegionSize,
				"max_region_size": mem.MaxRegionSize,
			},
		})
	}

	printInfo("On-region layout (all fields little-endian):\n\n")

	printInfo("Region header (%d bytes at offset 0):\n", format.RegionHeaderSize)
	printInfo("  0x%02X  signature  %q\n", format.RegionSignatureOffset, format.RegionSignature)
	printInfo("  0x%02X  head       uint32  offset of first block header\n", format.RegionHeadOffset)
	printInfo("  0x%02X  capacity   uint64  usable bytes past the header\n", format.RegionCapacityOffset)
	printInfo("  0x%02X  sum        uint64  xxh3 of bytes [0x00, 0x%02X)\n",
		format.RegionSumOffset, format.RegionSummedLen)
	printInfo("  0x%02X  reserved   uint64  zero\n\n", format.RegionReservedOffset)

	printInfo("Block header (%d bytes before every payload):\n", format.BlockHeaderSize)
	printInfo("  0x%02X  signature  %q\n", format.BlockSignatureOffset, format.BlockSignature)
	printInfo("  0x%02X  attr       uint32  bit 0 = used\n", format.BlockAttrOffset)
	printInfo("  0x%02X  prev       uint32  previous header offset (0 = none)\n", format.BlockPrevOffset)
	printInfo("  0x%02X  next       uint32  next header offset (0 = none)\n", format.BlockNextOffset)
	printInfo("  0x%02X  size       uint32  payload bytes (multiple of %d)\n",
		format.BlockSizeOffset, format.Alignment)
	printInfo("  0x%02X  reserved   uint32  zero\n\n", format.BlockReservedOffset)

	printInfo("Limits:\n")
	printInfo("  Alignment:   %d bytes\n", format.Alignment)
	printInfo("  Min payload: %d bytes\n", format.MinPayload)
	printInfo("  Min region:  %d bytes\n", format.MinRegionSize)
	printInfo("  Max region:  %d bytes\n", mem.MaxRegionSize)

	return nil
}
