// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/carve-tools/carve/cmd/carve/cli"
	"github.com/carve-tools/carve/lib/scan"
)

type pointersParams struct {
	cli.JSONOutput
	Target      string `flag:"target,t" desc:"address value to search for (decimal or 0x hex)"`
	BlockOffset int64  `flag:"block-offset" desc:"derive the target from this block offset" default:"-1"`
	Bias        int64  `flag:"bias" desc:"subtracted from --block-offset to form the target address"`
	Verbose     bool   `flag:"verbose,v" desc:"log at debug level"`
}

// target resolves the 32-bit value to search for from the flags.
func (p *pointersParams) target() (uint32, error) {
	if p.Target != "" {
		if p.BlockOffset >= 0 {
			return 0, fmt.Errorf("--target and --block-offset are mutually exclusive")
		}
		value, err := strconv.ParseUint(p.Target, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("parsing target address: %w", err)
		}
		return uint32(value), nil
	}
	if p.BlockOffset < 0 {
		return 0, fmt.Errorf("either --target or --block-offset is required")
	}
	address := p.BlockOffset - p.Bias
	if address < 0 || address > math.MaxUint32 {
		return 0, fmt.Errorf("target address %d out of 32-bit range", address)
	}
	return uint32(address), nil
}

// PointersCommand returns the "carve pointers" command.
func PointersCommand() *cli.Command {
	var params pointersParams

	return &cli.Command{
		Name:    "pointers",
		Summary: "Find 4-byte little-endian references to an address",
		Description: `Search a binary file for 4-byte little-endian words equal to a
target address, at every offset, aligned or not.

The target is either given directly with --target, or derived from a
discovered block's offset as --block-offset minus --bias. The bias
models the difference between the address space used by in-file
references and raw file offsets (a stripped header, a negative bias
for a load base address).`,
		Usage: "carve pointers <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Who references the block at file offset 0x14a20?",
				Command:     "carve pointers --block-offset 0x14a20 firmware.bin",
			},
			{
				Description: "Same block, addressed relative to a 0x1000-byte header",
				Command:     "carve pointers --block-offset 0x14a20 --bias 4096 firmware.bin",
			},
			{
				Description: "Search for a literal address value",
				Command:     "carve pointers --target 0x80014a20 rom.z64",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("pointers", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one input file, got %d args", len(args))
			}
			path := args[0]

			target, err := params.target()
			if err != nil {
				return err
			}

			blob, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			logger := cli.NewCommandLogger(params.Verbose).With("command", "pointers", "input", path)
			logger.Info("searching", "target", fmt.Sprintf("%#x", target), "size", len(blob))

			offsets := scan.FindPointers(blob, target)

			if done, err := params.EmitJSON(offsets); done {
				return err
			}

			if len(offsets) == 0 {
				fmt.Printf("no references to %#x found\n", target)
				return &cli.ExitError{Code: 1}
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "OFFSET\tTARGET")
			for _, offset := range offsets {
				fmt.Fprintf(tw, "%#x\t%#x\n", offset, target)
			}
			return tw.Flush()
		},
	}
}
