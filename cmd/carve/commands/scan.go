// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/carve-tools/carve/cmd/carve/cli"
	"github.com/carve-tools/carve/lib/codec"
	"github.com/carve-tools/carve/lib/scan"
)

// scanOptions are the flags shared by every command that runs a scan
// (scan itself, extract, and pointers in block mode). Precedence is
// defaults, then profile values, then explicitly passed flags.
type scanOptions struct {
	Algorithms string `flag:"algorithms,a" desc:"comma-separated algorithms to probe, or 'all'" default:"all"`
	MinLength  int    `flag:"min-length,l" desc:"discard blocks with a smaller decompressed size" default:"16"`
	Workers    int    `flag:"workers" desc:"scanning goroutines (0 means one per CPU)"`
	MaxOutput  int64  `flag:"max-output" desc:"per-stream decoded output ceiling in bytes"`
	Profile    string `flag:"profile" desc:"YAML profile with scan settings"`
	Verbose    bool   `flag:"verbose,v" desc:"log at debug level"`
}

// config builds a scan configuration from defaults, the profile (if
// any), and the flags the user actually passed on the command line.
func (o *scanOptions) config(flags *pflag.FlagSet) (scan.Config, error) {
	config := scan.DefaultConfig()

	if o.Profile != "" {
		profile, err := LoadProfile(o.Profile)
		if err != nil {
			return scan.Config{}, err
		}
		if err := profile.apply(&config); err != nil {
			return scan.Config{}, err
		}
	}

	if flags.Changed("algorithms") {
		set, err := codec.ParseSet(o.Algorithms)
		if err != nil {
			return scan.Config{}, err
		}
		config.Algorithms = set
	}
	if flags.Changed("min-length") {
		config.MinLength = o.MinLength
	}
	if flags.Changed("workers") {
		config.Workers = o.Workers
	}
	if flags.Changed("max-output") {
		config.MaxOutput = o.MaxOutput
	}
	return config, nil
}

// interruptContext returns a context canceled by Ctrl-C, so a scan
// over a large image can be abandoned cleanly.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

type scanParams struct {
	cli.JSONOutput
	scanOptions
	Positions    bool `flag:"positions,p" desc:"report starting positions without building blocks"`
	KeepOverlaps bool `flag:"keep-overlaps" desc:"report nested and intersecting blocks too"`
}

// ScanCommand returns the "carve scan" command.
func ScanCommand() *cli.Command {
	var params scanParams
	var flags *pflag.FlagSet

	return &cli.Command{
		Name:    "scan",
		Summary: "Scan a file for embedded compressed streams",
		Description: `Scan a binary file for embedded compressed streams.

Every byte offset is probed with the selected algorithms. Validated
streams are reported as blocks with their offset, compressed length,
and decompressed length; overlapping candidates are reduced to the
earliest-starting ones unless --keep-overlaps is set.`,
		Usage: "carve scan <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Scan a firmware image with all algorithms",
				Command:     "carve scan firmware.bin",
			},
			{
				Description: "Fast location pass with gzip and zlib only",
				Command:     "carve scan --positions --algorithms gzip,zlib firmware.bin",
			},
			{
				Description: "Scan with a stored profile, overriding its minimum size",
				Command:     "carve scan --profile n64.yaml --min-length 256 rom.z64",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags = cli.FlagsFromParams("scan", &params)
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one input file, got %d args", len(args))
			}
			path := args[0]

			config, err := params.config(flags)
			if err != nil {
				return err
			}
			config.PositionsOnly = params.Positions
			config.KeepOverlaps = params.KeepOverlaps

			blob, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			logger := cli.NewCommandLogger(params.Verbose).With("command", "scan", "input", path)
			logger.Info("scanning",
				"size", len(blob),
				"algorithms", config.Algorithms.String(),
				"positions_only", config.PositionsOnly)

			ctx, stop := interruptContext()
			defer stop()

			started := time.Now()
			result, err := scan.Scan(ctx, blob, config)
			if err != nil {
				return err
			}
			logger.Info("scan complete",
				"positions", len(result.Positions),
				"blocks", len(result.Blocks),
				"duration", time.Since(started))
			for _, b := range result.Blocks {
				logger.Debug("block",
					"offset", b.Offset,
					"algorithm", b.Algorithm.String(),
					"compressed", b.CompressedLength,
					"decompressed", b.DecompressedLength)
			}

			if done, err := params.EmitJSON(result); done {
				return err
			}

			if config.PositionsOnly {
				return printPositions(result.Positions)
			}
			return printBlocks(result.Blocks)
		},
	}
}

func printPositions(positions []scan.StartingPosition) error {
	if len(positions) == 0 {
		fmt.Println("no compressed streams found")
		return &cli.ExitError{Code: 1}
	}
	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tALGORITHM")
	for _, p := range positions {
		fmt.Fprintf(tw, "%#x\t%s\n", p.Offset, p.Algorithm)
	}
	return tw.Flush()
}

func printBlocks(blocks []scan.Block) error {
	if len(blocks) == 0 {
		fmt.Println("no compressed blocks found")
		return &cli.ExitError{Code: 1}
	}
	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tALGORITHM\tCOMPRESSED\tDECOMPRESSED")
	for _, b := range blocks {
		fmt.Fprintf(tw, "%#x\t%s\t%d\t%d\n", b.Offset, b.Algorithm, b.CompressedLength, b.DecompressedLength)
	}
	return tw.Flush()
}
