// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"

	"github.com/carve-tools/carve/cmd/carve/cli"
	"github.com/carve-tools/carve/lib/scan"
)

type extractParams struct {
	cli.JSONOutput
	scanOptions
	OutputDir string `flag:"output-dir,o" desc:"directory for extracted payloads" default:"carved"`
	Offset    int64  `flag:"offset" desc:"extract only the block at this offset" default:"-1"`
}

// payloadName is the file name for a block's decompressed payload:
// the block's zero-padded hex offset plus the algorithm's extension.
func payloadName(block scan.Block) string {
	return fmt.Sprintf("%08x.%s", block.Offset, block.Algorithm.Ext())
}

// extraction records one written payload for reporting.
type extraction struct {
	Block  scan.Block `json:"block"`
	Size   int        `json:"size"`
	Digest string     `json:"digest"`
	Path   string     `json:"path"`
}

// ExtractCommand returns the "carve extract" command.
func ExtractCommand() *cli.Command {
	var params extractParams
	var flags *pflag.FlagSet

	return &cli.Command{
		Name:    "extract",
		Summary: "Decompress discovered blocks to files",
		Description: `Scan a binary file and write each discovered block's decompressed
payload to the output directory.

Payload files are named by the block's offset and algorithm, e.g.
00014a20.gz. Each payload's BLAKE3 digest is reported so repeated
extractions of the same image can be compared cheaply.`,
		Usage: "carve extract <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Extract every block into ./carved",
				Command:     "carve extract firmware.bin",
			},
			{
				Description: "Extract one known block",
				Command:     "carve extract --offset 0x14a20 firmware.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags = cli.FlagsFromParams("extract", &params)
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

			blob, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			logger := cli.NewCommandLogger(params.Verbose).With("command", "extract", "input", path)

			ctx, stop := interruptContext()
			defer stop()

			result, err := scan.Scan(ctx, blob, config)
			if err != nil {
				return err
			}

			blocks := result.Blocks
			if params.Offset >= 0 {
				blocks = nil
				for _, b := range result.Blocks {
					if int64(b.Offset) == params.Offset {
						blocks = append(blocks, b)
					}
				}
				if len(blocks) == 0 {
					return fmt.Errorf("no block found at offset %#x", params.Offset)
				}
			}
			if len(blocks) == 0 {
				fmt.Println("no compressed blocks found")
				return &cli.ExitError{Code: 1}
			}

			if err := os.MkdirAll(params.OutputDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			extractions := make([]extraction, 0, len(blocks))
			for _, block := range blocks {
				payload, err := scan.Decompress(blob, block)
				if err != nil {
					return fmt.Errorf("extracting block at %#x: %w", block.Offset, err)
				}
				digest := blake3.Sum256(payload)
				outPath := filepath.Join(params.OutputDir, payloadName(block))
				if err := os.WriteFile(outPath, payload, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
				logger.Info("extracted",
					"offset", block.Offset,
					"algorithm", block.Algorithm.String(),
					"size", len(payload),
					"path", outPath)
				extractions = append(extractions, extraction{
					Block:  block,
					Size:   len(payload),
					Digest: hex.EncodeToString(digest[:]),
					Path:   outPath,
				})
			}

			if done, err := params.EmitJSON(extractions); done {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "OFFSET\tALGORITHM\tSIZE\tDIGEST\tFILE")
			for _, e := range extractions {
				fmt.Fprintf(tw, "%#x\t%s\t%d\t%s\t%s\n",
					e.Block.Offset, e.Block.Algorithm, e.Size, e.Digest[:16], e.Path)
			}
			return tw.Flush()
		},
	}
}
