// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete carve CLI command tree.
package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/carve-tools/carve/cmd/carve/cli"
	"github.com/carve-tools/carve/lib/version"
)

// Root builds and returns the complete carve CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "carve",
		Summary: "Find and extract compressed streams embedded in binary files",
		Description: `carve: compressed-stream carving for binary blobs.

Scan firmware images, ROMs, and disk images for embedded compressed
streams (deflate, zlib, gzip, bzip2, lzma, lzma2, lzw, zstd, lz4),
extract their payloads, and locate pointer references to them.`,
		Subcommands: []*cli.Command{
			ScanCommand(),
			ExtractCommand(),
			PointersCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	var short bool
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVar(&short, "short", false, "print only the version number")
			return flagSet
		},
		Run: func(args []string) error {
			if short {
				fmt.Println(version.Short())
				return nil
			}
			fmt.Printf("carve %s\n", version.Full())
			return nil
		},
	}
}
