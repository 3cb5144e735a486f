// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "carve",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "scan",
				Run: func(args []string) error {
					called = "scan"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"scan"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "scan" {
		t.Errorf("dispatched to %q, want %q", called, "scan")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "carve",
		Subcommands: []*Command{
			{
				Name: "pointers",
				Subcommands: []*Command{
					{
						Name: "find",
						Run: func(args []string) error {
							called = "pointers find"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"pointers", "find", "firmware.bin"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "pointers find" {
		t.Errorf("dispatched to %q, want %q", called, "pointers find")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "firmware.bin" {
		t.Errorf("args = %v, want [firmware.bin]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var minLength int
	var input string

	command := &Command{
		Name: "scan",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("scan", pflag.ContinueOnError)
			flagSet.IntVar(&minLength, "min-length", 16, "minimum decompressed size")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				input = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--min-length", "64", "firmware.bin"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if minLength != 64 {
		t.Errorf("minLength = %d, want 64", minLength)
	}
	if input != "firmware.bin" {
		t.Errorf("input = %q, want %q", input, "firmware.bin")
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "carve",
		Subcommands: []*Command{
			{Name: "scan", Run: func(args []string) error { return nil }},
			{Name: "extract", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"scann"})
	if err == nil {
		t.Fatal("Execute() succeeded for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `did you mean "scan"`) {
		t.Errorf("error %q does not suggest scan", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "scan",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("scan", pflag.ContinueOnError)
			flagSet.Bool("positions", false, "positions-only scan")
			flagSet.Int("min-length", 16, "minimum decompressed size")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--positons"})
	if err == nil {
		t.Fatal("Execute() succeeded for unknown flag")
	}
	if !strings.Contains(err.Error(), "--positions") {
		t.Errorf("error %q does not suggest --positions", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "carve",
		Subcommands: []*Command{
			{Name: "scan", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute(nil)
	if err == nil {
		t.Fatal("Execute() with no args succeeded, want subcommand-required error")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want subcommand required", err)
	}
}

func TestCommand_PrintHelp_ListsSubcommands(t *testing.T) {
	root := &Command{
		Name:    "carve",
		Summary: "find compressed streams in binary blobs",
		Subcommands: []*Command{
			{Name: "scan", Summary: "scan a file for compressed blocks"},
			{Name: "extract", Summary: "decompress discovered blocks"},
		},
	}

	var buf bytes.Buffer
	root.PrintHelp(&buf)
	help := buf.String()

	for _, want := range []string{"scan", "extract", "Commands:", "carve <command> --help"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}

func TestCommand_Execute_HelpFlagIsNotAnError(t *testing.T) {
	root := &Command{
		Name: "carve",
		Subcommands: []*Command{
			{Name: "scan", Summary: "scan a file", Run: func(args []string) error { return nil }},
		},
	}

	for _, arg := range []string{"--help", "-h", "help"} {
		if err := root.Execute([]string{arg}); err != nil {
			t.Errorf("Execute(%q) error: %v", arg, err)
		}
	}
}
