// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the carve CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in the commands
// package and dispatched via [Command.Execute], which handles flag
// parsing, subcommand routing, and structured help output with examples.
//
// Flag sets are built from tagged parameter structs via
// [FlagsFromParams]; embedding [JSONOutput] in a parameter struct adds
// the --json flag and the [JSONOutput.EmitJSON] method for machine
// output.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
package cli
