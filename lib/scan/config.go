// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"errors"
	"fmt"

	"github.com/carve-tools/carve/lib/codec"
)

// ErrInvalidConfig is wrapped by every configuration validation
// failure. Configurations are rejected whole before any scanning
// starts; a scan never runs with a partially applied configuration.
var ErrInvalidConfig = errors.New("invalid scan configuration")

// Config parameterizes one scan. It is treated as immutable for the
// duration of the Scan call that receives it.
type Config struct {
	// Algorithms is the set of codecs to probe at each offset. Must be
	// non-empty.
	Algorithms codec.Set

	// MinLength discards full-scan candidates whose decompressed
	// length is smaller. Must be positive in every mode, though
	// positions-only scans don't apply the filter.
	MinLength int

	// PositionsOnly selects the lightweight mode: report starting
	// positions without building blocks or filtering by MinLength.
	PositionsOnly bool

	// KeepOverlaps disables overlap resolution, reporting every raw
	// candidate including nested and intersecting ones.
	KeepOverlaps bool

	// Workers is the number of scanning goroutines. Zero means one per
	// available CPU.
	Workers int

	// MaxOutput caps the decoded size of any single stream; zero means
	// codec.DefaultMaxOutput. Probes whose trial decode would exceed
	// the cap treat the candidate as a miss.
	MaxOutput int64
}

// DefaultConfig returns a configuration that probes every algorithm
// and keeps blocks of at least 16 decompressed bytes.
func DefaultConfig() Config {
	return Config{
		Algorithms: codec.All(),
		MinLength:  16,
	}
}

// Validate checks the configuration. All failures wrap
// [ErrInvalidConfig].
func (c Config) Validate() error {
	if c.Algorithms.Empty() {
		return fmt.Errorf("%w: no algorithms enabled", ErrInvalidConfig)
	}
	if c.MinLength <= 0 {
		return fmt.Errorf("%w: minimum length %d is not positive", ErrInvalidConfig, c.MinLength)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Workers)
	}
	if c.MaxOutput < 0 {
		return fmt.Errorf("%w: negative output cap %d", ErrInvalidConfig, c.MaxOutput)
	}
	return nil
}
