// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carve-tools/carve/lib/codec"
	"github.com/carve-tools/carve/lib/scan"
)

// Profile is a reusable scan configuration stored as YAML. Profiles
// capture the settings for a class of inputs (a firmware family, a
// console's ROM layout) so that repeated invocations don't re-type
// them; explicitly passed flags still override profile values.
//
// Example profile:
//
//	algorithms: [gzip, zlib, lzma]
//	min_length: 64
//	workers: 4
//	max_output: 67108864
//	keep_overlaps: false
type Profile struct {
	Algorithms   []string `yaml:"algorithms"`
	MinLength    *int     `yaml:"min_length"`
	Workers      *int     `yaml:"workers"`
	MaxOutput    *int64   `yaml:"max_output"`
	KeepOverlaps *bool    `yaml:"keep_overlaps"`
}

// LoadProfile reads and parses a profile file. Unknown keys are
// rejected so a typo in a profile fails loudly instead of silently
// scanning with defaults.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var profile Profile
	if err := decoder.Decode(&profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return &profile, nil
}

// apply copies the profile's set values onto config. Unset fields
// (absent from the YAML) leave the config untouched.
func (p *Profile) apply(config *scan.Config) error {
	if len(p.Algorithms) > 0 {
		set, err := codec.ParseSet(strings.Join(p.Algorithms, ","))
		if err != nil {
			return fmt.Errorf("profile algorithms: %w", err)
		}
		config.Algorithms = set
	}
	if p.MinLength != nil {
		config.MinLength = *p.MinLength
	}
	if p.Workers != nil {
		config.Workers = *p.Workers
	}
	if p.MaxOutput != nil {
		config.MaxOutput = *p.MaxOutput
	}
	if p.KeepOverlaps != nil {
		config.KeepOverlaps = *p.KeepOverlaps
	}
	return nil
}
