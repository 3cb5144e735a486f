// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carve-tools/carve/lib/codec"
	"github.com/carve-tools/carve/lib/scan"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
algorithms: [gzip, zlib, lzma]
min_length: 64
workers: 4
max_output: 67108864
keep_overlaps: true
`)

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}

	config := scan.DefaultConfig()
	if err := profile.apply(&config); err != nil {
		t.Fatalf("apply: %v", err)
	}

	want := codec.NewSet(codec.Gzip, codec.Zlib, codec.Lzma)
	if config.Algorithms != want {
		t.Errorf("Algorithms = %s, want %s", config.Algorithms, want)
	}
	if config.MinLength != 64 {
		t.Errorf("MinLength = %d, want 64", config.MinLength)
	}
	if config.Workers != 4 {
		t.Errorf("Workers = %d, want 4", config.Workers)
	}
	if config.MaxOutput != 67108864 {
		t.Errorf("MaxOutput = %d, want 67108864", config.MaxOutput)
	}
	if !config.KeepOverlaps {
		t.Error("KeepOverlaps = false, want true")
	}
}

func TestLoadProfile_PartialLeavesDefaults(t *testing.T) {
	path := writeProfile(t, "min_length: 128\n")

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}

	config := scan.DefaultConfig()
	if err := profile.apply(&config); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if config.MinLength != 128 {
		t.Errorf("MinLength = %d, want 128", config.MinLength)
	}
	if config.Algorithms != codec.All() {
		t.Errorf("Algorithms = %s, want all", config.Algorithms)
	}
	if config.Workers != 0 {
		t.Errorf("Workers = %d, want 0", config.Workers)
	}
}

func TestLoadProfile_RejectsUnknownKeys(t *testing.T) {
	path := writeProfile(t, "minimum_length: 64\n")

	if _, err := LoadProfile(path); err == nil {
		t.Fatal("LoadProfile accepted an unknown key")
	}
}

func TestLoadProfile_RejectsUnknownAlgorithm(t *testing.T) {
	path := writeProfile(t, "algorithms: [gzip, rot13]\n")

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	config := scan.DefaultConfig()
	if err := profile.apply(&config); err == nil {
		t.Fatal("apply accepted an unknown algorithm")
	}
}

func TestLoadProfile_MissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadProfile succeeded for a missing file")
	}
}
