// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"strings"
)

// Algorithm identifies a compression format the scanner can probe for.
// The set of algorithms is closed: adapters are dispatched through a
// fixed table indexed by this value, and there is no runtime
// registration.
type Algorithm uint8

const (
	// Deflate is a raw DEFLATE stream with no framing (RFC 1951).
	Deflate Algorithm = iota

	// Zlib is DEFLATE with the zlib header and Adler-32 trailer
	// (RFC 1950).
	Zlib

	// Gzip is DEFLATE with the gzip header and CRC-32/length trailer
	// (RFC 1952).
	Gzip

	// Bzip2 is the bzip2 stream format ("BZh" signature).
	Bzip2

	// Lzma is the classic .lzma format: a 13-byte header (properties,
	// dictionary size, uncompressed size) followed by the range-coded
	// stream. There is no reliable signature; candidates are validated
	// by trial decode.
	Lzma

	// Lzma2 is a raw LZMA2 chunk sequence as used inside xz containers.
	// Like Lzma it has no signature and is validated by trial decode.
	Lzma2

	// Lzw is an LZW code stream in LSB-first order with 8-bit literals,
	// the layout shared by Unix compress and GIF. No signature; only
	// streams terminated by an explicit EOF code validate.
	Lzw

	// Zstd is a Zstandard frame (RFC 8878).
	Zstd

	// Lz4 is an LZ4 frame (magic 0x184D2204). Raw LZ4 blocks without
	// framing are not detectable and are not supported.
	Lz4

	numAlgorithms = iota
)

var algorithmNames = [numAlgorithms]string{
	Deflate: "deflate",
	Zlib:    "zlib",
	Gzip:    "gzip",
	Bzip2:   "bzip2",
	Lzma:    "lzma",
	Lzma2:   "lzma2",
	Lzw:     "lzw",
	Zstd:    "zstd",
	Lz4:     "lz4",
}

// algorithmExts maps each algorithm to the file extension used when a
// decompressed payload is written to disk by a caller.
var algorithmExts = [numAlgorithms]string{
	Deflate: "deflate",
	Zlib:    "zlib",
	Gzip:    "gz",
	Bzip2:   "bz2",
	Lzma:    "lzma",
	Lzma2:   "lzma2",
	Lzw:     "lzw",
	Zstd:    "zst",
	Lz4:     "lz4",
}

// String returns the canonical lower-case name of the algorithm.
func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("unknown(%d)", uint8(a))
}

// Ext returns the conventional file extension for payloads produced by
// this algorithm, without a leading dot.
func (a Algorithm) Ext() string {
	if int(a) < len(algorithmExts) {
		return algorithmExts[a]
	}
	return "bin"
}

// MarshalText serializes the algorithm by name, so JSON output never
// exposes the internal ordinal.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("unknown algorithm: %d", uint8(a))
	}
	return []byte(algorithmNames[a]), nil
}

// UnmarshalText parses an algorithm name.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// valid reports whether a names a member of the closed algorithm set.
func (a Algorithm) valid() bool {
	return int(a) < numAlgorithms
}

// ParseAlgorithm parses a canonical algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	for a, n := range algorithmNames {
		if n == name {
			return Algorithm(a), nil
		}
	}
	return 0, fmt.Errorf("unknown algorithm: %q", name)
}

// Set is a set of algorithms. The zero value is the empty set. Sets
// have value semantics; the modifying methods return a new set. The
// member bit positions are the algorithm ordinals, but the numeric
// values are not part of any stored or wire format — All is defined by
// enumerating the member list, never by arithmetic over flag values.
type Set uint16

// NewSet returns a set containing exactly the given algorithms.
func NewSet(algorithms ...Algorithm) Set {
	var s Set
	for _, a := range algorithms {
		s = s.With(a)
	}
	return s
}

// All returns the set of every supported algorithm. Scanning with All
// is the documented slow path: the signature-less algorithms (Lzma,
// Lzma2, Lzw) require a bounded trial decode at every candidate offset.
func All() Set {
	var s Set
	for a := Algorithm(0); a < numAlgorithms; a++ {
		s = s.With(a)
	}
	return s
}

// With returns the set with a added. Unknown algorithms are ignored.
func (s Set) With(a Algorithm) Set {
	if !a.valid() {
		return s
	}
	return s | 1<<a
}

// Contains reports whether a is a member of the set.
func (s Set) Contains(a Algorithm) bool {
	return a.valid() && s&(1<<a) != 0
}

// Empty reports whether the set has no members.
func (s Set) Empty() bool {
	return s == 0
}

// Count returns the number of members.
func (s Set) Count() int {
	count := 0
	for a := Algorithm(0); a < numAlgorithms; a++ {
		if s.Contains(a) {
			count++
		}
	}
	return count
}

// Algorithms returns the members in ascending ordinal order. This is
// the fixed probe order used by the scanner, and therefore the
// tie-break order for overlap resolution between candidates at the
// same offset.
func (s Set) Algorithms() []Algorithm {
	members := make([]Algorithm, 0, s.Count())
	for a := Algorithm(0); a < numAlgorithms; a++ {
		if s.Contains(a) {
			members = append(members, a)
		}
	}
	return members
}

// String returns the comma-separated member names in ordinal order,
// or "none" for the empty set.
func (s Set) String() string {
	if s.Empty() {
		return "none"
	}
	names := make([]string, 0, s.Count())
	for _, a := range s.Algorithms() {
		names = append(names, a.String())
	}
	return strings.Join(names, ",")
}

// ParseSet parses a comma-separated list of algorithm names. The
// special value "all" yields the full set.
func ParseSet(list string) (Set, error) {
	if list == "all" {
		return All(), nil
	}
	var s Set
	for part := range strings.SplitSeq(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		a, err := ParseAlgorithm(part)
		if err != nil {
			return 0, err
		}
		s = s.With(a)
	}
	if s.Empty() {
		return 0, fmt.Errorf("empty algorithm list: %q", list)
	}
	return s, nil
}
