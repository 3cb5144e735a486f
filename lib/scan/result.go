// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"fmt"

	"github.com/carve-tools/carve/lib/codec"
)

// StartingPosition records where a stream of a given algorithm begins.
// It is the positions-only mode's result: presence and location
// without a fully built block.
type StartingPosition struct {
	Algorithm codec.Algorithm `json:"algorithm"`
	Offset    int             `json:"offset"`
}

// Block is a fully validated compressed byte range. It carries no
// payload; pass it to [Decompress] to re-derive the decompressed
// bytes from the blob.
type Block struct {
	Algorithm codec.Algorithm `json:"algorithm"`

	// Offset is the blob offset where the stream begins.
	Offset int `json:"offset"`

	// CompressedLength is the stream's extent in blob bytes; the range
	// [Offset, Offset+CompressedLength) lies within the blob.
	CompressedLength int `json:"compressed_length"`

	// DecompressedLength is the payload size; at least the scan's
	// MinLength.
	DecompressedLength int `json:"decompressed_length"`
}

// End returns the first offset past the block's compressed range.
func (b Block) End() int {
	return b.Offset + b.CompressedLength
}

// overlaps reports whether the two blocks' byte ranges intersect.
func (b Block) overlaps(other Block) bool {
	return b.Offset < other.End() && other.Offset < b.End()
}

func (b Block) String() string {
	return fmt.Sprintf("%s at %#x (%d -> %d bytes)",
		b.Algorithm, b.Offset, b.CompressedLength, b.DecompressedLength)
}

// Result is the outcome of one scan. Exactly one of Positions or
// Blocks is populated, selected by Config.PositionsOnly; both are
// ordered by ascending offset, then by algorithm ordinal within an
// offset. Results are plain value data: nothing in them is mutated
// after Scan returns.
type Result struct {
	// Positions holds positions-only discoveries.
	Positions []StartingPosition `json:"positions,omitempty"`

	// Blocks holds full-scan discoveries, overlap-resolved unless the
	// scan kept overlaps.
	Blocks []Block `json:"blocks,omitempty"`
}
