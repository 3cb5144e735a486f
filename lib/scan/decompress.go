// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"fmt"

	"github.com/carve-tools/carve/lib/codec"
)

// Decompress re-derives a block's payload from the blob it was
// discovered in. Blocks carry no payload bytes, so extraction is an
// explicit second step that pays the decode cost only for blocks the
// caller actually wants.
//
// The block's range must lie within the blob and its algorithm must be
// known; violating either returns an error without decoding. A decode
// failure or a payload whose size disagrees with the block indicates
// the blob is not the one the block was scanned from.
func Decompress(blob []byte, block Block) ([]byte, error) {
	if block.Offset < 0 || block.CompressedLength < 0 || block.End() > len(blob) {
		return nil, fmt.Errorf("block range [%d, %d) outside blob of %d bytes",
			block.Offset, block.End(), len(blob))
	}
	// The block already knows its payload size, so it serves as the
	// decode ceiling; a stream producing more than that fails below
	// anyway.
	limits := codec.Limits{MaxOutput: int64(block.DecompressedLength)}
	c, ok := codec.ForAlgorithm(block.Algorithm, limits)
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %d", block.Algorithm)
	}

	payload, err := c.Decompress(blob, block.Offset, block.CompressedLength)
	if err != nil {
		return nil, err
	}
	if len(payload) != block.DecompressedLength {
		return nil, fmt.Errorf("%s block at %#x decoded to %d bytes, expected %d",
			block.Algorithm, block.Offset, len(payload), block.DecompressedLength)
	}
	return payload, nil
}
