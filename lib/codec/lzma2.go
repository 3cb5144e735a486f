// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/ulikunitz/xz/lzma"
)

// lzma2ProbeDictCap is the dictionary capacity used for LZMA2 trial
// decodes. Raw LZMA2 chunk sequences do not declare a dictionary size,
// so the capacity is fixed; it bounds the per-candidate allocation the
// way the output ceiling bounds decode work. Streams with match
// distances beyond this window are treated as misses.
const lzma2ProbeDictCap = 1 << 20

// lzma2Codec handles raw LZMA2 chunk sequences (the payload layout of
// xz blocks). No signature exists; the first chunk's control byte is
// the only O(1) screen: the stream must open with a dictionary reset,
// so only an uncompressed-with-reset chunk (0x01) or an LZMA chunk
// with a full state reset (0xe0-0xff) can begin one.
type lzma2Codec struct {
	limits Limits
}

func newLzma2Codec(limits Limits) Codec {
	return &lzma2Codec{limits: limits}
}

func (c *lzma2Codec) Algorithm() Algorithm {
	return Lzma2
}

func (c *lzma2Codec) matchesControl(blob []byte, offset int) bool {
	if offset >= len(blob) {
		return false
	}
	control := blob[offset]
	return control == 0x01 || control >= 0xe0
}

func (c *lzma2Codec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	if !c.matchesControl(blob, offset) {
		return StreamInfo{}, false
	}
	src := &sliceReader{blob: blob, pos: offset}
	config := lzma.Reader2Config{DictCap: lzma2ProbeDictCap}
	dec, err := config.NewReader2(src)
	if err != nil {
		return StreamInfo{}, false
	}

	// Decode until the terminator chunk; a sequence that runs off the
	// end of the blob without one is invalid.
	length, err := drain(dec, c.limits.maxOutput())
	if err != nil || src.consumed(offset) == 0 {
		return StreamInfo{}, false
	}
	return StreamInfo{
		CompressedLength:   src.consumed(offset),
		DecompressedLength: int(length),
	}, true
}

func (c *lzma2Codec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	src := &sliceReader{blob: blob[:offset+compressedLength], pos: offset}
	config := lzma.Reader2Config{DictCap: lzma2ProbeDictCap}
	dec, err := config.NewReader2(src)
	if err != nil {
		return nil, decodeError(Lzma2, offset, err)
	}

	out, err := decodeAll(dec, c.limits.maxOutput())
	if err != nil {
		return nil, decodeError(Lzma2, offset, err)
	}
	return out, nil
}
