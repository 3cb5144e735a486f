// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"compress/lzw"
)

// lzwCodec handles LZW code streams in LSB-first order with 8-bit
// literals, the layout shared by Unix compress and GIF image data.
// LZW has no header at all: every offset is a candidate, and validity
// means the code stream stays self-consistent until an explicit EOF
// code. Streams that simply run into the end of the blob do not
// validate.
type lzwCodec struct {
	limits Limits
}

func newLzwCodec(limits Limits) Codec {
	return &lzwCodec{limits: limits}
}

func (c *lzwCodec) Algorithm() Algorithm {
	return Lzw
}

func (c *lzwCodec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	if offset >= len(blob) {
		return StreamInfo{}, false
	}
	src := &sliceReader{blob: blob, pos: offset}
	dec := lzw.NewReader(src, lzw.LSB, 8)
	defer dec.Close()

	length, err := drain(dec, c.limits.maxOutput())
	if err != nil {
		return StreamInfo{}, false
	}
	return StreamInfo{
		CompressedLength:   src.consumed(offset),
		DecompressedLength: int(length),
	}, true
}

func (c *lzwCodec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	src := &sliceReader{blob: blob[:offset+compressedLength], pos: offset}
	dec := lzw.NewReader(src, lzw.LSB, 8)
	defer dec.Close()

	out, err := decodeAll(dec, c.limits.maxOutput())
	if err != nil {
		return nil, decodeError(Lzw, offset, err)
	}
	return out, nil
}
