// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/klauspost/compress/flate"
)

// deflateCodec handles raw DEFLATE streams (RFC 1951). Raw streams
// carry no signature; the only O(1) rejection available is the
// reserved block type in the first block header.
type deflateCodec struct {
	limits Limits
}

func newDeflateCodec(limits Limits) Codec {
	return &deflateCodec{limits: limits}
}

func (c *deflateCodec) Algorithm() Algorithm {
	return Deflate
}

func (c *deflateCodec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	if offset >= len(blob) {
		return StreamInfo{}, false
	}
	// Bits 1-2 of the first byte are BTYPE; 0b11 is reserved and can
	// never begin a valid stream.
	if blob[offset]&0x06 == 0x06 {
		return StreamInfo{}, false
	}
	src := &sliceReader{blob: blob, pos: offset}
	dec := flate.NewReader(src)
	defer dec.Close()

	length, err := drain(dec, c.limits.maxOutput())
	if err != nil || src.consumed(offset) == 0 {
		return StreamInfo{}, false
	}
	return StreamInfo{
		CompressedLength:   src.consumed(offset),
		DecompressedLength: int(length),
	}, true
}

func (c *deflateCodec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	src := &sliceReader{blob: blob[:offset+compressedLength], pos: offset}
	dec := flate.NewReader(src)
	defer dec.Close()

	out, err := decodeAll(dec, c.limits.maxOutput())
	if err != nil {
		return nil, decodeError(Deflate, offset, err)
	}
	return out, nil
}
