// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/klauspost/compress/zlib"
)

// zlibCodec handles zlib-framed DEFLATE (RFC 1950). The two header
// bytes are self-checking: compression method 8, a window size no
// larger than 32 KiB, and a header value divisible by 31.
type zlibCodec struct {
	limits Limits
}

func newZlibCodec(limits Limits) Codec {
	return &zlibCodec{limits: limits}
}

func (c *zlibCodec) Algorithm() Algorithm {
	return Zlib
}

// matchesHeader is the O(1) pre-filter over the CMF/FLG pair.
func (c *zlibCodec) matchesHeader(blob []byte, offset int) bool {
	if offset+2 > len(blob) {
		return false
	}
	cmf, flg := blob[offset], blob[offset+1]
	if cmf&0x0f != 8 || cmf>>4 > 7 {
		return false
	}
	// FDICT streams need an out-of-band dictionary we do not have.
	if flg&0x20 != 0 {
		return false
	}
	return (uint16(cmf)<<8|uint16(flg))%31 == 0
}

func (c *zlibCodec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	if !c.matchesHeader(blob, offset) {
		return StreamInfo{}, false
	}
	src := &sliceReader{blob: blob, pos: offset}
	dec, err := zlib.NewReader(src)
	if err != nil {
		return StreamInfo{}, false
	}
	defer dec.Close()

	// The reader validates the Adler-32 trailer at end of stream; a
	// mismatch surfaces as a drain error and invalidates the candidate.
	length, err := drain(dec, c.limits.maxOutput())
	if err != nil {
		return StreamInfo{}, false
	}
	return StreamInfo{
		CompressedLength:   src.consumed(offset),
		DecompressedLength: int(length),
	}, true
}

func (c *zlibCodec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	src := &sliceReader{blob: blob[:offset+compressedLength], pos: offset}
	dec, err := zlib.NewReader(src)
	if err != nil {
		return nil, decodeError(Zlib, offset, err)
	}
	defer dec.Close()

	out, err := decodeAll(dec, c.limits.maxOutput())
	if err != nil {
		return nil, decodeError(Zlib, offset, err)
	}
	return out, nil
}
