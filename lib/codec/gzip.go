// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/klauspost/compress/gzip"
)

// gzipMagic is the gzip signature plus the only defined compression
// method (8, DEFLATE).
var gzipMagic = []byte{0x1f, 0x8b, 0x08}

// gzipCodec handles gzip members (RFC 1952). The CRC-32 and length
// trailer make gzip the most reliable format to carve: a false
// positive must survive a 32-bit checksum.
type gzipCodec struct {
	limits Limits
}

func newGzipCodec(limits Limits) Codec {
	return &gzipCodec{limits: limits}
}

func (c *gzipCodec) Algorithm() Algorithm {
	return Gzip
}

func (c *gzipCodec) matchesHeader(blob []byte, offset int) bool {
	if offset+len(gzipMagic) > len(blob) {
		return false
	}
	for i, b := range gzipMagic {
		if blob[offset+i] != b {
			return false
		}
	}
	return true
}

func (c *gzipCodec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	if !c.matchesHeader(blob, offset) {
		return StreamInfo{}, false
	}
	src := &sliceReader{blob: blob, pos: offset}
	dec, err := gzip.NewReader(src)
	if err != nil {
		return StreamInfo{}, false
	}
	defer dec.Close()
	// Stop at the first member's trailer instead of treating whatever
	// follows as a concatenated member.
	dec.Multistream(false)

	length, err := drain(dec, c.limits.maxOutput())
	if err != nil {
		return StreamInfo{}, false
	}
	return StreamInfo{
		CompressedLength:   src.consumed(offset),
		DecompressedLength: int(length),
	}, true
}

func (c *gzipCodec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	src := &sliceReader{blob: blob[:offset+compressedLength], pos: offset}
	dec, err := gzip.NewReader(src)
	if err != nil {
		return nil, decodeError(Gzip, offset, err)
	}
	defer dec.Close()
	dec.Multistream(false)

	out, err := decodeAll(dec, c.limits.maxOutput())
	if err != nil {
		return nil, decodeError(Gzip, offset, err)
	}
	return out, nil
}
