// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"

	"github.com/ulikunitz/xz/lzma"
)

// lzmaHeaderLen is the classic .lzma header: one properties byte, a
// 32-bit dictionary size, and a 64-bit uncompressed size.
const lzmaHeaderLen = 13

// lzmaUnknownSize marks an unknown uncompressed size in the header;
// such streams are terminated by an end-of-stream marker instead.
const lzmaUnknownSize = ^uint64(0)

// lzmaCodec handles the classic .lzma format. There is no signature;
// candidates are screened by header plausibility and then validated by
// a bounded trial decode, which is why enabling this codec dominates
// the cost of an exhaustive scan.
type lzmaCodec struct {
	limits Limits
}

func newLzmaCodec(limits Limits) Codec {
	return &lzmaCodec{limits: limits}
}

func (c *lzmaCodec) Algorithm() Algorithm {
	return Lzma
}

// plausibleDictSize accepts the dictionary sizes real encoders emit:
// powers of two, or three halves of one, between 4 KiB and 128 MiB.
// Arbitrary 32-bit values at random offsets almost never qualify,
// which keeps the expensive trial decode rare.
func plausibleDictSize(size uint32) bool {
	if size < 1<<12 || size > 1<<27 {
		return false
	}
	if size&(size-1) == 0 {
		return true
	}
	twoThirds := size / 3 * 2
	return size%3 == 0 && twoThirds&(twoThirds-1) == 0
}

// matchesHeader screens the 13-byte header plus the first range-coder
// byte, which is always zero in a well-formed stream.
func (c *lzmaCodec) matchesHeader(blob []byte, offset int) bool {
	if offset+lzmaHeaderLen+1 > len(blob) {
		return false
	}
	properties := blob[offset]
	if properties >= 9*5*5 {
		return false
	}
	if !plausibleDictSize(binary.LittleEndian.Uint32(blob[offset+1:])) {
		return false
	}
	size := binary.LittleEndian.Uint64(blob[offset+5:])
	if size != lzmaUnknownSize && size > uint64(c.limits.maxOutput()) {
		return false
	}
	return blob[offset+lzmaHeaderLen] == 0
}

func (c *lzmaCodec) newReader(src *sliceReader, offset int) (*lzma.Reader, error) {
	dictSize := binary.LittleEndian.Uint32(src.blob[offset+1:])
	config := lzma.ReaderConfig{DictCap: int(dictSize)}
	return config.NewReader(src)
}

func (c *lzmaCodec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	if !c.matchesHeader(blob, offset) {
		return StreamInfo{}, false
	}
	src := &sliceReader{blob: blob, pos: offset}
	dec, err := c.newReader(src, offset)
	if err != nil {
		return StreamInfo{}, false
	}

	length, err := drain(dec, c.limits.maxOutput())
	if err != nil {
		return StreamInfo{}, false
	}
	return StreamInfo{
		CompressedLength:   src.consumed(offset),
		DecompressedLength: int(length),
	}, true
}

func (c *lzmaCodec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	src := &sliceReader{blob: blob[:offset+compressedLength], pos: offset}
	dec, err := c.newReader(src, offset)
	if err != nil {
		return nil, decodeError(Lzma, offset, err)
	}

	out, err := decodeAll(dec, c.limits.maxOutput())
	if err != nil {
		return nil, decodeError(Lzma, offset, err)
	}
	return out, nil
}
