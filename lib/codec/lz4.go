// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
)

// lz4Magic is the LZ4 frame signature (little-endian 0x184D2204).
var lz4Magic = []byte{0x04, 0x22, 0x4d, 0x18}

// lz4Codec handles LZ4 frames. Like zstd, the frame is a sequence of
// size-prefixed blocks ending in an end mark, so the frame length is
// computed structurally and the payload decoded from the exact range.
type lz4Codec struct {
	limits Limits
}

func newLz4Codec(limits Limits) Codec {
	return &lz4Codec{limits: limits}
}

func (c *lz4Codec) Algorithm() Algorithm {
	return Lz4
}

// frameLength walks the frame at offset and returns its total length,
// or false for a malformed or truncated frame.
func (c *lz4Codec) frameLength(blob []byte, offset int) (int, bool) {
	pos := offset
	if pos+len(lz4Magic)+2 > len(blob) {
		return 0, false
	}
	for i, b := range lz4Magic {
		if blob[pos+i] != b {
			return 0, false
		}
	}
	pos += len(lz4Magic)

	flg := blob[pos]
	bd := blob[pos+1]
	pos += 2
	if flg>>6 != 1 || flg&0x02 != 0 {
		// Version must be 01, reserved bit zero.
		return 0, false
	}
	blockChecksum := flg&0x10 != 0
	contentSize := flg&0x08 != 0
	contentChecksum := flg&0x04 != 0
	dictID := flg&0x01 != 0
	if bd>>4&0x07 < 4 || bd&0x8f != 0 {
		// Block max-size codes below 4 and the BD reserved bits are invalid.
		return 0, false
	}

	if contentSize {
		pos += 8
	}
	if dictID {
		pos += 4
	}
	pos++ // header checksum byte
	if pos > len(blob) {
		return 0, false
	}

	for {
		if pos+4 > len(blob) {
			return 0, false
		}
		blockSize := binary.LittleEndian.Uint32(blob[pos:])
		pos += 4
		if blockSize == 0 {
			break // end mark
		}
		dataLen := int(blockSize & 0x7fffffff)
		pos += dataLen
		if blockChecksum {
			pos += 4
		}
		if pos > len(blob) {
			return 0, false
		}
	}

	if contentChecksum {
		pos += 4
		if pos > len(blob) {
			return 0, false
		}
	}
	return pos - offset, true
}

func (c *lz4Codec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	length, ok := c.frameLength(blob, offset)
	if !ok {
		return StreamInfo{}, false
	}
	dec := lz4.NewReader(bytes.NewReader(blob[offset : offset+length]))
	decoded, err := drain(dec, c.limits.maxOutput())
	if err != nil {
		return StreamInfo{}, false
	}
	return StreamInfo{
		CompressedLength:   length,
		DecompressedLength: int(decoded),
	}, true
}

func (c *lz4Codec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	dec := lz4.NewReader(bytes.NewReader(blob[offset : offset+compressedLength]))
	out, err := decodeAll(dec, c.limits.maxOutput())
	if err != nil {
		return nil, decodeError(Lz4, offset, err)
	}
	return out, nil
}
