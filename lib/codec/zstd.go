// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the Zstandard frame signature (little-endian
// 0xFD2FB528).
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// zstdCodec handles Zstandard frames. The frame's block headers carry
// explicit sizes, so the frame end is found by a structural walk
// without decompressing; the payload is then decoded from the exact
// range, which keeps the decoder from ever looking at the bytes that
// follow the frame.
type zstdCodec struct {
	limits  Limits
	decoder *zstd.Decoder
}

func newZstdCodec(limits Limits) Codec {
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(limits.maxOutput())),
	)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
	return &zstdCodec{limits: limits, decoder: decoder}
}

func (c *zstdCodec) Algorithm() Algorithm {
	return Zstd
}

// frameLength walks the frame structure starting at offset and returns
// the total frame length in bytes, or false if the structure is
// malformed or runs past the end of the blob.
func (c *zstdCodec) frameLength(blob []byte, offset int) (int, bool) {
	pos := offset
	if pos+len(zstdMagic)+1 > len(blob) {
		return 0, false
	}
	for i, b := range zstdMagic {
		if blob[pos+i] != b {
			return 0, false
		}
	}
	pos += len(zstdMagic)

	descriptor := blob[pos]
	pos++
	if descriptor&0x08 != 0 {
		// Reserved descriptor bit must be zero.
		return 0, false
	}
	singleSegment := descriptor&0x20 != 0
	hasChecksum := descriptor&0x04 != 0

	if !singleSegment {
		pos++ // window descriptor
	}
	switch descriptor & 0x03 {
	case 1:
		pos += 1
	case 2:
		pos += 2
	case 3:
		pos += 4
	}
	switch descriptor >> 6 {
	case 0:
		if singleSegment {
			pos++
		}
	case 1:
		pos += 2
	case 2:
		pos += 4
	case 3:
		pos += 8
	}
	if pos > len(blob) {
		return 0, false
	}

	// Blocks: 3-byte header (bit 0 last, bits 1-2 type, bits 3-23 size).
	for {
		if pos+3 > len(blob) {
			return 0, false
		}
		header := int(blob[pos]) | int(blob[pos+1])<<8 | int(blob[pos+2])<<16
		pos += 3
		last := header&1 != 0
		blockType := (header >> 1) & 3
		size := header >> 3

		switch blockType {
		case 0, 2: // raw, compressed
			pos += size
		case 1: // RLE: one byte repeated to the block size
			pos++
		default: // reserved
			return 0, false
		}
		if pos > len(blob) {
			return 0, false
		}
		if last {
			break
		}
	}

	if hasChecksum {
		pos += 4
		if pos > len(blob) {
			return 0, false
		}
	}
	return pos - offset, true
}

func (c *zstdCodec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	length, ok := c.frameLength(blob, offset)
	if !ok {
		return StreamInfo{}, false
	}
	payload, err := c.decoder.DecodeAll(blob[offset:offset+length], nil)
	if err != nil {
		return StreamInfo{}, false
	}
	return StreamInfo{
		CompressedLength:   length,
		DecompressedLength: len(payload),
	}, true
}

func (c *zstdCodec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	out, err := c.decoder.DecodeAll(blob[offset:offset+compressedLength], nil)
	if err != nil {
		return nil, decodeError(Zstd, offset, err)
	}
	return out, nil
}
