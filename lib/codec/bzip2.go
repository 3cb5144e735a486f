// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"strings"

	"github.com/dsnet/compress/bzip2"
)

// bzip2Codec handles bzip2 streams. The dsnet reader is used instead
// of the standard library's because its InputOffset reports the
// precise stream length. Both readers are multistream: after the
// footer they read two more bytes probing for a concatenated stream,
// so a stream followed by arbitrary blob bytes surfaces a stream-magic
// corruption error rather than a clean EOF. Probe recognizes that
// error as the end of a complete stream and backs the two over-read
// bytes out of the length.
type bzip2Codec struct {
	limits Limits
}

// streamMagicOverRead is how far the reader has read past a complete
// stream when its probe for a concatenated stream's magic fails.
// Stream ends are byte-aligned, so the compressed length is exactly
// InputOffset minus these bytes.
const streamMagicOverRead = 2

// isTrailingMagicError reports whether err is the corruption the
// reader raises when the two bytes after a complete stream are not a
// stream magic. The reader exports no error values, so the message is
// the only signal.
func isTrailingMagicError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "invalid stream magic")
}

func newBzip2Codec(limits Limits) Codec {
	return &bzip2Codec{limits: limits}
}

func (c *bzip2Codec) Algorithm() Algorithm {
	return Bzip2
}

func (c *bzip2Codec) matchesHeader(blob []byte, offset int) bool {
	if offset+4 > len(blob) {
		return false
	}
	return blob[offset] == 'B' && blob[offset+1] == 'Z' && blob[offset+2] == 'h' &&
		blob[offset+3] >= '1' && blob[offset+3] <= '9'
}

func (c *bzip2Codec) Probe(blob []byte, offset int) (StreamInfo, bool) {
	if !c.matchesHeader(blob, offset) {
		return StreamInfo{}, false
	}
	src := &sliceReader{blob: blob, pos: offset}
	dec, err := bzip2.NewReader(src, nil)
	if err != nil {
		return StreamInfo{}, false
	}
	defer dec.Close()

	length, err := drain(dec, c.limits.maxOutput())
	switch {
	case err == nil:
		// Clean EOF: the stream ended at the blob edge.
		return StreamInfo{
			CompressedLength:   int(dec.InputOffset),
			DecompressedLength: int(length),
		}, true
	case isTrailingMagicError(err) && dec.InputOffset > streamMagicOverRead:
		// A complete stream followed by non-bzip2 blob bytes. The
		// header prefilter already validated the first magic, so this
		// error can only come from the concatenation probe.
		return StreamInfo{
			CompressedLength:   int(dec.InputOffset) - streamMagicOverRead,
			DecompressedLength: int(length),
		}, true
	default:
		return StreamInfo{}, false
	}
}

func (c *bzip2Codec) Decompress(blob []byte, offset, compressedLength int) ([]byte, error) {
	src := &sliceReader{blob: blob[:offset+compressedLength], pos: offset}
	dec, err := bzip2.NewReader(src, nil)
	if err != nil {
		return nil, decodeError(Bzip2, offset, err)
	}
	defer dec.Close()

	out, err := decodeAll(dec, c.limits.maxOutput())
	if err != nil {
		return nil, decodeError(Bzip2, offset, err)
	}
	return out, nil
}
