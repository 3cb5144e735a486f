// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"io"
)

// StreamInfo describes a validated stream found by a probe.
type StreamInfo struct {
	// CompressedLength is the number of blob bytes the stream occupies,
	// starting at the probed offset.
	CompressedLength int

	// DecompressedLength is the number of bytes the stream decodes to.
	DecompressedLength int
}

// Codec validates and decodes streams of one algorithm at arbitrary
// offsets inside a blob. Implementations are stateless with respect to
// the blob and safe for concurrent use; a single Codec instance is
// shared by all scanner workers.
type Codec interface {
	// Algorithm returns the algorithm this codec handles.
	Algorithm() Algorithm

	// Probe reports whether a complete, valid stream of this algorithm
	// begins at offset, and if so its compressed and decompressed
	// lengths. A false result covers both "no stream starts here" and
	// "header matched but the stream is malformed or truncated" — in a
	// scan over arbitrary binary data both are the expected negative
	// case, not errors.
	//
	// For algorithms with a signature, a mismatch is rejected in O(1)
	// without decoding. Signature-less algorithms run a trial decode
	// whose output is bounded by the configured Limits.
	Probe(blob []byte, offset int) (StreamInfo, bool)

	// Decompress re-decodes the exact byte range
	// [offset, offset+compressedLength) and returns the payload. It is
	// deterministic: the same range always yields the same bytes. A
	// range that no longer validates returns a *DecodeError.
	Decompress(blob []byte, offset, compressedLength int) ([]byte, error)
}

// DefaultMaxOutput is the decoded-output ceiling applied when
// Limits.MaxOutput is zero. A probe whose trial decode would exceed
// the ceiling is treated as a miss, keeping worst-case probe cost
// bounded on signature-less algorithms.
const DefaultMaxOutput = 1 << 28 // 256 MiB

// Limits bounds the work a single probe or decompression may perform.
type Limits struct {
	// MaxOutput caps the decoded size of a single stream. Zero means
	// DefaultMaxOutput.
	MaxOutput int64
}

func (l Limits) maxOutput() int64 {
	if l.MaxOutput > 0 {
		return l.MaxOutput
	}
	return DefaultMaxOutput
}

// builders dispatches an algorithm ordinal to its codec constructor.
// The table is fixed at compile time; the algorithm set is closed.
var builders = [numAlgorithms]func(Limits) Codec{
	Deflate: newDeflateCodec,
	Zlib:    newZlibCodec,
	Gzip:    newGzipCodec,
	Bzip2:   newBzip2Codec,
	Lzma:    newLzmaCodec,
	Lzma2:   newLzma2Codec,
	Lzw:     newLzwCodec,
	Zstd:    newZstdCodec,
	Lz4:     newLz4Codec,
}

// ForAlgorithm returns the codec for a, configured with limits.
// The second result is false for an unknown algorithm.
func ForAlgorithm(a Algorithm, limits Limits) (Codec, bool) {
	if !a.valid() {
		return nil, false
	}
	return builders[a](limits), true
}

// errOutputLimit aborts a decode whose output exceeds the configured
// ceiling.
var errOutputLimit = errors.New("decoded output exceeds the configured ceiling")

// sliceReader reads a blob from a starting position and tracks exactly
// how many bytes have been consumed. It implements io.ByteReader so
// that the flate-family and LZW decoders read from it byte-wise instead
// of wrapping it in a buffered reader; the position after a clean end
// of stream is then the exact compressed length.
type sliceReader struct {
	blob []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.blob) {
		return 0, io.EOF
	}
	n := copy(p, r.blob[r.pos:])
	r.pos += n
	return n, nil
}

func (r *sliceReader) ReadByte() (byte, error) {
	if r.pos >= len(r.blob) {
		return 0, io.EOF
	}
	b := r.blob[r.pos]
	r.pos++
	return b, nil
}

// consumed returns the number of bytes read since offset.
func (r *sliceReader) consumed(offset int) int {
	return r.pos - offset
}

// drain reads dec to end of stream, returning the decoded length.
// Exceeding limit returns errOutputLimit.
func drain(dec io.Reader, limit int64) (int64, error) {
	var total int64
	buf := make([]byte, 32*1024)
	for {
		n, err := dec.Read(buf)
		total += int64(n)
		if total > limit {
			return total, errOutputLimit
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// decodeAll reads dec to end of stream into memory, honoring limit.
func decodeAll(dec io.Reader, limit int64) ([]byte, error) {
	var out []byte
	buf := make([]byte, 32*1024)
	for {
		n, err := dec.Read(buf)
		if int64(len(out)+n) > limit {
			return nil, errOutputLimit
		}
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
