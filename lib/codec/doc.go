// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec implements per-algorithm stream validation and
// decompression for carving compressed data out of arbitrary binary
// blobs.
//
// A [Codec] answers two questions about a blob and an offset: does a
// complete, valid stream of its algorithm begin there (and if so, how
// many bytes does it occupy and decode to), and what is the payload of
// an exact, previously validated range. Probing is the hot path — the
// scanner calls it once per enabled algorithm at every candidate
// offset — so every codec with a signature rejects non-matching
// offsets in O(1) before doing any decoding:
//
//   - gzip, zlib, bzip2, zstd, and lz4 have self-checking headers;
//   - raw deflate can only reject the reserved block type;
//   - lzma, lzma2, and lzw have no signature at all and must run a
//     trial decode, screened by whatever header plausibility checks
//     the format allows.
//
// The probe cost for a signature-less algorithm is bounded by
// [Limits.MaxOutput]: a trial decode that exceeds the ceiling is
// abandoned and the candidate treated as a miss. A scan that enables
// every algorithm therefore costs O(blobLength × algorithms ×
// boundedProbeCost), dominated by the signature-less members; there is
// no shortcut, which is why callers enabling the full set over large
// blobs should expect it to be slow.
//
// A failed probe is not an error: false-positive signature bytes are
// expected in arbitrary binary data, and both "no header here" and
// "header matched but the stream is malformed" resolve silently to a
// negative result. Only [Codec.Decompress] returns errors, because it
// runs over ranges a probe already validated and a failure there means
// the data changed or a codec bug — see [DecodeError].
package codec
