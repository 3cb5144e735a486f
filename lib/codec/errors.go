// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "fmt"

// DecodeError reports that decompression of a specific byte range
// failed. Because Decompress is only called on ranges a probe already
// validated, a DecodeError indicates the blob changed between scan and
// extraction or a codec inconsistency — it is surfaced as a hard
// failure for that block, never discarded silently.
type DecodeError struct {
	// Algorithm is the codec that failed.
	Algorithm Algorithm

	// Offset is the blob offset of the failed range.
	Offset int

	// Err is the underlying decoder error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding stream at offset %d: %v", e.Algorithm, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeError wraps err for a failed range.
func decodeError(a Algorithm, offset int, err error) *DecodeError {
	return &DecodeError{Algorithm: a, Offset: offset, Err: err}
}
