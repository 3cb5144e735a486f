// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import "encoding/binary"

// PointerWidth is the width in bytes of the integers the pointer
// locator matches. References are interpreted as 4-byte little-endian
// values at every offset, aligned or not. Wider or big-endian address
// spaces are not modeled; see DESIGN.md.
const PointerWidth = 4

// PointerScanner lazily walks a blob for offsets whose 4-byte
// little-endian value equals a target address. It is a pure scan over
// the borrowed blob, independent of any prior block discovery, and has
// no side effects: create a new scanner to restart, with any target.
//
// The target is typically a discovered block's offset minus a bias
// that models the difference between raw file offsets and the address
// space used by in-blob references (a load base address, a stripped
// header).
type PointerScanner struct {
	blob   []byte
	target uint32
	pos    int
}

// NewPointerScanner returns a scanner positioned before the first
// candidate offset.
func NewPointerScanner(blob []byte, target uint32) *PointerScanner {
	return &PointerScanner{blob: blob, target: target}
}

// Next returns the next offset holding the target value. The second
// result is false when the blob is exhausted.
func (s *PointerScanner) Next() (int, bool) {
	for s.pos+PointerWidth <= len(s.blob) {
		offset := s.pos
		s.pos++
		if binary.LittleEndian.Uint32(s.blob[offset:]) == s.target {
			return offset, true
		}
	}
	return 0, false
}

// FindPointers drains a fresh scanner and returns every matching
// offset in ascending order. The result is never nil.
func FindPointers(blob []byte, target uint32) []int {
	offsets := []int{}
	s := NewPointerScanner(blob, target)
	for offset, ok := s.Next(); ok; offset, ok = s.Next() {
		offsets = append(offsets, offset)
	}
	return offsets
}
