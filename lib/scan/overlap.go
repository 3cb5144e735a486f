// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

// resolveOverlaps reduces raw candidates (which nest and intersect
// freely, since several codecs can validate inside the same byte
// range) to a non-overlapping set. candidates must be sorted by
// (offset, algorithm ordinal).
//
// The rule is earliest-starting-wins: walk in ascending order, keep a
// candidate iff it does not intersect the last kept block, regardless
// of algorithm or length. Picking the "best" of two overlapping
// decodes would require judging decompressed content, which this
// package does not attempt; a deterministic positional rule is cheap
// and reproducible. The sweep is idempotent — the kept set, fed back
// in, survives unchanged.
func resolveOverlaps(candidates []Block) []Block {
	kept := make([]Block, 0, len(candidates))
	for _, candidate := range candidates {
		if len(kept) > 0 && kept[len(kept)-1].overlaps(candidate) {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}
