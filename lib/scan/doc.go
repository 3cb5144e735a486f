// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

// Package scan walks every candidate offset of an in-memory blob
// looking for embedded compressed streams, resolves overlapping
// candidates, and answers pointer-reference queries over the same
// blob.
//
// The caller loads the blob (a firmware dump, ROM, disk image, memory
// snapshot) and supplies a [Config]; [Scan] returns either lightweight
// starting positions or fully validated [Block] records. Blocks carry
// no payload — [Decompress] re-derives it from the blob on demand, so
// the result set's memory footprint is proportional to the number of
// matches, not their decompressed size.
//
// The blob is borrowed read-only for the whole scan and shared across
// worker goroutines without copying or locking. Work is partitioned by
// start offset: each worker probes a contiguous range of candidate
// offsets against the full blob, so streams that begin in one range
// and extend into another are still decoded whole and no range needs
// boundary padding. Cancellation is cooperative, checked between
// offset iterations and never preempting a trial decode in flight.
//
// Cost scales as O(len(blob) × enabled algorithms × bounded probe
// cost); see the codec package for why the signature-less algorithms
// dominate and why scanning with every algorithm enabled is the
// documented slow path.
//
// [NewPointerScanner] is independent of stream discovery: it reports
// every offset whose 4-byte little-endian value equals a target
// address, typically a discovered block's offset minus a caller-chosen
// bias that models the difference between file offsets and the address
// space used by in-blob references.
package scan
