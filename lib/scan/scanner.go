// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/carve-tools/carve/lib/codec"
)

// cancelCheckInterval is how many offsets a worker advances between
// context checks. Checking every offset would put a synchronized load
// in the innermost loop for no practical gain in responsiveness.
const cancelCheckInterval = 4096

// Scan walks every candidate offset of blob with the configured
// codecs. In positions-only mode the result holds starting positions;
// otherwise it holds blocks that met the minimum decompressed length,
// overlap-resolved unless the configuration keeps overlaps.
//
// The blob is read-only for the duration of the call and is shared by
// all workers without copying. Scan is stateless across invocations.
func Scan(ctx context.Context, blob []byte, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	limits := codec.Limits{MaxOutput: config.MaxOutput}
	codecs := make([]codec.Codec, 0, config.Algorithms.Count())
	for _, algorithm := range config.Algorithms.Algorithms() {
		c, ok := codec.ForAlgorithm(algorithm, limits)
		if !ok {
			continue
		}
		codecs = append(codecs, c)
	}

	candidates, err := probeAll(ctx, blob, codecs, config)
	if err != nil {
		return nil, err
	}

	// Workers emit candidates in ascending offset order within their
	// own range; the merge only needs to restore global order. The
	// algorithm-ordinal tie break within one offset is already the
	// emit order, but sorting on both keys keeps the result
	// independent of how candidates were partitioned.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Offset != candidates[j].Offset {
			return candidates[i].Offset < candidates[j].Offset
		}
		return candidates[i].Algorithm < candidates[j].Algorithm
	})

	result := &Result{}
	if config.PositionsOnly {
		result.Positions = make([]StartingPosition, 0, len(candidates))
		for _, b := range candidates {
			result.Positions = append(result.Positions, StartingPosition{
				Algorithm: b.Algorithm,
				Offset:    b.Offset,
			})
		}
		return result, nil
	}

	if config.KeepOverlaps {
		result.Blocks = candidates
		return result, nil
	}
	result.Blocks = resolveOverlaps(candidates)
	return result, nil
}

// probeAll partitions the start-offset space across workers and
// collects every raw candidate. Every worker probes against the full
// blob, so a stream beginning near the end of one range decodes
// across the boundary and nothing is missed.
func probeAll(ctx context.Context, blob []byte, codecs []codec.Codec, config Config) ([]Block, error) {
	if len(blob) == 0 {
		return nil, nil
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(blob) {
		workers = len(blob)
	}

	perWorker := make([][]Block, workers)
	rangeLen := (len(blob) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rangeLen
		end := min(start+rangeLen, len(blob))

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			perWorker[w] = probeRange(ctx, blob, codecs, config, start, end)
		}(w, start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []Block
	for _, part := range perWorker {
		merged = append(merged, part...)
	}
	return merged, nil
}

// probeRange probes every offset in [start, end) with every codec, in
// the set's fixed order. It never stops early within an offset:
// several codecs can validate at the same place and all such raw
// matches are collected for resolution.
func probeRange(ctx context.Context, blob []byte, codecs []codec.Codec, config Config, start, end int) []Block {
	var found []Block
	for offset := start; offset < end; offset++ {
		if (offset-start)%cancelCheckInterval == 0 && ctx.Err() != nil {
			return found
		}
		for _, c := range codecs {
			info, ok := c.Probe(blob, offset)
			if !ok {
				continue
			}
			if !config.PositionsOnly && info.DecompressedLength < config.MinLength {
				continue
			}
			found = append(found, Block{
				Algorithm:          c.Algorithm(),
				Offset:             offset,
				CompressedLength:   info.CompressedLength,
				DecompressedLength: info.DecompressedLength,
			})
		}
	}
	return found
}
