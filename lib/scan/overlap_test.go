// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"reflect"
	"testing"

	"github.com/carve-tools/carve/lib/codec"
)

// block builds a synthetic candidate; the payload length is irrelevant
// to resolution and fixed arbitrarily.
func block(a codec.Algorithm, offset, compressedLength int) Block {
	return Block{
		Algorithm:          a,
		Offset:             offset,
		CompressedLength:   compressedLength,
		DecompressedLength: 64,
	}
}

func TestResolveOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Block
		want       []Block
	}{
		{
			name:       "empty",
			candidates: nil,
			want:       []Block{},
		},
		{
			name: "disjoint all kept",
			candidates: []Block{
				block(codec.Gzip, 0, 10),
				block(codec.Zlib, 10, 10),
				block(codec.Bzip2, 50, 5),
			},
			want: []Block{
				block(codec.Gzip, 0, 10),
				block(codec.Zlib, 10, 10),
				block(codec.Bzip2, 50, 5),
			},
		},
		{
			name: "nested dropped",
			candidates: []Block{
				block(codec.Gzip, 10, 40),
				block(codec.Deflate, 20, 10),
			},
			want: []Block{
				block(codec.Gzip, 10, 40),
			},
		},
		{
			name: "intersecting dropped",
			candidates: []Block{
				block(codec.Zlib, 0, 20),
				block(codec.Lzma, 15, 20),
			},
			want: []Block{
				block(codec.Zlib, 0, 20),
			},
		},
		{
			name: "same offset keeps first algorithm",
			candidates: []Block{
				block(codec.Deflate, 8, 12),
				block(codec.Zlib, 8, 30),
			},
			want: []Block{
				block(codec.Deflate, 8, 12),
			},
		},
		{
			// b overlaps both a and c, but a and c are disjoint: a drop
			// does not shadow later disjoint candidates.
			name: "chain keeps outer pair",
			candidates: []Block{
				block(codec.Gzip, 0, 10),
				block(codec.Deflate, 5, 10),
				block(codec.Zlib, 10, 10),
			},
			want: []Block{
				block(codec.Gzip, 0, 10),
				block(codec.Zlib, 10, 10),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveOverlaps(tt.candidates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolveOverlaps() = %v, want %v", got, tt.want)
			}
			again := resolveOverlaps(got)
			if !reflect.DeepEqual(again, got) {
				t.Errorf("resolution is not idempotent: %v then %v", got, again)
			}
		})
	}
}
