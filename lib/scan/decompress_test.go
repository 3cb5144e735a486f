// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/carve-tools/carve/lib/codec"
)

func TestDecompressRangeOutsideBlob(t *testing.T) {
	blob := make([]byte, 32)
	tests := []struct {
		name  string
		block Block
	}{
		{"negative offset", Block{Algorithm: codec.Gzip, Offset: -1, CompressedLength: 8}},
		{"negative length", Block{Algorithm: codec.Gzip, Offset: 4, CompressedLength: -8}},
		{"range past end", Block{Algorithm: codec.Gzip, Offset: 20, CompressedLength: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decompress(blob, tt.block); err == nil {
				t.Errorf("Decompress(%+v) succeeded, want error", tt.block)
			}
		})
	}
}

func TestDecompressUnknownAlgorithm(t *testing.T) {
	blob := make([]byte, 32)
	block := Block{Algorithm: codec.Algorithm(200), Offset: 0, CompressedLength: 8}
	if _, err := Decompress(blob, block); err == nil {
		t.Fatal("Decompress with unknown algorithm succeeded, want error")
	}
}

// Corrupting the compressed bytes between scan and extraction must
// surface as a decode error for that block rather than bad payload.
func TestDecompressCorruptedBlob(t *testing.T) {
	stream := gzipCompress(t, []byte("hello world"))
	blob := embed(t, 100, map[int][]byte{20: stream})

	config := DefaultConfig()
	config.Algorithms = codec.NewSet(codec.Gzip)
	config.MinLength = 5

	result, err := Scan(context.Background(), blob, config)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(result.Blocks))
	}
	block := result.Blocks[0]

	// Flip a byte in the middle of the deflate data.
	blob[block.Offset+block.CompressedLength/2] ^= 0xff

	_, err = Decompress(blob, block)
	if err == nil {
		t.Fatal("Decompress of corrupted range succeeded")
	}
	var decodeErr *codec.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("err = %v (%T), want *codec.DecodeError", err, err)
	}
	if decodeErr.Algorithm != codec.Gzip || decodeErr.Offset != block.Offset {
		t.Errorf("DecodeError = %+v, want gzip at %d", decodeErr, block.Offset)
	}
}
