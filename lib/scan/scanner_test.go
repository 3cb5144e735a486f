// Copyright 2026 The Carve Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/carve-tools/carve/lib/codec"
)

// fillerByte fails every codec's header prefilter, so blobs padded
// with it produce no candidates outside the embedded streams.
const fillerByte = 0x07

func gzipCompress(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("compressing payload: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	return buf.Bytes()
}

func zlibCompress(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("compressing payload: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zlib writer: %v", err)
	}
	return buf.Bytes()
}

// embed places streams into a filler blob at fixed offsets.
func embed(t *testing.T, size int, streams map[int][]byte) []byte {
	t.Helper()
	blob := bytes.Repeat([]byte{fillerByte}, size)
	for offset, stream := range streams {
		if offset+len(stream) > size {
			t.Fatalf("stream of %d bytes does not fit at offset %d", len(stream), offset)
		}
		copy(blob[offset:], stream)
	}
	return blob
}

func TestScanFindsEmbeddedStream(t *testing.T) {
	payload := []byte("hello world")
	stream := gzipCompress(t, payload)
	blob := embed(t, 100, map[int][]byte{20: stream})

	config := DefaultConfig()
	config.Algorithms = codec.NewSet(codec.Gzip)
	config.MinLength = 5

	result, err := Scan(context.Background(), blob, config)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %v", len(result.Blocks), result.Blocks)
	}
	block := result.Blocks[0]
	if block.Algorithm != codec.Gzip {
		t.Errorf("algorithm = %s, want gzip", block.Algorithm)
	}
	if block.Offset != 20 {
		t.Errorf("offset = %d, want 20", block.Offset)
	}
	if block.CompressedLength != len(stream) {
		t.Errorf("compressed length = %d, want %d", block.CompressedLength, len(stream))
	}
	if block.DecompressedLength != len(payload) {
		t.Errorf("decompressed length = %d, want %d", block.DecompressedLength, len(payload))
	}

	got, err := Decompress(blob, block)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %q, want %q", got, payload)
	}
}

func TestScanMinLengthFilters(t *testing.T) {
	stream := gzipCompress(t, []byte("hello world"))
	blob := embed(t, 100, map[int][]byte{20: stream})

	config := DefaultConfig()
	config.Algorithms = codec.NewSet(codec.Gzip)
	config.MinLength = 20

	result, err := Scan(context.Background(), blob, config)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Blocks) != 0 {
		t.Errorf("got %d blocks, want none: %v", len(result.Blocks), result.Blocks)
	}
}

func TestScanPositionsOnly(t *testing.T) {
	stream := gzipCompress(t, []byte("hello world"))
	blob := embed(t, 100, map[int][]byte{20: stream})

	config := DefaultConfig()
	config.Algorithms = codec.NewSet(codec.Gzip)
	config.PositionsOnly = true
	// Positions-only mode reports presence regardless of payload size.
	config.MinLength = 1000

	result, err := Scan(context.Background(), blob, config)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Blocks) != 0 {
		t.Errorf("positions-only scan produced blocks: %v", result.Blocks)
	}
	want := []StartingPosition{{Algorithm: codec.Gzip, Offset: 20}}
	if !reflect.DeepEqual(result.Positions, want) {
		t.Errorf("positions = %v, want %v", result.Positions, want)
	}
}

// A gzip stream carries a raw deflate stream ten bytes in, so scanning
// with both codecs yields nested candidates: resolution must keep the
// earlier-starting gzip block and drop the inner deflate one, while a
// keep-overlaps scan reports both.
func TestScanOverlapResolution(t *testing.T) {
	stream := gzipCompress(t, []byte("hello world"))
	blob := embed(t, 100, map[int][]byte{20: stream})

	config := DefaultConfig()
	config.Algorithms = codec.NewSet(codec.Gzip, codec.Deflate)
	config.MinLength = 5

	find := func(blocks []Block, a codec.Algorithm, offset int) bool {
		for _, b := range blocks {
			if b.Algorithm == a && b.Offset == offset {
				return true
			}
		}
		return false
	}

	t.Run("resolved", func(t *testing.T) {
		result, err := Scan(context.Background(), blob, config)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if !find(result.Blocks, codec.Gzip, 20) {
			t.Errorf("gzip block at 20 missing: %v", result.Blocks)
		}
		if find(result.Blocks, codec.Deflate, 30) {
			t.Errorf("nested deflate block at 30 survived resolution: %v", result.Blocks)
		}
		for i := 1; i < len(result.Blocks); i++ {
			if result.Blocks[i-1].overlaps(result.Blocks[i]) {
				t.Errorf("resolved blocks overlap: %v and %v", result.Blocks[i-1], result.Blocks[i])
			}
		}
	})

	t.Run("keep-overlaps", func(t *testing.T) {
		kept := config
		kept.KeepOverlaps = true
		result, err := Scan(context.Background(), blob, kept)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if !find(result.Blocks, codec.Gzip, 20) {
			t.Errorf("gzip block at 20 missing: %v", result.Blocks)
		}
		if !find(result.Blocks, codec.Deflate, 30) {
			t.Errorf("nested deflate block at 30 missing: %v", result.Blocks)
		}
	})
}

func TestScanWorkerCountIndependence(t *testing.T) {
	blob := embed(t, 4096, map[int][]byte{
		17:   zlibCompress(t, bytes.Repeat([]byte("alpha "), 40)),
		1200: zlibCompress(t, bytes.Repeat([]byte("beta "), 60)),
		4000: zlibCompress(t, []byte("tail stream payload")),
	})

	config := DefaultConfig()
	config.Algorithms = codec.NewSet(codec.Zlib)
	config.MinLength = 5

	config.Workers = 1
	baseline, err := Scan(context.Background(), blob, config)
	if err != nil {
		t.Fatalf("Scan with 1 worker: %v", err)
	}
	if len(baseline.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %v", len(baseline.Blocks), baseline.Blocks)
	}

	for _, workers := range []int{2, 3, 7, 64} {
		config.Workers = workers
		result, err := Scan(context.Background(), blob, config)
		if err != nil {
			t.Fatalf("Scan with %d workers: %v", workers, err)
		}
		if !reflect.DeepEqual(result.Blocks, baseline.Blocks) {
			t.Errorf("workers=%d: blocks %v differ from baseline %v",
				workers, result.Blocks, baseline.Blocks)
		}
	}
}

func TestScanCancellation(t *testing.T) {
	blob := embed(t, 256, map[int][]byte{20: gzipCompress(t, []byte("hello world"))})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := DefaultConfig()
	config.Algorithms = codec.NewSet(codec.Gzip)

	_, err := Scan(ctx, blob, config)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Scan on canceled context: err = %v, want context.Canceled", err)
	}
}

func TestScanEmptyBlob(t *testing.T) {
	result, err := Scan(context.Background(), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Blocks) != 0 || len(result.Positions) != 0 {
		t.Errorf("empty blob produced results: %+v", result)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no algorithms", func(c *Config) { c.Algorithms = codec.Set(0) }},
		{"zero min length", func(c *Config) { c.MinLength = 0 }},
		{"negative min length", func(c *Config) { c.MinLength = -3 }},
		{"zero min length in positions mode", func(c *Config) {
			c.PositionsOnly = true
			c.MinLength = 0
		}},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative output cap", func(c *Config) { c.MaxOutput = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if _, scanErr := Scan(context.Background(), nil, config); !errors.Is(scanErr, ErrInvalidConfig) {
				t.Errorf("Scan accepted invalid config: %v", scanErr)
			}
		})
	}

}
