// Package decompress transparently unwraps gzip and zstd compressed logs.
//
// Players usually archive old combat logs, which can run to gigabytes, so
// ScanFile accepts them compressed. The format is detected from the
// leading magic bytes, not the file name.
package decompress

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format is a detected compression format.
type Format string

// Supported formats.
const (
	None Format = "none"
	Gzip Format = "gzip"
	Zstd Format = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Reader is a possibly decompressing reader. Close releases decoder
// resources; it does not close the underlying reader.
type Reader struct {
	io.Reader
	Format Format
	close  func()
}

// Close releases decoder resources.
func (r *Reader) Close() error {
	if r.close != nil {
		r.close()
		r.close = nil
	}
	return nil
}

// NewReader sniffs r and returns a reader that yields the decompressed
// content, or r's content unchanged when it is not compressed.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &Reader{Reader: dec, Format: Zstd, close: dec.Close}, nil

	case bytes.HasPrefix(head, gzipMagic):
		dec, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &Reader{Reader: dec, Format: Gzip, close: func() { _ = dec.Close() }}, nil
	}

	return &Reader{Reader: br, Format: None}, nil
}
