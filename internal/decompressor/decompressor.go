// Package decompressor sniffs gzip and bzip2 streams so compressed data
// sources load transparently.
package decompressor

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
)

const (
	gzipMagic  = "\x1f\x8b"
	b2zipMagic = "BZh"
)

// New wraps r with the decoder its leading magic bytes call for, or
// returns it buffered but otherwise untouched. A short stream cannot be
// compressed and passes through as-is; only a fully empty stream
// surfaces io.EOF, for the caller to decide on.
func New(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	buf, err := br.Peek(3)
	if err != nil && (err != io.EOF || len(buf) == 0) {
		return nil, err
	}
	switch {
	case len(buf) >= 2 && bytes.Equal(buf[:2], []byte(gzipMagic)):
		return gzip.NewReader(br)
	case len(buf) == 3 && bytes.Equal(buf, []byte(b2zipMagic)):
		return bzip2.NewReader(br), nil
	default:
		return br, nil
	}
}
