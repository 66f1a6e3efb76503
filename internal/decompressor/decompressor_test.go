package decompressor

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var ntLine = []byte("<s> <p> <o> .\n")

func TestPlainPassthrough(t *testing.T) {
	r, err := New(strings.NewReader(string(ntLine)))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, ntLine, got)
}

func TestGzip(t *testing.T) {
	r, err := New(bytes.NewReader([]byte{
		0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0xff, 0xb3, 0x29, 0xb6, 0x53, 0xb0, 0x29,
		0x00, 0xe2, 0x7c, 0x3b, 0x05, 0x3d, 0x2e, 0x00, 0x63, 0x01, 0x05, 0x5a, 0x0e, 0x00, 0x00, 0x00,
	}))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, ntLine, got)
}

func TestBzip2(t *testing.T) {
	r, err := New(bytes.NewReader([]byte{
		0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59, 0x19, 0x51, 0x95, 0x84, 0x00, 0x00,
		0x03, 0xd9, 0x80, 0x00, 0x10, 0x40, 0x01, 0x00, 0x05, 0x00, 0x00, 0xc8, 0x00, 0x20, 0x00, 0x22,
		0x3d, 0x46, 0x9a, 0x68, 0x43, 0x02, 0x33, 0x44, 0x27, 0xd2, 0x1e, 0x2e, 0xe4, 0x8a, 0x70, 0xa1,
		0x20, 0x32, 0xa3, 0x2b, 0x08,
	}))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, ntLine, got)
}

func TestTruncatedGzipHeader(t *testing.T) {
	_, err := New(strings.NewReader("\x1f\x8b!"))
	require.Error(t, err)
}

func TestEmptyStream(t *testing.T) {
	_, err := New(strings.NewReader(""))
	require.ErrorIs(t, err, io.EOF)
}

func TestShortPlainStream(t *testing.T) {
	r, err := New(strings.NewReader("#\n"))
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte("#\n"), got)
}

func TestTruncatedGzipMagic(t *testing.T) {
	_, err := New(strings.NewReader(gzipMagic))
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}
