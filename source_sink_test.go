package taxon

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySource(t *testing.T) {
	src := NewMemorySource([]byte("ab"))
	b, err := src.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)
	assert.Equal(t, int64(1), src.Offset())

	buf := make([]byte, 1)
	n, err := src.ReadBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte('b'), buf[0])

	_, err = src.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderSourceShortRead(t *testing.T) {
	src := NewReaderSource(strings.NewReader("ab"))
	buf := make([]byte, 5)
	n, err := src.ReadBytes(buf)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBufferSinkRoundTrip(t *testing.T) {
	sink, buf := NewBufferSink()
	require.NoError(t, sink.WriteByte('['))
	require.NoError(t, sink.WriteBytes([]byte("1,2")))
	require.NoError(t, sink.WriteByte(']'))
	assert.Equal(t, "[1,2]", buf.String())
}

func TestWriterSinkFlush(t *testing.T) {
	var out bytes.Buffer
	sink, bw := NewWriterSink(&out)
	require.NoError(t, sink.WriteBytes([]byte("hello")))
	require.NoError(t, bw.Flush())
	assert.Equal(t, "hello", out.String())
}

func TestDecodeRuneRejectsOverlong(t *testing.T) {
	// 0xC0 0x80 is an overlong encoding of NUL.
	src := NewMemorySource([]byte{0xC0, 0x80})
	_, _, err := decodeRune(src)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSyntax)
}

func TestDecodeRuneRejectsSurrogate(t *testing.T) {
	// 0xED 0xA0 0x80 would encode U+D800, a lone surrogate.
	src := NewMemorySource([]byte{0xED, 0xA0, 0x80})
	_, _, err := decodeRune(src)
	require.Error(t, err)
}

func TestDecodeRuneRejectsTruncated(t *testing.T) {
	src := NewMemorySource([]byte{0xE2, 0x82}) // truncated 3-byte sequence
	_, _, err := decodeRune(src)
	require.Error(t, err)
}

func TestDecodeRuneEOF(t *testing.T) {
	src := NewMemorySource(nil)
	_, eof, err := decodeRune(src)
	require.NoError(t, err)
	assert.True(t, eof)
}

func TestDecodeRuneValidThreeByte(t *testing.T) {
	src := NewMemorySource([]byte("€")) // U+20AC, 3 bytes
	r, eof, err := decodeRune(src)
	require.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, rune(0x20AC), r)
}
