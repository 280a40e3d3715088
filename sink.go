package taxon

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// Sink is the byte-level output collaborator the formatter writes to. Like
// Source, it is a collaborator contract rather than core scope (spec.md
// §1): put one byte, put a slice. Failures propagate to the formatter's
// caller; the formatter never attempts to recover from a sink error.
type Sink interface {
	WriteByte(b byte) error
	WriteBytes(p []byte) error
}

// bufferSink is a Sink over a growable in-memory buffer.
type bufferSink struct {
	buf *bytes.Buffer
}

// NewBufferSink returns a Sink backed by a growable buffer, along with the
// buffer itself so the caller can read back what was written.
func NewBufferSink() (Sink, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &bufferSink{buf: buf}, buf
}

func (s *bufferSink) WriteByte(b byte) error { return s.buf.WriteByte(b) }

func (s *bufferSink) WriteBytes(p []byte) error {
	_, err := s.buf.Write(p)
	return err
}

// writerSink adapts any io.Writer (buffered) into a Sink.
type writerSink struct {
	w *bufio.Writer
}

// NewWriterSink wraps a generic io.Writer as a Sink. The caller is
// responsible for flushing (Flush) or closing the underlying writer; the
// library never does either.
func NewWriterSink(w io.Writer) (Sink, *bufio.Writer) {
	bw := bufio.NewWriter(w)
	return &writerSink{w: bw}, bw
}

func (s *writerSink) WriteByte(b byte) error { return s.w.WriteByte(b) }

func (s *writerSink) WriteBytes(p []byte) error {
	_, err := s.w.Write(p)
	return err
}

// NewFileSink wraps an *os.File as a Sink. The library never closes f.
func NewFileSink(f *os.File) (Sink, *bufio.Writer) {
	return NewWriterSink(f)
}
