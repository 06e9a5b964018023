/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reader.go
Description: Stream reader for sequential serialized object files. Decodes one value at a
time until the source is cleanly exhausted and reports malformed or truncated records as
corruption rather than as an end of stream.
*/

package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Sunnigen/godot-wfc/pkg/value"
)

// ErrStreamCorrupt is matched by every CorruptError
var ErrStreamCorrupt = errors.New("stream corrupt")

// CorruptError reports a record that could not be decoded
type CorruptError struct {
	Index  int   // Zero-based index of the record being decoded
	Offset int64 // Byte offset at which the record started
	Err    error // Underlying decoder error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("stream corrupt at record %d (offset %d): %v", e.Index, e.Offset, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{ErrStreamCorrupt, e.Err}
}

// Decoder decodes a single value from r. Implementations must not read past the
// end of the value they decode.
type Decoder interface {
	Decode(r io.Reader) (value.Value, error)
}

// Reader yields the values of a stream in order
type Reader struct {
	src     *bufio.Reader
	counter *countingReader
	decoder Decoder
	index   int
}

// NewReader creates a reader decoding pickled values from r
func NewReader(r io.Reader) *Reader {
	return NewReaderWithDecoder(r, PickleDecoder{})
}

// NewReaderWithDecoder creates a reader using a custom decoder
func NewReaderWithDecoder(r io.Reader, decoder Decoder) *Reader {
	src := bufio.NewReader(r)
	return &Reader{
		src:     src,
		counter: &countingReader{r: src},
		decoder: decoder,
	}
}

// Next decodes the next value. It returns io.EOF once the source is exhausted on
// a record boundary.
func (r *Reader) Next() (v value.Value, err error) {
	if _, err := r.src.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, r.corrupt(r.counter.n, err)
	}

	start := r.counter.n
	defer func() {
		if rec := recover(); rec != nil {
			v, err = nil, r.corrupt(start, fmt.Errorf("decoder panic: %v", rec))
		}
	}()

	v, err = r.decoder.Decode(r.counter)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, r.corrupt(start, err)
	}

	r.index++
	return v, nil
}

// Count returns the number of values decoded so far
func (r *Reader) Count() int {
	return r.index
}

func (r *Reader) corrupt(offset int64, err error) error {
	return &CorruptError{Index: r.index, Offset: offset, Err: err}
}

// ReadAll decodes every value in r
func ReadAll(r io.Reader) ([]value.Value, error) {
	reader := NewReader(r)
	values := make([]value.Value, 0)
	for {
		v, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
}

// ReadFile decodes every value in the file at path
func ReadFile(path string) ([]value.Value, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	defer file.Close()

	return ReadAll(file)
}

// countingReader tracks how many bytes the decoder consumed
type countingReader struct {
	r *bufio.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}
