// Package json provides goccy/go-json encoding backed by an objectpool
// buffer pool.
package json

import (
	"bytes"
	"context"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/objectpool/pkg/pool"
)

const (
	// initialBufferSize is the capacity of a fresh pooled buffer
	initialBufferSize = 4096
	// maxPooledBuffers bounds how many idle buffers are kept
	maxPooledBuffers = 64
)

// bufferHooks resets buffers on return.
type bufferHooks struct{}

func (bufferHooks) NewInstance() *bytes.Buffer {
	return bytes.NewBuffer(make([]byte, 0, initialBufferSize))
}

func (bufferHooks) OnTake(*bytes.Buffer) {}

func (bufferHooks) OnReturn(buf *bytes.Buffer) { buf.Reset() }

func (bufferHooks) OnRemoval(*bytes.Buffer) {}

var buffers = pool.NonBlockingBounded[*bytes.Buffer](bufferHooks{}, maxPooledBuffers,
	pool.WithName("json-buffers"))

// GetBuffer takes an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	return buffers.Take(context.Background())
}

// PutBuffer returns buf to the pool.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buffers.Put(buf)
}

// Marshal is a drop-in replacement for encoding/json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// EncodeIndent writes v to w as indented JSON followed by a newline. The
// document is built in a pooled buffer and written with a single Write.
func EncodeIndent(w io.Writer, v interface{}, prefix, indent string) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalLines encodes values as line-delimited JSON.
func MarshalLines(values []interface{}) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
	}

	// Copy since the buffer goes back to the pool
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// StreamingEncoder writes a sequence of values either as a JSON array or
// as line-delimited JSON.
type StreamingEncoder struct {
	writer      io.Writer
	buf         *bytes.Buffer
	encoder     *gojson.Encoder
	firstRecord bool
	isArray     bool
}

// NewStreamingEncoder creates a new streaming encoder
func NewStreamingEncoder(w io.Writer, isArray bool) *StreamingEncoder {
	buf := GetBuffer()
	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &StreamingEncoder{
		writer:      w,
		buf:         buf,
		encoder:     enc,
		firstRecord: true,
		isArray:     isArray,
	}
}

// Encode encodes a single value
func (se *StreamingEncoder) Encode(v interface{}) error {
	se.buf.Reset()
	if se.isArray {
		if se.firstRecord {
			se.buf.WriteByte('[')
		} else {
			se.buf.WriteByte(',')
		}
	}
	if err := se.encoder.Encode(v); err != nil {
		return err
	}
	if se.isArray {
		// Arrays are comma separated; drop the encoder's newline
		se.buf.Truncate(se.buf.Len() - 1)
	}
	se.firstRecord = false
	_, err := se.writer.Write(se.buf.Bytes())
	return err
}

// Close finalizes the encoding and releases the pooled buffer.
func (se *StreamingEncoder) Close() error {
	defer func() {
		PutBuffer(se.buf)
		se.buf = nil
	}()
	if !se.isArray {
		return nil
	}
	closing := "]"
	if se.firstRecord {
		closing = "[]"
	}
	_, err := io.WriteString(se.writer, closing)
	return err
}
