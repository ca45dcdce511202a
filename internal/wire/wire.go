// Package wire provides the typed, big-endian binary primitives that the ABX
// codec is built on: a Reader over an in-memory byte slice and a Writer over
// a growable byte buffer. Both follow the Append/Read/Skip/Peek shape used by
// this module's teacher's own internal byte buffer, scaled down to exactly
// the primitives ABX needs.
package wire

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrUnexpectedEOF is returned when a read would consume more bytes than
// remain in the buffer.
var ErrUnexpectedEOF = errors.New("abx: unexpected end of input")

// ErrStringTooLong is returned when a string or byte payload exceeds the
// 65535-byte wire limit on write.
var ErrStringTooLong = errors.New("abx: string exceeds 65535 bytes")

// Reader is a cursor over an in-memory byte slice with big-endian typed
// reads. It never copies the backing slice; callers that need to retain a
// returned []byte beyond the Reader's lifetime should copy it themselves.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reading.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.pos
}

// Pos returns the current read offset, for error messages.
func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) require(n int) error {
	if r.Len() < n {
		return ErrUnexpectedEOF
	}
	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// PeekByte returns the next byte without consuming it.
func (r *Reader) PeekByte() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	return r.buf[r.pos], nil
}

// ReadBytes returns a slice view of the next n bytes, advancing the cursor.
// The returned slice aliases the Reader's backing array.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (r *Reader) Skip(n int) error {
	if err := r.require(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ReadUint16 reads a big-endian u16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadInt32 reads a big-endian two's-complement i32.
func (r *Reader) ReadInt32() (int32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return int32(v), nil
}

// ReadInt64 reads a big-endian two's-complement i64.
func (r *Reader) ReadInt64() (int64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return int64(v), nil
}

// ReadFloat32 reads a big-endian IEEE-754 single from its raw bit pattern.
func (r *Reader) ReadFloat32() (float32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	bits := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return math.Float32frombits(bits), nil
}

// ReadFloat64 reads a big-endian IEEE-754 double from its raw bit pattern.
func (r *Reader) ReadFloat64() (float64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	bits := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadUTF reads a u16 length prefix followed by that many UTF-8 bytes,
// returning a freshly allocated string.
func (r *Reader) ReadUTF() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Writer accumulates a growable byte buffer with big-endian typed appends.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256)}
}

// Bytes returns the accumulated buffer. The returned slice aliases the
// Writer's internal storage.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Append appends raw bytes verbatim.
func (w *Writer) Append(b []byte) {
	w.buf = append(w.buf, b...)
}

// AppendByte appends a single byte.
func (w *Writer) AppendByte(b byte) {
	w.buf = append(w.buf, b)
}

// AppendUint16 appends a big-endian u16.
func (w *Writer) AppendUint16(v uint16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

// AppendInt32 appends a big-endian two's-complement i32.
func (w *Writer) AppendInt32(v int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	w.buf = append(w.buf, tmp[:]...)
}

// AppendInt64 appends a big-endian two's-complement i64.
func (w *Writer) AppendInt64(v int64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	w.buf = append(w.buf, tmp[:]...)
}

// AppendFloat32 appends the raw big-endian bit pattern of an IEEE-754 single.
func (w *Writer) AppendFloat32(v float32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], math.Float32bits(v))
	w.buf = append(w.buf, tmp[:]...)
}

// AppendFloat64 appends the raw big-endian bit pattern of an IEEE-754 double.
func (w *Writer) AppendFloat64(v float64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v))
	w.buf = append(w.buf, tmp[:]...)
}

// AppendUTF writes a u16 length prefix followed by s's UTF-8 bytes. It fails
// with ErrStringTooLong if s is longer than 65535 bytes.
func (w *Writer) AppendUTF(s string) error {
	if len(s) > math.MaxUint16 {
		return ErrStringTooLong
	}
	w.AppendUint16(uint16(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}
