package abx

import (
	"io"
	"math"

	"github.com/abxcodec/abx/internal/wire"
	"github.com/pkg/errors"
)

// Encoder is the ABX serializer: it accepts XML event calls (start/end tag,
// attribute, text, CDATA, comment, PI, doctype, whitespace, entity ref) and
// writes tokens and typed payloads to an underlying io.Writer.
//
// An Encoder is stateless with respect to semantics but stateful with
// respect to its tag-name stack and interning pool; it is not safe for
// concurrent use, and once any method returns an error the Encoder must be
// discarded.
type Encoder struct {
	sink io.Writer
	buf  *wire.Writer
	pool *writePool
	tags []string
	err  error
	done bool
}

// NewEncoder returns an Encoder that writes ABX to sink. The magic header is
// written immediately, before StartDocument is ever called (per the adopted
// convention; see SPEC_FULL.md §9).
func NewEncoder(sink io.Writer) *Encoder {
	e := &Encoder{sink: sink, buf: wire.NewWriter(), pool: newWritePool()}
	if _, err := sink.Write(magic[:]); err != nil {
		e.fail("magic", errors.Wrap(ErrIO, err.Error()))
	}
	return e
}

// fail records err as the Encoder's sticky failure and returns it, wrapped
// with positional context.
func (e *Encoder) fail(op string, err error) error {
	if e.err == nil {
		e.err = errors.Wrapf(err, "abx: encode %s at byte %d", op, len(magic)+e.buf.Len())
	}
	return e.err
}

func (e *Encoder) writeToken(c command, t attrType) {
	e.buf.AppendByte(encodeToken(c, t))
}

// StartDocument writes the START_DOCUMENT record.
func (e *Encoder) StartDocument() error {
	if e.err != nil {
		return e.err
	}
	e.writeToken(cmdStartDocument, typeNull)
	return nil
}

// EndDocument writes the END_DOCUMENT record and flushes the buffered
// stream to the underlying sink. It fails with ErrUnbalancedEnd if any
// start tags remain unclosed or if EndDocument was already called.
func (e *Encoder) EndDocument() error {
	if e.err != nil {
		return e.err
	}
	if e.done || len(e.tags) != 0 {
		return e.fail("end-document", ErrUnbalancedEnd)
	}
	e.writeToken(cmdEndDocument, typeNull)
	e.done = true
	if _, err := e.sink.Write(e.buf.Bytes()); err != nil {
		return e.fail("flush", errors.Wrap(ErrIO, err.Error()))
	}
	if f, ok := e.sink.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return e.fail("flush", errors.Wrap(ErrIO, err.Error()))
		}
	}
	return nil
}

// StartTag pushes name onto the tag stack and writes a START_TAG record.
func (e *Encoder) StartTag(name string) error {
	if e.err != nil {
		return e.err
	}
	e.tags = append(e.tags, name)
	e.writeToken(cmdStartTag, typeStringInterned)
	if err := e.pool.intern(e.buf, name); err != nil {
		return e.fail("start-tag", err)
	}
	return nil
}

// EndTag pops the tag stack and writes an END_TAG record. It fails with
// ErrTagMismatch if name does not match the top of the stack, or
// ErrUnbalancedEnd if the stack is empty.
func (e *Encoder) EndTag(name string) error {
	if e.err != nil {
		return e.err
	}
	if len(e.tags) == 0 {
		return e.fail("end-tag", ErrUnbalancedEnd)
	}
	top := e.tags[len(e.tags)-1]
	if top != name {
		return e.fail("end-tag", ErrTagMismatch)
	}
	e.tags = e.tags[:len(e.tags)-1]
	e.writeToken(cmdEndTag, typeStringInterned)
	if err := e.pool.intern(e.buf, name); err != nil {
		return e.fail("end-tag", err)
	}
	return nil
}

// Attribute writes an ATTRIBUTE record carrying value as a plain STRING
// payload.
func (e *Encoder) Attribute(name, value string) error {
	if e.err != nil {
		return e.err
	}
	e.writeToken(cmdAttribute, typeString)
	if err := e.pool.intern(e.buf, name); err != nil {
		return e.fail("attribute", err)
	}
	if err := e.buf.AppendUTF(value); err != nil {
		return e.fail("attribute", err)
	}
	return nil
}

// AttributeInterned writes an ATTRIBUTE record carrying value as an
// interned-string payload.
func (e *Encoder) AttributeInterned(name, value string) error {
	if e.err != nil {
		return e.err
	}
	e.writeToken(cmdAttribute, typeStringInterned)
	if err := e.pool.intern(e.buf, name); err != nil {
		return e.fail("attribute-interned", err)
	}
	if err := e.pool.intern(e.buf, value); err != nil {
		return e.fail("attribute-interned", err)
	}
	return nil
}

// AttributeBool writes a BOOLEAN_TRUE/BOOLEAN_FALSE ATTRIBUTE record; the
// value itself carries no payload beyond the token and name.
func (e *Encoder) AttributeBool(name string, v bool) error {
	if e.err != nil {
		return e.err
	}
	t := typeBooleanFalse
	if v {
		t = typeBooleanTrue
	}
	e.writeToken(cmdAttribute, t)
	if err := e.pool.intern(e.buf, name); err != nil {
		return e.fail("attribute-bool", err)
	}
	return nil
}

// AttributeInt writes an INT ATTRIBUTE record.
func (e *Encoder) AttributeInt(name string, v int32) error {
	return e.attributeFixed(name, typeInt, "attribute-int", func() { e.buf.AppendInt32(v) })
}

// AttributeIntHex writes an INT_HEX ATTRIBUTE record.
func (e *Encoder) AttributeIntHex(name string, v int32) error {
	return e.attributeFixed(name, typeIntHex, "attribute-int-hex", func() { e.buf.AppendInt32(v) })
}

// AttributeLong writes a LONG ATTRIBUTE record.
func (e *Encoder) AttributeLong(name string, v int64) error {
	return e.attributeFixed(name, typeLong, "attribute-long", func() { e.buf.AppendInt64(v) })
}

// AttributeLongHex writes a LONG_HEX ATTRIBUTE record.
func (e *Encoder) AttributeLongHex(name string, v int64) error {
	return e.attributeFixed(name, typeLongHex, "attribute-long-hex", func() { e.buf.AppendInt64(v) })
}

// AttributeFloat writes a FLOAT ATTRIBUTE record.
func (e *Encoder) AttributeFloat(name string, v float32) error {
	return e.attributeFixed(name, typeFloat, "attribute-float", func() { e.buf.AppendFloat32(v) })
}

// AttributeDouble writes a DOUBLE ATTRIBUTE record.
func (e *Encoder) AttributeDouble(name string, v float64) error {
	return e.attributeFixed(name, typeDouble, "attribute-double", func() { e.buf.AppendFloat64(v) })
}

// attributeFixed writes the common ATTRIBUTE/name/fixed-width-payload shape
// shared by the numeric attribute writers.
func (e *Encoder) attributeFixed(name string, t attrType, op string, appendPayload func()) error {
	if e.err != nil {
		return e.err
	}
	e.writeToken(cmdAttribute, t)
	if err := e.pool.intern(e.buf, name); err != nil {
		return e.fail(op, err)
	}
	appendPayload()
	return nil
}

// AttributeBytesHex writes a BYTES_HEX ATTRIBUTE record: a u16 length
// followed by the raw bytes, capped at 65535 bytes.
func (e *Encoder) AttributeBytesHex(name string, b []byte) error {
	return e.attributeBytes(name, typeBytesHex, "attribute-bytes-hex", b)
}

// AttributeBytesBase64 writes a BYTES_BASE64 ATTRIBUTE record: a u16 length
// followed by the raw bytes, capped at 65535 bytes.
func (e *Encoder) AttributeBytesBase64(name string, b []byte) error {
	return e.attributeBytes(name, typeBytesBase64, "attribute-bytes-base64", b)
}

func (e *Encoder) attributeBytes(name string, t attrType, op string, b []byte) error {
	if e.err != nil {
		return e.err
	}
	if len(b) > math.MaxUint16 {
		return e.fail(op, ErrStringTooLong)
	}
	e.writeToken(cmdAttribute, t)
	if err := e.pool.intern(e.buf, name); err != nil {
		return e.fail(op, err)
	}
	e.buf.AppendUint16(uint16(len(b)))
	e.buf.Append(b)
	return nil
}

// Text writes a TEXT record. Empty text is elided, matching the
// deserializer's own elision of empty TEXT payloads.
func (e *Encoder) Text(s string) error {
	if s == "" {
		return nil
	}
	return e.rawString(cmdText, "text", s)
}

// CDSect writes a CDSECT record carrying s verbatim.
func (e *Encoder) CDSect(s string) error {
	return e.rawString(cmdCDSect, "cdata", s)
}

// Comment writes a COMMENT record.
func (e *Encoder) Comment(s string) error {
	return e.rawString(cmdComment, "comment", s)
}

// ProcessingInstruction writes a PROCESSING_INSTRUCTION record. The payload
// is "target" alone, or "target data" joined by a single space when data is
// non-empty.
func (e *Encoder) ProcessingInstruction(target, data string) error {
	payload := target
	if data != "" {
		payload = target + " " + data
	}
	return e.rawString(cmdProcessingIns, "processing-instruction", payload)
}

// DocDecl writes a DOCDECL record.
func (e *Encoder) DocDecl(s string) error {
	return e.rawString(cmdDocDecl, "docdecl", s)
}

// IgnorableWhitespace writes an IGNORABLE_WHITESPACE record carrying s
// verbatim, unescaped.
func (e *Encoder) IgnorableWhitespace(s string) error {
	return e.rawString(cmdIgnorableWS, "ignorable-whitespace", s)
}

// EntityRef writes an ENTITY_REF record. name excludes the leading '&' and
// trailing ';'.
func (e *Encoder) EntityRef(name string) error {
	return e.rawString(cmdEntityRef, "entity-ref", name)
}

// rawString writes the common command/STRING-payload shape shared by the
// non-element, non-attribute record kinds.
func (e *Encoder) rawString(c command, op, s string) error {
	if e.err != nil {
		return e.err
	}
	e.writeToken(c, typeString)
	if err := e.buf.AppendUTF(s); err != nil {
		return e.fail(op, err)
	}
	return nil
}
