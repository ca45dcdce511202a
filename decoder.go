package abx

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/abxcodec/abx/internal/wire"
	"github.com/pkg/errors"
)

// Decode reads an ABX stream from r and writes the equivalent textual XML to
// w, per SPEC_FULL.md §4.2. It is a one-shot operation: the whole input is
// read into memory before decoding begins, since the wire format's
// interning pool and attribute sub-loop both require positional lookahead
// that a pure streaming reader would need to buffer anyway.
func Decode(r io.Reader, w io.Writer, cfg Config) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}

	d := &decoder{
		r:    wire.NewReader(data),
		pool: &readPool{},
		out:  bufio.NewWriter(w),
		cfg:  cfg,
	}
	if err := d.run(); err != nil {
		return err
	}
	return errors.Wrap(d.out.Flush(), "abx: flush decoded xml")
}

type decoder struct {
	r    *wire.Reader
	pool *readPool
	out  *bufio.Writer
	cfg  Config
	tags []string
}

func (d *decoder) run() error {
	if err := d.readMagic(); err != nil {
		return err
	}

	sawStart := false
	warnedUnknown := false
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return errors.Wrap(ErrUnexpectedEOF, "abx: decode: stream ended before END_DOCUMENT")
		}
		c, t := decodeToken(b)

		switch c {
		case cmdStartDocument:
			if !sawStart {
				d.out.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
				sawStart = true
			}
		case cmdEndDocument:
			if len(d.tags) != 0 {
				return errors.Wrapf(ErrUnbalancedEnd, "abx: decode: %d unclosed tag(s) at END_DOCUMENT", len(d.tags))
			}
			return nil
		case cmdStartTag:
			if err := d.decodeStartTag(); err != nil {
				return err
			}
		case cmdEndTag:
			if err := d.decodeEndTag(); err != nil {
				return err
			}
		case cmdText:
			s, err := d.r.ReadUTF()
			if err != nil {
				return errors.Wrap(err, "abx: decode: text")
			}
			if s != "" {
				d.out.WriteString(EscapeXMLText(s))
			}
		case cmdCDSect:
			s, err := d.r.ReadUTF()
			if err != nil {
				return errors.Wrap(err, "abx: decode: cdata")
			}
			d.out.WriteString("<![CDATA[")
			d.out.WriteString(s)
			d.out.WriteString("]]>")
		case cmdComment:
			s, err := d.r.ReadUTF()
			if err != nil {
				return errors.Wrap(err, "abx: decode: comment")
			}
			d.out.WriteString("<!--")
			d.out.WriteString(s)
			d.out.WriteString("-->")
		case cmdProcessingIns:
			s, err := d.r.ReadUTF()
			if err != nil {
				return errors.Wrap(err, "abx: decode: processing instruction")
			}
			d.out.WriteString("<?")
			d.out.WriteString(s)
			d.out.WriteString("?>")
		case cmdDocDecl:
			s, err := d.r.ReadUTF()
			if err != nil {
				return errors.Wrap(err, "abx: decode: docdecl")
			}
			d.out.WriteString("<!DOCTYPE ")
			d.out.WriteString(s)
			d.out.WriteByte('>')
		case cmdEntityRef:
			s, err := d.r.ReadUTF()
			if err != nil {
				return errors.Wrap(err, "abx: decode: entity ref")
			}
			d.out.WriteByte('&')
			d.out.WriteString(s)
			d.out.WriteByte(';')
		case cmdIgnorableWS:
			s, err := d.r.ReadUTF()
			if err != nil {
				return errors.Wrap(err, "abx: decode: ignorable whitespace")
			}
			d.out.WriteString(s)
		default:
			// Unrecognized low nibble outside attribute context: Android's
			// own reader tolerates this by skipping the token and
			// continuing, so we do the same, surfacing only a warning (once
			// per run, for the first such token).
			if !warnedUnknown {
				warnedUnknown = true
				d.cfg.warn("unknown-command", fmt.Sprintf("skipping token with unrecognized command %d (type %d)", c, t))
			}
		}
	}
}

func (d *decoder) readMagic() error {
	b, err := d.r.ReadBytes(len(magic))
	if err != nil || !bytes.Equal(b, magic[:]) {
		return ErrBadMagic
	}
	return nil
}

func (d *decoder) decodeStartTag() error {
	name, err := d.pool.resolve(d.r)
	if err != nil {
		return errors.Wrap(err, "abx: decode: start tag name")
	}
	d.tags = append(d.tags, name)
	d.out.WriteByte('<')
	d.out.WriteString(name)

	for {
		peek, err := d.r.PeekByte()
		if err != nil {
			return errors.Wrap(ErrUnexpectedEOF, "abx: decode: stream ended inside start tag")
		}
		c, _ := decodeToken(peek)
		if c != cmdAttribute {
			break
		}
		if _, err := d.r.ReadByte(); err != nil {
			return err
		}
		if err := d.decodeAttribute(peek); err != nil {
			return err
		}
	}
	d.out.WriteByte('>')
	return nil
}

func (d *decoder) decodeEndTag() error {
	name, err := d.pool.resolve(d.r)
	if err != nil {
		return errors.Wrap(err, "abx: decode: end tag name")
	}
	if len(d.tags) == 0 {
		return errors.Wrapf(ErrUnbalancedEnd, "abx: decode: end tag %q with no open tag", name)
	}
	top := d.tags[len(d.tags)-1]
	if top != name {
		return errors.Wrapf(ErrTagMismatch, "abx: decode: end tag %q does not match open tag %q", name, top)
	}
	d.tags = d.tags[:len(d.tags)-1]
	d.out.WriteString("</")
	d.out.WriteString(name)
	d.out.WriteByte('>')
	return nil
}

// decodeAttribute decodes one ATTRIBUTE record whose token byte (already
// consumed) was tok, and writes ` name="value"` to the output.
func (d *decoder) decodeAttribute(tok byte) error {
	_, t := decodeToken(tok)

	name, err := d.pool.resolve(d.r)
	if err != nil {
		return errors.Wrap(err, "abx: decode: attribute name")
	}

	rendered, err := d.decodeAttributeValue(t)
	if err != nil {
		return errors.Wrapf(err, "abx: decode: attribute %q value", name)
	}

	d.out.WriteByte(' ')
	d.out.WriteString(name)
	d.out.WriteString(`="`)
	d.out.WriteString(rendered)
	d.out.WriteByte('"')
	return nil
}

func (d *decoder) decodeAttributeValue(t attrType) (string, error) {
	switch t {
	case typeNull:
		return "null", nil
	case typeString:
		s, err := d.r.ReadUTF()
		return EscapeXMLText(s), err
	case typeStringInterned:
		s, err := d.pool.resolve(d.r)
		return EscapeXMLText(s), err
	case typeBytesHex:
		b, err := d.readByteArray()
		if err != nil {
			return "", err
		}
		return renderBytesHex(b), nil
	case typeBytesBase64:
		b, err := d.readByteArray()
		if err != nil {
			return "", err
		}
		return renderBytesBase64(b), nil
	case typeInt:
		v, err := d.r.ReadInt32()
		return fmt.Sprintf("%d", v), err
	case typeIntHex:
		v, err := d.r.ReadInt32()
		return renderIntHex(v), err
	case typeLong:
		v, err := d.r.ReadInt64()
		return fmt.Sprintf("%d", v), err
	case typeLongHex:
		v, err := d.r.ReadInt64()
		return renderLongHex(v), err
	case typeFloat:
		v, err := d.r.ReadFloat32()
		return renderFloat(v), err
	case typeDouble:
		v, err := d.r.ReadFloat64()
		return renderDouble(v), err
	case typeBooleanTrue:
		return "true", nil
	case typeBooleanFalse:
		return "false", nil
	default:
		return "", ErrUnknownAttributeType
	}
}

func (d *decoder) readByteArray() ([]byte, error) {
	n, err := d.r.ReadUint16()
	if err != nil {
		return nil, err
	}
	b, err := d.r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}
