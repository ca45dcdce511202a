package abx

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Encode reads a textual XML 1.0 document from xmlSrc and writes the
// equivalent ABX stream to sink, per SPEC_FULL.md §4.6. The XML tokenizer
// (encoding/xml.Decoder, used in its namespace-unaware RawToken mode so
// prefixes are never resolved to a URI) is the external, black-box
// collaborator that turns text into a token stream; Encode's job is to
// translate that stream into encoder calls, rejoining each RawToken name's
// split prefix (see qualifiedName) so the written tag/attribute name is
// exactly what appeared in the source.
//
// encoding/xml normalizes CDATA sections into plain character data, so on
// this direction CDATA markers are not distinguishable from surrounding
// text and are encoded as TEXT records; ABX decode (Decode) fully supports
// CDSECT regardless, since that direction depends only on the wire format.
func Encode(xmlSrc io.Reader, sink io.Writer, cfg Config) error {
	xd := xml.NewDecoder(xmlSrc)
	xd.Strict = false // pass unrecognized entity refs through as literal "&name;" text

	enc := NewEncoder(sink)
	if err := enc.StartDocument(); err != nil {
		return err
	}

	warned := map[string]bool{}
	warnOnce := func(category, message string) {
		if warned[category] {
			return
		}
		warned[category] = true
		cfg.warn(category, message)
	}

	for {
		tok, err := xd.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(ErrXMLParse, err.Error())
		}

		switch t := tok.(type) {
		case xml.StartElement:
			checkNamespace(t.Name, t.Attr, warnOnce)
			if err := enc.StartTag(qualifiedName(t.Name)); err != nil {
				return err
			}
			for _, a := range t.Attr {
				if err := writeInferredAttribute(enc, qualifiedName(a.Name), a.Value); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if err := enc.EndTag(qualifiedName(t.Name)); err != nil {
				return err
			}
		case xml.CharData:
			if err := encodeCharData(enc, string(t), cfg); err != nil {
				return err
			}
		case xml.Comment:
			if err := enc.Comment(string(t)); err != nil {
				return err
			}
		case xml.ProcInst:
			if t.Target == "xml" {
				continue // the synthetic leading <?xml ...?> is not a DOM node
			}
			if err := enc.ProcessingInstruction(t.Target, string(t.Inst)); err != nil {
				return err
			}
		case xml.Directive:
			if err := encodeDirective(enc, string(t)); err != nil {
				return err
			}
		}
	}

	return enc.EndDocument()
}

// encodeCharData routes a CharData token to TEXT or IGNORABLE_WHITESPACE,
// honoring Config.CollapseWhitespace for whitespace-only runs.
func encodeCharData(enc *Encoder, s string, cfg Config) error {
	if strings.TrimSpace(s) == "" {
		if cfg.CollapseWhitespace {
			return nil
		}
		if s == "" {
			return nil
		}
		return enc.IgnorableWhitespace(s)
	}
	return enc.Text(s)
}

// encodeDirective handles encoding/xml.Directive tokens, of which the only
// one ABX has a dedicated record for is <!DOCTYPE ...>; any other directive
// (e.g. an internal subset fragment) is passed through verbatim as a
// DOCDECL payload, matching how Android's own writer has no other slot for
// it either.
func encodeDirective(enc *Encoder, s string) error {
	const prefix = "DOCTYPE"
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, prefix) {
		trimmed = strings.TrimSpace(trimmed[len(prefix):])
	}
	return enc.DocDecl(trimmed)
}

// qualifiedName reconstructs the "prefix:local" form RawToken splits a name
// into: it leaves Space unresolved (set to the literal prefix text, not a
// URI) rather than empty, so rejoining the two with a colon recovers exactly
// what was written.
func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// checkNamespace warns once per run when xmlns declarations or
// colon-prefixed names are observed; namespace prefixes themselves are
// never expanded or rewritten (see SPEC_FULL.md Non-goals).
func checkNamespace(elementName xml.Name, attrs []xml.Attr, warnOnce func(category, message string)) {
	if elementName.Space != "" {
		warnOnce("namespace", "namespace-prefixed element name preserved verbatim: "+qualifiedName(elementName))
		return
	}
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" || a.Name.Space != "" {
			warnOnce("namespace", "namespace declaration or prefixed attribute preserved verbatim: "+qualifiedName(a.Name))
			return
		}
	}
}
