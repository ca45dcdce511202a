package abx

import (
	"errors"

	"github.com/abxcodec/abx/internal/wire"
)

// Sentinel errors for every discriminant in the ABX error taxonomy. Callers
// match on these with errors.Is; call sites wrap them with positional
// context via github.com/pkg/errors so %+v prints a full chain.
var (
	// ErrBadMagic is returned when the input does not begin with the ABX
	// magic header 41 42 58 00.
	ErrBadMagic = errors.New("abx: bad magic header")

	// ErrUnexpectedEOF is returned when the stream ends inside a token or
	// its payload. It is the same value the internal wire reader returns.
	ErrUnexpectedEOF = wire.ErrUnexpectedEOF

	// ErrBadInternIndex is returned when an interned-string reference
	// exceeds the current size of the pool.
	ErrBadInternIndex = errors.New("abx: interned string index out of range")

	// ErrUnknownCommand names the condition of a token whose low nibble does
	// not match any defined command outside of attribute context. Decode
	// does not return it: it skips such a token and reports it through
	// Config.Warn under the "unknown-command" category.
	ErrUnknownCommand = errors.New("abx: unknown command")

	// ErrUnknownAttributeType is returned when an ATTRIBUTE token's high
	// nibble does not match any defined attribute type.
	ErrUnknownAttributeType = errors.New("abx: unknown attribute type")

	// ErrStringTooLong is returned when a UTF-8 string or byte payload
	// exceeds 65535 bytes on write. It is the same value the internal wire
	// writer returns.
	ErrStringTooLong = wire.ErrStringTooLong

	// ErrPoolOverflow is returned when the interning pool would exceed
	// 65535 entries.
	ErrPoolOverflow = errors.New("abx: interning pool overflow")

	// ErrTagMismatch is returned when an end tag's name does not match the
	// top of the encoder's tag stack.
	ErrTagMismatch = errors.New("abx: end tag does not match start tag")

	// ErrUnbalancedEnd is returned when an end tag is written with an
	// empty tag stack, or a document ends with unclosed tags.
	ErrUnbalancedEnd = errors.New("abx: unbalanced start/end tags")

	// ErrXMLParse is returned when the underlying XML tokenizer rejects
	// the input.
	ErrXMLParse = errors.New("abx: xml parse error")

	// ErrIO wraps failures from the underlying byte source or sink.
	ErrIO = errors.New("abx: i/o error")
)
