// Package abx implements a bidirectional codec between textual XML 1.0 and
// Android Binary XML (ABX): a length-prefixed, big-endian, token-tagged wire
// format used by Android system services for configuration and state files.
//
// Encode walks an XML token stream and emits ABX; Decode walks an ABX stream
// and emits XML text. Round-tripping a document through Encode then Decode
// reproduces the same element/attribute/text structure, modulo whitespace
// collapsing when that option is requested.
package abx

// magic is the four-byte header every ABX stream begins with: ASCII "ABX"
// followed by a NUL.
var magic = [4]byte{0x41, 0x42, 0x58, 0x00}

// command is the low nibble of a token byte.
type command uint8

// Command codes, per the ABX wire format.
const (
	cmdStartDocument command = 0
	cmdEndDocument   command = 1
	cmdStartTag      command = 2
	cmdEndTag        command = 3
	cmdText          command = 4
	cmdCDSect        command = 5
	cmdEntityRef     command = 6
	cmdIgnorableWS   command = 7
	cmdProcessingIns command = 8
	cmdComment       command = 9
	cmdDocDecl       command = 10
	cmdAttribute     command = 15
)

// attrType is the high nibble of a token byte, shifted down to 0-15.
type attrType uint8

// Type codes, per the ABX wire format. The wire value of a type is
// typ << 4; see encodeToken/decodeToken.
const (
	typeNull           attrType = 1
	typeString         attrType = 2
	typeStringInterned attrType = 3
	typeBytesHex       attrType = 4
	typeBytesBase64    attrType = 5
	typeInt            attrType = 6
	typeIntHex         attrType = 7
	typeLong           attrType = 8
	typeLongHex        attrType = 9
	typeFloat          attrType = 10
	typeDouble         attrType = 11
	typeBooleanTrue    attrType = 12
	typeBooleanFalse   attrType = 13
)

// encodeToken packs a command and type into a single wire byte.
func encodeToken(c command, t attrType) byte {
	return byte(c)&0x0F | byte(t)<<4
}

// decodeToken splits a wire byte into its command and type.
func decodeToken(b byte) (command, attrType) {
	return command(b & 0x0F), attrType(b>>4) & 0x0F
}

const (
	// maxPoolSize is the maximum number of distinct strings the interning
	// pool may hold: one less than 1<<16, since index 0xFFFF is reserved as
	// the internNewEntry sentinel and must never be assigned to an entry.
	maxPoolSize = internNewEntry

	// maxWireStringLen is the maximum byte length of a length-prefixed
	// wire string or byte array.
	maxWireStringLen = 1<<16 - 1

	// internNewEntry is the sentinel u16 index meaning "the string that
	// follows is new; append it to the pool".
	internNewEntry = 0xFFFF
)
