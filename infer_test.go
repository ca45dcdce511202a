package abx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func inferredType(t *testing.T, value string) attrType {
	t.Helper()
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	require.NoError(t, writeInferredAttribute(e, "a", value))
	// records reach the sink only when EndDocument flushes the stream.
	require.NoError(t, e.EndDocument())

	r := &decoder{pool: &readPool{}}
	_ = r
	b := buf.Bytes()
	// token byte is the last byte written before the interned name index;
	// decode it directly rather than round-tripping through Decode.
	tok := b[len(magic)]
	_, typ := decodeToken(tok)
	return typ
}

func TestInferBooleans(t *testing.T) {
	require.Equal(t, typeBooleanTrue, inferredType(t, "true"))
	require.Equal(t, typeBooleanFalse, inferredType(t, "false"))
}

func TestInferHexInt(t *testing.T) {
	require.Equal(t, typeIntHex, inferredType(t, "0x1A"))
	require.Equal(t, typeIntHex, inferredType(t, "-0xFF"))
}

func TestInferHexLong(t *testing.T) {
	require.Equal(t, typeLongHex, inferredType(t, "0x123456789"))
}

func TestInferDecimalInt(t *testing.T) {
	require.Equal(t, typeInt, inferredType(t, "42"))
	require.Equal(t, typeInt, inferredType(t, "-7"))
}

func TestInferDecimalLong(t *testing.T) {
	require.Equal(t, typeLong, inferredType(t, "5000000000"))
}

func TestInferFloat(t *testing.T) {
	require.Equal(t, typeFloat, inferredType(t, "3.5"))
}

func TestInferInternedShortString(t *testing.T) {
	require.Equal(t, typeStringInterned, inferredType(t, "com.example.app"))
}

func TestInferPlainStringForSpacedOrHyphenatedValues(t *testing.T) {
	require.Equal(t, typeString, inferredType(t, "has a space"))
	require.Equal(t, typeString, inferredType(t, "a-value-with-a-hyphen"))
}

func TestInferLongDigitStringStaysPlainString(t *testing.T) {
	require.Equal(t, typeString, inferredType(t, "123456789012345678901234567890123456789012345678901"))
}
