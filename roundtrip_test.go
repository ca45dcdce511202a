package abx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeXML is a small helper driving Encode over a literal XML string.
func encodeXML(t *testing.T, xmlText string, cfg Config) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Encode(bytes.NewReader([]byte(xmlText)), &out, cfg))
	return out.Bytes()
}

func decodeABX(t *testing.T, abxBytes []byte, cfg Config) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Decode(bytes.NewReader(abxBytes), &out, cfg))
	return out.String()
}

func TestRoundTripMinimalDocument(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?><root></root>`
	abxBytes := encodeXML(t, src, Config{})
	require.True(t, bytes.HasPrefix(abxBytes, magic[:]))

	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><root></root>`, out)
}

func TestRoundTripAttributeTypeInference(t *testing.T) {
	src := `<node flag="true" count="42" ratio="3.5" tag="0xFF" name="short"/>`
	abxBytes := encodeXML(t, src, Config{})
	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><node flag="true" count="42" ratio="3.5" tag="ff" name="short"></node>`, out)
}

func TestRoundTripInterningReuse(t *testing.T) {
	src := `<list><item label="same"/><item label="same"/></list>`
	abxBytes := encodeXML(t, src, Config{})
	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?><list><item label="same"></item><item label="same"></item></list>`,
		out)
}

func TestRoundTripEntityEscaping(t *testing.T) {
	src := `<r>5 &lt; 6 &amp; &quot;t&quot;</r>`
	abxBytes := encodeXML(t, src, Config{})
	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><r>5 &lt; 6 &amp; &quot;t&quot;</r>`, out)
}

func TestRoundTripBinaryAttribute(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	require.NoError(t, e.StartDocument())
	require.NoError(t, e.StartTag("blob"))
	require.NoError(t, e.AttributeBytesHex("data", []byte{0xDE, 0xAD, 0xBE, 0xEF}))
	require.NoError(t, e.EndTag("blob"))
	require.NoError(t, e.EndDocument())

	out := decodeABX(t, buf.Bytes(), Config{})
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><blob data="deadbeef"></blob>`, out)
}

func TestDecodeBadMagicFails(t *testing.T) {
	var out bytes.Buffer
	err := Decode(bytes.NewReader([]byte("not-abx-at-all")), &out, Config{})
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestRoundTripCollapseWhitespace(t *testing.T) {
	src := `<a>   <b/>   </a>`
	abxBytes := encodeXML(t, src, Config{CollapseWhitespace: true})
	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><a><b></b></a>`, out)
}

func TestRoundTripPreservesWhitespaceByDefault(t *testing.T) {
	src := `<a>   <b/></a>`
	abxBytes := encodeXML(t, src, Config{})
	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><a>   <b></b></a>`, out)
}

func TestEncodeWarnsOnceForNamespaces(t *testing.T) {
	src := `<root xmlns:foo="urn:foo"><foo:child/></root>`
	var warnings []string
	cfg := Config{Warn: func(category, message string) {
		if category == "namespace" {
			warnings = append(warnings, message)
		}
	}}
	_ = encodeXML(t, src, cfg)
	require.Len(t, warnings, 1)
}

func TestRoundTripPreservesNamespacePrefixesVerbatim(t *testing.T) {
	src := `<root xmlns:foo="urn:foo"><foo:child foo:attr="v"></foo:child></root>`
	abxBytes := encodeXML(t, src, Config{})
	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?><root xmlns:foo="urn:foo"><foo:child foo:attr="v"></foo:child></root>`,
		out)
}

func TestRoundTripDocType(t *testing.T) {
	src := `<!DOCTYPE root SYSTEM "root.dtd"><root/>`
	abxBytes := encodeXML(t, src, Config{})
	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><!DOCTYPE root SYSTEM "root.dtd"><root></root>`, out)
}

func TestRoundTripComment(t *testing.T) {
	src := `<a><!-- hi --></a>`
	abxBytes := encodeXML(t, src, Config{})
	out := decodeABX(t, abxBytes, Config{})
	require.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><a><!-- hi --></a>`, out)
}
