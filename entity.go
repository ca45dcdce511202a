package abx

import "strings"

// xmlEscaper replaces the five predefined XML entities. strings.Replacer
// makes a single pass and never rescans its own output, so the '&' in a
// replacement is not escaped again.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXMLText replaces '&', '<', '>', '"' and '\'' with their named XML
// entity forms. The ABX deserializer applies this to TEXT, STRING and
// STRING_INTERNED payloads on the way out; it never un-escapes, since that
// is the XML parser's responsibility on the way back in.
func EscapeXMLText(s string) string {
	return xmlEscaper.Replace(s)
}
