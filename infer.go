package abx

import (
	"regexp"
	"strconv"
	"strings"
)

// Attribute value shapes recognized during type inference, tried in order;
// the first match wins. Long hyphenated identifiers (UUIDs, package names)
// deliberately fall through every numeric/interning rule to plain STRING,
// since the interning pool is capacity-limited and their reuse likelihood
// is low.
var (
	hexIntPattern     = regexp.MustCompile(`^-?0[xX][0-9a-fA-F]+$`)
	decimalIntPattern = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern      = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
)

const (
	// decimalIntSafetyThreshold bounds the length of a decimal-integer
	// candidate, so long digit strings (certificate serials, account
	// numbers) are kept as strings instead of being typed as INT or LONG;
	// they then follow the interned/plain string rules below.
	decimalIntSafetyThreshold = 15

	// internedStringMaxLen and the space/hyphen exclusion below bound
	// which strings are worth the pool slot.
	internedStringMaxLen = 50
)

// writeInferredAttribute chooses the tightest ABX attribute type for value
// following the policy in SPEC_FULL.md §4.5, and writes it through e.
func writeInferredAttribute(e *Encoder, name, value string) error {
	switch value {
	case "true":
		return e.AttributeBool(name, true)
	case "false":
		return e.AttributeBool(name, false)
	}

	if hexIntPattern.MatchString(value) {
		neg := strings.HasPrefix(value, "-")
		digits := value
		if neg {
			digits = digits[1:]
		}
		digits = digits[2:] // strip 0x/0X
		if len(digits) <= 8 {
			if v, err := parseHexInt32(neg, digits); err == nil {
				return e.AttributeIntHex(name, v)
			}
		} else {
			if v, err := parseHexInt64(neg, digits); err == nil {
				return e.AttributeLongHex(name, v)
			}
		}
		// fall through to STRING on parse failure
	}

	if decimalIntPattern.MatchString(value) && len(value) < decimalIntSafetyThreshold {
		if v, err := strconv.ParseInt(value, 10, 32); err == nil {
			return e.AttributeInt(name, int32(v))
		}
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return e.AttributeLong(name, v)
		}
		// fall through to STRING on overflow of both widths
	}

	if floatPattern.MatchString(value) && !hexIntPattern.MatchString(value) {
		if v, err := strconv.ParseFloat(value, 32); err == nil {
			return e.AttributeFloat(name, float32(v))
		}
		// fall through to STRING on parse failure
	}

	if len(value) < internedStringMaxLen && !strings.ContainsAny(value, " -") {
		return e.AttributeInterned(name, value)
	}

	return e.Attribute(name, value)
}

// parseHexInt32 parses up to 8 unprefixed hex digits as a signed 32-bit
// value via its unsigned bit pattern, applying the sign afterward.
func parseHexInt32(neg bool, digits string) (int32, error) {
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, err
	}
	if neg {
		return -int32(v), nil
	}
	return int32(v), nil
}

// parseHexInt64 is parseHexInt32 scaled to 64 bits, for hex literals with
// more than 8 digits.
func parseHexInt64(neg bool, digits string) (int64, error) {
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		return -int64(v), nil
	}
	return int64(v), nil
}
