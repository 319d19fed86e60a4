// Canonicalizes the numeric text emitted by the scaling engine.
// Every number written into the output document goes through Format,
// so that precision and trimming rules are applied uniformly.
package svgnum

import (
	"strconv"
	"strings"
)

// Format renders v with at most `precision` fractional digits,
// stripping trailing zeros and a trailing decimal point.
// A negative zero is normalized to "0". Non-finite values are passed
// through in strconv's spelling rather than causing a failure.
func Format(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// supportedUnits are the absolute length suffixes which scale linearly
// with the document. Percentages (and any unknown suffix) are relative
// to a reference box and must be passed through unscaled.
var supportedUnits = map[string]bool{
	"": true, "px": true, "pt": true, "pc": true, "mm": true, "cm": true, "in": true,
}

// SplitUnit splits a length value into its numeric text and unit suffix.
// ok is false when the suffix is not a supported absolute unit.
func SplitUnit(s string) (num, unit string, ok bool) {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '%' {
			i--
			continue
		}
		break
	}
	num, unit = s[:i], s[i:]
	return num, unit, supportedUnits[unit]
}

// ScaleLength scales a single length value, preserving a supported unit
// suffix. ok is false when the value carries a relative unit (%, em, ...)
// and must be emitted verbatim; a value without a valid numeric part is
// an error even then.
func ScaleLength(v string, scale float64, precision int) (out string, ok bool, err error) {
	num, unit, supported := SplitUnit(strings.TrimSpace(v))
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return "", true, err
	}
	if !supported {
		return "", false, nil
	}
	return Format(f*scale, precision) + unit, true, nil
}

// ScaleList scales every number in a space- or comma-delimited list,
// reproducing the original separators byte-for-byte. The literal token
// "none" is copied through unchanged; any other non-numeric token is an
// error.
func ScaleList(v string, scale float64, precision int) (string, error) {
	var b strings.Builder
	b.Grow(len(v))
	i := 0
	for i < len(v) {
		c := v[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' {
			b.WriteByte(c)
			i++
			continue
		}
		start := i
		for i < len(v) {
			c := v[i]
			if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' {
				break
			}
			i++
		}
		tok := v[start:i]
		if tok == "none" {
			b.WriteString(tok)
			continue
		}
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return "", err
		}
		b.WriteString(Format(f*scale, precision))
	}
	return b.String(), nil
}
