package staticeval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrBadLiteral reports a scalar whose text is not a valid PHP literal.
var ErrBadLiteral = errors.New("invalid literal")

// UnquoteString decodes a single- or double-quoted PHP string literal,
// including the optional binary prefix. Double-quoted strings that
// interpolate variables are rejected with ErrInterpolation.
func UnquoteString(raw string) (string, error) {
	if raw != "" && (raw[0] == 'b' || raw[0] == 'B') {
		raw = raw[1:]
	}
	if len(raw) < 2 || raw[0] != raw[len(raw)-1] {
		return "", fmt.Errorf("%w: %q", ErrBadLiteral, raw)
	}

	body := raw[1 : len(raw)-1]
	switch raw[0] {
	case '\'':
		return unquoteSingle(body), nil
	case '"':
		return unquoteDouble(body)
	default:
		return "", fmt.Errorf("%w: %q", ErrBadLiteral, raw)
	}
}

func unquoteSingle(body string) string {
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == '\\' || body[i+1] == '\'') {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

func unquoteDouble(body string) (string, error) {
	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); i++ {
		c := body[i]

		if c == '$' && i+1 < len(body) && startsVariable(body[i+1]) {
			return "", ErrInterpolation
		}
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}

		i++
		switch esc := body[i]; esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'v':
			b.WriteByte('\v')
		case 'e':
			b.WriteByte(0x1b)
		case 'f':
			b.WriteByte('\f')
		case '\\', '$', '"':
			b.WriteByte(esc)
		case 'x':
			n, width := scanDigits(body[i+1:], 16, 2)
			if width == 0 {
				b.WriteString(`\x`)
				continue
			}
			b.WriteByte(byte(n))
			i += width
		case 'u':
			r, width, ok := scanCodepoint(body[i+1:])
			if !ok {
				b.WriteString(`\u`)
				continue
			}
			b.WriteRune(r)
			i += width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n, width := scanDigits(body[i:], 8, 3)
			b.WriteByte(byte(n))
			i += width - 1
		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}

	return b.String(), nil
}

func startsVariable(c byte) bool {
	return c == '_' || c == '{' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

// scanDigits reads up to limit digits of the given base from the start of s.
func scanDigits(s string, base, limit int) (int, int) {
	n, width := 0, 0
	for width < limit && width < len(s) {
		d := digitValue(s[width])
		if d < 0 || d >= base {
			break
		}
		n = n*base + d
		width++
	}
	return n, width
}

// scanCodepoint reads a "{hex}" escape body.
func scanCodepoint(s string) (rune, int, bool) {
	if s == "" || s[0] != '{' {
		return 0, 0, false
	}
	end := strings.IndexByte(s, '}')
	if end < 2 {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(s[1:end], 16, 32)
	if err != nil || n > utf8.MaxRune {
		return 0, 0, false
	}
	return rune(n), end + 1, true
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// ParseNumber decodes a PHP numeric literal: decimal, hexadecimal (0x),
// octal (leading 0 or 0o), binary (0b) or floating point. Integers that
// overflow int64 become float64, as in PHP.
func ParseNumber(raw string) (any, error) {
	s := strings.ReplaceAll(raw, "_", "")
	if s == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadLiteral, raw)
	}

	lower := strings.ToLower(s)
	base, digits := 10, lower
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, lower[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, lower[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, lower[2:]
	case strings.ContainsAny(lower, ".e"):
		f, err := strconv.ParseFloat(lower, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: %q", ErrBadLiteral, raw)
		}
		return f, nil
	case len(lower) > 1 && lower[0] == '0':
		base, digits = 8, lower[1:]
	}

	n, err := strconv.ParseInt(digits, base, 64)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("%w: %q", ErrBadLiteral, raw)
	}

	u, uerr := strconv.ParseUint(digits, base, 64)
	if uerr == nil {
		return float64(u), nil
	}
	if base == 10 {
		f, ferr := strconv.ParseFloat(digits, 64)
		if ferr == nil || errors.Is(ferr, strconv.ErrRange) {
			return f, nil
		}
	}
	return math.Inf(1), nil
}
