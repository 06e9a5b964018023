/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: format.go
Description: Text rendering of decoded values in the notation of the system that produced
the stream. Str renders a value the way it prints in a plain print statement (strings bare),
Repr the way it prints inside a container (strings quoted).
*/

package value

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var leftoverEscape = regexp.MustCompile(`\\u[0-9a-fA-F]{4}|\\U[0-9a-fA-F]{8}`)

// Misdecoded reports whether s looks like raw-unicode-escape text that was not
// fully decoded: invalid UTF-8, replacement characters or literal \uXXXX and
// \UXXXXXXXX escapes. Protocol 0 pickles store non-ASCII text that way.
func Misdecoded(s String) bool {
	text := string(s)
	if !utf8.ValidString(text) || strings.ContainsRune(text, utf8.RuneError) {
		return true
	}
	return leftoverEscape.MatchString(text)
}

// TypeName returns the source-language type name of v
func TypeName(v Value) string {
	switch val := v.(type) {
	case nil:
		return "NoneType"
	case None:
		return "NoneType"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "str"
	case Bytes:
		return "bytes"
	case Sequence:
		return val.Type.String()
	case Mapping:
		return "dict"
	case Object:
		return val.Type
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Str renders v as printed on its own
func Str(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return Repr(v)
}

// Repr renders v as printed inside a container
func Repr(v Value) string {
	switch val := v.(type) {
	case nil, None:
		return "None"
	case Bool:
		if val {
			return "True"
		}
		return "False"
	case Int:
		return val.String()
	case Float:
		return FormatFloat(float64(val))
	case String:
		return quoteString(string(val))
	case Bytes:
		return quoteBytes(val)
	case Sequence:
		return reprSequence(val)
	case Mapping:
		parts := make([]string, len(val.Entries))
		for i, e := range val.Entries {
			parts[i] = Repr(e.Key) + ": " + Repr(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Object:
		return "<" + val.Type + " object>"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func reprSequence(s Sequence) string {
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		parts[i] = Repr(item)
	}
	body := strings.Join(parts, ", ")

	switch s.Type {
	case SequenceTuple:
		if len(parts) == 1 {
			return "(" + body + ",)"
		}
		return "(" + body + ")"
	case SequenceSet:
		if len(parts) == 0 {
			return "set()"
		}
		return "{" + body + "}"
	case SequenceFrozenSet:
		if len(parts) == 0 {
			return "frozenset()"
		}
		return "frozenset({" + body + "})"
	default:
		return "[" + body + "]"
	}
}

// FormatFloat renders f in shortest round-trip form, switching to exponent
// notation below 1e-4 and from 1e16 upwards. Integral values keep a ".0".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// quoteString prefers single quotes and switches to double quotes only when the
// text holds a single quote and no double quote
func quoteString(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r > 0x7f && !unicode.IsPrint(r):
			if r <= 0xffff {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

func quoteBytes(data []byte) string {
	quote := byte('\'')
	if strings.ContainsRune(string(data), '\'') && !strings.ContainsRune(string(data), '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteString("b")
	b.WriteByte(quote)
	for _, c := range data {
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == quote:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
