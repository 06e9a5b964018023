/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: json.go
Description: JSON encoding of a rule table. The layout is an object keyed by tile with two
space indentation, one array element per line and empty arrays written inline. Keys are
stringified, non-ASCII text is escaped and non-finite floats are written as NaN/Infinity,
the same bytes Python's json.dump produces with indent=2.
*/

package serialize

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/Sunnigen/godot-wfc/pkg/rules"
	"github.com/Sunnigen/godot-wfc/pkg/value"
)

// ErrUnencodable is matched by every value that has no JSON form
var ErrUnencodable = errors.New("value cannot be encoded as JSON")

const jsonIndent = "  "

// JSONOptions controls JSON encoding
type JSONOptions struct {
	// SortKeys orders tiles ascending instead of keeping table order
	SortKeys bool
}

// JSON encodes t as an indented JSON object mapping each tile to its four
// neighbour arrays
func JSON(t *rules.Table, opts JSONOptions) ([]byte, error) {
	list := t.Rules()
	if opts.SortKeys {
		sorted, err := t.Sorted()
		if err != nil {
			return nil, fmt.Errorf("failed to encode json rules: %w", err)
		}
		list = sorted
	}

	if len(list) == 0 {
		return []byte("{}"), nil
	}

	enc := &jsonEncoder{}
	enc.buf.WriteString("{")
	for i, rule := range list {
		key, err := jsonKey(rule.Tile)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json rules: %w", err)
		}
		if i > 0 {
			enc.buf.WriteString(",")
		}
		enc.newline(1)
		enc.writeString(key)
		enc.buf.WriteString(": ")

		groups := make([]value.Value, len(rule.Neighbors))
		for d, group := range rule.Neighbors {
			groups[d] = value.List(group...)
		}
		if err := enc.writeValue(value.List(groups...), 1); err != nil {
			return nil, fmt.Errorf("failed to encode json rules: tile %s: %w", value.Repr(rule.Tile), err)
		}
	}
	enc.newline(0)
	enc.buf.WriteString("}")

	return enc.buf.Bytes(), nil
}

// jsonKey stringifies a mapping key. Only strings, numbers, bools and None
// can become object keys.
func jsonKey(v value.Value) (string, error) {
	switch val := v.(type) {
	case value.String:
		return string(val), nil
	case value.Int:
		return val.String(), nil
	case value.Float:
		return jsonFloat(float64(val)), nil
	case value.Bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case value.None:
		return "null", nil
	}
	return "", fmt.Errorf("%w: keys must be str, int, float, bool or None, not %s", ErrUnencodable, value.TypeName(v))
}

func jsonFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return value.FormatFloat(f)
}

type jsonEncoder struct {
	buf bytes.Buffer
}

func (e *jsonEncoder) newline(depth int) {
	e.buf.WriteString("\n")
	e.buf.WriteString(strings.Repeat(jsonIndent, depth))
}

func (e *jsonEncoder) writeValue(v value.Value, depth int) error {
	switch val := v.(type) {
	case value.None:
		e.buf.WriteString("null")
	case value.Bool:
		if val {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case value.Int:
		e.buf.WriteString(val.String())
	case value.Float:
		e.buf.WriteString(jsonFloat(float64(val)))
	case value.String:
		e.writeString(string(val))
	case value.Sequence:
		if val.Unordered() {
			return fmt.Errorf("%w: %s", ErrUnencodable, value.TypeName(v))
		}
		return e.writeArray(val.Items, depth)
	case value.Mapping:
		return e.writeObject(val, depth)
	default:
		return fmt.Errorf("%w: %s", ErrUnencodable, value.TypeName(v))
	}
	return nil
}

func (e *jsonEncoder) writeArray(items []value.Value, depth int) error {
	if len(items) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteString("[")
	for i, item := range items {
		if i > 0 {
			e.buf.WriteString(",")
		}
		e.newline(depth + 1)
		if err := e.writeValue(item, depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteString("]")
	return nil
}

func (e *jsonEncoder) writeObject(m value.Mapping, depth int) error {
	if m.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	e.buf.WriteString("{")
	for i, entry := range m.Entries {
		key, err := jsonKey(entry.Key)
		if err != nil {
			return err
		}
		if i > 0 {
			e.buf.WriteString(",")
		}
		e.newline(depth + 1)
		e.writeString(key)
		e.buf.WriteString(": ")
		if err := e.writeValue(entry.Value, depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteString("}")
	return nil
}

// writeString quotes s with every character outside printable ASCII escaped
func (e *jsonEncoder) writeString(s string) {
	e.buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			e.buf.WriteString(`\"`)
		case r == '\\':
			e.buf.WriteString(`\\`)
		case r == '\n':
			e.buf.WriteString(`\n`)
		case r == '\r':
			e.buf.WriteString(`\r`)
		case r == '\t':
			e.buf.WriteString(`\t`)
		case r == '\b':
			e.buf.WriteString(`\b`)
		case r == '\f':
			e.buf.WriteString(`\f`)
		case r >= 0x20 && r < 0x7f:
			e.buf.WriteRune(r)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&e.buf, `\u%04x\u%04x`, hi, lo)
		default:
			fmt.Fprintf(&e.buf, `\u%04x`, r)
		}
	}
	e.buf.WriteByte('"')
}
