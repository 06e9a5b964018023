/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pickle.go
Description: Pickle decoding for the stream reader. Each record is unpickled with a fresh
unpickler (so memo tables never leak between records) and the generic result is converted
into the closed value model. Dict order is preserved, set members are ordered when they are
mutually comparable, and self-referencing containers are cut at the back edge. Protocols 0
to 3 rebuild sets, frozensets and bytes through global calls, which are resolved here.
*/

package stream

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/Sunnigen/godot-wfc/pkg/value"
	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// PickleDecoder decodes one pickle record per call
type PickleDecoder struct{}

// Decode unpickles a single record from r
func (PickleDecoder) Decode(r io.Reader) (value.Value, error) {
	u := pickle.NewUnpickler(r)
	u.FindClass = findClass
	raw, err := u.Load()
	if err != nil {
		return nil, err
	}
	return FromPickle(raw), nil
}

// FromPickle converts an unpickled object into the value model
func FromPickle(raw interface{}) value.Value {
	c := converter{active: make(map[interface{}]bool)}
	return c.convert(raw)
}

type converter struct {
	active map[interface{}]bool
}

func (c *converter) convert(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.None{}
	case bool:
		return value.Bool(v)
	case int:
		return value.NewInt(int64(v))
	case int8:
		return value.NewInt(int64(v))
	case int16:
		return value.NewInt(int64(v))
	case int32:
		return value.NewInt(int64(v))
	case int64:
		return value.NewInt(v)
	case uint8:
		return value.NewInt(int64(v))
	case uint16:
		return value.NewInt(int64(v))
	case uint32:
		return value.NewInt(int64(v))
	case uint64:
		return value.NewBigInt(new(big.Int).SetUint64(v))
	case *big.Int:
		return value.NewBigInt(v)
	case float32:
		return value.Float(v)
	case float64:
		return value.Float(v)
	case string:
		return value.String(v)
	case []byte:
		return value.Bytes(append([]byte(nil), v...))
	case *types.Dict:
		return c.enter(v, func() value.Value { return c.dict(v) })
	case *types.List:
		return c.enter(v, func() value.Value {
			return value.Sequence{Type: value.SequenceList, Items: c.items(*v)}
		})
	case *types.Tuple:
		return c.enter(v, func() value.Value {
			return value.Sequence{Type: value.SequenceTuple, Items: c.items(*v)}
		})
	case *types.Set:
		return c.enter(v, func() value.Value {
			members := make([]interface{}, 0, len(*v))
			for member := range *v {
				members = append(members, member)
			}
			return c.unordered(value.SequenceSet, members)
		})
	case *reducedSet:
		return c.enter(v, func() value.Value {
			kind := value.SequenceSet
			if v.frozen {
				kind = value.SequenceFrozenSet
			}
			return c.unordered(kind, v.items)
		})
	case *types.FrozenSet:
		return c.enter(v, func() value.Value {
			members := make([]interface{}, 0, len(*v))
			for member := range *v {
				members = append(members, member)
			}
			return c.unordered(value.SequenceFrozenSet, members)
		})
	default:
		return value.Object{Type: fmt.Sprintf("%T", raw)}
	}
}

// enter guards against containers that reference themselves
func (c *converter) enter(key interface{}, build func() value.Value) value.Value {
	if c.active[key] {
		return value.Object{Type: "recursion"}
	}
	c.active[key] = true
	defer delete(c.active, key)
	return build()
}

func (c *converter) dict(d *types.Dict) value.Value {
	entries := make([]value.Entry, 0, len(*d))
	for _, e := range *d {
		entries = append(entries, value.Entry{Key: c.convert(e.Key), Value: c.convert(e.Value)})
	}
	return value.Mapping{Entries: entries}
}

func (c *converter) items(raw []interface{}) []value.Value {
	out := make([]value.Value, len(raw))
	for i, item := range raw {
		out[i] = c.convert(item)
	}
	return out
}

// unordered converts set members and orders them when possible so that the
// same stream always converts to the same value
func (c *converter) unordered(kind value.SequenceType, members []interface{}) value.Value {
	items := c.items(members)
	if err := value.Sort(items); err != nil {
		items = c.items(members)
	}
	return value.Sequence{Type: kind, Items: items}
}

// reducedSet is a set or frozenset rebuilt from a global call
type reducedSet struct {
	frozen bool
	items  []interface{}
}

// findClass resolves the globals older protocols use for sets, frozensets and
// bytes. Any other global stays a generic class.
func findClass(module, name string) (interface{}, error) {
	switch module {
	case "builtins", "__builtin__":
		switch name {
		case "set":
			return setClass{}, nil
		case "frozenset":
			return setClass{frozen: true}, nil
		case "bytes":
			return bytesClass{}, nil
		}
	case "_codecs":
		if name == "encode" {
			return codecsEncode{}, nil
		}
	}
	return &types.GenericClass{Module: module, Name: name}, nil
}

// setClass builds a set from an optional iterable argument
type setClass struct {
	frozen bool
}

func (c setClass) Call(args ...interface{}) (interface{}, error) {
	s := &reducedSet{frozen: c.frozen}
	switch len(args) {
	case 0:
		return s, nil
	case 1:
		items, ok := iterable(args[0])
		if !ok {
			return nil, fmt.Errorf("set argument is not iterable: %T", args[0])
		}
		s.items = append([]interface{}(nil), items...)
		return s, nil
	default:
		return nil, fmt.Errorf("set expected at most 1 argument, got %d", len(args))
	}
}

func iterable(arg interface{}) ([]interface{}, bool) {
	switch v := arg.(type) {
	case *types.List:
		return *v, true
	case *types.Tuple:
		return *v, true
	default:
		return nil, false
	}
}

// bytesClass only rebuilds the empty bytes value, the one form protocols
// below 3 pickle through it
type bytesClass struct{}

func (bytesClass) Call(args ...interface{}) (interface{}, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("bytes called with %d arguments", len(args))
	}
	return []byte{}, nil
}

// codecsEncode rebuilds bytes pickled as encode(text, "latin1")
type codecsEncode struct{}

func (codecsEncode) Call(args ...interface{}) (interface{}, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("encode expected 1 or 2 arguments, got %d", len(args))
	}
	text, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("encode argument is not text: %T", args[0])
	}
	encoding := "utf-8"
	if len(args) == 2 {
		if encoding, ok = args[1].(string); !ok {
			return nil, fmt.Errorf("encoding is not text: %T", args[1])
		}
	}

	switch strings.ToLower(encoding) {
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		out := make([]byte, 0, len(text))
		for _, r := range text {
			if r > 0xff {
				return nil, fmt.Errorf("character %U cannot be encoded as latin-1", r)
			}
			out = append(out, byte(r))
		}
		return out, nil
	case "utf-8", "utf8":
		return []byte(text), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}
