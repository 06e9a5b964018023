/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value.go
Description: Closed value model for decoded stream objects. Every value pulled out of a
serialized stream is one of a fixed set of variants (mapping, sequence or scalar), so the
classifier and canonicalizer pattern-match over known shapes instead of probing arbitrary
objects for capabilities.
*/

package value

import (
	"math/big"
	"unicode/utf8"
)

// Kind identifies the variant of a Value
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindSequence
	KindMapping
	KindObject
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a decoded stream value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

// Entry is a single key/value pair of a Mapping
type Entry struct {
	Key   Value
	Value Value
}

// Mapping is an ordered key/value collection. Entries keep the order in which the
// source stream produced them.
type Mapping struct {
	Entries []Entry
}

// SequenceType distinguishes the flavours of Sequence
type SequenceType int

const (
	SequenceList SequenceType = iota
	SequenceTuple
	SequenceSet
	SequenceFrozenSet
)

// String returns the source-language type name
func (t SequenceType) String() string {
	switch t {
	case SequenceList:
		return "list"
	case SequenceTuple:
		return "tuple"
	case SequenceSet:
		return "set"
	case SequenceFrozenSet:
		return "frozenset"
	default:
		return "sequence"
	}
}

// Sequence is a list, tuple, set or frozenset
type Sequence struct {
	Type  SequenceType
	Items []Value
}

// Unordered reports whether the sequence is a set flavour
func (s Sequence) Unordered() bool {
	return s.Type == SequenceSet || s.Type == SequenceFrozenSet
}

// Int is an arbitrary precision integer
type Int struct {
	v *big.Int
}

// Float is a double precision float
type Float float64

// String is a text scalar
type String string

// Bytes is a binary scalar
type Bytes []byte

// Bool is a boolean scalar
type Bool bool

// None is the absent value
type None struct{}

// Object is anything the decoder could not map onto the model, such as class
// instances. It has no length and cannot be iterated.
type Object struct {
	Type string
}

func (Mapping) Kind() Kind  { return KindMapping }
func (Sequence) Kind() Kind { return KindSequence }
func (Int) Kind() Kind      { return KindInt }
func (Float) Kind() Kind    { return KindFloat }
func (String) Kind() Kind   { return KindString }
func (Bytes) Kind() Kind    { return KindBytes }
func (Bool) Kind() Kind     { return KindBool }
func (None) Kind() Kind     { return KindNone }
func (Object) Kind() Kind   { return KindObject }

func (Mapping) isValue()  {}
func (Sequence) isValue() {}
func (Int) isValue()      {}
func (Float) isValue()    {}
func (String) isValue()   {}
func (Bytes) isValue()    {}
func (Bool) isValue()     {}
func (None) isValue()     {}
func (Object) isValue()   {}

// NewInt creates an Int from a machine integer
func NewInt(n int64) Int {
	return Int{v: big.NewInt(n)}
}

// NewBigInt creates an Int from a big integer. The argument is copied.
func NewBigInt(n *big.Int) Int {
	if n == nil {
		return NewInt(0)
	}
	return Int{v: new(big.Int).Set(n)}
}

// Big returns a copy of the integer
func (i Int) Big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.v)
}

// Int64 returns the integer if it fits in 64 bits
func (i Int) Int64() (int64, bool) {
	if i.v == nil {
		return 0, true
	}
	if !i.v.IsInt64() {
		return 0, false
	}
	return i.v.Int64(), true
}

func (i Int) String() string {
	if i.v == nil {
		return "0"
	}
	return i.v.String()
}

// List builds a list Sequence
func List(items ...Value) Sequence {
	return Sequence{Type: SequenceList, Items: items}
}

// Tuple builds a tuple Sequence
func Tuple(items ...Value) Sequence {
	return Sequence{Type: SequenceTuple, Items: items}
}

// Set builds a set Sequence
func Set(items ...Value) Sequence {
	return Sequence{Type: SequenceSet, Items: items}
}

// Pair builds a mapping Entry
func Pair(key, val Value) Entry {
	return Entry{Key: key, Value: val}
}

// Map builds a Mapping from entries in order
func Map(entries ...Entry) Mapping {
	return Mapping{Entries: entries}
}

// Len returns the number of entries
func (m Mapping) Len() int {
	return len(m.Entries)
}

// Keys returns the keys in native order
func (m Mapping) Keys() []Value {
	keys := make([]Value, len(m.Entries))
	for i, e := range m.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the value stored under key, comparing keys with Equal
func (m Mapping) Get(key Value) (Value, bool) {
	for _, e := range m.Entries {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Len reports the countable length of v. Strings count code points.
func Len(v Value) (int, bool) {
	switch val := v.(type) {
	case Sequence:
		return len(val.Items), true
	case Mapping:
		return len(val.Entries), true
	case Bytes:
		return len(val), true
	case String:
		return utf8.RuneCountInString(string(val)), true
	default:
		return 0, false
	}
}

// Elements returns what iterating v yields: sequence items, mapping keys, the
// integer values of bytes, or the characters of a string.
func Elements(v Value) ([]Value, bool) {
	switch val := v.(type) {
	case Sequence:
		return val.Items, true
	case Mapping:
		return val.Keys(), true
	case Bytes:
		out := make([]Value, len(val))
		for i, b := range val {
			out[i] = NewInt(int64(b))
		}
		return out, true
	case String:
		out := make([]Value, 0, len(val))
		for _, r := range string(val) {
			out = append(out, String(string(r)))
		}
		return out, true
	default:
		return nil, false
	}
}

// IsCollection reports whether v is iterable and not a string. A bare string is
// never treated as a collection of characters.
func IsCollection(v Value) bool {
	if _, ok := v.(String); ok {
		return false
	}
	_, ok := Elements(v)
	return ok
}
