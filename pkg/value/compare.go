/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: compare.go
Description: Natural ordering and equality for decoded values. Numbers (bool, int, float)
order together, strings and bytes order lexicographically, lists and tuples order element
by element. Anything else cannot be ordered and yields a TypeMismatchError.
*/

package value

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// ErrTypeMismatch is matched by every TypeMismatchError
var ErrTypeMismatch = errors.New("values are not mutually comparable")

// TypeMismatchError reports an ordering attempt between incomparable values
type TypeMismatchError struct {
	Left  Value
	Right Value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("'<' not supported between %s and %s", TypeName(e.Left), TypeName(e.Right))
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// orderClass groups values that can be ordered against each other
type orderClass int

const (
	classUnordered orderClass = iota
	classNumber
	classString
	classBytes
	classList
	classTuple
)

func classOf(v Value) orderClass {
	switch val := v.(type) {
	case Bool, Int, Float:
		return classNumber
	case String:
		return classString
	case Bytes:
		return classBytes
	case Sequence:
		switch val.Type {
		case SequenceList:
			return classList
		case SequenceTuple:
			return classTuple
		}
	}
	return classUnordered
}

// Compare orders a against b. It returns a TypeMismatchError when the two values
// have no natural ordering, including two None values.
func Compare(a, b Value) (int, error) {
	ca, cb := classOf(a), classOf(b)
	if ca == classUnordered || ca != cb {
		return 0, &TypeMismatchError{Left: a, Right: b}
	}

	switch ca {
	case classNumber:
		return compareNumbers(a, b), nil
	case classString:
		return strings.Compare(string(a.(String)), string(b.(String))), nil
	case classBytes:
		return bytes.Compare(a.(Bytes), b.(Bytes)), nil
	default:
		return compareSequences(a.(Sequence).Items, b.(Sequence).Items)
	}
}

// compareSequences finds the first unequal pair and orders by it, then by length
func compareSequences(a, b []Value) (int, error) {
	for i := 0; i < len(a) && i < len(b); i++ {
		if Equal(a[i], b[i]) {
			continue
		}
		return Compare(a[i], b[i])
	}
	switch {
	case len(a) < len(b):
		return -1, nil
	case len(a) > len(b):
		return 1, nil
	default:
		return 0, nil
	}
}

// compareNumbers orders bools, ints and floats on one number line. NaN sorts
// before every other number and equals itself.
func compareNumbers(a, b Value) int {
	fa, aNaN := toBigFloat(a)
	fb, bNaN := toBigFloat(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	}
	return fa.Cmp(fb)
}

func toBigFloat(v Value) (*big.Float, bool) {
	switch val := v.(type) {
	case Bool:
		if val {
			return big.NewFloat(1), false
		}
		return big.NewFloat(0), false
	case Int:
		return new(big.Float).SetInt(val.Big()), false
	case Float:
		f := float64(val)
		if math.IsNaN(f) {
			return nil, true
		}
		return new(big.Float).SetFloat64(f), false
	}
	return nil, true
}

// Equal reports value equality: numbers compare by magnitude, sets by membership,
// lists and tuples element-wise, mappings by key lookup.
func Equal(a, b Value) bool {
	ca, cb := classOf(a), classOf(b)
	if ca == classNumber && cb == classNumber {
		fa, aNaN := toBigFloat(a)
		fb, bNaN := toBigFloat(b)
		if aNaN || bNaN {
			return false
		}
		return fa.Cmp(fb) == 0
	}

	switch x := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Bytes:
		y, ok := b.(Bytes)
		return ok && bytes.Equal(x, y)
	case Object:
		y, ok := b.(Object)
		return ok && x == y
	case Sequence:
		y, ok := b.(Sequence)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		if x.Unordered() && y.Unordered() {
			return sameMembers(x.Items, y.Items)
		}
		if x.Type != y.Type {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case Mapping:
		y, ok := b.(Mapping)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, e := range x.Entries {
			other, found := y.Get(e.Key)
			if !found || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

func sameMembers(a, b []Value) bool {
	for _, x := range a {
		found := false
		for _, y := range b {
			if Equal(x, y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Sort orders items ascending in place. Sorting is stable. Any two items of
// different order classes fail the whole sort, as does any unorderable item
// when there is more than one item.
func Sort(items []Value) error {
	return SortBy(items, func(v Value) Value { return v })
}

// SortBy orders items ascending by the value key returns, with the same rules
// as Sort
func SortBy[T any](items []T, key func(T) Value) error {
	if len(items) < 2 {
		return nil
	}
	first := key(items[0])
	for _, item := range items {
		k := key(item)
		if classOf(first) == classUnordered || classOf(k) != classOf(first) {
			return &TypeMismatchError{Left: first, Right: k}
		}
	}

	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := Compare(key(items[i]), key(items[j]))
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	return sortErr
}

// SortUnique returns a sorted copy of items with equal neighbours collapsed.
// The first of several equal items is kept.
func SortUnique(items []Value) ([]Value, error) {
	out := make([]Value, len(items))
	copy(out, items)
	if err := Sort(out); err != nil {
		return nil, err
	}
	if len(out) < 2 {
		return out, nil
	}

	unique := out[:1]
	for _, item := range out[1:] {
		if Equal(unique[len(unique)-1], item) {
			continue
		}
		unique = append(unique, item)
	}
	return unique, nil
}
