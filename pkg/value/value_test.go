/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value_test.go
Description: Tests for the value model. Covers length and iteration rules, natural
ordering across numeric kinds, type mismatch detection, deduplication and rendering.
*/

package value_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/Sunnigen/godot-wfc/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(ns ...int64) []value.Value {
	out := make([]value.Value, len(ns))
	for i, n := range ns {
		out[i] = value.NewInt(n)
	}
	return out
}

func TestLenAndElements(t *testing.T) {
	tests := []struct {
		name       string
		in         value.Value
		length     int
		hasLen     bool
		collection bool
	}{
		{"list", value.List(ints(1, 2, 3)...), 3, true, true},
		{"set", value.Set(ints(1)...), 1, true, true},
		{"mapping", value.Map(value.Pair(value.NewInt(1), value.None{})), 1, true, true},
		{"bytes", value.Bytes("ab"), 2, true, true},
		{"string", value.String("héllo"), 5, true, false},
		{"int", value.NewInt(4), 0, false, false},
		{"none", value.None{}, 0, false, false},
		{"object", value.Object{Type: "Tile"}, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := value.Len(tt.in)
			assert.Equal(t, tt.hasLen, ok)
			assert.Equal(t, tt.length, n)
			assert.Equal(t, tt.collection, value.IsCollection(tt.in))
		})
	}
}

func TestElementsOfBytesAndMappings(t *testing.T) {
	elems, ok := value.Elements(value.Bytes("ab"))
	require.True(t, ok)
	assert.Equal(t, "[97, 98]", value.Repr(value.List(elems...)))

	m := value.Map(
		value.Pair(value.String("b"), value.NewInt(1)),
		value.Pair(value.String("a"), value.NewInt(2)),
	)
	keys, ok := value.Elements(m)
	require.True(t, ok)
	assert.Equal(t, []value.Value{value.String("b"), value.String("a")}, keys)

	chars, ok := value.Elements(value.String("ab"))
	require.True(t, ok)
	assert.Len(t, chars, 2)
}

func TestCompareNumbersAcrossKinds(t *testing.T) {
	c, err := value.Compare(value.NewInt(1), value.Float(1.5))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = value.Compare(value.Bool(true), value.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	c, err = value.Compare(value.NewBigInt(huge), value.Float(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = value.Compare(value.Float(math.NaN()), value.NewInt(-5))
	require.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestCompareTypeMismatch(t *testing.T) {
	_, err := value.Compare(value.NewInt(1), value.String("a"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, value.ErrTypeMismatch))

	var mismatch *value.TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "'<' not supported between int and str", mismatch.Error())

	_, err = value.Compare(value.None{}, value.None{})
	assert.ErrorIs(t, err, value.ErrTypeMismatch)

	_, err = value.Compare(value.List(), value.Tuple())
	assert.ErrorIs(t, err, value.ErrTypeMismatch)
}

func TestCompareTuples(t *testing.T) {
	a := value.Tuple(value.None{}, value.NewInt(1))
	b := value.Tuple(value.None{}, value.NewInt(2))
	c, err := value.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	short := value.Tuple(value.NewInt(1))
	long := value.Tuple(value.NewInt(1), value.NewInt(0))
	c, err = value.Compare(long, short)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = value.Compare(value.Tuple(value.NewInt(1), value.String("a")), value.Tuple(value.NewInt(1), value.NewInt(2)))
	assert.ErrorIs(t, err, value.ErrTypeMismatch)
}

func TestSortUnique(t *testing.T) {
	out, err := value.SortUnique(ints(5, 3, 3, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, ints(1, 3, 5), out)

	mixed := []value.Value{value.NewInt(1), value.Float(1.0), value.Bool(true), value.NewInt(0)}
	out, err = value.SortUnique(mixed)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "0", value.Repr(out[0]))
	assert.Equal(t, "1", value.Repr(out[1]))

	_, err = value.SortUnique([]value.Value{value.NewInt(1), value.String("a")})
	assert.ErrorIs(t, err, value.ErrTypeMismatch)

	single, err := value.SortUnique([]value.Value{value.None{}})
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = value.SortUnique([]value.Value{value.None{}, value.None{}})
	assert.ErrorIs(t, err, value.ErrTypeMismatch)
}

func TestSortUniqueDoesNotMutateInput(t *testing.T) {
	in := ints(3, 2, 1)
	_, err := value.SortUnique(in)
	require.NoError(t, err)
	assert.Equal(t, ints(3, 2, 1), in)
}

func TestEqual(t *testing.T) {
	assert.True(t, value.Equal(value.NewInt(2), value.Float(2)))
	assert.True(t, value.Equal(value.Set(ints(1, 2)...), value.Set(ints(2, 1)...)))
	assert.False(t, value.Equal(value.List(ints(1)...), value.Tuple(ints(1)...)))
	assert.False(t, value.Equal(value.String("1"), value.NewInt(1)))
	assert.False(t, value.Equal(value.Float(math.NaN()), value.Float(math.NaN())))
	assert.True(t, value.Equal(
		value.Map(value.Pair(value.NewInt(1), value.String("x"))),
		value.Map(value.Pair(value.Float(1), value.String("x"))),
	))
}

func TestMappingGet(t *testing.T) {
	m := value.Map(
		value.Pair(value.NewInt(7), value.String("seven")),
		value.Pair(value.String("k"), value.String("kay")),
	)
	v, ok := m.Get(value.Float(7))
	require.True(t, ok)
	assert.Equal(t, value.String("seven"), v)

	_, ok = m.Get(value.String("missing"))
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestRender(t *testing.T) {
	tests := []struct {
		in   value.Value
		str  string
		repr string
	}{
		{value.NewInt(-12), "-12", "-12"},
		{value.Float(1), "1.0", "1.0"},
		{value.Float(0.1), "0.1", "0.1"},
		{value.Float(1e16), "1e+16", "1e+16"},
		{value.Float(0.00001), "1e-05", "1e-05"},
		{value.Float(math.Inf(-1)), "-inf", "-inf"},
		{value.Bool(false), "False", "False"},
		{value.None{}, "None", "None"},
		{value.String("grass"), "grass", "'grass'"},
		{value.String("it's"), "it's", `"it's"`},
		{value.Bytes("a\x00"), `b'a\x00'`, `b'a\x00'`},
		{value.Tuple(value.NewInt(1)), "(1,)", "(1,)"},
		{value.Tuple(value.NewInt(1), value.String("a")), "(1, 'a')", "(1, 'a')"},
		{value.Set(), "set()", "set()"},
		{value.Sequence{Type: value.SequenceFrozenSet, Items: ints(1)}, "frozenset({1})", "frozenset({1})"},
		{value.Map(value.Pair(value.String("a"), value.List())), "{'a': []}", "{'a': []}"},
		{value.Object{Type: "Tile"}, "<Tile object>", "<Tile object>"},
	}

	for _, tt := range tests {
		t.Run(tt.repr, func(t *testing.T) {
			assert.Equal(t, tt.str, value.Str(tt.in))
			assert.Equal(t, tt.repr, value.Repr(tt.in))
		})
	}
}

func TestIntAccessors(t *testing.T) {
	n, ok := value.NewInt(42).Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	_, ok = value.NewBigInt(huge).Int64()
	assert.False(t, ok)
	assert.Equal(t, huge.String(), value.NewBigInt(huge).String())
	assert.Equal(t, "int", value.NewInt(1).Kind().String())
}

func TestMisdecoded(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"grass", false},
		{"é😀", false},
		{`back\slash`, false},
		{`\u00`, false},
		{"\xe9", true},
		{"\ufffd", true},
		{`\u00e9`, true},
		{`\U0001f600`, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, value.Misdecoded(value.String(tt.text)), tt.text)
	}
}
