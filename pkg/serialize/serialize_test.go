/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: serialize_test.go
Description: Tests for the text and JSON encoders. Covers exact output for a known table,
determinism, JSON round trips through a standard decoder, key stringification, escaping and
the errors raised for tiles that cannot be ordered or encoded.
*/

package serialize_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/Sunnigen/godot-wfc/pkg/rules"
	"github.com/Sunnigen/godot-wfc/pkg/serialize"
	"github.com/Sunnigen/godot-wfc/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(i int64) value.Value { return value.NewInt(i) }

func list(ns ...int64) []value.Value {
	out := make([]value.Value, len(ns))
	for i, x := range ns {
		out[i] = n(x)
	}
	return out
}

func rule(tile value.Value, north, east, south, west []value.Value) rules.Rule {
	return rules.Rule{Tile: tile, Neighbors: [4][]value.Value{north, east, south, west}}
}

func scenarioTable(t *testing.T) *rules.Table {
	t.Helper()
	table, err := rules.NewTable(
		rule(n(2), list(1), nil, nil, nil),
		rule(n(1), list(2, 3), list(4), nil, list(5, 6)),
	)
	require.NoError(t, err)
	return table
}

const scenarioText = "adjacency_rules = {\n" +
	"1: [[2, 3], [4], [], [5, 6]],\n" +
	"2: [[1], [], [], []],\n" +
	"}"

const scenarioJSON = `{
  "2": [
    [
      1
    ],
    [],
    [],
    []
  ],
  "1": [
    [
      2,
      3
    ],
    [
      4
    ],
    [],
    [
      5,
      6
    ]
  ]
}`

func TestTextScenario(t *testing.T) {
	out, err := serialize.Text(scenarioTable(t))
	require.NoError(t, err)
	assert.Equal(t, scenarioText, string(out))
}

func TestTextEmptyTable(t *testing.T) {
	table, err := rules.NewTable()
	require.NoError(t, err)

	out, err := serialize.Text(table)
	require.NoError(t, err)
	assert.Equal(t, "adjacency_rules = {\n}", string(out))

	out, err = serialize.JSON(table, serialize.JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestTextRendersIdentifiersBare(t *testing.T) {
	table, err := rules.NewTable(
		rule(value.String("water"), []value.Value{value.String("sand")}, nil, nil, nil),
		rule(value.String("grass"), []value.Value{value.String("water"), value.String("dirt")}, nil, nil, nil),
	)
	require.NoError(t, err)

	out, err := serialize.Text(table)
	require.NoError(t, err)
	assert.Equal(t, "adjacency_rules = {\n"+
		"grass: [[dirt, water], [], [], []],\n"+
		"water: [[sand], [], [], []],\n"+
		"}", string(out))
}

func TestTextFloatAndTupleTiles(t *testing.T) {
	table, err := rules.NewTable(
		rule(value.Float(2), list(1), nil, nil, nil),
		rule(value.Float(0.5), nil, nil, nil, nil),
	)
	require.NoError(t, err)
	out, err := serialize.Text(table)
	require.NoError(t, err)
	assert.Equal(t, "adjacency_rules = {\n0.5: [[], [], [], []],\n2.0: [[1], [], [], []],\n}", string(out))

	table, err = rules.NewTable(rule(value.Tuple(n(1), value.String("a")), nil, nil, nil, nil))
	require.NoError(t, err)
	out, err = serialize.Text(table)
	require.NoError(t, err)
	assert.Equal(t, "adjacency_rules = {\n(1, 'a'): [[], [], [], []],\n}", string(out))
}

func TestDeterminism(t *testing.T) {
	table := scenarioTable(t)

	text1, err := serialize.Text(table)
	require.NoError(t, err)
	text2, err := serialize.Text(table)
	require.NoError(t, err)
	assert.Equal(t, text1, text2)

	json1, err := serialize.JSON(table, serialize.JSONOptions{})
	require.NoError(t, err)
	json2, err := serialize.JSON(table, serialize.JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, json1, json2)
}

func TestJSONScenario(t *testing.T) {
	out, err := serialize.JSON(scenarioTable(t), serialize.JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, scenarioJSON, string(out))
}

func TestJSONSortKeys(t *testing.T) {
	out, err := serialize.JSON(scenarioTable(t), serialize.JSONOptions{SortKeys: true})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Len(t, decoded, 2)
	assert.Less(t, strings.Index(string(out), `"1"`), strings.Index(string(out), `"2"`))
}

func TestJSONRoundTrip(t *testing.T) {
	table := scenarioTable(t)
	out, err := serialize.JSON(table, serialize.JSONOptions{})
	require.NoError(t, err)

	var decoded map[string][4][]int64
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, table.Len())

	for _, r := range table.Rules() {
		got, ok := decoded[value.Str(r.Tile)]
		require.True(t, ok, "missing tile %s", value.Str(r.Tile))
		for d, group := range r.Neighbors {
			want := make([]int64, len(group))
			for i, item := range group {
				want[i], _ = item.(value.Int).Int64()
			}
			assert.Equal(t, want, got[d], "tile %s %s", value.Str(r.Tile), rules.Direction(d))
		}
	}
}

func TestJSONKeys(t *testing.T) {
	tests := []struct {
		name string
		tile value.Value
		key  string
	}{
		{"int", n(-7), `"-7"`},
		{"string", value.String("grass"), `"grass"`},
		{"float", value.Float(1.5), `"1.5"`},
		{"small float", value.Float(1e-05), `"1e-05"`},
		{"nan", value.Float(math.NaN()), `"NaN"`},
		{"infinity", value.Float(math.Inf(-1)), `"-Infinity"`},
		{"bool", value.Bool(true), `"true"`},
		{"none", value.None{}, `"null"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := rules.NewTable(rule(tt.tile, nil, nil, nil, nil))
			require.NoError(t, err)

			out, err := serialize.JSON(table, serialize.JSONOptions{})
			require.NoError(t, err)
			assert.Equal(t, "{\n  "+tt.key+": [\n    [],\n    [],\n    [],\n    []\n  ]\n}", string(out))
		})
	}
}

func TestJSONEscaping(t *testing.T) {
	table, err := rules.NewTable(rule(value.String("é\"\n😀"), []value.Value{value.String("\x7f")}, nil, nil, nil))
	require.NoError(t, err)

	out, err := serialize.JSON(table, serialize.JSONOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"\u00e9\"\n\ud83d\ude00": [`)
	assert.Contains(t, string(out), `"\u007f"`)

	var decoded map[string][4][]string
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []string{"\x7f"}, decoded["é\"\n😀"][0])
}

func TestJSONNestedValues(t *testing.T) {
	table, err := rules.NewTable(rule(n(1),
		[]value.Value{value.Tuple(n(1), value.String("a"))},
		[]value.Value{value.Float(math.Inf(1))},
		[]value.Value{value.None{}},
		nil,
	))
	require.NoError(t, err)

	out, err := serialize.JSON(table, serialize.JSONOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "[\n        1,\n        \"a\"\n      ]")
	assert.Contains(t, string(out), "Infinity")
	assert.Contains(t, string(out), "null")
}

func TestJSONUnencodable(t *testing.T) {
	tests := []struct {
		name string
		rule rules.Rule
	}{
		{"tuple key", rule(value.Tuple(n(1), n(2)), nil, nil, nil, nil)},
		{"bytes key", rule(value.Bytes("ab"), nil, nil, nil, nil)},
		{"bytes neighbour", rule(n(1), []value.Value{value.Bytes("ab")}, nil, nil, nil)},
		{"set neighbour", rule(n(1), []value.Value{value.Set(n(2))}, nil, nil, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := rules.NewTable(tt.rule)
			require.NoError(t, err)

			_, err = serialize.JSON(table, serialize.JSONOptions{})
			assert.ErrorIs(t, err, serialize.ErrUnencodable)
		})
	}
}

func TestTypeMismatchTiles(t *testing.T) {
	table, err := rules.NewTable(
		rule(n(1), nil, nil, nil, nil),
		rule(value.String("a"), nil, nil, nil, nil),
	)
	require.NoError(t, err)

	_, err = serialize.Text(table)
	assert.ErrorIs(t, err, value.ErrTypeMismatch)

	_, err = serialize.JSON(table, serialize.JSONOptions{SortKeys: true})
	assert.ErrorIs(t, err, value.ErrTypeMismatch)

	// insertion order needs no comparison
	_, err = serialize.JSON(table, serialize.JSONOptions{})
	assert.NoError(t, err)
}
