/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rules_test.go
Description: Tests for canonicalization and the rule table. Checks the four-group invariant,
sorting and deduplication, diagnostics for dropped rows and emptied groups, and type mismatch
failures.
*/

package rules_test

import (
	"errors"
	"testing"

	"github.com/Sunnigen/godot-wfc/pkg/rules"
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

func set(ns ...int64) value.Value { return value.Set(list(ns...)...) }

type recorder struct {
	rules       []rules.Rule
	diagnostics []rules.Diagnostic
}

func (r *recorder) OnRule(rule rules.Rule) { r.rules = append(r.rules, rule) }
func (r *recorder) OnDiagnostic(d rules.Diagnostic) { r.diagnostics = append(r.diagnostics, d) }

func TestCanonicalizeScenario(t *testing.T) {
	raw := value.Map(
		value.Pair(n(1), value.List(set(2, 3), set(4), set(), set(5, 6))),
		value.Pair(n(2), value.List(set(1), set(), set(), set())),
	)

	table, diags, err := rules.Canonicalize(raw)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Equal(t, 2, table.Len())

	got := table.Rules()
	assert.Equal(t, "1: [[2, 3], [4], [], [5, 6]]", got[0].String())
	assert.Equal(t, "2: [[1], [], [], []]", got[1].String())
}

func TestCanonicalizeSortsAndDeduplicates(t *testing.T) {
	raw := value.Map(
		value.Pair(n(9), value.Tuple(
			value.List(list(5, 1, 5, 3)...),
			value.List(list(2, 2)...),
			value.Map(value.Pair(n(8), value.None{}), value.Pair(n(7), value.None{})),
			value.Bytes{3, 1},
		)),
	)

	table, diags, err := rules.Canonicalize(raw)
	require.NoError(t, err)
	assert.Empty(t, diags)

	rule, ok := table.Lookup(n(9))
	require.True(t, ok)
	assert.Equal(t, list(1, 3, 5), rule.Neighbor(rules.North))
	assert.Equal(t, list(2), rule.Neighbor(rules.East))
	assert.Equal(t, list(7, 8), rule.Neighbor(rules.South))
	assert.Equal(t, list(1, 3), rule.Neighbor(rules.West))
}

func TestCanonicalizeDropsStructuralMismatch(t *testing.T) {
	raw := value.Map(
		value.Pair(n(1), value.List(set(2), set(), set())),
		value.Pair(n(2), value.List(set(1), set(), set(), set())),
		value.Pair(n(3), value.NewInt(0)),
	)

	rec := &recorder{}
	c := rules.NewCanonicalizer()
	c.AddObserver(rec)

	table, diags, err := c.Canonicalize(raw)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "2: [[1], [], [], []]", table.Rules()[0].String())

	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, rules.DiagnosticStructuralMismatch, d.Kind)
	}
	assert.Equal(t, n(1), diags[0].Tile)
	assert.Contains(t, diags[0].String(), "StructuralMismatch: tile 1")

	assert.Len(t, rec.rules, 1)
	assert.Equal(t, diags, rec.diagnostics)
}

func TestCanonicalizeNonIterableDirection(t *testing.T) {
	raw := value.Map(
		value.Pair(value.String("grass"), value.List(set(1), value.NewInt(4), value.String("sand"), value.None{})),
	)

	table, diags, err := rules.Canonicalize(raw)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "grass: [[1], [], [], []]", table.Rules()[0].String())

	require.Len(t, diags, 3)
	assert.Equal(t, rules.DiagnosticNonIterableDirection, diags[0].Kind)
	assert.Equal(t, rules.East, diags[0].Direction)
	assert.Equal(t, rules.South, diags[1].Direction)
	assert.Equal(t, rules.West, diags[2].Direction)
	assert.Equal(t, "NonIterableDirection: tile 'grass' West: None (not iterable)", diags[2].String())
}

func TestCanonicalizeMisdecodedText(t *testing.T) {
	raw := value.Map(
		value.Pair(value.String("\xe9"), value.List(value.Set(value.String("ok")), set(), set(), set())),
		value.Pair(value.String("ok"), value.List(value.Set(value.String(`\U0001f600`)), set(), set(), set())),
		value.Pair(value.String("é"), value.List(value.Set(value.String("😀")), set(), set(), set())),
	)

	table, diags, err := rules.Canonicalize(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, rules.DiagnosticMisdecodedText, d.Kind)
	}
	assert.Equal(t, value.String("ok"), diags[1].Tile)
	assert.Equal(t, `MisdecodedText: tile 'ok': '\\U0001f600' may be mis-decoded text`, diags[1].String())
}

func TestCanonicalizeTypeMismatch(t *testing.T) {
	raw := value.Map(
		value.Pair(n(1), value.List(value.Set(n(1), value.String("a")), set(), set(), set())),
	)

	_, _, err := rules.Canonicalize(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, value.ErrTypeMismatch))
	assert.Contains(t, err.Error(), "tile 1 North")
}

func TestCanonicalizeInvariants(t *testing.T) {
	raw := value.Map(
		value.Pair(n(1), value.List(set(3, 2, 1), set(1, 1), set(), set(9))),
		value.Pair(n(2), value.List(set(1))),
		value.Pair(n(3), value.List(value.List(list(4, 4, 2)...), value.NewInt(0), set(), set())),
		value.Pair(n(4), value.String("abcd")),
	)

	table, _, err := rules.Canonicalize(raw)
	require.NoError(t, err)
	assert.LessOrEqual(t, table.Len(), raw.Len())

	for _, rule := range table.Rules() {
		require.Len(t, rule.Neighbors, rules.DirectionCount)
		for _, group := range rule.Neighbors {
			require.NotNil(t, group)
			for i := 1; i < len(group); i++ {
				c, err := value.Compare(group[i-1], group[i])
				require.NoError(t, err)
				assert.Equal(t, -1, c, "group %v must be strictly ascending", group)
			}
		}
	}
}

func TestTableIsImmutable(t *testing.T) {
	raw := value.Map(value.Pair(n(1), value.List(set(2), set(), set(), set())))
	table, _, err := rules.Canonicalize(raw)
	require.NoError(t, err)

	copied := table.Rules()
	copied[0].Neighbors[rules.North][0] = n(99)
	copied[0].Tile = n(42)

	assert.Equal(t, "1: [[2], [], [], []]", table.Rules()[0].String())
}

func TestNewTableAndSorted(t *testing.T) {
	table, err := rules.NewTable(
		rules.Rule{Tile: n(3), Neighbors: [4][]value.Value{list(2, 1, 2), nil, nil, nil}},
		rules.Rule{Tile: n(1)},
		rules.Rule{Tile: value.Float(2.5)},
	)
	require.NoError(t, err)

	sorted, err := table.Sorted()
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "1: [[], [], [], []]", sorted[0].String())
	assert.Equal(t, "2.5: [[], [], [], []]", sorted[1].String())
	assert.Equal(t, "3: [[1, 2], [], [], []]", sorted[2].String())

	// source order is preserved by Rules
	assert.Equal(t, n(3), table.Rules()[0].Tile)
}

func TestSortedTypeMismatch(t *testing.T) {
	table, err := rules.NewTable(
		rules.Rule{Tile: n(1)},
		rules.Rule{Tile: value.String("a")},
	)
	require.NoError(t, err)

	_, err = table.Sorted()
	assert.ErrorIs(t, err, value.ErrTypeMismatch)

	_, err = rules.NewTable(rules.Rule{Tile: n(1), Neighbors: [4][]value.Value{{n(1), value.None{}}}})
	assert.ErrorIs(t, err, value.ErrTypeMismatch)
}

func TestDirectionNames(t *testing.T) {
	names := make([]string, 0, rules.DirectionCount)
	for _, d := range rules.Directions {
		names = append(names, d.String())
	}
	assert.Equal(t, []string{"North", "East", "South", "West"}, names)
	assert.Equal(t, "Direction(7)", rules.Direction(7).String())
}
