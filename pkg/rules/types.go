/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Canonical adjacency rule types. A Table holds one Rule per tile in source order;
each Rule lists the permitted neighbours in the four compass directions, sorted ascending and
free of duplicates. Tables are immutable once built.
*/

package rules

import (
	"fmt"

	"github.com/Sunnigen/godot-wfc/pkg/value"
)

// Direction is a compass slot of a rule
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// DirectionCount is the number of slots every rule carries
const DirectionCount = 4

// Directions lists the slots in positional order
var Directions = [DirectionCount]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Rule lists the tiles allowed next to Tile in each direction
type Rule struct {
	Tile      value.Value
	Neighbors [DirectionCount][]value.Value
}

// Neighbor returns the neighbours allowed in direction d
func (r Rule) Neighbor(d Direction) []value.Value {
	return r.Neighbors[d]
}

// String renders the rule as "tile: [[..], [..], [..], [..]]"
func (r Rule) String() string {
	out := value.Str(r.Tile) + ": ["
	for i, list := range r.Neighbors {
		if i > 0 {
			out += ", "
		}
		out += value.Repr(value.List(list...))
	}
	return out + "]"
}

func (r Rule) clone() Rule {
	out := Rule{Tile: r.Tile}
	for i, list := range r.Neighbors {
		out.Neighbors[i] = append(make([]value.Value, 0, len(list)), list...)
	}
	return out
}

// Table is the canonical rule set
type Table struct {
	rules []Rule
}

// NewTable builds a table from rules, sorting and deduplicating every neighbour list
func NewTable(rules ...Rule) (*Table, error) {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		normalized := Rule{Tile: r.Tile}
		for i, list := range r.Neighbors {
			sorted, err := value.SortUnique(list)
			if err != nil {
				return nil, fmt.Errorf("tile %s %s: %w", value.Repr(r.Tile), Direction(i), err)
			}
			normalized.Neighbors[i] = sorted
		}
		out = append(out, normalized)
	}
	return &Table{rules: out}, nil
}

// Len returns the number of rules
func (t *Table) Len() int {
	return len(t.rules)
}

// Rules returns a copy of the rules in source order
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.clone()
	}
	return out
}

// Lookup returns the rule for tile
func (t *Table) Lookup(tile value.Value) (Rule, bool) {
	for _, r := range t.rules {
		if value.Equal(r.Tile, tile) {
			return r.clone(), true
		}
	}
	return Rule{}, false
}

// Sorted returns a copy of the rules ordered by tile. Tiles that cannot be
// ordered against each other fail with a TypeMismatchError.
func (t *Table) Sorted() ([]Rule, error) {
	rules := t.Rules()
	if err := value.SortBy(rules, func(r Rule) value.Value { return r.Tile }); err != nil {
		return nil, fmt.Errorf("failed to order tiles: %w", err)
	}
	return rules, nil
}
