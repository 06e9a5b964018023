/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: canonicalize.go
Description: Canonicalization of a raw adjacency mapping into a rule Table. Rows that do
not carry exactly four direction groups are dropped, direction groups that cannot be iterated
become empty lists, and every kept group is sorted and deduplicated. Row-local problems,
including text the decoder appears to have garbled, are reported as diagnostics; identifiers
that cannot be ordered abort the whole conversion.
*/

package rules

import (
	"fmt"

	"github.com/Sunnigen/godot-wfc/pkg/value"
)

// DiagnosticKind classifies a recoverable row problem
type DiagnosticKind int

const (
	// DiagnosticStructuralMismatch means a row was dropped for not having four groups
	DiagnosticStructuralMismatch DiagnosticKind = iota
	// DiagnosticNonIterableDirection means a group was replaced by an empty list
	DiagnosticNonIterableDirection
	// DiagnosticMisdecodedText means a kept row holds text that looks garbled
	DiagnosticMisdecodedText
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticStructuralMismatch:
		return "StructuralMismatch"
	case DiagnosticNonIterableDirection:
		return "NonIterableDirection"
	case DiagnosticMisdecodedText:
		return "MisdecodedText"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic records a recovered problem with one row
type Diagnostic struct {
	Kind      DiagnosticKind
	Tile      value.Value
	Direction Direction // Only meaningful for DiagnosticNonIterableDirection
	Detail    string
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagnosticNonIterableDirection:
		return fmt.Sprintf("%s: tile %s %s: %s", d.Kind, value.Repr(d.Tile), d.Direction, d.Detail)
	default:
		return fmt.Sprintf("%s: tile %s: %s", d.Kind, value.Repr(d.Tile), d.Detail)
	}
}

// Observer is notified as rows are converted
type Observer interface {
	OnRule(rule Rule)
	OnDiagnostic(d Diagnostic)
}

// Canonicalizer converts raw adjacency mappings into tables
type Canonicalizer struct {
	observers []Observer
}

// NewCanonicalizer creates a canonicalizer
func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{}
}

// AddObserver registers an observer
func (c *Canonicalizer) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// Canonicalize converts a raw adjacency mapping with a default canonicalizer
func Canonicalize(table value.Mapping) (*Table, []Diagnostic, error) {
	return NewCanonicalizer().Canonicalize(table)
}

// Canonicalize converts table row by row in source order. The returned
// diagnostics describe every dropped row and every emptied group.
func (c *Canonicalizer) Canonicalize(table value.Mapping) (*Table, []Diagnostic, error) {
	rules := make([]Rule, 0, table.Len())
	diagnostics := make([]Diagnostic, 0)

	report := func(d Diagnostic) {
		diagnostics = append(diagnostics, d)
		for _, o := range c.observers {
			o.OnDiagnostic(d)
		}
	}

	for _, entry := range table.Entries {
		n, ok := value.Len(entry.Value)
		if !ok || n != DirectionCount {
			report(Diagnostic{
				Kind:   DiagnosticStructuralMismatch,
				Tile:   entry.Key,
				Detail: fmt.Sprintf("unexpected structure: %s", value.Repr(entry.Value)),
			})
			continue
		}

		rule := Rule{Tile: entry.Key}
		slots, _ := value.Elements(entry.Value)
		for i, slot := range slots {
			dir := Direction(i)
			neighbors, ok := value.Elements(slot)
			if !ok || !value.IsCollection(slot) {
				report(Diagnostic{
					Kind:      DiagnosticNonIterableDirection,
					Tile:      entry.Key,
					Direction: dir,
					Detail:    fmt.Sprintf("%s (not iterable)", value.Repr(slot)),
				})
				rule.Neighbors[i] = []value.Value{}
				continue
			}

			sorted, err := value.SortUnique(neighbors)
			if err != nil {
				return nil, diagnostics, fmt.Errorf("tile %s %s: %w", value.Repr(entry.Key), dir, err)
			}
			rule.Neighbors[i] = sorted
		}

		if text, found := misdecodedText(rule); found {
			report(Diagnostic{
				Kind:   DiagnosticMisdecodedText,
				Tile:   entry.Key,
				Detail: fmt.Sprintf("%s may be mis-decoded text", value.Repr(text)),
			})
		}

		rules = append(rules, rule)
		for _, o := range c.observers {
			o.OnRule(rule.clone())
		}
	}

	return &Table{rules: rules}, diagnostics, nil
}

// misdecodedText returns the first garbled string among the tile and its neighbours
func misdecodedText(rule Rule) (value.String, bool) {
	candidates := []value.Value{rule.Tile}
	for _, list := range rule.Neighbors {
		candidates = append(candidates, list...)
	}
	for _, v := range candidates {
		if s, ok := v.(value.String); ok && value.Misdecoded(s) {
			return s, true
		}
	}
	return "", false
}
