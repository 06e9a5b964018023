/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: text.go
Description: Structured text encoding of a rule table, ready to paste into a Godot resource
file. One line per tile in ascending tile order, each holding the four neighbour lists.
*/

package serialize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Sunnigen/godot-wfc/pkg/rules"
	"github.com/Sunnigen/godot-wfc/pkg/value"
)

// TextHeader opens the text block
const TextHeader = "adjacency_rules = {"

// Text encodes t as:
//
//	adjacency_rules = {
//	1: [[2, 3], [4], [], [5, 6]],
//	}
//
// Tiles are ordered ascending; mixing tiles that cannot be ordered fails with a
// TypeMismatchError. There is no newline after the closing brace.
func Text(t *rules.Table) ([]byte, error) {
	sorted, err := t.Sorted()
	if err != nil {
		return nil, fmt.Errorf("failed to encode text rules: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(TextHeader)
	for _, rule := range sorted {
		groups := make([]string, len(rule.Neighbors))
		for i, group := range rule.Neighbors {
			groups[i] = "[" + joinStr(group) + "]"
		}
		fmt.Fprintf(&buf, "\n%s: [%s],", value.Str(rule.Tile), strings.Join(groups, ", "))
	}
	buf.WriteString("\n}")

	return buf.Bytes(), nil
}

func joinStr(items []value.Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = value.Str(item)
	}
	return strings.Join(parts, ", ")
}
