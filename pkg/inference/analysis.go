/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analysis.go
Description: Structure analysis of decoded stream values. Summarises each value by kind and
size, lists the leading keys of mappings and previews a few entries, which is what an operator
needs to understand an unknown stream before extracting from it.
*/

package inference

import (
	"fmt"

	"github.com/Sunnigen/godot-wfc/pkg/value"
)

const (
	// KeyPreviewCount is the number of mapping keys listed per summary
	KeyPreviewCount = 10
	// EntryPreviewCount is the number of mapping entries previewed per summary
	EntryPreviewCount = 3
	// InlineLengthLimit is the largest length rendered inline in previews
	InlineLengthLimit = 10
)

// EntryPreview shows one mapping entry
type EntryPreview struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Preview string `json:"preview"`
}

// Summary describes one decoded value
type Summary struct {
	Index     int            `json:"index"`
	Type      string         `json:"type"`
	Length    int            `json:"length"`
	HasLength bool           `json:"has_length"`
	Keys      []string       `json:"keys,omitempty"`
	Entries   []EntryPreview `json:"entries,omitempty"`
	Preview   string         `json:"preview,omitempty"`
}

// Analyze summarises every value in stream order
func Analyze(values []value.Value) []Summary {
	summaries := make([]Summary, len(values))
	for i, v := range values {
		summaries[i] = Summarize(i, v)
	}
	return summaries
}

// Summarize describes a single value
func Summarize(index int, v value.Value) Summary {
	s := Summary{Index: index, Type: value.TypeName(v)}
	s.Length, s.HasLength = value.Len(v)

	m, ok := v.(value.Mapping)
	if !ok {
		s.Preview = preview(v)
		return s
	}

	s.Keys = make([]string, 0, min(m.Len(), KeyPreviewCount))
	for i, e := range m.Entries {
		if i >= KeyPreviewCount {
			break
		}
		s.Keys = append(s.Keys, value.Repr(e.Key))
	}
	for i, e := range m.Entries {
		if i >= EntryPreviewCount {
			break
		}
		s.Entries = append(s.Entries, EntryPreview{
			Key:     value.Repr(e.Key),
			Type:    value.TypeName(e.Value),
			Preview: preview(e.Value),
		})
	}
	return s
}

// preview renders short collections and scalars inline and larger ones by length
func preview(v value.Value) string {
	n, ok := value.Len(v)
	if ok && n > InlineLengthLimit {
		return fmt.Sprintf("length %d", n)
	}
	return value.Repr(v)
}

// String renders the summary as indented lines
func (s Summary) String() string {
	out := fmt.Sprintf("Object %d: %s", s.Index, s.Type)
	if s.Keys != nil {
		out += fmt.Sprintf("\n  Keys: %v...", s.Keys)
		out += fmt.Sprintf("\n  Total keys: %d", s.Length)
		for i, e := range s.Entries {
			out += fmt.Sprintf("\n    Sample %d: %s -> %s", i, e.Key, e.Type)
			out += fmt.Sprintf("\n      Value: %s", e.Preview)
		}
		return out
	}
	if s.HasLength {
		out += fmt.Sprintf("\n  Length: %d", s.Length)
		if s.Length <= InlineLengthLimit {
			out += fmt.Sprintf("\n  Content: %s", s.Preview)
		}
		return out
	}
	return out + fmt.Sprintf("\n  Value: %s", s.Preview)
}
