/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Structure inference over decoded stream values. Finds the first value shaped
like a directional adjacency table: a mapping whose sampled rows each hold exactly four
neighbour collections. The search is a sampling heuristic that accepts the first candidate
with one passing row and never backtracks.
*/

package inference

import (
	"fmt"

	"github.com/Sunnigen/godot-wfc/pkg/value"
)

const (
	// SampleSize is the number of keys inspected per candidate mapping
	SampleSize = 5
	// DirectionCount is the number of neighbour groups a row must carry
	DirectionCount = 4
)

// KeyVerdict records why a sampled key passed or failed
type KeyVerdict struct {
	Key    value.Value `json:"key"`
	Passed bool        `json:"passed"`
	Reason string      `json:"reason,omitempty"`
}

// CandidateReport describes how one stream value was judged
type CandidateReport struct {
	Index    int          `json:"index"`
	Kind     value.Kind   `json:"kind"`
	Accepted bool         `json:"accepted"`
	Keys     []KeyVerdict `json:"keys,omitempty"`
}

// Observer receives a report for every candidate the classifier examines
type Observer interface {
	OnCandidate(report CandidateReport)
}

// Result is the outcome of a classification pass
type Result struct {
	Table   value.Mapping
	Index   int // Stream index of the accepted value, -1 when none
	Found   bool
	Reports []CandidateReport
}

// Classifier finds adjacency tables in decoded streams
type Classifier struct {
	observers []Observer
}

// NewClassifier creates a classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// AddObserver registers an observer for candidate reports
func (c *Classifier) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// Classify scans values in stream order and returns the first accepted mapping
func (c *Classifier) Classify(values []value.Value) Result {
	result := Result{Index: -1}

	for i, v := range values {
		report := CandidateReport{Index: i, Kind: v.Kind()}

		m, isMapping := v.(value.Mapping)
		if isMapping {
			report.Keys, report.Accepted = judgeMapping(m)
		}

		result.Reports = append(result.Reports, report)
		c.notify(report)

		if report.Accepted {
			result.Table = m
			result.Index = i
			result.Found = true
			return result
		}
	}

	return result
}

func (c *Classifier) notify(report CandidateReport) {
	for _, o := range c.observers {
		o.OnCandidate(report)
	}
}

// FindAdjacencyTable returns the first mapping that looks like adjacency data
func FindAdjacencyTable(values []value.Value) (value.Mapping, bool) {
	result := NewClassifier().Classify(values)
	return result.Table, result.Found
}

// judgeMapping checks up to SampleSize keys and stops at the first passing one
func judgeMapping(m value.Mapping) ([]KeyVerdict, bool) {
	limit := m.Len()
	if limit > SampleSize {
		limit = SampleSize
	}

	verdicts := make([]KeyVerdict, 0, limit)
	for _, entry := range m.Entries[:limit] {
		reason := checkRow(entry.Value)
		verdict := KeyVerdict{Key: entry.Key, Passed: reason == "", Reason: reason}
		verdicts = append(verdicts, verdict)
		if verdict.Passed {
			return verdicts, true
		}
	}
	return verdicts, false
}

// checkRow returns an empty string when row holds exactly four collections
func checkRow(row value.Value) string {
	n, ok := value.Len(row)
	if !ok {
		return fmt.Sprintf("%s has no length", value.TypeName(row))
	}
	if n != DirectionCount {
		return fmt.Sprintf("length %d, want %d", n, DirectionCount)
	}

	slots, _ := value.Elements(row)
	for i, slot := range slots {
		if !value.IsCollection(slot) {
			return fmt.Sprintf("direction %d is %s, not a collection", i, value.TypeName(slot))
		}
	}
	return ""
}
