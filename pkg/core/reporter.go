/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter interface and implementations for extractor telemetry. Reporters are
told about every decoded value, classifier verdict, converted rule, recovered row problem
and written artifact.
*/

package core

import (
	"fmt"

	"github.com/Sunnigen/godot-wfc/pkg/inference"
	"github.com/Sunnigen/godot-wfc/pkg/logging"
	"github.com/Sunnigen/godot-wfc/pkg/rules"
	"github.com/Sunnigen/godot-wfc/pkg/value"
)

// Reporter defines the interface for telemetry and reporting hooks.
// It is a superset of the classifier and canonicalizer observers.
type Reporter interface {
	// OnValueDecoded is called for every value read from the stream.
	OnValueDecoded(index int, v value.Value)
	// OnCandidate is called for every value the classifier examines.
	OnCandidate(report inference.CandidateReport)
	// OnRule is called for every converted row.
	OnRule(rule rules.Rule)
	// OnDiagnostic is called for every dropped row or emptied direction.
	OnDiagnostic(d rules.Diagnostic)
	// OnArtifactWritten is called after an output file was put in place.
	OnArtifactWritten(path string, size int)
}

// LoggerReporter logs pipeline events through the structured logger.
type LoggerReporter struct {
	logger *logging.Logger
}

// NewLoggerReporter creates a new LoggerReporter.
func NewLoggerReporter(logger *logging.Logger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnValueDecoded logs the type and size of a decoded value.
func (r *LoggerReporter) OnValueDecoded(index int, v value.Value) {
	s := inference.Summarize(index, v)
	r.logger.LogValueDecoded(index, s.Type, s.Length, s.HasLength)
}

// OnCandidate logs the classifier verdict with the reasons sampled keys failed.
func (r *LoggerReporter) OnCandidate(report inference.CandidateReport) {
	var reasons []string
	for _, k := range report.Keys {
		if !k.Passed {
			reasons = append(reasons, fmt.Sprintf("key %s: %s", value.Repr(k.Key), k.Reason))
		}
	}
	r.logger.LogCandidate(report.Index, report.Kind.String(), report.Accepted, reasons)
}

// OnRule logs the neighbour lists of a converted tile.
func (r *LoggerReporter) OnRule(rule rules.Rule) {
	directions := make(map[string]string, rules.DirectionCount)
	for _, d := range rules.Directions {
		directions[d.String()] = value.Repr(value.List(rule.Neighbor(d)...))
	}
	r.logger.LogRule(value.Str(rule.Tile), directions)
}

// OnDiagnostic logs a recovered row problem.
func (r *LoggerReporter) OnDiagnostic(d rules.Diagnostic) {
	detail := d.Detail
	if d.Kind == rules.DiagnosticNonIterableDirection {
		detail = d.Direction.String() + ": " + detail
	}
	r.logger.LogDiagnostic(d.Kind.String(), value.Repr(d.Tile), detail)
}

// OnArtifactWritten logs a written output file.
func (r *LoggerReporter) OnArtifactWritten(path string, size int) {
	r.logger.LogArtifact(path, size)
}
