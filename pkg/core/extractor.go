/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extractor.go
Description: Extraction pipeline. Reads every value from the input stream, classifies them to
find the adjacency table, canonicalizes it, renders both artifacts in memory and writes them
together. Nothing is written unless every earlier stage succeeded.
*/

package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sunnigen/godot-wfc/pkg/inference"
	"github.com/Sunnigen/godot-wfc/pkg/rules"
	"github.com/Sunnigen/godot-wfc/pkg/serialize"
	"github.com/Sunnigen/godot-wfc/pkg/stream"
	"github.com/Sunnigen/godot-wfc/pkg/utils"
	"github.com/Sunnigen/godot-wfc/pkg/value"
	"github.com/google/uuid"
)

// Extractor runs the extraction pipeline for one configuration
type Extractor struct {
	config    *Config
	runID     string
	reporters []Reporter
}

// NewExtractor creates an extractor with a fresh run id
func NewExtractor(config *Config) (*Extractor, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Extractor{
		config: config,
		runID:  uuid.New().String(),
	}, nil
}

// RunID returns the identifier attached to this extractor's results
func (e *Extractor) RunID() string {
	return e.runID
}

// AddReporter registers a reporter for pipeline events
func (e *Extractor) AddReporter(reporter Reporter) {
	e.reporters = append(e.reporters, reporter)
}

// Run reads the input, extracts the rules and writes both artifacts. The
// returned result is non-nil whenever the input could be read, including on
// extraction failures, so callers can report how far the run got.
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	values, err := e.Read(ctx)
	if err != nil {
		return nil, err
	}

	result, err := e.Extract(values)
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("extraction cancelled: %w", err)
	}

	artifacts := []utils.Artifact{
		{Path: e.config.TextOutputPath, Data: result.Text},
		{Path: e.config.JSONOutputPath, Data: result.JSON},
	}
	if err := utils.WriteArtifacts(artifacts...); err != nil {
		return result, fmt.Errorf("failed to write artifacts: %w", err)
	}
	for _, a := range artifacts {
		for _, r := range e.reporters {
			r.OnArtifactWritten(a.Path, len(a.Data))
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Read decodes every value of the input stream, reporting each one
func (e *Extractor) Read(ctx context.Context) ([]value.Value, error) {
	file, err := os.Open(e.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	reader := stream.NewReader(file)
	values := make([]value.Value, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction cancelled: %w", err)
		}

		v, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.config.InputPath, err)
		}

		for _, r := range e.reporters {
			r.OnValueDecoded(len(values), v)
		}
		values = append(values, v)
	}
}

// Extract finds, canonicalizes and renders the adjacency table in values.
// It touches no files. The result is always non-nil.
func (e *Extractor) Extract(values []value.Value) (*Result, error) {
	result := &Result{
		RunID:          e.runID,
		ValuesDecoded:  len(values),
		CandidateIndex: -1,
	}

	classifier := inference.NewClassifier()
	canonicalizer := rules.NewCanonicalizer()
	for _, r := range e.reporters {
		classifier.AddObserver(r)
		canonicalizer.AddObserver(r)
	}

	found := classifier.Classify(values)
	if !found.Found {
		return result, fmt.Errorf("%w in %d decoded values", ErrNoAdjacencyData, len(values))
	}
	result.CandidateIndex = found.Index

	table, diagnostics, err := canonicalizer.Canonicalize(found.Table)
	result.Diagnostics = diagnostics
	if err != nil {
		return result, fmt.Errorf("failed to canonicalize adjacency table: %w", err)
	}
	result.Table = table

	text, err := serialize.Text(table)
	if err != nil {
		return result, err
	}
	js, err := serialize.JSON(table, serialize.JSONOptions{SortKeys: e.config.JSONSortKeys})
	if err != nil {
		return result, err
	}
	result.Text = text
	result.JSON = js

	return result, nil
}
