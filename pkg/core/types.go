/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for the adjacency rule extractor. Defines the run configuration, the
result of an extraction and the sentinel errors callers branch on.
*/

package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/Sunnigen/godot-wfc/pkg/rules"
	"github.com/Sunnigen/godot-wfc/pkg/value"
)

var (
	// ErrNoAdjacencyData means no decoded value looked like an adjacency table
	ErrNoAdjacencyData = errors.New("no adjacency data found")
	// ErrInvalidConfig is matched by every configuration validation failure
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Default configuration values
const (
	DefaultTextOutputPath = "imported_adjacency_rules.tres"
	DefaultJSONOutputPath = "imported_adjacency_rules.json"
	DefaultPreviewBytes   = 500
	SampleRuleCount       = 5
)

// Config contains all configuration parameters for an extraction run
// Populated from flags, environment and config files by the CLI
type Config struct {
	InputPath      string `json:"input_path" mapstructure:"input_path"`             // Pickle stream to read
	TextOutputPath string `json:"text_output_path" mapstructure:"text_output_path"` // Structured text artifact
	JSONOutputPath string `json:"json_output_path" mapstructure:"json_output_path"` // JSON artifact
	JSONSortKeys   bool   `json:"json_sort_keys" mapstructure:"json_sort_keys"`     // Order JSON keys by tile
	PreviewBytes   int    `json:"preview_bytes" mapstructure:"preview_bytes"`       // Size of the text preview
}

// DefaultConfig returns a configuration with default output paths
func DefaultConfig() *Config {
	return &Config{
		TextOutputPath: DefaultTextOutputPath,
		JSONOutputPath: DefaultJSONOutputPath,
		PreviewBytes:   DefaultPreviewBytes,
	}
}

// Validate checks the Config for invalid or missing values.
// Returns an error wrapping ErrInvalidConfig, or nil if valid.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input_path must not be empty", ErrInvalidConfig)
	}
	if c.TextOutputPath == "" {
		return fmt.Errorf("%w: text_output_path must not be empty", ErrInvalidConfig)
	}
	if c.JSONOutputPath == "" {
		return fmt.Errorf("%w: json_output_path must not be empty", ErrInvalidConfig)
	}
	if c.PreviewBytes < 0 {
		return fmt.Errorf("%w: preview_bytes must not be negative", ErrInvalidConfig)
	}

	input := filepath.Clean(c.InputPath)
	text := filepath.Clean(c.TextOutputPath)
	js := filepath.Clean(c.JSONOutputPath)
	if text == js {
		return fmt.Errorf("%w: text and json outputs both point to %s", ErrInvalidConfig, text)
	}
	if text == input || js == input {
		return fmt.Errorf("%w: an output path would overwrite the input %s", ErrInvalidConfig, input)
	}
	return nil
}

// Result is the outcome of an extraction run
type Result struct {
	RunID          string             `json:"run_id"`
	ValuesDecoded  int                `json:"values_decoded"`
	CandidateIndex int                `json:"candidate_index"` // Stream index of the adjacency table, -1 when none
	Table          *rules.Table       `json:"-"`
	Diagnostics    []rules.Diagnostic `json:"-"`
	Text           []byte             `json:"-"`
	JSON           []byte             `json:"-"`
	Duration       time.Duration      `json:"duration"`
}

// RuleCount returns the number of rules extracted
func (r *Result) RuleCount() int {
	if r.Table == nil {
		return 0
	}
	return r.Table.Len()
}

// Sample returns up to n rules taken in table order and then ordered by tile.
// When those tiles cannot be ordered the table order is kept.
func (r *Result) Sample(n int) []rules.Rule {
	if r.Table == nil {
		return nil
	}
	all := r.Table.Rules()
	if len(all) > n {
		all = all[:n]
	}

	sorted := append([]rules.Rule(nil), all...)
	if err := value.SortBy(sorted, func(rule rules.Rule) value.Value { return rule.Tile }); err != nil {
		return all
	}
	return sorted
}

// Preview returns the text artifact cut to at most limit bytes, followed by
// "..." when it was cut. Multi-byte characters are never split.
func (r *Result) Preview(limit int) string {
	text := string(r.Text)
	if limit < 0 {
		limit = 0
	}
	if len(text) <= limit {
		return text
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
