/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inspect.go
Description: Inspect command implementation. Prints a structure analysis of every record in
the input stream followed by the classifier verdict for each record, without writing any
artifact. Helps explain why a stream did or did not yield adjacency data.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/Sunnigen/godot-wfc/pkg/core"
	"github.com/Sunnigen/godot-wfc/pkg/inference"
	"github.com/Sunnigen/godot-wfc/pkg/stream"
	"github.com/Sunnigen/godot-wfc/pkg/value"
	"github.com/spf13/cobra"
)

// RunInspect analyzes the structure of the input stream
func RunInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printHeader(out, "🔬 Adjacency Extractor - Structure Analysis")

	// Load configuration first
	if err := LoadConfig(args); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	config := ConfigFromViper()
	if config.InputPath == "" {
		return fmt.Errorf("%w: input_path must not be empty", core.ErrInvalidConfig)
	}

	fmt.Fprintf(out, "📁 Input: %s\n", config.InputPath)

	values, err := stream.ReadFile(config.InputPath)
	if err != nil {
		printFailure(out, err)
		return err
	}
	fmt.Fprintf(out, "📊 Decoded %d values\n", len(values))
	fmt.Fprintln(out)

	for _, summary := range inference.Analyze(values) {
		fmt.Fprintln(out, summary.String())
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "🧭 Classification:")
	result := inference.NewClassifier().Classify(values)
	for _, report := range result.Reports {
		fmt.Fprintf(out, "  #%d %s: %s\n", report.Index, report.Kind, describeReport(report))
	}

	if !result.Found {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "❌ No adjacency table found")
		return nil
	}
	if skipped := len(values) - len(result.Reports); skipped > 0 {
		fmt.Fprintf(out, "  (%d later values not examined)\n", skipped)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "✨ Adjacency table is value #%d with %d tiles\n", result.Index, result.Table.Len())

	return nil
}

// describeReport renders a classifier verdict on one line
func describeReport(report inference.CandidateReport) string {
	if report.Kind != value.KindMapping {
		return "skipped (not a mapping)"
	}
	if report.Accepted {
		last := report.Keys[len(report.Keys)-1]
		return fmt.Sprintf("✅ accepted on key %s", value.Repr(last.Key))
	}
	if len(report.Keys) == 0 {
		return "❌ rejected: empty mapping"
	}

	reasons := make([]string, 0, len(report.Keys))
	for _, k := range report.Keys {
		reasons = append(reasons, fmt.Sprintf("key %s: %s", value.Repr(k.Key), k.Reason))
	}
	return "❌ rejected: " + strings.Join(reasons, "; ")
}
