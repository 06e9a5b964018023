/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extract.go
Description: Extract command implementation. Runs the full pipeline, prints a summary with
a sample of the extracted rules and a preview of the text artifact, and exits non-zero when
no adjacency data was found or the run failed.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sunnigen/godot-wfc/pkg/core"
	"github.com/Sunnigen/godot-wfc/pkg/stream"
	"github.com/Sunnigen/godot-wfc/pkg/value"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunExtract extracts adjacency rules and writes both artifacts
func RunExtract(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printHeader(out, "🧩 Adjacency Extractor - Rule Extraction")

	// Load configuration first
	if err := LoadConfig(args); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	config := ConfigFromViper()
	extractor, err := core.NewExtractor(config)
	if err != nil {
		printFailure(out, err)
		return err
	}
	logger.WithRunID(extractor.RunID())
	extractor.AddReporter(core.NewLoggerReporter(logger))

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Info("Configuration file loaded", map[string]interface{}{"config_file": used})
	}
	logger.Debug("Configuration resolved", map[string]interface{}{
		"input_path":       config.InputPath,
		"text_output_path": config.TextOutputPath,
		"json_output_path": config.JSONOutputPath,
		"json_sort_keys":   config.JSONSortKeys,
	})

	fmt.Fprintf(out, "📁 Input: %s\n", config.InputPath)
	fmt.Fprintln(out)

	// Handle interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := extractor.Run(ctx)
	if err != nil {
		logger.Error("Extraction failed", map[string]interface{}{"error": err})
		printFailure(out, err)
		return err
	}

	logger.LogSummary(result.ValuesDecoded, result.RuleCount(), len(result.Diagnostics), result.Duration)
	if n := len(result.Diagnostics); n > 0 {
		logger.Warning("Adjacency rows recovered with problems", map[string]interface{}{"diagnostics": n})
	}

	fmt.Fprintf(out, "🔍 Decoded %d values, adjacency table is value #%d\n", result.ValuesDecoded, result.CandidateIndex)
	fmt.Fprintf(out, "✅ Successfully extracted %d tile adjacency rules!\n", result.RuleCount())
	if n := len(result.Diagnostics); n > 0 {
		fmt.Fprintf(out, "⚠️  %d row problems recovered:\n", n)
		for _, d := range result.Diagnostics {
			fmt.Fprintf(out, "   %s\n", d)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "📋 Sample adjacency rules:")
	for _, rule := range result.Sample(core.SampleRuleCount) {
		fmt.Fprintf(out, "Tile %s\n", rule)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "💾 Saved adjacency rules to: %s\n", config.TextOutputPath)
	fmt.Fprintf(out, "💾 Saved adjacency rules as JSON to: %s\n", config.JSONOutputPath)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "📄 Preview of .tres format:")
	fmt.Fprintln(out, result.Preview(config.PreviewBytes))

	return nil
}

// printFailure explains a failed run in terms of what the user can do about it
func printFailure(out io.Writer, err error) {
	var mismatch *value.TypeMismatchError
	var corrupt *stream.CorruptError

	switch {
	case errors.Is(err, core.ErrNoAdjacencyData):
		fmt.Fprintln(out, "❌ Failed to extract adjacency rules")
		fmt.Fprintln(out, "   No record in the stream looks like an adjacency table.")
		fmt.Fprintln(out, "   Run the inspect command to see what the stream contains.")
	case errors.As(err, &mismatch):
		fmt.Fprintln(out, "❌ Tile identifiers cannot be ordered")
		fmt.Fprintf(out, "   Found %s next to %s. Nothing was written.\n", value.Repr(mismatch.Left), value.Repr(mismatch.Right))
	case errors.As(err, &corrupt):
		fmt.Fprintf(out, "❌ Input stream is corrupt at record %d (byte %d)\n", corrupt.Index, corrupt.Offset)
	case errors.Is(err, core.ErrInvalidConfig):
		fmt.Fprintf(out, "❌ %v\n", err)
	default:
		fmt.Fprintf(out, "❌ Extraction failed: %v\n", err)
	}
}
