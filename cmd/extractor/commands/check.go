/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: check.go
Description: Self-check command implementation. Validates configuration, input readability,
the presence of adjacency data and output directory permissions before a real run.
*/

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sunnigen/godot-wfc/pkg/core"
	"github.com/Sunnigen/godot-wfc/pkg/inference"
	"github.com/Sunnigen/godot-wfc/pkg/logging"
	"github.com/Sunnigen/godot-wfc/pkg/stream"
	"github.com/spf13/cobra"
)

// selfCheck is one named validation step. A passing step may return a note.
type selfCheck struct {
	name     string
	function func() (string, error)
}

// plain adapts a check that has nothing to report on success
func plain(check func() error) func() (string, error) {
	return func() (string, error) {
		return "", check()
	}
}

// PerformSelfCheck performs system validation for an extraction run
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printHeader(out, "🔍 Adjacency Extractor - System Self-Check")

	// Load configuration first
	if err := LoadConfig(args); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	config := ConfigFromViper()
	logConfig := LoggerConfigFromViper()

	checks := []selfCheck{
		{"Configuration Validation", plain(config.Validate)},
		{"Logging Configuration", plain(logConfig.Validate)},
		{"Input Readable", plain(func() error { return checkInputReadable(config.InputPath) })},
		{"Adjacency Data Present", plain(func() error { return checkAdjacencyData(config.InputPath) })},
		{"Text Output Writable", plain(func() error { return checkWritableDir(filepath.Dir(config.TextOutputPath)) })},
		{"JSON Output Writable", plain(func() error { return checkWritableDir(filepath.Dir(config.JSONOutputPath)) })},
	}
	if logConfig.OutputDir != "" {
		checks = append(checks, selfCheck{"Log Directory Writable", func() (string, error) {
			return checkLogDirectory(logConfig.OutputDir, logConfig.MaxFiles)
		}})
	}

	passed := 0
	total := len(checks)

	for _, check := range checks {
		fmt.Fprintf(out, "🔍 %s... ", check.name)
		note, err := check.function()
		switch {
		case err != nil:
			fmt.Fprintf(out, "❌ FAILED: %v\n", err)
		case note != "":
			fmt.Fprintf(out, "✅ PASSED (%s)\n", note)
			passed++
		default:
			fmt.Fprintln(out, "✅ PASSED")
			passed++
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "📊 Results: %d/%d checks passed\n", passed, total)

	if passed == total {
		fmt.Fprintln(out, "✨ All checks passed! Ready to extract.")
		return nil
	}
	fmt.Fprintln(out, "⚠️  Some checks failed. Please address the issues before extracting.")
	return fmt.Errorf("%d/%d checks failed", total-passed, total)
}

// checkInputReadable confirms the input is a regular, readable file
func checkInputReadable(path string) error {
	if path == "" {
		return errors.New("no input configured")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	return file.Close()
}

// checkAdjacencyData decodes the input and runs the classifier over it
func checkAdjacencyData(path string) error {
	if path == "" {
		return errors.New("no input configured")
	}
	values, err := stream.ReadFile(path)
	if err != nil {
		return err
	}
	if _, found := inference.FindAdjacencyTable(values); !found {
		return fmt.Errorf("%w in %d decoded values", core.ErrNoAdjacencyData, len(values))
	}
	return nil
}

// checkLogDirectory confirms the log directory is writable and reports the
// logs already kept there
func checkLogDirectory(dir string, maxFiles int) (string, error) {
	if err := checkWritableDir(dir); err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "will be created", nil
	}

	stats, err := logging.NewLogManager(dir, maxFiles).GetLogStats()
	if err != nil {
		return "", fmt.Errorf("failed to read log statistics: %w", err)
	}
	return fmt.Sprintf("%d existing log files, %d bytes, keeping %d", stats.TotalFiles, stats.TotalSize, maxFiles), nil
}

// checkWritableDir confirms files can be created in dir, or in its closest
// existing ancestor when dir does not exist yet
func checkWritableDir(dir string) error {
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			break
		}
		if !os.IsNotExist(err) {
			return err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return err
		}
		dir = parent
	}

	probe, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
