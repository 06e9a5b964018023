/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for the adjacency rule extractor. Reads a pickled
wave function collapse tileset, finds its adjacency table and writes it as a Godot resource
block and as JSON. Configuration comes from flags, WFC_ environment variables and an
optional config file.
*/

package main

import (
	"fmt"
	"os"

	"github.com/Sunnigen/godot-wfc/cmd/extractor/commands"
	"github.com/Sunnigen/godot-wfc/pkg/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the command tree and binds its flags to viper
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "adjacency-extractor",
		Short: "Extract tile adjacency rules from a pickled WFC tileset",
		Long: `Adjacency Extractor reads a stream of pickled records produced by a wave function
collapse tileset tool, locates the tile adjacency table among them and exports it in two
deterministic formats: a structured text block for a Godot .tres resource and a JSON file.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file path")
	flags.String("input", "", "Pickle stream to read")
	flags.String("text-output", core.DefaultTextOutputPath, "Path of the structured text artifact")
	flags.String("json-output", core.DefaultJSONOutputPath, "Path of the JSON artifact")
	flags.Bool("json-sort-keys", false, "Order JSON keys by tile instead of table order")
	flags.Int("preview-bytes", core.DefaultPreviewBytes, "Size of the text preview printed after extraction")

	// Add logging-specific flags
	flags.String("log-level", "info", "Logging level (debug, info, warn, error)")
	flags.String("log-format", "custom", "Log format (text, json, custom)")
	flags.String("log-dir", "", "Log output directory (empty logs to the console only)")
	flags.Int("log-max-files", 10, "Maximum number of log files to keep")

	// Bind flags to viper
	viper.BindPFlag("config", flags.Lookup("config"))
	viper.BindPFlag("input_path", flags.Lookup("input"))
	viper.BindPFlag("text_output_path", flags.Lookup("text-output"))
	viper.BindPFlag("json_output_path", flags.Lookup("json-output"))
	viper.BindPFlag("json_sort_keys", flags.Lookup("json-sort-keys"))
	viper.BindPFlag("preview_bytes", flags.Lookup("preview-bytes"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("log_dir", flags.Lookup("log-dir"))
	viper.BindPFlag("log_max_files", flags.Lookup("log-max-files"))

	// Add extract command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "extract [input]",
		Short: "Extract adjacency rules and write both artifacts",
		Long: `Decode every record of the input stream, pick the first mapping that looks like an
adjacency table, canonicalize it and write the text and JSON artifacts. Rows with the wrong
shape are dropped with a warning. Tiles that cannot be ordered abort the run and nothing is
written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: commands.RunExtract,
	})

	// Add inspect command for structure analysis
	rootCmd.AddCommand(&cobra.Command{
		Use:   "inspect [input]",
		Short: "Describe the records of a pickle stream",
		Long: `Print the type and size of every decoded record, sample keys and entries of mappings,
and the classifier verdict for each record. Nothing is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: commands.RunInspect,
	})

	// Add check command for built-in self-checks
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check [input]",
		Short: "Perform built-in self-checks before extracting",
		Long: `Validate the configuration, confirm the input is readable and holds adjacency data,
and confirm every output directory is writable. Useful in CI before a real run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: commands.PerformSelfCheck,
	})

	return rootCmd
}
