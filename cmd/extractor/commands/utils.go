/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the extractor commands. Provides configuration loading,
logging setup and the conversion from viper settings to the pipeline configuration.
*/

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/Sunnigen/godot-wfc/pkg/core"
	"github.com/Sunnigen/godot-wfc/pkg/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the extractor reads
const EnvPrefix = "WFC"

// LoadConfig loads configuration from files and environment. A positional
// input argument overrides every other input source.
func LoadConfig(args []string) error {
	// Set environment variable prefix
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if len(args) > 0 && args[0] != "" {
		viper.Set("input_path", args[0])
	}

	return nil
}

// ConfigFromViper builds the pipeline configuration from the loaded settings
func ConfigFromViper() *core.Config {
	config := core.DefaultConfig()
	config.InputPath = viper.GetString("input_path")
	if v := viper.GetString("text_output_path"); v != "" {
		config.TextOutputPath = v
	}
	if v := viper.GetString("json_output_path"); v != "" {
		config.JSONOutputPath = v
	}
	config.JSONSortKeys = viper.GetBool("json_sort_keys")
	if viper.IsSet("preview_bytes") {
		config.PreviewBytes = viper.GetInt("preview_bytes")
	}
	return config
}

// LoggerConfigFromViper builds the logger configuration from the loaded settings
func LoggerConfigFromViper() *logging.LoggerConfig {
	config := logging.DefaultConfig()
	if v := viper.GetString("log_level"); v != "" {
		config.Level = logging.LogLevel(v)
	}
	if v := viper.GetString("log_format"); v != "" {
		config.Format = logging.LogFormat(v)
	}
	config.OutputDir = viper.GetString("log_dir")
	if viper.IsSet("log_max_files") {
		config.MaxFiles = viper.GetInt("log_max_files")
	}
	return config
}

// SetupLogging creates the logger for a command run
func SetupLogging() (*logging.Logger, error) {
	logger, err := logging.NewLogger(LoggerConfigFromViper())
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// printHeader prints a command banner
func printHeader(out io.Writer, title string) {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("=", len([]rune(title))+1))
	fmt.Fprintln(out)
}
