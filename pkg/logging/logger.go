/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging system for the adjacency rule extractor. Wraps logrus with level and
format selection, an optional timestamped log file with retention, a run identifier carried
on every entry, and dedicated methods for each pipeline stage.
*/

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

// Pipeline stages, rendered as a prefix by PipelineFormatter
const (
	StageRead     = "READ"
	StageClassify = "CLASSIFY"
	StageCanon    = "CANON"
	StageWrite    = "WRITE"
)

// Field keys shared by every pipeline entry
const (
	FieldStage = "stage"
	FieldRunID = "run_id"
)

// LogFilePrefix names every log file written to the output directory
const LogFilePrefix = "adjacency-extractor_"

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level     LogLevel  `json:"level" mapstructure:"log_level"`
	Format    LogFormat `json:"format" mapstructure:"log_format"`
	OutputDir string    `json:"output_dir" mapstructure:"log_dir"` // Empty disables the log file
	MaxFiles  int       `json:"max_files" mapstructure:"log_max_files"`
	Timestamp bool      `json:"timestamp"`
	Caller    bool      `json:"caller"`
	Colors    bool      `json:"colors"`

	// Console receives every entry; defaults to stdout
	Console io.Writer `json:"-"`
}

// DefaultConfig returns the console-only configuration used when none is given
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatCustom,
		MaxFiles:  10,
		Timestamp: true,
		Colors:    true,
	}
}

// Validate checks the LoggerConfig for invalid or missing values.
// Returns an error if the config is invalid, or nil if valid.
func (c *LoggerConfig) Validate() error {
	if c.OutputDir != "" && c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive when a log directory is set")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
		// ok
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		// ok
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// Logger provides pipeline logging on top of logrus
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fields     logrus.Fields
	fileHandle *os.File
	filePath   string
	startTime  time.Time
}

// NewLogger creates a new logger instance
func NewLogger(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		fields:    logrus.Fields{},
		startTime: time.Now(),
	}

	if err := l.setup(); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return l, nil
}

// setup configures the logger with the given configuration
func (l *Logger) setup() error {
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(l.config.Caller)

	if err := l.setFormatter(); err != nil {
		return err
	}

	console := l.config.Console
	if console == nil {
		console = os.Stdout
	}
	l.logger.SetOutput(console)

	return l.setupFileOutput(console)
}

// setFormatter configures the log formatter
func (l *Logger) setFormatter() error {
	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			DisableTimestamp: !l.config.Timestamp,
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				filename := filepath.Base(f.File)
				return "", fmt.Sprintf("%s:%d", filename, f.Line)
			},
		})

	case LogFormatText:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    l.config.Timestamp,
			DisableTimestamp: !l.config.Timestamp,
			TimestampFormat:  time.RFC3339,
			ForceColors:      l.config.Colors,
			DisableColors:    !l.config.Colors,
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				filename := filepath.Base(f.File)
				return "", fmt.Sprintf("%s:%d", filename, f.Line)
			},
		})

	case LogFormatCustom:
		l.logger.SetFormatter(&PipelineFormatter{
			CustomFormatter: CustomFormatter{
				Timestamp: l.config.Timestamp,
				Caller:    l.config.Caller,
				Colors:    l.config.Colors,
			},
		})

	default:
		return fmt.Errorf("unsupported log format: %s", l.config.Format)
	}

	return nil
}

// setupFileOutput adds a timestamped log file next to the console output
func (l *Logger) setupFileOutput(console io.Writer) error {
	if l.config.OutputDir == "" {
		return nil
	}

	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate filename with timestamp
	timestamp := l.startTime.Format("2006-01-02_15-04-05")
	path := filepath.Join(l.config.OutputDir, LogFilePrefix+timestamp+".log")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileHandle = file
	l.filePath = path
	l.logger.SetOutput(io.MultiWriter(console, file))

	l.logger.WithFields(logrus.Fields{
		"start_time": l.startTime.Format(time.RFC3339),
		"log_file":   path,
		"level":      l.config.Level,
		"format":     l.config.Format,
	}).Debug("Logging system initialized")

	return nil
}

// WithRunID attaches id to every entry written from now on
func (l *Logger) WithRunID(id string) *Logger {
	l.fields[FieldRunID] = id
	return l
}

// FilePath returns the log file path, or "" when logging to console only
func (l *Logger) FilePath() string {
	return l.filePath
}

func (l *Logger) entry(stage string, fields map[string]interface{}) *logrus.Entry {
	merged := make(logrus.Fields, len(l.fields)+len(fields)+1)
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	if stage != "" {
		merged[FieldStage] = stage
	}
	return l.logger.WithFields(merged)
}

// Pipeline-specific logging methods

// LogValueDecoded logs one value read from the input stream
func (l *Logger) LogValueDecoded(index int, kind string, length int, hasLength bool) {
	fields := map[string]interface{}{
		"index": index,
		"kind":  kind,
	}
	if hasLength {
		fields["length"] = length
	}
	l.entry(StageRead, fields).Debug("Value decoded")
}

// LogCandidate logs the classifier verdict for one decoded value
func (l *Logger) LogCandidate(index int, kind string, accepted bool, reasons []string) {
	fields := map[string]interface{}{
		"index":    index,
		"kind":     kind,
		"accepted": accepted,
	}
	if len(reasons) > 0 {
		fields["reasons"] = reasons
	}
	if accepted {
		l.entry(StageClassify, fields).Info("Adjacency table found")
		return
	}
	l.entry(StageClassify, fields).Debug("Candidate rejected")
}

// LogRule logs the neighbour lists of one converted tile
func (l *Logger) LogRule(tile string, directions map[string]string) {
	fields := make(map[string]interface{}, len(directions)+1)
	fields["tile"] = tile
	for name, neighbors := range directions {
		fields[name] = neighbors
	}
	l.entry(StageCanon, fields).Debug("Rule converted")
}

// LogDiagnostic logs a recovered row problem
func (l *Logger) LogDiagnostic(kind string, tile string, detail string) {
	l.entry(StageCanon, map[string]interface{}{
		"diagnostic": kind,
		"tile":       tile,
		"detail":     detail,
	}).Warn("Row problem recovered")
}

// LogArtifact logs a written output file
func (l *Logger) LogArtifact(path string, size int) {
	l.entry(StageWrite, map[string]interface{}{
		"path":  path,
		"bytes": size,
	}).Info("Artifact written")
}

// LogSummary logs the outcome of a run
func (l *Logger) LogSummary(decoded int, rules int, diagnostics int, duration time.Duration) {
	l.entry("", map[string]interface{}{
		"values_decoded": decoded,
		"rules":          rules,
		"diagnostics":    diagnostics,
		"duration":       duration,
		"uptime":         time.Since(l.startTime),
	}).Info("Extraction complete")
}

// Close closes the log file and removes log files beyond the retention limit
func (l *Logger) Close() error {
	if l.fileHandle == nil {
		return nil
	}
	if err := l.fileHandle.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	l.fileHandle = nil

	manager := NewLogManager(l.config.OutputDir, l.config.MaxFiles)
	if err := manager.CleanupOldLogs(); err != nil {
		return fmt.Errorf("failed to cleanup log files: %w", err)
	}

	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry("", fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry("", fields).Info(msg)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, fields map[string]interface{}) {
	l.entry("", fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry("", fields).Error(msg)
}
