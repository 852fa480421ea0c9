package config

import "fmt"

// Supported log level constants
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Supported log output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
)

// validLogLevels contains all supported log levels
var validLogLevels = map[string]bool{
	LevelDebug: true,
	LevelInfo:  true,
	LevelWarn:  true,
	LevelError: true,
}

// validLogFormats contains all supported log output formats
var validLogFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
}

// validateLogLevel ensures the configured log level is supported
// If the level is empty, returns nil (will default to info)
func validateLogLevel(level string) error {
	if level == "" {
		return nil
	}

	if !validLogLevels[level] {
		return fmt.Errorf("unsupported log level '%s': supported levels are debug, info, warn, error", level)
	}

	return nil
}

// validateLogFormat ensures the configured log format is supported
// If the format is empty, returns nil (will default to text)
func validateLogFormat(format string) error {
	if format == "" {
		return nil
	}

	if !validLogFormats[format] {
		return fmt.Errorf("unsupported log format '%s': supported formats are text, json", format)
	}

	return nil
}
