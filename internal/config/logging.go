package config

import (
	"io"
	"log/slog"
	"os"
)

// SetupLogging configures the global slog logger based on args
// Returns the log file handle (caller must close it) or nil if no file
func SetupLogging(args Args) (*os.File, error) {
	var writers []io.Writer
	var logFile *os.File

	// Add file writer if specified
	if args.Log != "" {
		f, err := os.OpenFile(args.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		logFile = f
		writers = append(writers, f)
	}

	// Diagnostics always go to stderr; probe lines and JSON records own
	// stdout.
	writers = append(writers, os.Stderr)

	// Combine writers if multiple
	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = io.MultiWriter(writers...)
	}

	// Parse log level
	logLevel := parseLogLevel(args.LogLevel)

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}
	if opts.Level == slog.LevelDebug {
		opts.AddSource = true
	}

	var handler slog.Handler
	if args.Json {
		// JSON output mode gets JSON-formatted logs
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	// Set as default logger
	slog.SetDefault(slog.New(handler))

	return logFile, nil
}

// parseLogLevel converts string to slog.Level
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
