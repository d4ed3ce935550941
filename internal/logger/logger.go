package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// Logger is the global logger instance
	Logger  = slog.New(slog.NewTextHandler(os.Stderr, nil))
	logFile *os.File
)

// Options selects level, format and destination of log output
type Options struct {
	Level  string
	JSON   bool
	ToFile bool
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger writing to w at the level given in opts
func New(w io.Writer, opts Options) *slog.Logger {
	return slog.New(newHandler(w, opts.JSON, ParseLevel(opts.Level)))
}

func newHandler(w io.Writer, jsonOutput bool, level slog.Level) slog.Handler {
	handlerOpts := &slog.HandlerOptions{Level: level}
	if jsonOutput {
		return slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.NewTextHandler(w, handlerOpts)
}

// Init initializes the global logger. Console output on stderr honours the
// configured level; the optional log file always records debug detail.
func Init(opts Options) error {
	console := newHandler(os.Stderr, opts.JSON, ParseLevel(opts.Level))

	if !opts.ToFile {
		Logger = slog.New(console)
		return nil
	}

	logPath, err := getLogFilePath()
	if err != nil {
		return fmt.Errorf("failed to determine log file path: %w", err)
	}

	// Ensure log directory exists
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	// Open log file in append mode
	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	Logger = slog.New(NewTeeHandler(console, newHandler(logFile, opts.JSON, slog.LevelDebug)))
	return nil
}

// getLogFilePath returns the platform-appropriate log file path
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Fallback to home directory if cache dir unavailable
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cacheDir = filepath.Join(homeDir, ".cache")
	}

	return filepath.Join(cacheDir, "migration-analysis", "logs", "migration-analysis.log"), nil
}

// GetLogFilePath returns the expected log file path without creating it
func GetLogFilePath() (string, error) {
	return getLogFilePath()
}

// Close closes the log file if it was opened
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// TeeHandler writes each record to every handler enabled for its level
type TeeHandler struct {
	handlers []slog.Handler
}

// NewTeeHandler combines handlers into one
func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

// Enabled reports whether any handler handles records at the given level
func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every enabled handler, returning the first error
func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithAttrs returns a new handler with the given attributes
func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: handlers}
}

// WithGroup returns a new handler with the given group
func (t *TeeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &TeeHandler{handlers: handlers}
}
