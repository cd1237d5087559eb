package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFileKeyword selects DefaultLogFile as the log destination
const DefaultLogFileKeyword = "default"

// ANSI color codes per level
var levelColors = map[slog.Level]string{
	slog.LevelDebug: "\033[90m",
	slog.LevelInfo:  "\033[32m",
	slog.LevelWarn:  "\033[33m",
	slog.LevelError: "\033[31m",
}

const colorReset = "\033[0m"

// InitLogger builds the application logger and installs it as the slog default
func InitLogger(cfg *LoggingConfig) (*slog.Logger, error) {
	logger, err := NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// NewLogger builds a logger writing to cfg.File with rotation, or to console
// when no file is configured
func NewLogger(cfg *LoggingConfig, console io.Writer) (*slog.Logger, error) {
	file := cfg.File
	if file == DefaultLogFileKeyword {
		file = DefaultLogFile()
	}

	var writer io.Writer = console
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		writer = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		// Colors only make sense on a console
		if cfg.Color && file == "" {
			handler = newColoredTextHandler(writer, opts)
		} else {
			handler = slog.NewTextHandler(writer, opts)
		}
	}
	return slog.New(handler), nil
}

// coloredTextHandler colors the level of each text record
type coloredTextHandler struct {
	writer io.Writer
	opts   *slog.HandlerOptions
	attrs  []slog.Attr
	group  string
}

func newColoredTextHandler(w io.Writer, opts *slog.HandlerOptions) *coloredTextHandler {
	return &coloredTextHandler{writer: w, opts: opts}
}

func (h *coloredTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts != nil && h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *coloredTextHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf strings.Builder
	var inner slog.Handler = slog.NewTextHandler(&buf, h.opts)
	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}
	if h.group != "" {
		inner = inner.WithGroup(h.group)
	}
	if err := inner.Handle(ctx, r); err != nil {
		return err
	}

	line := buf.String()
	if color, ok := levelColors[r.Level]; ok {
		line = color + line[:len(line)-1] + colorReset + "\n"
	}
	_, err := io.WriteString(h.writer, line)
	return err
}

func (h *coloredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *coloredTextHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = name
	return &next
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
