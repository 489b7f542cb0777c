// Package logging configures slog with a console handler and an optional rotating log file.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var lumberjackLogger *lumberjack.Logger

// Options configures Setup.
type Options struct {
	Verbose bool
	File    string    // rotating log file, empty to disable
	Stdout  io.Writer // defaults to os.Stdout
	Stderr  io.Writer // defaults to os.Stderr
}

// ConsoleHandler prints plain messages for users: info to stdout, warnings and
// errors prefixed on stderr, debug only when verbose.
type ConsoleHandler struct {
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	attrs   []slog.Attr
}

// NewConsoleHandler creates a console handler writing to the given streams.
func NewConsoleHandler(stdout, stderr io.Writer, verbose bool) *ConsoleHandler {
	return &ConsoleHandler{verbose: verbose, stdout: stdout, stderr: stderr}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level > slog.LevelDebug || h.verbose
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	if h.verbose {
		msg += h.formatAttrs(r)
	}

	var err error
	switch {
	case r.Level >= slog.LevelError:
		_, err = fmt.Fprintf(h.stderr, "ERROR: %s\n", msg)
	case r.Level >= slog.LevelWarn:
		_, err = fmt.Fprintf(h.stderr, "WARNING: %s\n", msg)
	case r.Level >= slog.LevelInfo:
		_, err = fmt.Fprintln(h.stdout, msg)
	default:
		_, err = fmt.Fprintf(h.stderr, "[DEBUG] %s\n", msg)
	}
	return err
}

func (h *ConsoleHandler) formatAttrs(r slog.Record) string {
	var sb strings.Builder
	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})
	return sb.String()
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *ConsoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// Setup initializes the default slog logger.
func Setup(opts Options) (*slog.Logger, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	handlers := []slog.Handler{NewConsoleHandler(opts.Stdout, opts.Stderr, opts.Verbose)}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("could not create log directory: %w", err)
		}

		lumberjackLogger = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}

		handlers = append(handlers, slog.NewTextHandler(lumberjackLogger, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String(slog.TimeKey, a.Value.Time().Format("2006/01/02 15:04:05.000000"))
				}
				return a
			},
		}))
	}

	logger := slog.New(&MultiHandler{handlers: handlers})
	slog.SetDefault(logger)
	return logger, nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	if lumberjackLogger == nil {
		return nil
	}
	err := lumberjackLogger.Close()
	lumberjackLogger = nil
	return err
}

// MultiHandler sends records to every handler that accepts their level.
type MultiHandler struct {
	handlers []slog.Handler
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: newHandlers}
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &MultiHandler{handlers: newHandlers}
}
