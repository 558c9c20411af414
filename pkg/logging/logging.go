// Package logging builds the debugger's structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/utils"
	slogmulti "github.com/samber/slog-multi"
)

// Parses debug, info, warn or error (case insensitive)
func ParseLevel(text string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return slog.LevelInfo, utils.MakeError(or1k.ErrInvalidArgument, "unknown log level '%v'", text)
}

// Returns a logger writing text records to console, and JSON records to file if not nil.
// Both receive every record at level or above.
func New(console io.Writer, file io.Writer, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewTextHandler(console, options)}

	if file != nil {
		handlers = append(handlers, slog.NewJSONHandler(file, options))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Builds the logger from configuration values. The returned closer releases the log file.
func Open(level string, path string, console io.Writer) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	if len(path) == 0 {
		return New(console, nil, lvl), nopCloser{}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, utils.WithContext(err, "opening log file")
	}

	return New(console, file, lvl), file, nil
}
