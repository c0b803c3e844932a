// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/platform-engineering-labs/resourcetag/internal/util"
)

type Config struct {
	ConsoleLogLevel slog.Level
	// FilePath enables a rotating log file when set.
	FilePath     string
	FileLogLevel slog.Level
}

// SetupInitialLogging logs to stderr until the command line has been parsed.
// Stdout is reserved for command output.
func SetupInitialLogging() {
	slog.SetDefault(slog.New(consoleHandler(os.Stderr, slog.LevelInfo)))
	redirectStandardLog()
}

func Setup(cfg Config) {
	handler := &MultiLevelHandler{
		consoleHandler: consoleHandler(os.Stderr, cfg.ConsoleLogLevel),
	}

	if cfg.FilePath != "" {
		path := util.ExpandHomePath(cfg.FilePath)
		if err := util.EnsureFileFolderHierarchy(path); err != nil {
			slog.Error("Failed to create log folder hierarchy", "error", err)
		} else {
			handler.fileHandler = fileHandler(&lumberjack.Logger{
				Filename: path,
				Compress: true,
			}, cfg.FileLogLevel)
		}
	}

	slog.SetDefault(slog.New(handler))
	redirectStandardLog()
}

func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func consoleHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
}

func fileHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	})
}

//overwrite standard log so it's always redirected to slog, in case some deep dep is using it
func redirectStandardLog() {
	lw := &slogWriter{}
	log.SetFlags(0)
	log.Default().SetOutput(lw)
	log.SetOutput(lw)
}

type MultiLevelHandler struct {
	fileHandler    slog.Handler
	consoleHandler slog.Handler
}

func (h *MultiLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.fileHandler != nil && h.fileHandler.Enabled(ctx, level) {
		return true
	}
	if h.consoleHandler != nil && h.consoleHandler.Enabled(ctx, level) {
		return true
	}
	return false
}

func (h *MultiLevelHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.fileHandler != nil && h.fileHandler.Enabled(ctx, r.Level) {
		if err := h.fileHandler.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}

	if h.consoleHandler != nil && h.consoleHandler.Enabled(ctx, r.Level) {
		if err := h.consoleHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	return nil
}

func (h *MultiLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandler := &MultiLevelHandler{}

	if h.fileHandler != nil {
		newHandler.fileHandler = h.fileHandler.WithAttrs(attrs)
	}

	if h.consoleHandler != nil {
		newHandler.consoleHandler = h.consoleHandler.WithAttrs(attrs)
	}

	return newHandler
}

func (h *MultiLevelHandler) WithGroup(name string) slog.Handler {
	newHandler := &MultiLevelHandler{}

	if h.fileHandler != nil {
		newHandler.fileHandler = h.fileHandler.WithGroup(name)
	}

	if h.consoleHandler != nil {
		newHandler.consoleHandler = h.consoleHandler.WithGroup(name)
	}

	return newHandler
}
