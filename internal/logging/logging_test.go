// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package logging

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestWriter struct {
	Entries []string
}

func NewTestWriter() *TestWriter {
	return &TestWriter{
		Entries: make([]string, 0),
	}
}

func (w *TestWriter) Write(p []byte) (n int, err error) {
	w.Entries = append(w.Entries, string(p))
	return len(p), nil
}

func (w *TestWriter) Contains(substr string) bool {
	for _, entry := range w.Entries {
		if strings.Contains(entry, substr) {
			return true
		}
	}

	return false
}

func TestLogging_LogProxyError(t *testing.T) {
	writer := NewTestWriter()
	slog.SetDefault(slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo})))
	log.SetFlags(0)
	log.SetOutput(&slogWriter{})

	log.Print("ERROR: test info")

	assert.True(t, writer.Contains("level=ERROR"))
	assert.True(t, writer.Contains(`msg="test info"`))
}

func TestLogging_LogProxyDebugIsFiltered(t *testing.T) {
	writer := NewTestWriter()
	slog.SetDefault(slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo})))
	log.SetFlags(0)
	log.SetOutput(&slogWriter{})

	log.Print("chatty dependency")

	assert.False(t, writer.Contains("chatty dependency"))
}

func TestMultiLevelHandler_RoutesByLevel(t *testing.T) {
	var file, console bytes.Buffer
	handler := &MultiLevelHandler{
		fileHandler:    fileHandler(&file, slog.LevelDebug),
		consoleHandler: slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}
	logger := slog.New(handler).With("component", "test")

	logger.Debug("only in file")
	logger.Warn("everywhere")

	assert.Contains(t, file.String(), "only in file")
	assert.Contains(t, file.String(), "everywhere")
	assert.Contains(t, file.String(), "component=test")
	assert.NotContains(t, console.String(), "only in file")
	assert.Contains(t, console.String(), "everywhere")

	assert.True(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, (&MultiLevelHandler{consoleHandler: handler.consoleHandler}).Enabled(context.Background(), slog.LevelInfo))
}

func TestParseLevel(t *testing.T) {
	for input, expected := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		level, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, level, input)
	}

	_, err := ParseLevel("verbose")
	assert.EqualError(t, err, `unknown log level "verbose"`)
}
