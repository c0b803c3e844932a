// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package logging

import (
	"log/slog"
	"strings"
)

// slogWriter forwards standard library log output to slog, picking the level
// from an ERROR/WARN/INFO prefix. Everything else is debug output.
type slogWriter struct{}

func (w *slogWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimRight(string(p), "\n")

	for _, prefix := range []struct {
		text  string
		level func(string, ...any)
	}{
		{"ERROR", slog.Error},
		{"WARN", slog.Warn},
		{"INFO", slog.Info},
	} {
		if rest, ok := strings.CutPrefix(msg, prefix.text); ok && len(rest) > 1 {
			prefix.level(strings.TrimSpace(strings.TrimPrefix(rest, ":")))
			return len(p), nil
		}
	}

	slog.Debug(msg)
	return len(p), nil
}
