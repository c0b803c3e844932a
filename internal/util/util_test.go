// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFileFolderHierarchy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "tool.log")

	require.NoError(t, EnsureFileFolderHierarchy(path))

	info, err := os.Stat(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureFileFolderHierarchy("relative.log"))
}

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs/x.log"), ExpandHomePath("~/logs/x.log"))
	assert.Equal(t, "/tmp/x.log", ExpandHomePath("/tmp/x.log"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "in.json", OutputPath("in.json", ""))
	assert.Equal(t, "out.json", OutputPath("in.json", "out.json"))
}
