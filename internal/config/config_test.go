// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/resourcetag/pkg/tags"
)

func TestParse_SimpleService(t *testing.T) {
	cfg, err := Parse([]byte(`
service: simple-service
provider:
  name: aws
  runtime: nodejs20.x
  tags:
    framework: nodejs
    env: dev
    build: 42
    debug: false
functions:
  hello:
    handler: handler.hello
`))
	require.NoError(t, err)

	assert.Equal(t, "simple-service", cfg.ServiceName())
	assert.Equal(t, "aws", cfg.Provider.Name)
	assert.Equal(t, []tags.Tag{
		{Key: "framework", Value: "nodejs"},
		{Key: "env", Value: "dev"},
		{Key: "build", Value: "42"},
		{Key: "debug", Value: "false"},
	}, cfg.UserTags())
}

func TestParse_ServiceAsMapping(t *testing.T) {
	cfg, err := Parse([]byte("service:\n  name: mapped-service\n"))
	require.NoError(t, err)
	assert.Equal(t, "mapped-service", cfg.ServiceName())
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("provider:\n  name: aws\n"))
	require.NoError(t, err)

	assert.Equal(t, tags.DefaultServiceName, cfg.ServiceName())
	assert.Nil(t, cfg.UserTags())

	var nilConfig *BuildConfig
	assert.Equal(t, tags.DefaultServiceName, nilConfig.ServiceName())
	assert.Nil(t, nilConfig.UserTags())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		message string
	}{
		{"service list", "service: [a, b]\n", "service must be a string or a mapping"},
		{"tags list", "provider:\n  tags: [a]\n", "tags must be a mapping"},
		{"nested tag value", "provider:\n  tags:\n    env:\n      nested: true\n", `value of tag "env" must be a scalar`},
		{"key too long", "provider:\n  tags:\n    " + strings.Repeat("k", 129) + ": v\n", "invalid build configuration"},
		{"value too long", "provider:\n  tags:\n    k: " + strings.Repeat("v", 257) + "\n", "invalid build configuration"},
		{"broken yaml", "service: [\n", "failed to parse build configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParse_NullTagValue(t *testing.T) {
	cfg, err := Parse([]byte("provider:\n  tags:\n    empty:\n    other: x\n"))
	require.NoError(t, err)
	assert.Equal(t, []tags.Tag{{Key: "empty", Value: ""}, {Key: "other", Value: "x"}}, cfg.UserTags())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("service: from-file\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.ServiceName())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
