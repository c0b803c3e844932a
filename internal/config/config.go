// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package config reads the parts of a Serverless style build configuration the
// tagger needs: the service name and the provider level tags.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/platform-engineering-labs/resourcetag/pkg/tags"
)

const DefaultConfigFile = "serverless.yml"

type BuildConfig struct {
	Service  Service  `yaml:"service"`
	Provider Provider `yaml:"provider"`
}

type Provider struct {
	Name string `yaml:"name"`
	Tags TagMap `yaml:"tags" validate:"dive"`
}

// ServiceName returns the configured service name or the default one.
func (c *BuildConfig) ServiceName() string {
	if c == nil || c.Service.Name == "" {
		return tags.DefaultServiceName
	}
	return c.Service.Name
}

// UserTags returns the provider tags in declared order.
func (c *BuildConfig) UserTags() []tags.Tag {
	if c == nil {
		return nil
	}
	return c.Provider.Tags.Tags()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Parse(data []byte) (*BuildConfig, error) {
	var cfg BuildConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse build configuration: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid build configuration: %w", err)
	}

	return &cfg, nil
}

func Load(path string) (*BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build configuration %s: %w", path, err)
	}

	return Parse(data)
}
