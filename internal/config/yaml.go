// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/platform-engineering-labs/resourcetag/pkg/tags"
)

// Service accepts both `service: name` and `service: {name: name}`.
type Service struct {
	Name string
}

func (s *Service) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Name = node.Value
		return nil
	case yaml.MappingNode:
		var named struct {
			Name string `yaml:"name"`
		}
		if err := node.Decode(&named); err != nil {
			return err
		}
		s.Name = named.Name
		return nil
	default:
		return fmt.Errorf("line %d: service must be a string or a mapping with a name", node.Line)
	}
}

type TagEntry struct {
	Key   string `validate:"required,max=128"`
	Value string `validate:"max=256"`
}

// TagMap is a YAML mapping of tag keys to scalar values that keeps the order
// the keys were declared in.
type TagMap []TagEntry

func (m *TagMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tags must be a mapping", node.Line)
	}

	result := make(TagMap, 0, len(node.Content)/2)
	index := make(map[string]int, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if valueNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of tag %q must be a scalar", valueNode.Line, keyNode.Value)
		}

		value := valueNode.Value
		if valueNode.Tag == "!!null" {
			value = ""
		}

		if at, ok := index[keyNode.Value]; ok {
			result[at].Value = value
			continue
		}
		index[keyNode.Value] = len(result)
		result = append(result, TagEntry{Key: keyNode.Value, Value: value})
	}

	*m = result
	return nil
}

func (m TagMap) Tags() []tags.Tag {
	if len(m) == 0 {
		return nil
	}

	result := make([]tags.Tag, 0, len(m))
	for _, e := range m {
		result = append(result, tags.Tag{Key: e.Key, Value: e.Value})
	}
	return result
}
