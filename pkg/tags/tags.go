// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package tags

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// ProjectMarkerKey is written to every taggable resource and used by the
// resource group query to find them again.
const ProjectMarkerKey = "sls:meta:project"

// DefaultServiceName is used when the build configuration has no service name.
const DefaultServiceName = "serverless"

type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// ProjectTags returns userTags followed by the project marker. A user tag that
// already uses the marker key keeps its position but gets the service name as value.
// Later duplicates of a key overwrite the earlier value in place.
func ProjectTags(userTags []Tag, serviceName string) []Tag {
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	result := make([]Tag, 0, len(userTags)+1)
	index := make(map[string]int, len(userTags)+1)

	set := func(t Tag) {
		if i, ok := index[t.Key]; ok {
			result[i].Value = t.Value
			return
		}
		index[t.Key] = len(result)
		result = append(result, t)
	}

	for _, t := range userTags {
		set(t)
	}
	set(Tag{Key: ProjectMarkerKey, Value: serviceName})

	return result
}

// Keys returns the set of keys used by tags.
func Keys(tags []Tag) map[string]struct{} {
	keys := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		keys[t.Key] = struct{}{}
	}
	return keys
}

// Merge keeps every element of the existing tag array whose Key is not in
// incoming, verbatim and in its original order, then appends incoming. Elements
// that are not {Key: string} objects are kept as-is. A missing or null existing
// value is treated as an empty array. The result is a JSON array.
func Merge(existing gjson.Result, incoming []Tag) ([]byte, error) {
	keys := Keys(incoming)

	var buf bytes.Buffer
	buf.WriteByte('[')

	count := 0
	if existing.IsArray() {
		existing.ForEach(func(_, item gjson.Result) bool {
			if key := item.Get("Key"); key.Type == gjson.String {
				if _, ok := keys[key.String()]; ok {
					return true
				}
			}
			if count > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(item.Raw)
			count++
			return true
		})
	}

	for _, t := range incoming {
		raw, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tag %q: %w", t.Key, err)
		}
		if count > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
		count++
	}

	buf.WriteByte(']')

	return buf.Bytes(), nil
}
