// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build property

package tagger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"pgregory.net/rapid"

	"github.com/platform-engineering-labs/resourcetag/internal/classifier"
	"github.com/platform-engineering-labs/resourcetag/internal/template"
	"github.com/platform-engineering-labs/resourcetag/pkg/tags"
)

var resourceTypes = []string{
	"AWS::Lambda::Function",
	"AWS::S3::Bucket",
	"AWS::Logs::LogGroup",
	"AWS::Lambda::Permission",
	"AWS::ApiGateway::Deployment",
}

var tagKeys = []string{"env", "team", "owner", tags.ProjectMarkerKey}

func tagListGen() *rapid.Generator[[]tags.Tag] {
	return rapid.Custom(func(t *rapid.T) []tags.Tag {
		keys := rapid.SliceOfDistinct(rapid.SampledFrom(tagKeys), func(k string) string { return k }).Draw(t, "keys")
		result := make([]tags.Tag, 0, len(keys))
		for _, k := range keys {
			result = append(result, tags.Tag{Key: k, Value: rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "value")})
		}
		return result
	})
}

func templateGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		resources := map[string]any{}
		count := rapid.IntRange(0, 6).Draw(t, "count")
		for i := 0; i < count; i++ {
			resource := map[string]any{"Type": rapid.SampledFrom(resourceTypes).Draw(t, "type")}
			switch rapid.IntRange(0, 2).Draw(t, "shape") {
			case 1:
				resource["Properties"] = map[string]any{"Name": "x"}
			case 2:
				resource["Properties"] = map[string]any{"Tags": tagListGen().Draw(t, "existing")}
			}
			resources[fmt.Sprintf("Resource%d", i)] = resource
		}

		doc, err := json.Marshal(map[string]any{"Resources": resources})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return string(doc)
	})
}

func TestTag_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		doc := templateGen().Draw(rt, "template")
		taggable := classifier.NewTaggableTypes(rapid.SliceOfDistinct(rapid.SampledFrom(resourceTypes), func(s string) string { return s }).Draw(rt, "taggable")...)
		project := Project{
			ServiceName: rapid.StringMatching(`[a-z][a-z-]{0,10}`).Draw(rt, "service"),
			Tags:        tagListGen().Draw(rt, "user"),
		}
		tagger := New(taggable, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

		once, err := template.Parse([]byte(doc))
		require.NoError(rt, err)
		tagger.Tag(once, project)

		twice, err := template.Parse(once.Bytes())
		require.NoError(rt, err)
		tagger.Tag(twice, project)

		require.Equal(rt, string(once.Bytes()), string(twice.Bytes()), "tagging must be idempotent")

		groups := 0
		for _, r := range once.Resources() {
			if r.ID == GroupResourceID {
				groups++
				continue
			}

			before := gjson.Get(doc, template.Path("Resources", r.ID))
			after := gjson.GetBytes(once.Bytes(), template.Path("Resources", r.ID))
			if !taggable.Has(r.Type) {
				require.Equal(rt, before.Raw, after.Raw, "non-taggable %s must not change", r.ID)
				continue
			}

			seen := map[string]bool{}
			for _, tag := range after.Get("Properties.Tags").Array() {
				key := tag.Get("Key").String()
				require.False(rt, seen[key], "duplicate key %q on %s", key, r.ID)
				seen[key] = true
			}
			require.True(rt, seen[tags.ProjectMarkerKey])
		}
		require.Equal(rt, 1, groups)
	})
}
