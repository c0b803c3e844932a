// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package tagger

import (
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/platform-engineering-labs/resourcetag/internal/template"
	"github.com/platform-engineering-labs/resourcetag/pkg/tags"
)

const tagsProperty = "Tags"

type TaggableTypes interface {
	Has(typeName string) bool
}

// Project identifies the build whose resources get tagged.
type Project struct {
	ServiceName string
	Tags        []tags.Tag
}

func (p Project) serviceName() string {
	if p.ServiceName == "" {
		return tags.DefaultServiceName
	}
	return p.ServiceName
}

type Result struct {
	// Tagged counts resources whose type is taggable, including ones that
	// were skipped because their tag data was malformed.
	Tagged int
	// Malformed lists resources left untouched because of their shape.
	Malformed []string
	// NoTemplate is set when there was no compiled template to work on.
	NoTemplate bool
}

type Tagger struct {
	taggable TaggableTypes
	logger   *slog.Logger
}

type Option func(*Tagger)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tagger) { t.logger = logger }
}

// New returns a Tagger for the given classification. A nil taggable set tags nothing.
func New(taggable TaggableTypes, opts ...Option) *Tagger {
	if taggable == nil {
		taggable = noTypes{}
	}

	t := &Tagger{
		taggable: taggable,
		logger:   slog.Default().With("component", "tagger"),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

type noTypes struct{}

func (noTypes) Has(string) bool { return false }

// Tag merges the project tags into every taggable resource of tpl and adds the
// project resource group. tpl is modified in place.
func (t *Tagger) Tag(tpl *template.Template, project Project) Result {
	if tpl == nil || !tpl.HasResources() {
		t.logger.Error("No compiled CloudFormation template found")
		return Result{NoTemplate: true}
	}

	serviceName := project.serviceName()
	newTags := tags.ProjectTags(project.Tags, serviceName)

	var result Result
	for _, resource := range tpl.Resources() {
		if !resource.HasType() || !t.taggable.Has(resource.Type) {
			continue
		}
		result.Tagged++

		if err := t.tagResource(tpl, resource, newTags); err != nil {
			t.logger.Warn("Skipping resource with malformed tag data", "resource", resource.ID, "type", resource.Type, "error", err)
			result.Malformed = append(result.Malformed, resource.ID)
		}
	}

	if err := tpl.SetResource(GroupResourceID, NewResourceGroup(serviceName)); err != nil {
		t.logger.Error("Failed to add resource group", "error", err)
	}

	t.logger.Info(fmt.Sprintf("Tags have been added to all %d resources and resource group created", result.Tagged))

	return result
}

func (t *Tagger) tagResource(tpl *template.Template, resource template.Resource, newTags []tags.Tag) error {
	props := resource.Properties
	if props.Exists() && props.Type != gjson.Null && !props.IsObject() {
		return fmt.Errorf("properties is not an object")
	}

	existing := props.Get(tagsProperty)
	if existing.Exists() && existing.Type != gjson.Null && !existing.IsArray() {
		return fmt.Errorf("tags is not an array")
	}

	merged, err := tags.Merge(existing, newTags)
	if err != nil {
		return err
	}

	return tpl.SetProperty(resource.ID, tagsProperty, merged)
}
