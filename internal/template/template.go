// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package template wraps a compiled CloudFormation template as raw JSON. Edits
// go through path based setters so everything the tagger does not touch,
// including key order, is preserved.
package template

import (
	"errors"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var ErrNoResources = errors.New("template has no Resources object")

const resourcesKey = "Resources"

type Template struct {
	doc []byte
}

// Resource is a read-only view of one entry of the Resources object.
type Resource struct {
	ID         string
	Type       string
	Properties gjson.Result
}

// HasType reports whether the resource declared its Type as a string.
func (r Resource) HasType() bool {
	return r.Type != ""
}

func Parse(data []byte) (*Template, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("template is not valid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("template is not a JSON object")
	}

	doc := make([]byte, len(data))
	copy(doc, data)

	return &Template{doc: doc}, nil
}

func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}

	tpl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}

	return tpl, nil
}

func (t *Template) Bytes() []byte {
	return t.doc
}

// Pretty returns the document indented with two spaces, keys in their original order.
func (t *Template) Pretty() []byte {
	return pretty.PrettyOptions(t.doc, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "  ",
		SortKeys: false,
	})
}

func (t *Template) Write(path string) error {
	if err := os.WriteFile(path, t.Pretty(), 0644); err != nil {
		return fmt.Errorf("failed to write template %s: %w", path, err)
	}
	return nil
}

func (t *Template) HasResources() bool {
	return gjson.GetBytes(t.doc, resourcesKey).IsObject()
}

// Resources returns the resources in document order.
func (t *Template) Resources() []Resource {
	var resources []Resource

	gjson.GetBytes(t.doc, resourcesKey).ForEach(func(key, value gjson.Result) bool {
		r := Resource{
			ID:         key.String(),
			Properties: value.Get("Properties"),
		}
		if typ := value.Get("Type"); typ.Type == gjson.String {
			r.Type = typ.String()
		}
		resources = append(resources, r)
		return true
	})

	return resources
}

func (t *Template) Resource(id string) (Resource, bool) {
	value := gjson.GetBytes(t.doc, Path(resourcesKey, id))
	if !value.Exists() {
		return Resource{}, false
	}

	r := Resource{ID: id, Properties: value.Get("Properties")}
	if typ := value.Get("Type"); typ.Type == gjson.String {
		r.Type = typ.String()
	}

	return r, true
}

// SetResource replaces or adds the resource id with the JSON encoding of v.
func (t *Template) SetResource(id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal resource %s: %w", id, err)
	}
	return t.setRaw(Path(resourcesKey, id), raw)
}

// SetProperty sets Properties.<name> of resource id to raw. A missing or null
// Properties value is replaced with a new object.
func (t *Template) SetProperty(id, name string, raw []byte) error {
	if !t.HasResources() {
		return ErrNoResources
	}

	props := gjson.GetBytes(t.doc, Path(resourcesKey, id, "Properties"))
	switch {
	case props.IsObject():
		return t.setRaw(Path(resourcesKey, id, "Properties", name), raw)
	case !props.Exists() || props.Type == gjson.Null:
		obj, err := sjson.SetRawBytes([]byte(`{}`), Path(name), raw)
		if err != nil {
			return fmt.Errorf("failed to build properties for %s: %w", id, err)
		}
		return t.setRaw(Path(resourcesKey, id, "Properties"), obj)
	default:
		return fmt.Errorf("properties of %s is not an object", id)
	}
}

func (t *Template) setRaw(path string, raw []byte) error {
	doc, err := sjson.SetRawBytes(t.doc, path, raw)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	t.doc = doc
	return nil
}

// Path joins components into a gjson/sjson path, escaping every character
// that has a meaning in the path syntax.
func Path(components ...string) string {
	var b strings.Builder
	for i, c := range components {
		if i > 0 {
			b.WriteByte('.')
		}
		for _, r := range c {
			if !isPlainPathRune(r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isPlainPathRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r > 0x7f
}
