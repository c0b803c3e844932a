// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package classifier

import (
	"slices"
)

// TaggableTypes is the set of resource type names whose specification declares
// a Tags property. The zero value is not usable, use NewTaggableTypes.
type TaggableTypes map[string]struct{}

func NewTaggableTypes(types ...string) TaggableTypes {
	t := make(TaggableTypes, len(types))
	for _, typ := range types {
		t.Add(typ)
	}
	return t
}

func (t TaggableTypes) Add(typeName string) {
	t[typeName] = struct{}{}
}

func (t TaggableTypes) Has(typeName string) bool {
	_, ok := t[typeName]
	return ok
}

func (t TaggableTypes) Len() int {
	return len(t)
}

func (t TaggableTypes) Sorted() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
