// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package tagger

import (
	"fmt"

	"github.com/platform-engineering-labs/resourcetag/pkg/tags"
)

const (
	GroupResourceID   = "ProjectResourceGroup"
	GroupResourceType = "AWS::ResourceGroups::Group"
	TagFiltersQuery   = "TAG_FILTERS_1_0"
	AllSupportedTypes = "AWS::AllSupported"
)

type ResourceGroup struct {
	Type       string                  `json:"Type"`
	Properties ResourceGroupProperties `json:"Properties"`
}

type ResourceGroupProperties struct {
	Name          string        `json:"Name"`
	ResourceQuery ResourceQuery `json:"ResourceQuery"`
}

type ResourceQuery struct {
	Type  string `json:"Type"`
	Query Query  `json:"Query"`
}

type Query struct {
	ResourceTypeFilters []string    `json:"ResourceTypeFilters"`
	TagFilters          []TagFilter `json:"TagFilters"`
}

type TagFilter struct {
	Key    string   `json:"Key"`
	Values []string `json:"Values"`
}

// NewResourceGroup returns the group selecting every resource tagged with the
// project marker for serviceName.
func NewResourceGroup(serviceName string) ResourceGroup {
	return ResourceGroup{
		Type: GroupResourceType,
		Properties: ResourceGroupProperties{
			Name: fmt.Sprintf("%s-resource-group", serviceName),
			ResourceQuery: ResourceQuery{
				Type: TagFiltersQuery,
				Query: Query{
					ResourceTypeFilters: []string{AllSupportedTypes},
					TagFilters: []TagFilter{
						{Key: tags.ProjectMarkerKey, Values: []string{serviceName}},
					},
				},
			},
		},
	}
}
