// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
)

const (
	resourceTypesKey = "ResourceTypes"
	propertiesKey    = "Properties"
	tagsProperty     = "Tags"
)

var ErrMalformedSpecification = errors.New("malformed resource specification")

// SpecificationProvider returns the raw CloudFormation resource specification document.
type SpecificationProvider interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type Classifier struct {
	provider SpecificationProvider
	logger   *slog.Logger
}

type Option func(*Classifier)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

func New(provider SpecificationProvider, opts ...Option) *Classifier {
	c := &Classifier{
		provider: provider,
		logger:   slog.Default().With("component", "classifier"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify fetches the specification and returns the taggable resource types.
// It never fails: on any error the problem is logged and the set is returned in
// whatever state it reached, usually empty.
func (c *Classifier) Classify(ctx context.Context) TaggableTypes {
	types := NewTaggableTypes()

	if err := c.load(ctx, types); err != nil {
		if err.Error() == "" {
			c.logger.Error("An unknown error occurred")
		} else {
			c.logger.Error("Failed to load CloudFormation resource specification", "error", err)
		}
		return types
	}

	c.logger.Info("Loaded taggable resource types", "count", types.Len())

	return types
}

func (c *Classifier) load(ctx context.Context, into TaggableTypes) error {
	doc, err := c.provider.Fetch(ctx)
	if err != nil {
		return err
	}

	return ParseTaggableTypes(doc, into)
}

// ParseTaggableTypes adds every type of the specification document whose
// Properties contain a Tags key to into, in document order. On a malformed
// entry it stops and returns an error, leaving the entries added so far.
func ParseTaggableTypes(doc []byte, into TaggableTypes) error {
	if !gjson.ValidBytes(doc) {
		return fmt.Errorf("%w: document is not valid JSON", ErrMalformedSpecification)
	}

	resourceTypes := gjson.GetBytes(doc, resourceTypesKey)
	if !resourceTypes.IsObject() {
		return fmt.Errorf("%w: %s is not an object", ErrMalformedSpecification, resourceTypesKey)
	}

	var err error
	resourceTypes.ForEach(func(name, details gjson.Result) bool {
		if !details.IsObject() {
			err = fmt.Errorf("%w: %s is not an object", ErrMalformedSpecification, name.String())
			return false
		}

		properties := details.Get(propertiesKey)
		if !properties.Exists() || properties.Type == gjson.Null {
			return true
		}
		if !properties.IsObject() {
			err = fmt.Errorf("%w: properties of %s is not an object", ErrMalformedSpecification, name.String())
			return false
		}

		if properties.Get(tagsProperty).Exists() {
			into.Add(name.String())
		}
		return true
	})

	return err
}
