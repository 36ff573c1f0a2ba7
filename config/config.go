/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"regexp"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/naming"
)

const (
	// DefaultBaseName is the name of the default (empty) base capability set.
	DefaultBaseName = "Object"
	// Literal is the leading marker that suppresses prefix rewriting.
	Literal = naming.Marker
)

var (
	// ErrEmptyBasename is returned when no basename is configured.
	ErrEmptyBasename = errors.New("cfx(config): empty basename")
	// ErrInvalidBasename is returned when the basename is not a valid
	// hierarchical identifier.
	ErrInvalidBasename = errors.New("cfx(config): invalid basename")
)

// identRe matches "Foo", "Foo::Bar", "Foo_1::Bar2".
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$`)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the configuration used when none is provided.
// It has no basename; callers must set one.
func DefaultConfig() apis.Config {
	return apis.Config{
		PostTransforms: nil,
		Prefixes:       map[string]string{},
		Base:           apis.Unit{Name: DefaultBaseName},
	}
}

// Validate reports whether cfg can be used to build a Compositor.
func Validate(cfg apis.Config) error {
	if cfg.Basename == "" {
		return fmt.Errorf("%w: %w", apis.ErrInvalidConfig, ErrEmptyBasename)
	}
	if !IsIdentifier(cfg.Basename) {
		return fmt.Errorf("%w: %w: %q", apis.ErrInvalidConfig, ErrInvalidBasename, cfg.Basename)
	}
	for i, t := range cfg.PostTransforms {
		if t.Name == "" {
			return fmt.Errorf("%w: transform %d has no name", apis.ErrInvalidConfig, i)
		}
	}
	return nil
}

// IsIdentifier reports whether s is a syntactically valid hierarchical
// identifier.
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithBasename sets the Basename option.
func WithBasename(name string) Option {
	return func(c *apis.Config) {
		c.Basename = name
	}
}

// WithPostTransforms appends transforms to the PostTransforms option.
func WithPostTransforms(specs ...apis.TransformSpec) Option {
	return func(c *apis.Config) {
		c.PostTransforms = append(c.PostTransforms, specs...)
	}
}

// WithPrefix adds a single prefix rewrite rule.
func WithPrefix(prefix, expansion string) Option {
	return func(c *apis.Config) {
		if c.Prefixes == nil {
			c.Prefixes = map[string]string{}
		}
		c.Prefixes[prefix] = expansion
	}
}

// WithPrefixes replaces the prefix rewrite rules. A nil map resets to empty.
func WithPrefixes(m map[string]string) Option {
	return func(c *apis.Config) {
		c.Prefixes = make(map[string]string, len(m))
		for k, v := range m {
			c.Prefixes[k] = v
		}
	}
}

// WithLiteralMarker lets callers prefix an identifier with "=" to bypass
// every other rewrite rule.
func WithLiteralMarker() Option {
	return WithPrefix(Literal, "")
}

// WithBase sets the base capability set.
func WithBase(base apis.Unit) Option {
	return func(c *apis.Config) {
		if base.Name == "" {
			base.Name = DefaultBaseName
		}
		c.Base = base
	}
}
