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

// Package source provides apis.Source implementations that materialize
// behavior units: an in-memory Catalog and YAML manifests loaded into one.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"dirpx.dev/cfx/apis"
)

var (
	// ErrDuplicateUnit is returned when a name is added to a Catalog twice.
	ErrDuplicateUnit = errors.New("cfx(source): duplicate unit")
	// ErrNotTemplate is returned when parameters are given for a plain unit.
	ErrNotTemplate = errors.New("cfx(source): unit is not parameterizable")
	// ErrNeedsParams is returned when a template is requested without parameters.
	ErrNeedsParams = errors.New("cfx(source): unit is a template and needs parameters")
)

// Template instantiates a parameterized unit.
type Template func(params map[string]any) (apis.Unit, error)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		units:     make(map[string]apis.Unit),
		templates: make(map[string]Template),
	}
}

// Catalog is an in-memory set of plain units and templates.
type Catalog struct {
	mu        sync.RWMutex
	units     map[string]apis.Unit
	templates map[string]Template
}

// Ensure Catalog implements apis.Source.
var _ apis.Source = (*Catalog)(nil)

// Add registers a plain unit under u.Name.
func (c *Catalog) Add(u apis.Unit) error {
	if u.Name == "" {
		return fmt.Errorf("%w: empty name", ErrDuplicateUnit)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.taken(u.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateUnit, u.Name)
	}
	c.units[u.Name] = u
	return nil
}

// AddTemplate registers a parameterized unit under name.
func (c *Catalog) AddTemplate(name string, fn Template) error {
	if name == "" || fn == nil {
		return fmt.Errorf("%w: empty template", ErrDuplicateUnit)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.taken(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateUnit, name)
	}
	c.templates[name] = fn
	return nil
}

func (c *Catalog) taken(name string) bool {
	_, u := c.units[name]
	_, t := c.templates[name]
	return u || t
}

// Names returns all unit and template names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.units)+len(c.templates))
	for n := range c.units {
		out = append(out, n)
	}
	for n := range c.templates {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IsTemplate reports whether name is a registered template.
func (c *Catalog) IsTemplate(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.templates[name]
	return ok
}

// TryResolve returns the plain unit id when params is nil and instantiates
// template id otherwise. Unknown ids fall through.
func (c *Catalog) TryResolve(_ context.Context, id string, params map[string]any) (apis.Unit, bool, error) {
	c.mu.RLock()
	u, isUnit := c.units[id]
	tmpl, isTemplate := c.templates[id]
	c.mu.RUnlock()

	switch {
	case isUnit && params == nil:
		return u, true, nil
	case isUnit:
		return apis.Unit{}, true, fmt.Errorf("%w: %s", ErrNotTemplate, id)
	case isTemplate && params == nil:
		return apis.Unit{}, true, fmt.Errorf("%w: %s", ErrNeedsParams, id)
	case isTemplate:
		inst, err := tmpl(params)
		if err != nil {
			return apis.Unit{}, true, err
		}
		if inst.Name == "" {
			inst.Name = id
		}
		return inst, true, nil
	default:
		return apis.Unit{}, false, nil
	}
}
