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

package apis

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	uref "dirpx.dev/cfx/utils/reflect"
)

// Kind discriminates the two shapes an Item can take.
type Kind uint8

const (
	// KindPlain is a bare unit identifier.
	KindPlain Kind = iota + 1
	// KindParam is a parameterized unit instantiated under a moniker.
	KindParam
)

// String returns a short label for k.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindParam:
		return "param"
	default:
		return "invalid"
	}
}

// Item is a single entry of a composition request.
// Build items with Plain or Param; the zero Item is invalid.
type Item struct {
	// Kind selects which of the fields below are meaningful.
	Kind Kind
	// Name is the unit identifier of a plain item.
	Name string
	// Unit is the unit (template) identifier of a parameterized item.
	Unit string
	// Moniker labels this application of a parameterized unit.
	Moniker string
	// Params are the template parameters of a parameterized item.
	Params map[string]any
}

// Plain returns a bare identifier item.
func Plain(name string) Item {
	return Item{Kind: KindPlain, Name: name}
}

// Param returns a parameterized item.
func Param(unit, moniker string, params map[string]any) Item {
	return Item{Kind: KindParam, Unit: unit, Moniker: moniker, Params: params}
}

// Validate reports whether the item has a well-formed shape.
func (it Item) Validate() error {
	switch it.Kind {
	case KindPlain:
		if it.Name == "" {
			return fmt.Errorf("%w: plain item with empty name", ErrInvalidRequest)
		}
		if it.Unit != "" || it.Moniker != "" || it.Params != nil {
			return fmt.Errorf("%w: plain item %q carries parameterized fields", ErrInvalidRequest, it.Name)
		}
	case KindParam:
		if it.Unit == "" {
			return fmt.Errorf("%w: parameterized item with empty unit", ErrInvalidRequest)
		}
		if it.Moniker == "" {
			return fmt.Errorf("%w: parameterized item %q with empty moniker", ErrInvalidRequest, it.Unit)
		}
	default:
		return fmt.Errorf("%w: unknown item kind %d", ErrInvalidRequest, it.Kind)
	}
	return nil
}

// Clone returns a copy of it that shares no maps or slices with the original.
func (it Item) Clone() Item {
	out := it
	if it.Params != nil {
		out.Params = cloneMap(it.Params)
	}
	return out
}

// UnmarshalYAML decodes either a scalar ("Foo") or a mapping
// ({unit: Bar, moniker: Baz, params: {...}}).
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*it = Plain(node.Value)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Unit    string         `yaml:"unit"`
			Moniker string         `yaml:"moniker"`
			Params  map[string]any `yaml:"params"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Params == nil {
			raw.Params = map[string]any{}
		}
		*it = Param(raw.Unit, raw.Moniker, raw.Params)
		return nil
	default:
		return fmt.Errorf("%w: line %d: item must be a string or a mapping", ErrInvalidRequest, node.Line)
	}
}

// MarshalYAML encodes the item in the form accepted by UnmarshalYAML.
func (it Item) MarshalYAML() (any, error) {
	if it.Kind == KindPlain {
		return it.Name, nil
	}
	return map[string]any{
		"unit":    it.Unit,
		"moniker": it.Moniker,
		"params":  it.Params,
	}, nil
}

// MarshalJSON encodes the item in the same shape as MarshalYAML.
func (it Item) MarshalJSON() ([]byte, error) {
	v, err := it.MarshalYAML()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Request is an ordered list of items.
type Request []Item

// Validate checks every item of r.
func (r Request) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: empty request", ErrInvalidRequest)
	}
	for i, it := range r {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	if r == nil {
		return nil
	}
	out := make(Request, len(r))
	for i, it := range r {
		out[i] = it.Clone()
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return uref.Clone(m).(map[string]any)
}
