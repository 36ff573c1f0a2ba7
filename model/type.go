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

package model

import (
	"fmt"
	"sort"

	"dirpx.dev/cfx/apis"
	uref "dirpx.dev/cfx/utils/reflect"
)

// attribute is an apis.Attribute together with the unit that provided it.
type attribute struct {
	apis.Attribute
	origin string
}

// method is an apis.Method together with the unit that provided it.
type method struct {
	apis.Method
	origin string
}

// Type is a composite type. It is mutable until frozen by its Runtime.
type Type struct {
	rt      *Runtime
	name    string
	units   []string
	attrs   map[string]*attribute
	order   []string
	methods map[string]method
	strict  bool
	frozen  bool
}

// Ensure Type implements apis.MutableType.
var _ apis.MutableType = (*Type)(nil)

func newType(name string, rt *Runtime) *Type {
	return &Type{
		rt:      rt,
		name:    name,
		attrs:   make(map[string]*attribute),
		methods: make(map[string]method),
	}
}

// Name returns the type identifier.
func (t *Type) Name() string { return t.name }

// Frozen reports whether the type is immutable.
func (t *Type) Frozen() bool { return t.frozen }

// Strict reports whether the constructor rejects unknown fields.
func (t *Type) Strict() bool { return t.strict }

// Units returns the applied unit names in application order.
func (t *Type) Units() []string {
	return append([]string(nil), t.units...)
}

// Does reports whether unit was applied to t.
func (t *Type) Does(unit string) bool {
	for _, u := range t.units {
		if u == unit {
			return true
		}
	}
	return false
}

// Members returns all attribute and method names, sorted.
func (t *Type) Members() []string {
	out := make([]string, 0, len(t.attrs)+len(t.methods))
	for n := range t.attrs {
		out = append(out, n)
	}
	for n := range t.methods {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Attributes returns the attribute definitions in declaration order.
func (t *Type) Attributes() []apis.Attribute {
	out := make([]apis.Attribute, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, t.attrs[n].definition())
	}
	return out
}

// Attribute returns the definition of the named attribute.
func (t *Type) Attribute(name string) (apis.Attribute, bool) {
	a, ok := t.attrs[name]
	if !ok {
		return apis.Attribute{}, false
	}
	return a.definition(), true
}

// definition returns a copy that shares no default value with t.
func (a *attribute) definition() apis.Attribute {
	out := a.Attribute
	out.Default = uref.Clone(a.Default)
	return out
}

// HasMethod reports whether t can dispatch name.
func (t *Type) HasMethod(name string) bool {
	_, ok := t.methods[name]
	return ok
}

// SetStrict makes the constructor reject unknown fields.
func (t *Type) SetStrict() error {
	if t.frozen {
		return apis.ErrFrozen
	}
	t.strict = true
	return nil
}

// SetReadOnly marks the named attribute read-only after construction.
func (t *Type) SetReadOnly(name string) error {
	return t.updateAttr(name, func(a *attribute) { a.ReadOnly = true })
}

// SetRequired marks the named attribute as required by the constructor.
func (t *Type) SetRequired(name string) error {
	return t.updateAttr(name, func(a *attribute) { a.Required = true })
}

func (t *Type) updateAttr(name string, fn func(*attribute)) error {
	if t.frozen {
		return apis.ErrFrozen
	}
	a, ok := t.attrs[name]
	if !ok {
		return fmt.Errorf("%w: %q on %s", ErrUnknownField, name, t.name)
	}
	fn(a)
	return nil
}

func (t *Type) has(member string) bool {
	if _, ok := t.attrs[member]; ok {
		return true
	}
	_, ok := t.methods[member]
	return ok
}

// merge adds the members of u. record controls whether u is listed in Units
// (the base capability set is not).
func (t *Type) merge(u apis.Unit, record bool) error {
	if t.frozen {
		return apis.ErrFrozen
	}
	for _, a := range u.Attributes {
		if m, ok := t.methods[a.Name]; ok {
			return conflict(a.Name, m.origin, u.Name)
		}
		if prev, ok := t.attrs[a.Name]; ok {
			if prev.origin == u.Name || sameAttribute(prev.Attribute, a) {
				continue
			}
			return conflict(a.Name, prev.origin, u.Name)
		}
		// Defaults are copied so the type does not change with the unit.
		a.Default = uref.Clone(a.Default)
		t.attrs[a.Name] = &attribute{Attribute: a, origin: u.Name}
		t.order = append(t.order, a.Name)
	}
	for _, m := range u.Methods {
		origin := m.Origin
		if origin == "" {
			origin = u.Name
		}
		if _, ok := t.attrs[m.Name]; ok {
			return conflict(m.Name, t.attrs[m.Name].origin, u.Name)
		}
		if prev, ok := t.methods[m.Name]; ok {
			if prev.origin == origin {
				continue
			}
			return conflict(m.Name, prev.origin, u.Name)
		}
		t.methods[m.Name] = method{Method: m, origin: origin}
	}
	if record {
		t.units = append(t.units, u.Name)
	}
	return nil
}

func conflict(member, a, b string) error {
	units := []string{a, b}
	sort.Strings(units)
	return &apis.ConflictError{Member: member, Units: units, Reason: "provides"}
}
