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

// Package model is an in-process object-model runtime for composite types.
//
// A composite type is pure data: a set of attributes and methods merged from
// a base capability set and an ordered list of behavior units. Instances
// (Object) dispatch method calls dynamically through the type's method
// table. Types are built in three steps, CreateType, ApplyTransform and
// Freeze, and become visible to Lookup/Exists only once frozen.
package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/cfx/apis"
)

var (
	// ErrNameTaken is returned when freezing a type under a published name.
	ErrNameTaken = errors.New("cfx(model): type name already published")
	// ErrForeignType is returned for types not created by this runtime.
	ErrForeignType = errors.New("cfx(model): type not created by this runtime")
	// ErrUnknownTransform is returned for transform names with no handler.
	ErrUnknownTransform = errors.New("cfx(model): unknown transform")
)

// TransformFunc mutates a type under construction.
type TransformFunc func(t *Type, args map[string]any) error

// Option configures a Runtime.
type Option func(*Runtime)

// WithTransform registers (or replaces) a named transform.
func WithTransform(name string, fn TransformFunc) Option {
	return func(r *Runtime) {
		r.transforms[name] = fn
	}
}

// New constructs a Runtime with the built-in transforms registered.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		types:      make(map[string]*Type),
		transforms: builtinTransforms(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Runtime implements apis.Runtime.
type Runtime struct {
	// mu guards types.
	mu sync.RWMutex
	// types holds every published (frozen) type by name.
	types map[string]*Type
	// transforms is fixed after New.
	transforms map[string]TransformFunc
}

// Ensure Runtime implements apis.Runtime.
var _ apis.Runtime = (*Runtime)(nil)

// Define creates and publishes a type directly from a single unit. It models
// types that exist independently of any composition.
func (r *Runtime) Define(name string, u apis.Unit) (*Type, error) {
	mt, err := r.CreateType(name, apis.Unit{}, []apis.Unit{u})
	if err != nil {
		return nil, err
	}
	ft, err := r.Freeze(mt)
	if err != nil {
		return nil, err
	}
	return ft.(*Type), nil
}

// Exists reports whether name denotes a published type.
func (r *Runtime) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[name]
	return ok
}

// Lookup returns the published type called name.
func (r *Runtime) Lookup(name string) (apis.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return nil, false
	}
	return t, true
}

// Names returns all published type names, sorted.
func (r *Runtime) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for n := range r.types {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// CreateType merges base and units into a new, unpublished type.
//
// Members are merged in order: base first, then each unit. Applying the same
// unit twice is a no-op. Two different units providing the same member name
// conflict unless they provide identical attributes; a unit's requirements
// must be met by the merged result regardless of unit order.
func (r *Runtime) CreateType(name string, base apis.Unit, units []apis.Unit) (apis.MutableType, error) {
	t := newType(name, r)

	if err := t.merge(base, false); err != nil {
		return nil, err
	}
	applied := map[string]bool{}
	for _, u := range units {
		if applied[u.Name] {
			continue
		}
		applied[u.Name] = true
		if err := t.merge(u, true); err != nil {
			return nil, err
		}
	}

	for _, u := range append([]apis.Unit{base}, units...) {
		for _, req := range u.Requires {
			if !t.has(req) {
				return nil, &apis.ConflictError{Member: req, Units: []string{u.Name}, Reason: "requires"}
			}
		}
	}
	return t, nil
}

// ApplyTransform runs the transform named by spec against t.
func (r *Runtime) ApplyTransform(mt apis.MutableType, spec apis.TransformSpec) (apis.MutableType, error) {
	t, err := r.own(mt)
	if err != nil {
		return nil, err
	}
	if t.frozen {
		return nil, apis.ErrFrozen
	}
	fn, ok := r.transforms[spec.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", apis.ErrInvalidConfig, ErrUnknownTransform, spec.Name)
	}
	if err := fn(t, spec.Args); err != nil {
		return nil, fmt.Errorf("transform %q: %w", spec.Name, err)
	}
	return t, nil
}

// Freeze makes t immutable and publishes it.
func (r *Runtime) Freeze(mt apis.MutableType) (apis.Type, error) {
	t, err := r.own(mt)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrNameTaken, t.name)
	}
	t.frozen = true
	r.types[t.name] = t
	return t, nil
}

func (r *Runtime) own(mt apis.MutableType) (*Type, error) {
	t, ok := mt.(*Type)
	if !ok || t.rt != r {
		return nil, ErrForeignType
	}
	return t, nil
}

// sameAttribute reports whether two attribute definitions are interchangeable.
func sameAttribute(a, b apis.Attribute) bool {
	return reflect.DeepEqual(a, b)
}
