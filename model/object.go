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
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	uref "dirpx.dev/cfx/utils/reflect"
)

var (
	// ErrUnknownField is returned for fields the type does not declare.
	ErrUnknownField = errors.New("cfx(model): unknown field")
	// ErrMissingField is returned when a required field is not supplied.
	ErrMissingField = errors.New("cfx(model): missing required field")
	// ErrReadOnly is returned when setting a read-only attribute.
	ErrReadOnly = errors.New("cfx(model): read-only attribute")
	// ErrNoMethod is returned when calling a method the type lacks.
	ErrNoMethod = errors.New("cfx(model): no such method")
	// ErrNotFrozen is returned when instantiating an unfinished type.
	ErrNotFrozen = errors.New("cfx(model): type is not frozen")
)

// Object is an instance of a composite type.
type Object struct {
	typ    *Type
	mu     sync.RWMutex
	fields map[string]any
}

// New constructs an instance from fields. Attributes not supplied take their
// default; required attributes must be supplied. A strict type rejects
// fields it does not declare; a lax one ignores them.
func (t *Type) New(fields map[string]any) (*Object, error) {
	if !t.frozen {
		return nil, ErrNotFrozen
	}
	if t.strict {
		var unknown []string
		for k := range fields {
			if _, ok := t.attrs[k]; !ok {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, fmt.Errorf("%w: %s for %s", ErrUnknownField, strings.Join(unknown, ", "), t.name)
		}
	}

	o := &Object{typ: t, fields: make(map[string]any, len(t.attrs))}
	for _, n := range t.order {
		a := t.attrs[n]
		if v, ok := fields[n]; ok {
			o.fields[n] = v
			continue
		}
		if a.Required {
			return nil, fmt.Errorf("%w: %s for %s", ErrMissingField, n, t.name)
		}
		if a.Default != nil {
			o.fields[n] = uref.Clone(a.Default)
		}
	}
	return o, nil
}

// Type returns the object's type.
func (o *Object) Type() *Type { return o.typ }

// Does reports whether the object's type applied unit.
func (o *Object) Does(unit string) bool { return o.typ.Does(unit) }

// Get returns the value of attribute name.
func (o *Object) Get(name string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.fields[name]
	return v, ok
}

// Set assigns attribute name.
func (o *Object) Set(name string, v any) error {
	a, ok := o.typ.attrs[name]
	if !ok {
		return fmt.Errorf("%w: %s for %s", ErrUnknownField, name, o.typ.name)
	}
	if a.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	o.mu.Lock()
	o.fields[name] = v
	o.mu.Unlock()
	return nil
}

// Call dispatches method name with args.
func (o *Object) Call(name string, args ...any) (any, error) {
	m, ok := o.typ.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrNoMethod, name, o.typ.name)
	}
	if m.Fn == nil {
		return nil, nil
	}
	return m.Fn(o, args...)
}
