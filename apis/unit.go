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

// MethodFunc implements a method contributed by a unit. self is the
// receiving instance; its concrete type is defined by the Runtime.
type MethodFunc func(self any, args ...any) (any, error)

// Attribute is a piece of state a unit contributes to a composite type.
type Attribute struct {
	Name     string `yaml:"name"`
	Default  any    `yaml:"default,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	ReadOnly bool   `yaml:"readonly,omitempty"`
}

// Method is a behavior a unit contributes to a composite type.
type Method struct {
	Name string
	Fn   MethodFunc
	// Origin identifies the definition so that re-applying the same unit is
	// recognized as idempotent. Defaults to the providing unit's name.
	Origin string
}

// Unit is a resolved behavior unit: a data description of the members it
// provides and requires. Parameterized units are already instantiated.
type Unit struct {
	// Name is the fully-qualified unit identifier.
	Name string
	// Attributes provided by the unit.
	Attributes []Attribute
	// Methods provided by the unit.
	Methods []Method
	// Requires lists member names that must be provided by the base or by
	// another unit of the same composite.
	Requires []string
}

// Members returns the names of all members provided by u.
func (u Unit) Members() []string {
	out := make([]string, 0, len(u.Attributes)+len(u.Methods))
	for _, a := range u.Attributes {
		out = append(out, a.Name)
	}
	for _, m := range u.Methods {
		out = append(out, m.Name)
	}
	return out
}
