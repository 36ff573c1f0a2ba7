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

// Runtime is the object-model runtime composite types are built against.
// The Runtime, not the Compositor, decides what makes two units conflict.
type Runtime interface {
	// Exists reports whether name already denotes a published type.
	Exists(name string) bool
	// CreateType merges base and units into a fresh, unpublished type.
	// Incompatible units fail with an error matching ErrConflict.
	CreateType(name string, base Unit, units []Unit) (MutableType, error)
	// ApplyTransform applies a post-composition transform to t.
	ApplyTransform(t MutableType, spec TransformSpec) (MutableType, error)
	// Freeze makes t immutable and publishes it under its name.
	Freeze(t MutableType) (Type, error)
	// Lookup returns a published type by name.
	Lookup(name string) (Type, bool)
}

// Type is a frozen composite type.
type Type interface {
	// Name returns the globally unique identifier of the type.
	Name() string
	// Units returns the applied unit names, in application order.
	Units() []string
	// Members returns the names of all members, sorted.
	Members() []string
	// Frozen reports whether the type's shape is final.
	Frozen() bool
}

// MutableType is a type under construction.
type MutableType interface {
	Type
}
