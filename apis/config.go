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

// Config carries the construction-time settings of a Compositor.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Basename is the hierarchical identifier every composite name starts with
	// (e.g. "App" or "App::Roles"). Required.
	Basename string

	// PostTransforms are applied, in order, to every composite type after its
	// units have been merged and before it is frozen.
	PostTransforms []TransformSpec

	// Prefixes maps identifier prefixes to their expansion.
	// The empty key is the catch-all default; an empty value strips the prefix.
	Prefixes map[string]string

	// Base is the capability set every composite type starts from.
	Base Unit
}

// TransformSpec names a post-composition transform and its arguments.
type TransformSpec struct {
	// Name selects the transform known to the Runtime (e.g. "strict").
	Name string `yaml:"name" mapstructure:"name"`
	// Args carries transform-specific arguments.
	Args map[string]any `yaml:"args,omitempty" mapstructure:"args"`
}
