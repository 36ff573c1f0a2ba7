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

package naming

import "strings"

const (
	// Separator joins the parts of a composite identifier.
	Separator = "::"
	// Marker is the leading disambiguation character stripped from segments.
	Marker = "="
	// flat replaces Separator inside non-leading segments.
	flat = "_"
)

// Builder accumulates the parts of a composite identifier, starting from the
// basename.
type Builder struct {
	parts []string
}

// NewBuilder starts a name under basename.
func NewBuilder(basename string) *Builder {
	return &Builder{parts: []string{basename}}
}

// Add appends the segment derived from raw. A single leading Marker is
// stripped; Separator inside raw is flattened to "_" once more than one part
// (the basename included) has been accumulated, so only the first segment
// keeps its hierarchy.
func (b *Builder) Add(raw string) {
	seg := strings.TrimPrefix(raw, Marker)
	if len(b.parts) > 1 {
		seg = strings.ReplaceAll(seg, Separator, flat)
	}
	b.parts = append(b.parts, seg)
}

// Segments returns the accumulated segments, excluding the basename.
func (b *Builder) Segments() []string {
	return append([]string(nil), b.parts[1:]...)
}

// String joins all parts with Separator.
func (b *Builder) String() string {
	return strings.Join(b.parts, Separator)
}

// Suffixed returns name with "_" and serial appended.
func Suffixed(name, serial string) string {
	return name + flat + serial
}
