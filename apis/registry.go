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

import "time"

// Registry keeps the provenance of every composite type a Compositor built.
// It is append-only.
type Registry interface {
	// Record appends e.
	Record(e Entry) error
	// Entries returns a snapshot for diagnostics/docs. Implementations return
	// insertion order, but callers must not depend on it.
	Entries() []Entry
	// Count returns the number of recorded entries.
	Count() int
}

// Entry pairs a composite type identifier with the request that produced it.
type Entry struct {
	// ID uniquely identifies the entry (a UUID).
	ID string `json:"id"`
	// Name is the composite type identifier.
	Name string `json:"name"`
	// Key is the canonical key of Request.
	Key Key `json:"key"`
	// Request is the original, unrewritten request.
	Request Request `json:"request"`
	// Units are the applied unit names.
	Units []string `json:"units"`
	// CreatedAt is when the type was registered.
	CreatedAt time.Time `json:"created_at"`
}

// Key is a canonical, order-insensitive rendering of a Request.
type Key string
