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

package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"dirpx.dev/cfx/apis"
)

var (
	// ErrEmptyName is returned when an entry without a type name is recorded.
	ErrEmptyName = errors.New("cfx(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to record a second
	// entry for an already registered type name.
	ErrConflictingRegistration = errors.New("cfx(registry): conflicting registration")
)

// New constructs an in-memory, append-only Registry.
func New() *Memory {
	return &Memory{byName: make(map[string]int)}
}

// Memory is an apis.Registry kept in process memory.
type Memory struct {
	// mu guards entries and byName.
	mu sync.RWMutex
	// entries in insertion order.
	entries []apis.Entry
	// byName indexes entries by type name.
	byName map[string]int
}

// Ensure Memory implements apis.Registry.
var _ apis.Registry = (*Memory)(nil)

// Record appends e. A missing ID is filled with a fresh UUID and a zero
// CreatedAt with the current time. The request is stored as a deep copy.
func (r *Memory) Record(e apis.Entry) error {
	_, err := r.record(e)
	return err
}

func (r *Memory) record(e apis.Entry) (apis.Entry, error) {
	if e.Name == "" {
		return apis.Entry{}, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[e.Name]; ok {
		return apis.Entry{}, ErrConflictingRegistration
	}

	e = fill(e)
	r.byName[e.Name] = len(r.entries)
	r.entries = append(r.entries, e)
	return e, nil
}

// Lookup returns the entry recorded for a type name.
func (r *Memory) Lookup(name string) (apis.Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byName[name]
	if !ok {
		return apis.Entry{}, false
	}
	return clone(r.entries[i]), true
}

// Entries returns a snapshot in insertion order.
func (r *Memory) Entries() []apis.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]apis.Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = clone(e)
	}
	return out
}

// Count returns the number of recorded entries.
func (r *Memory) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// fill completes the generated fields of e and detaches it from caller data.
func fill(e apis.Entry) apis.Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return clone(e)
}

func clone(e apis.Entry) apis.Entry {
	e.Request = e.Request.Clone()
	e.Units = append([]string(nil), e.Units...)
	return e
}
