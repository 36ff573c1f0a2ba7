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

// Package memo provides the memoization table that maps canonical keys to
// composite type identifiers.
package memo

import (
	"sort"

	gocache "github.com/patrickmn/go-cache"

	"dirpx.dev/cfx/apis"
)

// New constructs an empty table. Entries never expire and no janitor
// goroutine is started; compositions live as long as their Compositor.
func New() *Table {
	return &Table{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Table is an apis.Memo backed by go-cache.
type Table struct {
	cache *gocache.Cache
}

// Ensure Table implements apis.Memo.
var _ apis.Memo = (*Table)(nil)

// Get returns the identifier stored under key.
func (t *Table) Get(key apis.Key) (string, bool) {
	v, found := t.cache.Get(string(key))
	if !found {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// Set stores id under key, replacing any previous value.
func (t *Table) Set(key apis.Key, id string) {
	t.cache.Set(string(key), id, gocache.NoExpiration)
}

// Len returns the number of memoized compositions.
func (t *Table) Len() int {
	return t.cache.ItemCount()
}

// Keys returns all memoized keys, sorted.
func (t *Table) Keys() []apis.Key {
	items := t.cache.Items()
	out := make([]apis.Key, 0, len(items))
	for k := range items {
		out = append(out, apis.Key(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
