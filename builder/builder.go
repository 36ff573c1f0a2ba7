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

package builder

import (
	"context"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/memo"
	"dirpx.dev/cfx/registry"
)

// New creates and returns a new instance of an apis.Builder that keeps all
// state in process memory.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildMemo returns a fresh, empty memoization table.
func (b *builder) BuildMemo(_ apis.Config) apis.Memo {
	return memo.New()
}

// BuildRegistry returns a fresh, empty in-memory registry.
func (b *builder) BuildRegistry(_ apis.Config) (apis.Registry, error) {
	return registry.New(), nil
}

// SQLite returns an apis.Builder whose registries are journaled to the
// SQLite database at path. Each BuildRegistry call opens a new session and
// the caller must Close the returned *registry.SQLite.
func SQLite(path string) apis.Builder {
	return &sqliteBuilder{path: path}
}

type sqliteBuilder struct {
	builder
	path string
}

// BuildRegistry opens a journaled registry session.
func (b *sqliteBuilder) BuildRegistry(_ apis.Config) (apis.Registry, error) {
	return registry.OpenSQLite(context.Background(), b.path)
}
