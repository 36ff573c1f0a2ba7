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

import "context"

// Resolver materializes behavior units from identifiers.
type Resolver interface {
	// Resolve loads the unit named id. params is nil for plain units and
	// non-nil (possibly empty) for parameterized ones. A unit that cannot be
	// located or loaded fails with an error matching ErrResolution.
	Resolve(ctx context.Context, id string, params map[string]any) (Unit, error)
}

// Source is a pluggable resolution step. A Resolver can chain multiple
// sources in order (e.g., in-memory catalog -> YAML manifests).
type Source interface {
	// TryResolve attempts to materialize id. It returns handled=false to fall
	// through to the next source; a non-nil error with handled=true aborts.
	TryResolve(ctx context.Context, id string, params map[string]any) (u Unit, handled bool, err error)
}
