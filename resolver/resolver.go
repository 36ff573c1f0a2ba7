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

package resolver

import (
	"context"
	"errors"

	"dirpx.dev/cfx/apis"
)

// ErrNotFound is wrapped when no source handles an identifier.
var ErrNotFound = errors.New("cfx(resolver): no source provides unit")

// New constructs an apis.Resolver that tries the given sources in order.
// Nil sources are ignored. The returned resolver is safe for concurrent use
// provided the sources themselves are.
func New(sources ...apis.Source) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Source, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{sources: out}
}

// chain is an immutable, order-preserving resolver over a set of sources.
type chain struct {
	sources []apis.Source
}

// Resolve runs sources in order until one handles id. Every failure is
// reported as an *apis.ResolutionError naming id.
func (r chain) Resolve(ctx context.Context, id string, params map[string]any) (apis.Unit, error) {
	for _, s := range r.sources {
		if err := ctx.Err(); err != nil {
			return apis.Unit{}, &apis.ResolutionError{Unit: id, Err: err}
		}
		u, handled, err := s.TryResolve(ctx, id, params)
		if !handled {
			continue
		}
		if err != nil {
			var re *apis.ResolutionError
			if errors.As(err, &re) {
				return apis.Unit{}, err
			}
			return apis.Unit{}, &apis.ResolutionError{Unit: id, Err: err}
		}
		return u, nil
	}
	return apis.Unit{}, &apis.ResolutionError{Unit: id, Err: ErrNotFound}
}

// Func adapts a function to apis.Source.
type Func func(ctx context.Context, id string, params map[string]any) (apis.Unit, bool, error)

// TryResolve calls f.
func (f Func) TryResolve(ctx context.Context, id string, params map[string]any) (apis.Unit, bool, error) {
	return f(ctx, id, params)
}
