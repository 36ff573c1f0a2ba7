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

package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/resolver"
	"dirpx.dev/cfx/source"
)

func fixed(name string, calls *int) apis.Source {
	return resolver.Func(func(_ context.Context, id string, _ map[string]any) (apis.Unit, bool, error) {
		*calls++
		if id != name {
			return apis.Unit{}, false, nil
		}
		return apis.Unit{Name: id}, true, nil
	})
}

func TestResolve_FirstHandlingSourceWins(t *testing.T) {
	var a, b int
	first := source.NewCatalog()
	require.NoError(t, first.Add(apis.Unit{Name: "X", Requires: []string{"from-first"}}))

	r := resolver.New(nil, first, fixed("X", &a), fixed("Y", &b))

	u, err := r.Resolve(context.Background(), "X", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"from-first"}, u.Requires)
	assert.Equal(t, 0, a, "later sources are not consulted")

	u, err = r.Resolve(context.Background(), "Y", nil)
	require.NoError(t, err)
	assert.Equal(t, "Y", u.Name)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestResolve_NotFound(t *testing.T) {
	r := resolver.New()

	_, err := r.Resolve(context.Background(), "Missing::Unit", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apis.ErrResolution))
	assert.True(t, errors.Is(err, resolver.ErrNotFound))
	var re *apis.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Missing::Unit", re.Unit)
	assert.Contains(t, err.Error(), "Missing::Unit")
}

func TestResolve_SourceErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	r := resolver.New(resolver.Func(func(context.Context, string, map[string]any) (apis.Unit, bool, error) {
		return apis.Unit{}, true, boom
	}))

	_, err := r.Resolve(context.Background(), "X", nil)
	assert.ErrorIs(t, err, apis.ErrResolution)
	assert.ErrorIs(t, err, boom)
}

func TestResolve_CanceledContext(t *testing.T) {
	var calls int
	r := resolver.New(fixed("X", &calls))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "X", nil)
	assert.ErrorIs(t, err, apis.ErrResolution)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
