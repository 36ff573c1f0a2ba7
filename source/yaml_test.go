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

package source_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/model"
	"dirpx.dev/cfx/source"
)

const manifest = `
units:
  - name: App::Role::Named
    attributes:
      - name: name
        required: true
    methods:
      - name: describe
        returns: "I am ${name}"
  - name: App::Role::Counter
    template: true
    params: [name]
    attributes:
      - name: "${name}_count"
        default: 0
    methods:
      - name: "inc_${name}"
        increments: "${name}_count"
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"units/roles.yaml":   {Data: []byte(manifest)},
		"units/README.md":    {Data: []byte("ignored")},
		"units/extra/x.yml":  {Data: []byte("units:\n  - name: App::Role::Extra\n    requires: [name]\n")},
		"elsewhere/bad.yaml": {Data: []byte(":::")},
	}
}

func TestLoadYAML(t *testing.T) {
	c, err := source.LoadYAML(testFS(), "units")
	require.NoError(t, err)
	assert.Equal(t, []string{"App::Role::Counter", "App::Role::Extra", "App::Role::Named"}, c.Names())
	assert.True(t, c.IsTemplate("App::Role::Counter"))

	u, handled, err := c.TryResolve(context.Background(), "App::Role::Extra", nil)
	require.NoError(t, err)
	require.True(t, handled)
	assert.Equal(t, []string{"name"}, u.Requires)
}

func TestLoadYAML_TemplateInstancesWork(t *testing.T) {
	c, err := source.LoadYAML(testFS(), "units")
	require.NoError(t, err)
	ctx := context.Background()

	named, _, err := c.TryResolve(ctx, "App::Role::Named", nil)
	require.NoError(t, err)
	hits, _, err := c.TryResolve(ctx, "App::Role::Counter", map[string]any{"name": "hits"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hits_count", "inc_hits"}, hits.Members())

	hits.Name = "App::Role::Counter[hits]"
	rt := model.New()
	mt, err := rt.CreateType("App::Thing", apis.Unit{}, []apis.Unit{named, hits})
	require.NoError(t, err)
	ft, err := rt.Freeze(mt)
	require.NoError(t, err)

	obj, err := ft.(*model.Type).New(map[string]any{"name": "ada"})
	require.NoError(t, err)

	out, err := obj.Call("describe")
	require.NoError(t, err)
	assert.Equal(t, "I am ada", out)

	out, err = obj.Call("inc_hits")
	require.NoError(t, err)
	assert.Equal(t, 1, out)
	out, err = obj.Call("inc_hits", 5)
	require.NoError(t, err)
	assert.Equal(t, 6, out)
}

func TestLoadYAML_MissingParam(t *testing.T) {
	c, err := source.LoadYAML(testFS(), "units")
	require.NoError(t, err)

	_, handled, err := c.TryResolve(context.Background(), "App::Role::Counter", map[string]any{})
	assert.True(t, handled)
	assert.ErrorIs(t, err, source.ErrMissingParam)
}

func TestLoadYAML_Errors(t *testing.T) {
	_, err := source.LoadYAML(testFS(), "elsewhere")
	assert.Error(t, err)

	dup := fstest.MapFS{
		"u/a.yaml": {Data: []byte("units:\n  - name: A\n")},
		"u/b.yaml": {Data: []byte("units:\n  - name: A\n")},
	}
	_, err = source.LoadYAML(dup, "u")
	assert.ErrorIs(t, err, source.ErrDuplicateUnit)

	_, err = source.LoadYAML(fstest.MapFS{}, "missing")
	assert.Error(t, err)
}
