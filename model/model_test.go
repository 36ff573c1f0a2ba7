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

package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/model"
)

func greeter() apis.Unit {
	return apis.Unit{
		Name:       "Role::Greeter",
		Attributes: []apis.Attribute{{Name: "greeting", Default: "hello"}},
		Methods: []apis.Method{{
			Name: "greet",
			Fn: func(self any, args ...any) (any, error) {
				o := self.(*model.Object)
				g, _ := o.Get("greeting")
				return g.(string) + " " + args[0].(string), nil
			},
		}},
	}
}

func named() apis.Unit {
	return apis.Unit{
		Name:       "Role::Named",
		Attributes: []apis.Attribute{{Name: "name", Required: true}},
	}
}

func build(t *testing.T, rt *model.Runtime, name string, units ...apis.Unit) *model.Type {
	t.Helper()
	mt, err := rt.CreateType(name, apis.Unit{Name: "Object"}, units)
	require.NoError(t, err)
	ft, err := rt.Freeze(mt)
	require.NoError(t, err)
	return ft.(*model.Type)
}

func TestCreateType_MergesUnits(t *testing.T) {
	rt := model.New()
	typ := build(t, rt, "App::Person", greeter(), named())

	assert.Equal(t, "App::Person", typ.Name())
	assert.Equal(t, []string{"Role::Greeter", "Role::Named"}, typ.Units())
	assert.Equal(t, []string{"greet", "greeting", "name"}, typ.Members())
	assert.True(t, typ.Frozen())
	assert.True(t, typ.Does("Role::Named"))
	assert.False(t, typ.Does("Object"), "base is not listed as a unit")

	obj, err := typ.New(map[string]any{"name": "ada"})
	require.NoError(t, err)
	out, err := obj.Call("greet", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
	v, _ := obj.Get("name")
	assert.Equal(t, "ada", v)
}

func TestCreateType_SameUnitTwiceIsIdempotent(t *testing.T) {
	rt := model.New()
	typ := build(t, rt, "App::Twice", greeter(), greeter())
	assert.Equal(t, []string{"Role::Greeter"}, typ.Units())
}

func TestCreateType_IdenticalAttributesCompatible(t *testing.T) {
	rt := model.New()
	a := apis.Unit{Name: "A", Attributes: []apis.Attribute{{Name: "id"}}}
	b := apis.Unit{Name: "B", Attributes: []apis.Attribute{{Name: "id"}}}
	typ := build(t, rt, "App::AB", a, b)
	assert.Equal(t, []string{"id"}, typ.Members())
}

func TestCreateType_Conflicts(t *testing.T) {
	rt := model.New()
	cases := []struct {
		name   string
		units  []apis.Unit
		member string
		reason string
	}{
		{
			name: "different attributes",
			units: []apis.Unit{
				{Name: "A", Attributes: []apis.Attribute{{Name: "id", Default: 1}}},
				{Name: "B", Attributes: []apis.Attribute{{Name: "id", Default: 2}}},
			},
			member: "id", reason: "provides",
		},
		{
			name: "two methods",
			units: []apis.Unit{
				{Name: "A", Methods: []apis.Method{{Name: "run"}}},
				{Name: "B", Methods: []apis.Method{{Name: "run"}}},
			},
			member: "run", reason: "provides",
		},
		{
			name: "attribute vs method",
			units: []apis.Unit{
				{Name: "A", Attributes: []apis.Attribute{{Name: "run"}}},
				{Name: "B", Methods: []apis.Method{{Name: "run"}}},
			},
			member: "run", reason: "provides",
		},
		{
			name: "unmet requirement",
			units: []apis.Unit{
				{Name: "A", Requires: []string{"save"}},
			},
			member: "save", reason: "requires",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rt.CreateType("App::X", apis.Unit{}, tc.units)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apis.ErrConflict))
			var ce *apis.ConflictError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.member, ce.Member)
			assert.Equal(t, tc.reason, ce.Reason)
		})
	}
	assert.False(t, rt.Exists("App::X"), "failed types are never published")
}

func TestCreateType_RequirementMetByLaterUnit(t *testing.T) {
	rt := model.New()
	needs := apis.Unit{Name: "Needs", Requires: []string{"name"}}
	typ := build(t, rt, "App::Ok", needs, named())
	assert.Equal(t, []string{"Needs", "Role::Named"}, typ.Units())
}

func TestFreeze_PublishesOnce(t *testing.T) {
	rt := model.New()
	mt, err := rt.CreateType("App::A", apis.Unit{}, []apis.Unit{greeter()})
	require.NoError(t, err)
	assert.False(t, rt.Exists("App::A"), "unfrozen types are not visible")

	_, err = rt.Freeze(mt)
	require.NoError(t, err)
	assert.True(t, rt.Exists("App::A"))
	got, ok := rt.Lookup("App::A")
	require.True(t, ok)
	assert.Equal(t, "App::A", got.Name())

	mt2, err := rt.CreateType("App::A", apis.Unit{}, nil)
	require.NoError(t, err)
	_, err = rt.Freeze(mt2)
	assert.ErrorIs(t, err, model.ErrNameTaken)

	_, err = rt.ApplyTransform(mt, apis.TransformSpec{Name: model.TransformStrict})
	assert.ErrorIs(t, err, apis.ErrFrozen)
}

func TestDefine(t *testing.T) {
	rt := model.New()
	typ, err := rt.Define("App::Existing", named())
	require.NoError(t, err)
	assert.True(t, typ.Frozen())
	assert.True(t, rt.Exists("App::Existing"))
	assert.Equal(t, []string{"App::Existing"}, rt.Names())
}

func TestForeignType(t *testing.T) {
	a, b := model.New(), model.New()
	mt, err := a.CreateType("App::A", apis.Unit{}, nil)
	require.NoError(t, err)

	_, err = b.Freeze(mt)
	assert.ErrorIs(t, err, model.ErrForeignType)
}

func TestCreateType_DefaultsDetachedFromUnit(t *testing.T) {
	rt := model.New()
	tags := []int{1, 2}
	limits := map[string]int{"x": 1}
	u := apis.Unit{Name: "Tagged", Attributes: []apis.Attribute{
		{Name: "tags", Default: tags},
		{Name: "limits", Default: limits},
	}}
	typ := build(t, rt, "App::Tagged", u)

	tags[0] = 99
	limits["x"] = 42

	a, ok := typ.Attribute("tags")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, a.Default)
	a, ok = typ.Attribute("limits")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"x": 1}, a.Default)

	// Accessors and objects hand out copies as well.
	a.Default.(map[string]int)["x"] = 7
	obj, err := typ.New(nil)
	require.NoError(t, err)
	v, _ := obj.Get("limits")
	v.(map[string]int)["x"] = 8
	a, _ = typ.Attribute("limits")
	assert.Equal(t, map[string]int{"x": 1}, a.Default)
}
