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

package reflect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	uref "dirpx.dev/cfx/utils/reflect"
)

type label string

type point struct{ X, Y int }

func TestRender(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]any
	var nilSlice []string
	n := 7
	pn := &n

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, uref.Undef},
		{"nil pointer", nilPtr, uref.Undef},
		{"nil map", nilMap, uref.Undef},
		{"nil slice", nilSlice, uref.Undef},
		{"string", "hello", "hello"},
		{"named string", label("x"), "x"},
		{"int", 42, "42"},
		{"negative int64", int64(-3), "-3"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"bytes", []byte("raw"), "raw"},
		{"pointer", &n, "7"},
		{"double pointer", &pn, "7"},
		{"string slice", []string{"a", "b", "c"}, "a-b-c"},
		{"any slice with nil", []any{"a", nil, 3}, "a-<undef>-3"},
		{"array", [2]int{1, 2}, "1-2"},
		{"empty slice", []string{}, ""},
		{"map sorted", map[string]any{"b": 2, "a": []int{1, 2}}, "{a => 1-2, b => 2}"},
		{"struct", point{1, 2}, "{1 2}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, uref.Render(tc.in))
		})
	}
}

func TestRender_MapKeyOrderIndependent(t *testing.T) {
	a := map[string]any{}
	b := map[string]any{}
	keys := []string{"z", "m", "a", "q"}
	for i, k := range keys {
		a[k] = i
	}
	for i := len(keys) - 1; i >= 0; i-- {
		b[keys[i]] = i
	}
	assert.Equal(t, uref.Render(a), uref.Render(b))
}
