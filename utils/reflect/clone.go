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

package reflect

import "reflect"

// MaxCloneDepth bounds how deep Clone descends; deeper values are shared.
// It also stops reference cycles.
const MaxCloneDepth = 64

// Clone returns a deep copy of v. Maps, slices, arrays, pointers and
// interfaces are copied recursively, so the result shares no mutable
// container with v. Struct values are copied as values; channels, funcs and
// unexported struct internals are shared.
func Clone(v any) any {
	if v == nil {
		return nil
	}
	return clone(reflect.ValueOf(v), 0).Interface()
}

func clone(rv reflect.Value, depth int) reflect.Value {
	if depth >= MaxCloneDepth {
		return rv
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(clone(rv.Elem(), depth+1))
		return out

	case reflect.Ptr:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type().Elem())
		out.Elem().Set(clone(rv.Elem(), depth+1))
		return out

	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(clone(rv.Index(i), depth+1))
		}
		return out

	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(clone(rv.Index(i), depth+1))
		}
		return out

	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), clone(iter.Value(), depth+1))
		}
		return out

	default:
		return rv
	}
}
