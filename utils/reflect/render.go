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

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

const (
	// Undef is rendered for absent values (nil, nil pointers, nil interfaces).
	Undef = "<undef>"
	// SeqSep joins the elements of a sequence value.
	SeqSep = "-"
	// MaxUnwrap limits how many pointer/interface levels Render follows and
	// how deep it descends into nested containers.
	MaxUnwrap = 8
)

// Render returns a stable plain-text form of v suitable for canonical keys.
//
// Rendering policy:
//   - nil, nil pointer, nil interface -> Undef
//   - ptr/interface                   -> rendering of Elem()
//   - slice/array                     -> elements rendered and joined with SeqSep
//   - map                             -> "{k => v, ...}" sorted by rendered key
//   - anything else                   -> its plain text form
//
// []byte is treated as text, not as a sequence of numbers.
func Render(v any) string {
	if v == nil {
		return Undef
	}
	return render(reflect.ValueOf(v), 0)
}

func render(rv reflect.Value, depth int) string {
	for i := 0; rv.IsValid() && i < MaxUnwrap; i++ {
		if rv.Kind() != reflect.Ptr && rv.Kind() != reflect.Interface {
			break
		}
		if rv.IsNil() {
			return Undef
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Undef
	}
	if depth >= MaxUnwrap {
		return fmt.Sprint(rv.Interface())
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Undef
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return scalar(rv)
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = render(rv.Index(i), depth+1)
		}
		return strings.Join(parts, SeqSep)

	case reflect.Map:
		if rv.IsNil() {
			return Undef
		}
		type kv struct{ k, v string }
		pairs := make([]kv, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, kv{
				k: render(iter.Key(), depth+1),
				v: render(iter.Value(), depth+1),
			})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })
		parts := make([]string, len(pairs))
		for i, p := range pairs {
			parts[i] = p.k + " => " + p.v
		}
		return "{" + strings.Join(parts, ", ") + "}"

	default:
		return scalar(rv)
	}
}

// scalar renders a non-container value via cast, falling back to fmt.
func scalar(rv reflect.Value) string {
	if !rv.CanInterface() {
		return fmt.Sprint(rv)
	}
	v := rv.Interface()
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
