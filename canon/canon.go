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

// Package canon derives canonical keys from composition requests.
//
// A key depends only on the semantic content of a request: the order of its
// items and the order in which parameter maps were populated do not matter.
package canon

import (
	"sort"
	"strings"

	"dirpx.dev/cfx/apis"
	uref "dirpx.dev/cfx/utils/reflect"
)

// ItemSep joins rendered items.
const ItemSep = "; "

// Key returns the canonical key of req. Items are validated first; a
// malformed item yields an error matching apis.ErrInvalidRequest.
func Key(req apis.Request) (apis.Key, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	rendered := make([]string, len(req))
	for i, it := range req {
		rendered[i] = RenderItem(it)
	}
	sort.Strings(rendered)
	return apis.Key(strings.Join(rendered, ItemSep)), nil
}

// RenderItem renders a single item: the identifier itself for plain items,
// "moniker : { k1 => v1, k2 => v2 }" for parameterized ones.
func RenderItem(it apis.Item) string {
	if it.Kind != apis.KindParam {
		return it.Name
	}
	return it.Moniker + " : { " + RenderParams(it.Params) + " }"
}

// RenderParams renders params sorted by key as "k => v" pairs joined by ", ".
func RenderParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(" => ")
		sb.WriteString(uref.Render(params[k]))
	}
	return sb.String()
}
