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

package naming

import "strings"

// Expand rewrites every identifier in ids according to prefixes.
// See ExpandOne for the per-identifier rule. The input slice is not modified.
func Expand(ids []string, prefixes map[string]string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = ExpandOne(id, prefixes)
	}
	return out
}

// ExpandOne replaces the longest key of prefixes that id starts with by the
// mapped value. The empty key matches every identifier and therefore acts as
// the default; an empty value strips the matched prefix. Without a match the
// identifier is returned unchanged.
func ExpandOne(id string, prefixes map[string]string) string {
	best, found := "", false
	for p := range prefixes {
		if !strings.HasPrefix(id, p) {
			continue
		}
		if !found || len(p) > len(best) {
			best, found = p, true
		}
	}
	if !found {
		return id
	}
	return prefixes[best] + id[len(best):]
}
