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

// Memo maps canonical keys to previously produced type identifiers.
// Writers are serialized by the Compositor; reads may be concurrent.
type Memo interface {
	// Get returns the identifier stored under key.
	Get(key Key) (id string, ok bool)
	// Set stores id under key.
	Set(key Key, id string)
	// Len returns the number of memoized compositions.
	Len() int
}
