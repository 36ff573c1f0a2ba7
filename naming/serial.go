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

// Serial is a base-26 odometer over upper-case letters: "AA", "AB", ...
// "AZ", "BA", ... "ZZ", "AAA". It is not safe for concurrent use; the owner
// serializes access.
type Serial struct {
	cur []byte
}

// firstSerial is the first value handed out.
const firstSerial = "AA"

// NewSerial returns a counter whose next value is "AA".
func NewSerial() *Serial {
	return &Serial{}
}

// Peek returns the value Next would return without advancing.
func (s *Serial) Peek() string {
	if s.cur == nil {
		return firstSerial
	}
	return string(increment(s.cur))
}

// Next advances the counter and returns the new value.
func (s *Serial) Next() string {
	if s.cur == nil {
		s.cur = []byte(firstSerial)
	} else {
		s.cur = increment(s.cur)
	}
	return string(s.cur)
}

// Current returns the last value handed out, or "" if none.
func (s *Serial) Current() string {
	return string(s.cur)
}

// Clone returns an independent copy of s.
func (s *Serial) Clone() *Serial {
	if s.cur == nil {
		return &Serial{}
	}
	return &Serial{cur: append([]byte(nil), s.cur...)}
}

// increment returns the successor of b as a new slice, growing by one letter
// when every position wraps ("ZZ" -> "AAA").
func increment(b []byte) []byte {
	out := append([]byte(nil), b...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] < 'Z' {
			out[i]++
			return out
		}
		out[i] = 'A'
	}
	return append([]byte{'A'}, out...)
}
