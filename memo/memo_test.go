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

package memo_test

import (
	"runtime"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/cfx/apis"
	"dirpx.dev/cfx/memo"
)

func TestTable_GetSet(t *testing.T) {
	m := memo.New()

	_, ok := m.Get("Foo")
	require.False(t, ok)
	require.Equal(t, 0, m.Len())

	m.Set("Foo", "App::Foo")
	id, ok := m.Get("Foo")
	require.True(t, ok)
	assert.Equal(t, "App::Foo", id)
	assert.Equal(t, 1, m.Len())

	m.Set("Foo", "App::Foo_AA")
	id, _ = m.Get("Foo")
	assert.Equal(t, "App::Foo_AA", id)
	assert.Equal(t, 1, m.Len())
}

func TestTable_KeysSorted(t *testing.T) {
	m := memo.New()
	m.Set("b", "B")
	m.Set("a", "A")
	m.Set("c", "C")

	assert.Equal(t, []apis.Key{"a", "b", "c"}, m.Keys())
}

func TestTable_IndependentInstances(t *testing.T) {
	a, b := memo.New(), memo.New()
	a.Set("k", "A")

	_, ok := b.Get("k")
	assert.False(t, ok)
}

func TestTable_ConcurrentReaders(t *testing.T) {
	m := memo.New()
	for i := 0; i < 100; i++ {
		m.Set(apis.Key(strconv.Itoa(i)), "id"+strconv.Itoa(i))
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				k := strconv.Itoa(i % 100)
				if got, ok := m.Get(apis.Key(k)); !ok || got != "id"+k {
					t.Errorf("Get(%s) = (%q,%v)", k, got, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
}
