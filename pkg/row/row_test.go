// Copyright 2026 Supabase, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package row

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueIsNull(t *testing.T) {
	assert.True(t, Value(nil).IsNull())
	assert.False(t, Value([]byte{}).IsNull())
	assert.False(t, Value([]byte("x")).IsNull())
}

func TestRowGetOutOfRange(t *testing.T) {
	r := &Row{Values: []Value{[]byte("a")}}
	assert.Equal(t, Value([]byte("a")), r.Get(0))
	assert.Nil(t, r.Get(1))
	assert.Nil(t, r.Get(-1))
}

func TestRowNamed(t *testing.T) {
	r := &Row{
		Fields: []*Field{{Name: "id"}, {Name: "name"}},
		Values: []Value{[]byte("1"), []byte("alice")},
	}

	v, ok := r.Named("name")
	require.True(t, ok)
	assert.Equal(t, Value([]byte("alice")), v)

	_, ok = r.Named("missing")
	assert.False(t, ok)
}

func TestRowTransform(t *testing.T) {
	r := &Row{
		Fields: []*Field{{Name: "n"}, {Name: "s"}},
		Values: []Value{[]byte("42"), nil},
	}

	out, err := r.Transform(func(f *Field, v Value) (any, error) {
		if v.IsNull() {
			return nil, nil
		}
		return f.Name + ":" + string(v), nil
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "n:42", out[0])
	assert.Nil(t, out[1])
}

func TestRowTransformPropagatesError(t *testing.T) {
	r := &Row{Values: []Value{[]byte("x")}}
	boom := errors.New("boom")
	_, err := r.Transform(func(f *Field, v Value) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
