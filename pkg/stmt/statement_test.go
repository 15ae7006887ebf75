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

package stmt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextNameIsUniqueAndIncreasing(t *testing.T) {
	a := nextName()
	b := nextName()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^pgwire_stmt_\d+$`, a)
	assert.Regexp(t, `^pgwire_stmt_\d+$`, b)
}

func TestBindParamsRejectsWrongArgCount(t *testing.T) {
	s := &Statement{paramTypes: []uint32{23, 25}}
	_, _, err := s.bindParams(context.Background(), []any{1})
	assert.Error(t, err)
}

func TestBindParamsAllowsAnyCountWhenUnresolved(t *testing.T) {
	// When a statement describes zero parameters (e.g. it was never
	// actually Described, or genuinely takes none), bindParams can't
	// validate arg count up front and defers to encoding, which is
	// exercised only with a live connection elsewhere.
	s := &Statement{}
	_, _, err := s.bindParams(context.Background(), nil)
	assert.NoError(t, err)
}
