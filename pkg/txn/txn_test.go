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

package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSavepointNameIsDeterministicPerDepth(t *testing.T) {
	assert.Equal(t, "__pg_savepoint_1__", savepointName(1))
	assert.Equal(t, "__pg_savepoint_2__", savepointName(2))
	assert.NotEqual(t, savepointName(1), savepointName(2))
}

func TestTxDepthReflectsNesting(t *testing.T) {
	top := &Tx{depth: 0}
	assert.Equal(t, 0, top.Depth())

	nested := &Tx{depth: 1, name: savepointName(1)}
	assert.Equal(t, 1, nested.Depth())
}
