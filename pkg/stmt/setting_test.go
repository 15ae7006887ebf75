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

// SettingUpdate's empty-map case returns before ever touching conn, so
// it's reachable here with a nil *pgconn.Conn; everything else in this
// file issues a real query and is covered by the package's integration
// suite against a live server instead (see DESIGN.md's test coverage
// boundary note).
func TestSettingUpdateNoopOnEmptyMap(t *testing.T) {
	err := SettingUpdate(context.Background(), nil, nil)
	assert.NoError(t, err)

	err = SettingUpdate(context.Background(), nil, map[string]string{})
	assert.NoError(t, err)
}
