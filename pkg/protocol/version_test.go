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

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtocolVersionMajorMinor(t *testing.T) {
	v := NewProtocolVersion(3, 0)
	assert.Equal(t, uint16(3), v.Major())
	assert.Equal(t, uint16(0), v.Minor())
	assert.Equal(t, "3.0", v.String())
}

func TestProtocolVersionSupported(t *testing.T) {
	assert.True(t, ProtocolVersionNumber.IsSupported())
	assert.False(t, NewProtocolVersion(2, 0).IsSupported())
	assert.False(t, NewProtocolVersion(4, 0).IsSupported())
}

func TestProtocolVersionEncoding(t *testing.T) {
	v := NewProtocolVersion(3, 1)
	assert.Equal(t, uint32(3)<<16|1, uint32(v))
}
