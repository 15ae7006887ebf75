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

package scram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSaltedPasswordIsDeterministic(t *testing.T) {
	salt := []byte("fixedsalt")
	a := computeSaltedPassword("hunter2", salt, 4096)
	b := computeSaltedPassword("hunter2", salt, 4096)
	assert.Equal(t, a, b)
	assert.Len(t, a, sha256Size)

	c := computeSaltedPassword("different", salt, 4096)
	assert.NotEqual(t, a, c)
}

func TestKeyDerivationChainIsStable(t *testing.T) {
	saltedPassword := computeSaltedPassword("hunter2", []byte("salt"), 4096)
	clientKey := computeClientKey(saltedPassword)
	serverKey := computeServerKey(saltedPassword)
	storedKey := computeStoredKey(clientKey)

	assert.NotEqual(t, clientKey, serverKey)
	assert.NotEqual(t, clientKey, storedKey)
	assert.Len(t, storedKey, sha256Size)
}

func TestXorBytesRoundTrips(t *testing.T) {
	a := []byte{0x01, 0x02, 0x03}
	b := []byte{0xff, 0x00, 0xaa}
	xored, err := xorBytes(a, b)
	require.NoError(t, err)

	back, err := xorBytes(xored, b)
	require.NoError(t, err)
	assert.Equal(t, a, back)
}

func TestXorBytesRejectsLengthMismatch(t *testing.T) {
	_, err := xorBytes([]byte{1, 2, 3}, []byte{1, 2})
	assert.Error(t, err)
}

func TestBuildAuthMessageJoinsWithCommas(t *testing.T) {
	msg := buildAuthMessage("bare", "first", "finalNoProof")
	assert.Equal(t, "bare,first,finalNoProof", msg)
}
