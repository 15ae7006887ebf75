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

package pgtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyTextRowRoundTrip(t *testing.T) {
	fields := [][]byte{[]byte("hello\tworld\n"), nil, []byte(`back\slash`), []byte("")}
	encoded := EncodeCopyTextRow(fields)
	assert.True(t, encoded[len(encoded)-1] == '\n')

	decoded := DecodeCopyTextRow(encoded[:len(encoded)-1])
	require.Len(t, decoded, len(fields))
	assert.Equal(t, fields[0], decoded[0])
	assert.Nil(t, decoded[1])
	assert.Equal(t, fields[2], decoded[2])
	assert.Equal(t, fields[3], decoded[3])
}

func TestCopyTextRowEscapesSpecialBytes(t *testing.T) {
	encoded := EncodeCopyTextRow([][]byte{[]byte("a\tb\nc\rd\\e")})
	assert.Contains(t, string(encoded), `a\tb\nc\rd\\e`)
}

func TestCopyBinaryHeaderRoundTrip(t *testing.T) {
	hdr := EncodeCopyBinaryHeader()
	n, err := ValidateCopyBinaryHeader(hdr)
	require.NoError(t, err)
	assert.Equal(t, len(hdr), n)
}

func TestValidateCopyBinaryHeaderRejectsWrongSignature(t *testing.T) {
	_, err := ValidateCopyBinaryHeader(make([]byte, 20))
	assert.Error(t, err)
}

func TestValidateCopyBinaryHeaderRejectsTruncated(t *testing.T) {
	_, err := ValidateCopyBinaryHeader([]byte("short"))
	assert.Error(t, err)
}

func TestCopyBinaryRowRoundTrip(t *testing.T) {
	fields := [][]byte{[]byte("a"), nil, []byte("bcd")}
	encoded := EncodeCopyBinaryRow(fields)

	decoded, trailer, err := DecodeCopyBinaryRow(encoded)
	require.NoError(t, err)
	assert.False(t, trailer)
	assert.Equal(t, fields, decoded)
}

func TestCopyBinaryRowTrailer(t *testing.T) {
	trailerBytes := []byte{0xFF, 0xFF} // int16(-1)
	decoded, trailer, err := DecodeCopyBinaryRow(trailerBytes)
	require.NoError(t, err)
	assert.True(t, trailer)
	assert.Nil(t, decoded)
}

func TestDecodeCopyBinaryRowRejectsTruncated(t *testing.T) {
	_, _, err := DecodeCopyBinaryRow([]byte{0})
	assert.Error(t, err)
}

func TestDecodeCopyBinaryRowRejectsFieldTruncated(t *testing.T) {
	encoded := EncodeCopyBinaryRow([][]byte{[]byte("abcdef")})
	_, _, err := DecodeCopyBinaryRow(encoded[:len(encoded)-2])
	assert.Error(t, err)
}
