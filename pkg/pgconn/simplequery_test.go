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

package pgconn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/pkg/message"
)

func TestParseRowDescriptionSingleField(t *testing.T) {
	body := message.NewWriter()
	body.WriteInt16(1)
	body.WriteString("id")
	body.WriteUint32(0)
	body.WriteInt16(0)
	body.WriteUint32(23)
	body.WriteInt16(4)
	body.WriteInt32(-1)
	body.WriteInt16(0)

	fields, err := parseRowDescription(body.Bytes())
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "id", fields[0].Name)
	assert.Equal(t, uint32(23), fields[0].DataTypeOID)
}

func TestParseDataRowWithNullColumn(t *testing.T) {
	body := message.NewWriter()
	body.WriteInt16(2)
	body.WriteByteString([]byte("hello"))
	body.WriteByteString(nil)

	r, err := parseDataRow(body.Bytes(), nil)
	require.NoError(t, err)
	require.Len(t, r.Values, 2)
	assert.Equal(t, "hello", string(r.Values[0]))
	assert.True(t, r.Values[1].IsNull())
}

func TestParseCommandCompleteReadsTag(t *testing.T) {
	body := message.NewWriter()
	body.WriteString("UPDATE 10")
	tag, err := parseCommandComplete(body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "UPDATE 10", tag)
}

func TestSqlLiteralQuotesString(t *testing.T) {
	assert.Equal(t, "'it''s'", sqlLiteral("it's"))
}

func TestSqlLiteralRendersStringSliceAsArray(t *testing.T) {
	assert.Equal(t, "ARRAY['a','b''c']", sqlLiteral([]string{"a", "b'c"}))
}

func TestSqlLiteralRendersStringSliceEmpty(t *testing.T) {
	assert.Equal(t, "ARRAY[]", sqlLiteral([]string{}))
}

func TestSimpleInterpolateSubstitutesArrayPlaceholder(t *testing.T) {
	got := simpleInterpolate("SELECT * FROM t WHERE name = ANY($1::text[])", []any{[]string{"x", "y"}})
	assert.Equal(t, "SELECT * FROM t WHERE name = ANY(ARRAY['x','y']::text[])", got)
}

func TestParseRowsAffected(t *testing.T) {
	cases := map[string]uint64{
		"SELECT 5":    5,
		"INSERT 0 1":  1,
		"UPDATE 10":   10,
		"DELETE 0":    0,
		"CREATE TABLE": 0,
		"BEGIN":       0,
	}
	for tag, want := range cases {
		assert.Equal(t, want, parseRowsAffected(tag), "tag %q", tag)
	}
}
