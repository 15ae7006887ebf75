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

package pgerror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
)

func buildDiagnosticBody(fields map[byte]string) []byte {
	w := message.NewWriter()
	for code, val := range fields {
		w.WriteByte(code)
		w.WriteString(val)
	}
	w.WriteByte(0)
	return w.Bytes()
}

func TestParseDiagnosticFullError(t *testing.T) {
	body := buildDiagnosticBody(map[byte]string{
		protocol.FieldSeverity: "ERROR",
		protocol.FieldCode:     "42601",
		protocol.FieldMessage:  "syntax error at or near \"SLECT\"",
		protocol.FieldPosition: "8",
		protocol.FieldHint:     "did you mean SELECT?",
	})

	d, err := ParseDiagnostic(protocol.MsgErrorResponse, body)
	require.NoError(t, err)

	assert.Equal(t, "ERROR", d.Severity)
	assert.Equal(t, "42601", d.Code)
	assert.Equal(t, "syntax error at or near \"SLECT\"", d.Message)
	assert.Equal(t, int32(8), d.Position)
	assert.Equal(t, "did you mean SELECT?", d.Hint)
	assert.True(t, d.IsError())
	assert.False(t, d.IsNotice())
	assert.Equal(t, "42", d.SQLSTATEClass())
	assert.True(t, d.IsClass("42"))
	assert.False(t, d.IsFatal())
	assert.Equal(t, `ERROR: syntax error at or near "SLECT" (SQLSTATE 42601)`, d.FullError())
}

func TestParseDiagnosticUnknownFieldIgnored(t *testing.T) {
	body := buildDiagnosticBody(map[byte]string{
		protocol.FieldSeverity: "NOTICE",
		protocol.FieldCode:     "00000",
		protocol.FieldMessage:  "hello",
		'Z':                    "some future field this runtime doesn't know",
	})
	d, err := ParseDiagnostic(protocol.MsgNoticeResponse, body)
	require.NoError(t, err)
	assert.True(t, d.IsNotice())
	assert.Equal(t, "hello", d.Message)
}

func TestParseDiagnosticTruncatedBody(t *testing.T) {
	w := message.NewWriter()
	w.WriteByte(protocol.FieldSeverity)
	w.WriteBytes([]byte("ERROR")) // missing NUL terminator and terminating zero code
	_, err := ParseDiagnostic(protocol.MsgErrorResponse, w.Bytes())
	assert.Error(t, err)
}

func TestDiagnosticIsFatal(t *testing.T) {
	for _, sev := range []string{"FATAL", "PANIC"} {
		d := &Diagnostic{Severity: sev}
		assert.True(t, d.IsFatal(), sev)
	}
	assert.False(t, (&Diagnostic{Severity: "ERROR"}).IsFatal())
}

func TestDiagnosticValidate(t *testing.T) {
	valid := &Diagnostic{MessageType: protocol.MsgErrorResponse, Severity: "ERROR", Code: "42601", Message: "bad"}
	assert.NoError(t, valid.Validate())

	invalid := &Diagnostic{MessageType: 0}
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MessageType is unset")
	assert.Contains(t, err.Error(), "Severity is empty")

	assert.Error(t, (*Diagnostic)(nil).Validate())
}

func TestAtoi32NegativeAndInvalid(t *testing.T) {
	assert.Equal(t, int32(-42), atoi32("-42"))
	assert.Equal(t, int32(0), atoi32("not-a-number"))
	assert.Equal(t, int32(123), atoi32("123"))
}
