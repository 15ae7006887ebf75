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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapTheirSentinel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"protocol", Protocolf("bad frame kind %c", 'x'), ErrProtocol},
		{"authentication", Authenticationf("unsupported mechanism %q", "gss"), ErrAuthentication},
		{"transport", Transportf("dial failed"), ErrTransport},
		{"parameter", Parameterf("wrong count"), ErrParameter},
		{"state", Statef("no open transaction"), ErrState},
		{"copy", Copyf("receiver closed"), ErrCopy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
			for _, other := range []error{ErrProtocol, ErrAuthentication, ErrTransport, ErrParameter, ErrState, ErrCopy} {
				if other == tt.want {
					continue
				}
				assert.NotErrorIs(t, tt.err, other)
			}
		})
	}
}

func TestServerErrorWrapsErrServerAndDiagnostic(t *testing.T) {
	diag := &Diagnostic{Severity: "ERROR", Code: "23505", Message: "duplicate key"}
	err := NewServerError(diag)

	assert.ErrorIs(t, err, ErrServer)

	var got *ServerError
	require := assert.New(t)
	require.True(errors.As(err, &got))
	assert.Same(t, diag, got.Diagnostic)
	assert.Equal(t, "ERROR: duplicate key (SQLSTATE 23505)", err.Error())
}
