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

package frame

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteFrame('Q', []byte("SELECT 1\x00")))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	f, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte('Q'), f.Kind)
	assert.Equal(t, []byte("SELECT 1\x00"), f.Body)
}

func TestWriteReadFrameEmptyBody(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteFrame('S', nil))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	f, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte('S'), f.Kind)
	assert.Empty(t, f.Body)
}

func TestReadFrameMultiple(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteFrame('1', nil))
	require.NoError(t, w.WriteFrame('2', []byte("x")))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	f1, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte('1'), f1.Kind)

	f2, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte('2'), f2.Kind)
	assert.Equal(t, []byte("x"), f2.Body)
}

func TestReadFrameInvalidLength(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte('Q')
	buf.Write([]byte{0, 0, 0, 1}) // length 1: shorter than the 4-byte length field itself
	r := NewReader(&buf)
	_, err := r.ReadFrame()
	assert.Error(t, err)
}

func TestReadFrameTruncated(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte('Q')
	buf.Write([]byte{0, 0, 0, 10}) // claims 6 bytes of body, provides none
	r := NewReader(&buf)
	_, err := r.ReadFrame()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestStartupFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	body := []byte{0, 3, 0, 0} // protocol version 3.0
	require.NoError(t, w.WriteStartupFrame(body))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	got, err := r.ReadStartupFrame()
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestWriteRawUint32(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRawUint32(80877103)) // SSL request code
	require.NoError(t, w.Flush())
	assert.Equal(t, []byte{4, 210, 22, 47}, buf.Bytes())
}
