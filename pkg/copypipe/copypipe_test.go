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

package copypipe

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPumpChunksSource(t *testing.T) {
	src := strings.NewReader("hello world, this is a longer message than one chunk")
	var chunks [][]byte
	err := Pump(src, 8, func(b []byte) error {
		cp := append([]byte(nil), b...)
		chunks = append(chunks, cp)
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var joined []byte
	for _, c := range chunks {
		joined = append(joined, c...)
		assert.LessOrEqual(t, len(c), 8)
	}
	assert.Equal(t, "hello world, this is a longer message than one chunk", string(joined))
}

func TestPumpReadErrorWrapsProducerFault(t *testing.T) {
	boom := errors.New("disk exploded")
	src := &erroringReader{err: boom}
	err := Pump(src, 4, func(b []byte) error { return nil })

	var pf *ProducerFault
	require.ErrorAs(t, err, &pf)
	assert.ErrorIs(t, err, boom)
}

func TestPumpSendErrorPassesThrough(t *testing.T) {
	src := strings.NewReader("abcdefgh")
	sendErr := errors.New("wire broke")
	err := Pump(src, 4, func(b []byte) error { return sendErr })
	assert.ErrorIs(t, err, sendErr)

	var pf *ProducerFault
	assert.False(t, errors.As(err, &pf), "a send failure belongs to the connection, not the source")
}

func TestSinkWriteErrorWrapsReceiverFault(t *testing.T) {
	boom := errors.New("disk full")
	dst := &erroringWriter{err: boom}
	err := Sink(dst, []byte("data"))

	var rf *ReceiverFault
	require.ErrorAs(t, err, &rf)
	assert.ErrorIs(t, err, boom)
}

func TestSinkEmptyChunkNoop(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Sink(&buf, nil))
	assert.Empty(t, buf.Bytes())
}

func TestReconcilePrefersLocalError(t *testing.T) {
	local := errors.New("local")
	server := errors.New("server")

	assert.Equal(t, local, Reconcile(local, server))
	assert.Equal(t, server, Reconcile(nil, server))
	assert.NoError(t, Reconcile(nil, nil))
}

type erroringReader struct{ err error }

func (r *erroringReader) Read([]byte) (int, error) { return 0, r.err }

type erroringWriter struct{ err error }

func (w *erroringWriter) Write([]byte) (int, error) { return 0, w.err }
