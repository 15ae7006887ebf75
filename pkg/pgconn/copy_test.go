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

	"github.com/pgwire/pgwire/pkg/copypipe"
	"github.com/pgwire/pgwire/pkg/frame"
	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
)

func TestCopyInStreamAcceptSendsCopyData(t *testing.T) {
	c, server := newPipeConn(t)
	s := &CopyInStream{conn: c}

	done := make(chan error, 1)
	go func() { done <- s.Accept([]byte("row1\n"), false, "") }()

	r := frame.NewReader(server)
	f, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.MsgCopyData), f.Kind)
	assert.Equal(t, []byte("row1\n"), f.Body)
	require.NoError(t, <-done)
}

func TestCopyInStreamAcceptFailedSendsCopyFail(t *testing.T) {
	c, server := newPipeConn(t)
	s := &CopyInStream{conn: c}

	done := make(chan error, 1)
	go func() { done <- s.Accept(nil, true, "receiver broke") }()

	r := frame.NewReader(server)
	f, err := r.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.MsgCopyFail), f.Kind)

	msg := message.NewReader(f.Body)
	reason, err := msg.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "receiver broke", reason)
	require.NoError(t, <-done)
}

func TestCopyOutStreamReceiveReturnsChunksThenErrDone(t *testing.T) {
	c, server := newPipeConn(t)
	s := &CopyOutStream{conn: c}

	// net.Pipe writes block until the client reads, so the server side
	// writes from its own goroutine while Receive reads.
	go func() {
		w := frame.NewWriter(server)
		require.NoError(t, w.WriteFrame(protocol.MsgCopyData, []byte("chunk1")))
		require.NoError(t, w.WriteFrame(protocol.MsgCopyDone, nil))
		require.NoError(t, w.Flush())
	}()

	chunk, err := s.Receive()
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk1"), chunk)

	_, err = s.Receive()
	assert.ErrorIs(t, err, copypipe.ErrDone)
}

func TestCopyOutStreamReceivePropagatesServerError(t *testing.T) {
	c, server := newPipeConn(t)
	s := &CopyOutStream{conn: c}

	body := message.NewWriter()
	body.WriteByte(byte(protocol.FieldSeverity))
	body.WriteString("ERROR")
	body.WriteByte(byte(protocol.FieldCode))
	body.WriteString("57014")
	body.WriteByte(byte(protocol.FieldMessage))
	body.WriteString("query canceled")
	body.WriteByte(0)

	go func() {
		w := frame.NewWriter(server)
		require.NoError(t, w.WriteFrame(protocol.MsgErrorResponse, body.Bytes()))
		require.NoError(t, w.Flush())
	}()

	_, err := s.Receive()
	assert.Error(t, err)
}
