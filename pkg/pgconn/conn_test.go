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

	"github.com/pgwire/pgwire/pkg/frame"
	"github.com/pgwire/pgwire/pkg/protocol"
)

func TestCloseSendsTerminateAndIsIdempotent(t *testing.T) {
	c, server := newPipeConn(t)
	assert.False(t, c.IsClosed())

	done := make(chan struct{})
	go func() {
		defer close(done)
		r := frame.NewReader(server)
		f, err := r.ReadFrame()
		if err == nil {
			assert.Equal(t, byte(protocol.MsgTerminate), f.Kind)
		}
	}()

	require.NoError(t, c.Close())
	<-done
	assert.True(t, c.IsClosed())

	assert.NoError(t, c.Close())
}

func TestAccessorsReflectConnState(t *testing.T) {
	c, _ := newPipeConn(t)
	c.processID = 777
	c.secretKey = 888
	c.txnStatus = protocol.TxnStatusInBlock

	assert.Equal(t, uint32(777), c.ProcessID())
	assert.Equal(t, uint32(888), c.SecretKey())
	assert.Equal(t, protocol.TxnStatusInBlock, c.TxnStatus())
	assert.NotNil(t, c.ServerParams())
	assert.NotNil(t, c.Notifications())
}
