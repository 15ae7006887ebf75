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
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/pkg/frame"
	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
	"github.com/pgwire/pgwire/pkg/row"
	"github.com/pgwire/pgwire/pkg/wire"
)

// newPipeConn wires a Conn directly to one end of an in-memory net.Pipe,
// with the test controlling the other end as a stand-in server. This
// exercises the frame-dispatch logic in DrainAsync without a real
// PostgreSQL server or the full startup handshake.
func newPipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()

	transport := &wire.Transport{
		Conn:   client,
		Reader: frame.NewReader(bufio.NewReader(client)),
		Writer: frame.NewWriter(bufio.NewWriter(client)),
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		transport:     transport,
		serverParams:  make(map[string]string),
		notifications: make(chan *row.Notification, notificationBacklog),
		ctx:           ctx,
		cancel:        cancel,
	}
	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })
	return c, server
}

func writeFrame(t *testing.T, conn net.Conn, kind byte, body []byte) {
	t.Helper()
	w := frame.NewWriter(conn)
	require.NoError(t, w.WriteFrame(kind, body))
	require.NoError(t, w.Flush())
}

func TestDrainAsyncDeliversNotification(t *testing.T) {
	c, server := newPipeConn(t)

	body := message.NewWriter()
	body.WriteUint32(4242)
	body.WriteString("channel1")
	body.WriteString("payload1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		writeFrame(t, server, protocol.MsgNotificationResponse, body.Bytes())
	}()

	err := c.DrainAsync(context.Background(), 500*time.Millisecond)
	require.NoError(t, err)
	<-done

	select {
	case n := <-c.Notifications():
		assert.Equal(t, uint32(4242), n.ProcessID)
		assert.Equal(t, "channel1", n.Channel)
		assert.Equal(t, "payload1", n.Payload)
	default:
		t.Fatal("expected a delivered notification")
	}
}

func TestDrainAsyncTimesOutCleanly(t *testing.T) {
	c, _ := newPipeConn(t)
	err := c.DrainAsync(context.Background(), 50*time.Millisecond)
	assert.NoError(t, err)
}

func TestDrainAsyncUpdatesParameterStatus(t *testing.T) {
	c, server := newPipeConn(t)

	body := message.NewWriter()
	body.WriteString("TimeZone")
	body.WriteString("UTC")

	done := make(chan struct{})
	go func() {
		defer close(done)
		writeFrame(t, server, protocol.MsgParameterStatus, body.Bytes())
	}()

	err := c.DrainAsync(context.Background(), 500*time.Millisecond)
	require.NoError(t, err)
	<-done
	assert.Equal(t, "UTC", c.ServerParams()["TimeZone"])
}
