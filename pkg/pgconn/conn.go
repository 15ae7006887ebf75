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
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/pgerror"
	"github.com/pgwire/pgwire/pkg/protocol"
	"github.com/pgwire/pgwire/pkg/row"
	"github.com/pgwire/pgwire/pkg/typeio"
	"github.com/pgwire/pgwire/pkg/wire"
)

var tracer = otel.Tracer("github.com/pgwire/pgwire/pkg/pgconn")

// Conn is a client connection to a PostgreSQL server: the wire protocol
// state machine sits here, on top of a wire.Transport.
type Conn struct {
	transport *wire.Transport
	config    *Config

	// mu serializes access to the transport. Only one request/response
	// exchange may be in flight at a time; the protocol has no way to
	// multiplex messages belonging to different calls.
	mu sync.Mutex

	processID uint32
	secretKey uint32

	serverParams map[string]string
	txnStatus    protocol.TransactionStatus

	types *typeio.Registry

	notifications chan *row.Notification

	closed atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// Connect dials the server, negotiates TLS if configured, and completes
// the startup and authentication handshake.
func Connect(ctx context.Context, config *Config) (*Conn, error) {
	network, addr := config.address()
	transport, err := wire.Dial(ctx, wire.DialOptions{
		Network:     network,
		Address:     addr,
		DialTimeout: config.DialTimeout,
		TLSConfig:   config.TLSConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("pgconn: %w", err)
	}

	connCtx, cancel := context.WithCancel(ctx)
	c := &Conn{
		transport:     transport,
		config:        config,
		serverParams:  make(map[string]string),
		txnStatus:     protocol.TxnStatusIdle,
		notifications: make(chan *row.Notification, notificationBacklog),
		ctx:           connCtx,
		cancel:        cancel,
	}
	c.types = typeio.NewRegistry(c)

	if err := c.startup(ctx); err != nil {
		_ = c.transport.Close()
		cancel()
		return nil, fmt.Errorf("pgconn: startup: %w", err)
	}

	return c, nil
}

// Close terminates the connection, sending a Terminate message first on
// a best-effort basis.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancel()

	c.mu.Lock()
	_ = c.transport.Writer.WriteFrame(protocol.MsgTerminate, nil)
	_ = c.transport.Writer.Flush()
	c.mu.Unlock()

	return c.transport.Conn.Close()
}

// IsClosed reports whether Close has been called.
func (c *Conn) IsClosed() bool { return c.closed.Load() }

// ProcessID returns the backend process ID, used to build cancel
// requests.
func (c *Conn) ProcessID() uint32 { return c.processID }

// SecretKey returns the backend's cancellation secret key.
func (c *Conn) SecretKey() uint32 { return c.secretKey }

// ServerParams returns the server parameters reported via
// ParameterStatus (server_version, server_encoding, DateStyle, ...).
func (c *Conn) ServerParams() map[string]string { return c.serverParams }

// TxnStatus returns the most recently reported transaction status byte.
func (c *Conn) TxnStatus() protocol.TransactionStatus { return c.txnStatus }

// Types returns the connection's type registry, used to decode
// arbitrary OIDs beyond the fixed set pkg/pgtype covers directly.
func (c *Conn) Types() *typeio.Registry { return c.types }

// Notifications returns the channel NotificationResponse messages are
// delivered to. The channel is unbuffered beyond notificationBacklog; a
// consumer that falls behind will see the connection closed rather than
// stall the read loop that also carries ordinary query results.
func (c *Conn) Notifications() <-chan *row.Notification { return c.notifications }

// RemoteAddr returns the server's network address.
func (c *Conn) RemoteAddr() net.Addr { return c.transport.Conn.RemoteAddr() }

// SetDeadline, SetReadDeadline, and SetWriteDeadline forward to the
// underlying transport.
func (c *Conn) SetDeadline(t time.Time) error      { return c.transport.SetDeadline(t) }
func (c *Conn) SetReadDeadline(t time.Time) error  { return c.transport.SetReadDeadline(t) }
func (c *Conn) SetWriteDeadline(t time.Time) error { return c.transport.SetWriteDeadline(t) }

func (c *Conn) startTraceSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// handleParameterStatus records a ParameterStatus update, delivered
// either during startup or asynchronously between queries whenever the
// server's runtime configuration changes (e.g. a SET or a session pool
// reassigning a connection).
func (c *Conn) handleParameterStatus(body []byte) error {
	r := message.NewReader(body)
	name, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("pgconn: reading ParameterStatus name: %w", err)
	}
	value, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("pgconn: reading ParameterStatus value: %w", err)
	}
	c.serverParams[name] = value
	return nil
}

// handleNotification decodes a NotificationResponse and delivers it to
// the Notifications channel without blocking the caller: if the channel
// is full, the connection is considered faulted and closed, since a
// dropped notification cannot be recovered.
func (c *Conn) handleNotification(body []byte) error {
	r := message.NewReader(body)
	pid, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("pgconn: reading NotificationResponse pid: %w", err)
	}
	channel, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("pgconn: reading NotificationResponse channel: %w", err)
	}
	payload, err := r.ReadString()
	if err != nil {
		return fmt.Errorf("pgconn: reading NotificationResponse payload: %w", err)
	}

	n := &row.Notification{ProcessID: pid, Channel: channel, Payload: payload}
	select {
	case c.notifications <- n:
	default:
		// Every caller already holds c.mu, which Close would take again,
		// so shut the socket down directly.
		if c.closed.CompareAndSwap(false, true) {
			c.cancel()
			_ = c.transport.Conn.Close()
		}
		return fmt.Errorf("pgconn: notification channel full, connection closed")
	}
	return nil
}

// readErrorDiagnostic parses an ErrorResponse body into a Diagnostic and
// wraps it as an error.
func readErrorDiagnostic(body []byte) error {
	d, err := pgerror.ParseDiagnostic(protocol.MsgErrorResponse, body)
	if err != nil {
		return fmt.Errorf("pgconn: parsing ErrorResponse: %w", err)
	}
	return pgerror.NewServerError(d)
}
