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

// Package wire is the transport layer underneath the connection state
// machine: dialing TCP or a Unix socket, the optional SSL negotiation
// handshake that upgrades the raw socket to TLS before the startup
// packet is sent, and the buffered frame reader/writer pair every higher
// layer reads and writes through.
package wire

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/pgwire/pgwire/pkg/bufpool"
	"github.com/pgwire/pgwire/pkg/frame"
	"github.com/pgwire/pgwire/pkg/protocol"
)

// defaultMinBuf/defaultMaxBuf size the pooled read buffers used for COPY
// data chunks; ordinary messages are sized individually by frame.Reader.
const (
	defaultMinBuf = 4 * 1024
	defaultMaxBuf = 1 << 20
)

// Transport bundles a dialed connection with the frame codec and a
// buffer pool for COPY chunk reuse.
type Transport struct {
	Conn   net.Conn
	Reader *frame.Reader
	Writer *frame.Writer
	Pool   *bufpool.Pool
}

// DialOptions configures Dial.
type DialOptions struct {
	// Network is "tcp" or "unix".
	Network string
	// Address is host:port for tcp, or the socket path for unix.
	Address string
	// DialTimeout bounds the initial connect. Zero means no timeout.
	DialTimeout time.Duration
	// TLSConfig, if non-nil, triggers an SSL negotiation request
	// immediately after connecting and before the startup packet.
	TLSConfig *tls.Config
}

// Dial opens the underlying socket, performs SSL negotiation if
// configured, and wraps the result in buffered frame reader/writer.
func Dial(ctx context.Context, opts DialOptions) (*Transport, error) {
	dialer := net.Dialer{Timeout: opts.DialTimeout}
	conn, err := dialer.DialContext(ctx, opts.Network, opts.Address)
	if err != nil {
		return nil, fmt.Errorf("wire: dial %s %s: %w", opts.Network, opts.Address, err)
	}

	if opts.TLSConfig != nil {
		conn, err = negotiateTLS(conn, opts.TLSConfig)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	br := bufio.NewReader(conn)
	bw := bufio.NewWriter(conn)

	return &Transport{
		Conn:   conn,
		Reader: frame.NewReader(br),
		Writer: frame.NewWriter(bw),
		Pool:   bufpool.New(defaultMinBuf, defaultMaxBuf),
	}, nil
}

// negotiateTLS sends an SSLRequest and, if the server agrees, performs a
// TLS client handshake over the same socket. The wire exchange is a
// single byte: 'S' to proceed, 'N' to refuse (plaintext only).
func negotiateTLS(conn net.Conn, tlsConfig *tls.Config) (net.Conn, error) {
	fw := frame.NewWriter(conn)
	if err := fw.WriteRawUint32(8); err != nil {
		return nil, fmt.Errorf("wire: writing SSLRequest length: %w", err)
	}
	if err := fw.WriteRawUint32(protocol.SSLRequestCode); err != nil {
		return nil, fmt.Errorf("wire: writing SSLRequest code: %w", err)
	}
	if err := fw.Flush(); err != nil {
		return nil, fmt.Errorf("wire: flushing SSLRequest: %w", err)
	}

	var resp [1]byte
	if _, err := conn.Read(resp[:]); err != nil {
		return nil, fmt.Errorf("wire: reading SSL negotiation response: %w", err)
	}

	switch resp[0] {
	case 'N':
		return nil, fmt.Errorf("wire: server does not support SSL")
	case 'S':
		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.HandshakeContext(context.Background()); err != nil {
			return nil, fmt.Errorf("wire: TLS handshake: %w", err)
		}
		return tlsConn, nil
	default:
		return nil, fmt.Errorf("wire: unexpected SSL negotiation response 0x%02x", resp[0])
	}
}

// SetDeadline, SetReadDeadline, and SetWriteDeadline forward to the
// underlying net.Conn.
func (t *Transport) SetDeadline(d time.Time) error      { return t.Conn.SetDeadline(d) }
func (t *Transport) SetReadDeadline(d time.Time) error  { return t.Conn.SetReadDeadline(d) }
func (t *Transport) SetWriteDeadline(d time.Time) error { return t.Conn.SetWriteDeadline(d) }

// Close closes the underlying socket.
func (t *Transport) Close() error { return t.Conn.Close() }
