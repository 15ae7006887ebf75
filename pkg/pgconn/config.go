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

// Package pgconn is the connection state machine: startup and
// authentication, the simple and extended query protocols, COPY
// transfer, asynchronous NotificationResponse/ParameterStatus delivery,
// and query cancellation, all built on pkg/wire's transport and
// pkg/frame's message codec.
package pgconn

import (
	"crypto/tls"
	"time"

	"github.com/pgwire/pgwire/pkg/connstring"
)

// DefaultStreamingBatchSize is the row-batch threshold QueryStreaming and
// the extended-protocol execute helpers use before invoking the caller's
// callback: rows accumulate until the batch's encoded size reaches this
// many bytes, bounding memory for large result sets without a callback
// round trip per row.
const DefaultStreamingBatchSize = 2 * 1024 * 1024

// notificationBacklog bounds the async NotificationResponse channel. A
// slow consumer drops the connection rather than blocking the read loop
// indefinitely; see Conn.Notifications.
const notificationBacklog = 64

// Config holds the configuration for connecting to a PostgreSQL server.
type Config struct {
	// Host is the server hostname, IP address, or (with Network set to
	// "unix") the directory containing the Unix socket.
	Host string

	// Port is the server port number.
	Port int

	// Network is "tcp" (default, when empty) or "unix".
	Network string

	// User is the PostgreSQL user name.
	User string

	// Password is the user's password (optional for trust auth). When
	// authenticating via SCRAM-SHA-256 passthrough (see NewClientWithKeys
	// in pkg/scram), leave Password empty and set ClientKey/ServerKey
	// instead.
	Password string

	// ClientKey and ServerKey, if both set, select SCRAM-SHA-256
	// passthrough authentication: the caller has already derived these
	// from a password (or fetched them from a secrets store) and the
	// plaintext password is never held in memory here.
	ClientKey []byte
	ServerKey []byte

	// Database is the database name to connect to.
	Database string

	// Parameters are additional startup parameters (e.g.
	// application_name, search_path).
	Parameters map[string]string

	// TLSConfig is the TLS configuration for SSL connections. If nil,
	// SSL negotiation is skipped and the connection is plaintext.
	TLSConfig *tls.Config

	// DialTimeout is the timeout for establishing the connection.
	DialTimeout time.Duration
}

// address returns the network and address pair to hand to wire.Dial.
func (c *Config) address() (network, addr string) {
	network = c.Network
	if network == "" {
		network = "tcp"
	}
	if network == "unix" {
		return network, c.Host
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	return network, netJoinHostPort(c.Host, port)
}

func netJoinHostPort(host string, port int) string {
	return host + ":" + itoa(port)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// FromConnString builds a Config from a pq://user:pass@host:port/db URI,
// merging any driver-only keys (sslmode) and forwarding every other
// query parameter as a startup parameter.
func FromConnString(raw string) (*Config, error) {
	p, err := connstring.Parse(raw)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:       p.Host,
		Port:       p.Port,
		User:       p.User,
		Password:   p.Password,
		Database:   p.Database,
		Parameters: p.Parameters,
	}

	if p.SSLMode != connstring.SSLDisable {
		cfg.TLSConfig = &tls.Config{ServerName: p.Host, MinVersion: tls.VersionTLS12}
	}

	return cfg, nil
}
