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

	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
	"github.com/pgwire/pgwire/pkg/wire"
)

// CancelKey identifies the target of a cancel request: the backend
// process ID and secret key a connection received in BackendKeyData.
// Unlike an ordinary query, cancellation happens over a brand-new
// connection, since the connection running the query is busy blocked on
// that query.
type CancelKey struct {
	ProcessID uint32
	SecretKey uint32
}

// Key returns the CancelKey needed to later cancel a query running on c.
func (c *Conn) Key() CancelKey {
	return CancelKey{ProcessID: c.processID, SecretKey: c.secretKey}
}

// Cancel opens a fresh connection to the same server as cfg and sends a
// CancelRequest for key, then closes the connection immediately: the
// server never replies to a cancel request, successful or not, so
// there is nothing further to read.
func Cancel(ctx context.Context, cfg *Config, key CancelKey) error {
	network, addr := cfg.address()
	transport, err := wire.Dial(ctx, wire.DialOptions{
		Network:     network,
		Address:     addr,
		DialTimeout: cfg.DialTimeout,
		TLSConfig:   cfg.TLSConfig,
	})
	if err != nil {
		return fmt.Errorf("pgconn: cancel: %w", err)
	}
	defer transport.Close()

	w := message.NewWriter()
	w.WriteUint32(protocol.CancelRequestCode)
	w.WriteUint32(key.ProcessID)
	w.WriteUint32(key.SecretKey)

	if err := transport.Writer.WriteStartupFrame(w.Bytes()); err != nil {
		return fmt.Errorf("pgconn: cancel: writing request: %w", err)
	}
	return transport.Writer.Flush()
}
