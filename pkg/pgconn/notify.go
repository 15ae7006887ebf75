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
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/pgwire/pgwire/pkg/protocol"
)

// DrainAsync reads and dispatches whatever asynchronous messages
// (NotificationResponse, ParameterStatus, NoticeResponse) are waiting on
// the wire, stopping once timeout elapses with nothing more to read, or
// ctx is done. timeout of zero makes this a non-blocking poll: if
// nothing is buffered already, it returns immediately.
//
// This is meant for a connection that is otherwise idle — typically one
// only used to LISTEN — letting a caller pull pending notifications into
// Notifications() without having a query in flight. Calling DrainAsync
// concurrently with any other operation on c is not safe, exactly like
// every other Conn method: the caller must serialize its own use of c.
func (c *Conn) DrainAsync(ctx context.Context, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transport.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("pgconn: setting read deadline: %w", err)
	}
	defer c.transport.SetReadDeadline(time.Time{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := c.transport.Reader.ReadFrame()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return nil
			}
			return fmt.Errorf("pgconn: reading message: %w", err)
		}

		switch f.Kind {
		case protocol.MsgNotificationResponse:
			if err := c.handleNotification(f.Body); err != nil {
				return err
			}
		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}
		case protocol.MsgNoticeResponse:
			// Informational; nothing to do.
		default:
			return fmt.Errorf("pgconn: unexpected message type %c on an idle connection", f.Kind)
		}
	}
}
