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

package notify

import (
	"context"
	"fmt"

	"github.com/pgwire/pgwire/pkg/catalog"
	"github.com/pgwire/pgwire/pkg/pgconn"
)

// Listen subscribes conn to channel. LISTEN takes no parameters of its
// own kind, so the channel name is quoted as an identifier rather than
// bound, matching PostgreSQL's own requirement that it appear as a bare
// identifier or quoted string in the command.
func Listen(ctx context.Context, conn *pgconn.Conn, channel string) error {
	if _, err := conn.Query(ctx, fmt.Sprintf("LISTEN %s", quoteIdent(channel))); err != nil {
		return fmt.Errorf("notify: listen %q: %w", channel, err)
	}
	return nil
}

// Unlisten cancels a previous Listen.
func Unlisten(ctx context.Context, conn *pgconn.Conn, channel string) error {
	if _, err := conn.Query(ctx, fmt.Sprintf("UNLISTEN %s", quoteIdent(channel))); err != nil {
		return fmt.Errorf("notify: unlisten %q: %w", channel, err)
	}
	return nil
}

// UnlistenAll cancels every Listen subscription on conn.
func UnlistenAll(ctx context.Context, conn *pgconn.Conn) error {
	if _, err := conn.Query(ctx, "UNLISTEN *"); err != nil {
		return fmt.Errorf("notify: unlisten all: %w", err)
	}
	return nil
}

// Notify sends a NOTIFY with payload on channel through pg_notify.
// QueryAll quotes channel and payload as SQL string literals and splices
// them into the query text; they are not bound as protocol parameters.
func Notify(ctx context.Context, conn *pgconn.Conn, channel, payload string) error {
	if _, err := conn.QueryAll(ctx, catalog.NotifyChannel, channel, payload); err != nil {
		return fmt.Errorf("notify: notify %q: %w", channel, err)
	}
	return nil
}

// ListeningChannels lists the channels conn is currently subscribed to.
func ListeningChannels(ctx context.Context, conn *pgconn.Conn) ([]string, error) {
	rows, err := conn.QueryAll(ctx, catalog.ListeningChannels)
	if err != nil {
		return nil, fmt.Errorf("notify: listing channels: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if v := r.Get(0); !v.IsNull() {
			out = append(out, string(v))
		}
	}
	return out, nil
}

// quoteIdent double-quotes channel as a SQL identifier, doubling any
// embedded double quotes, since LISTEN/UNLISTEN's channel name cannot be
// passed as a bound parameter.
func quoteIdent(name string) string {
	out := make([]byte, 0, len(name)+2)
	out = append(out, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			out = append(out, '"', '"')
			continue
		}
		out = append(out, name[i])
	}
	out = append(out, '"')
	return string(out)
}
