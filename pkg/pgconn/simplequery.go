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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
	"github.com/pgwire/pgwire/pkg/row"
)

// Result is one statement's worth of the simple query protocol's
// response: its column descriptions (if any), the rows accumulated so
// far, and — once complete — its command tag.
type Result struct {
	Fields       []*row.Field
	Rows         []*row.Row
	CommandTag   row.CommandTag
	RowsAffected uint64
}

// Query executes a simple query and returns every result set in full.
// For large result sets prefer QueryStreaming, which invokes a callback
// incrementally instead of buffering everything in memory.
func (c *Conn) Query(ctx context.Context, sql string) ([]*Result, error) {
	var results []*Result
	err := c.QueryStreaming(ctx, sql, func(_ context.Context, r *Result) error {
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// QueryRow implements typeio.Querier: it runs sql and returns the first
// row of the first result set. Values come back as raw (text-format)
// bytes, undecoded, since the type registry itself uses QueryRow to
// resolve catalog metadata before any decoding can happen.
func (c *Conn) QueryRow(ctx context.Context, sql string, args ...any) (*row.Row, error) {
	rows, err := c.QueryAll(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("pgconn: query returned no rows")
	}
	return rows[0], nil
}

// QueryAll implements typeio.Querier: it runs sql and returns every row
// of the first result set. args are substituted with %v into the
// literal via simpleInterpolate, since the simple query protocol carries
// no parameters of its own; callers needing bound parameters should use
// the extended protocol (see pkg/stmt) instead.
func (c *Conn) QueryAll(ctx context.Context, sql string, args ...any) ([]*row.Row, error) {
	results, err := c.Query(ctx, simpleInterpolate(sql, args))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0].Rows, nil
}

// simpleInterpolate substitutes $1, $2, ... placeholders with literal
// values quoted for inclusion in a simple-query string. This is only
// ever used internally against the catalog queries in pkg/catalog,
// whose argument shapes (OIDs, small integers, and the occasional
// identifier string such as a 2PC global transaction ID) this function
// supports; it is not a general-purpose SQL literal quoter.
func simpleInterpolate(sql string, args []any) string {
	out := sql
	for i := len(args); i >= 1; i-- {
		placeholder := fmt.Sprintf("$%d", i)
		out = replaceAll(out, placeholder, sqlLiteral(args[i-1]))
	}
	return out
}

// sqlLiteral renders v as a SQL literal: strings are single-quoted with
// embedded quotes doubled, per the standard SQL escaping rule; a []string
// becomes an ARRAY[...] constructor of the same quoted literals, for the
// pg_settings batch queries in pkg/catalog that bind a name/value list
// through ::text[] casts; anything else is formatted bare (only numeric
// and OID-shaped arguments are expected here).
func sqlLiteral(v any) string {
	switch v := v.(type) {
	case string:
		return "'" + replaceAll(v, "'", "''") + "'"
	case []string:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = "'" + replaceAll(s, "'", "''") + "'"
		}
		return "ARRAY[" + joinStrings(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func joinStrings(parts []string, sep string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += sep + p
	}
	return out
}

func replaceAll(s, old, new string) string {
	if old == "" {
		return s
	}
	var out []byte
	for {
		idx := indexOf(s, old)
		if idx < 0 {
			out = append(out, s...)
			break
		}
		out = append(out, s[:idx]...)
		out = append(out, new...)
		s = s[idx+len(old):]
	}
	return string(out)
}

func indexOf(s, substr string) int {
	n, m := len(s), len(substr)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == substr {
			return i
		}
	}
	return -1
}

// QueryStreaming executes a simple query (which may contain several
// semicolon-separated statements) and streams results via callback, one
// call per completed result set. Rows within a result set are batched:
// the callback may be invoked more than once for a single statement if
// its DataRow payloads exceed DefaultStreamingBatchSize, with the final
// callback for that statement carrying its CommandTag.
func (c *Conn) QueryStreaming(ctx context.Context, sql string, callback func(ctx context.Context, r *Result) error) error {
	ctx, span := c.startTraceSpan(ctx, "pgconn.Query")
	defer span.End()
	span.SetAttributes(attribute.String("db.statement", sql))

	c.mu.Lock()
	defer c.mu.Unlock()

	w := message.NewWriter()
	w.WriteString(sql)
	if err := c.transport.Writer.WriteFrame(protocol.MsgQuery, w.Bytes()); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: sending Query: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: flushing Query: %w", err)
	}

	err := c.processSimpleQueryResponses(ctx, callback)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// processSimpleQueryResponses drains every message through
// ReadyForQuery, regardless of whether an error was seen along the way:
// an ErrorResponse aborts the current statement but the server still
// sends ReadyForQuery to mark the connection usable again, and that
// message must be consumed before another request can be issued.
func (c *Conn) processSimpleQueryResponses(ctx context.Context, callback func(ctx context.Context, r *Result) error) error {
	var fields []*row.Field
	var batch []*row.Row
	var batchSize int
	var firstErr error

	flush := func() error {
		if len(batch) == 0 || callback == nil {
			return nil
		}
		r := &Result{Fields: fields, Rows: batch}
		batch = nil
		batchSize = 0
		return callback(ctx, r)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := c.transport.Reader.ReadFrame()
		if err != nil {
			return fmt.Errorf("pgconn: reading message: %w", err)
		}

		switch f.Kind {
		case protocol.MsgRowDescription:
			parsed, err := parseRowDescription(f.Body)
			if err != nil {
				return err
			}
			fields = parsed

		case protocol.MsgDataRow:
			r, err := parseDataRow(f.Body, fields)
			if err != nil {
				return err
			}
			batch = append(batch, r)
			batchSize += len(f.Body)
			if batchSize >= DefaultStreamingBatchSize {
				if err := flush(); err != nil && firstErr == nil {
					firstErr = err
				}
			}

		case protocol.MsgCommandComplete:
			tag, err := parseCommandComplete(f.Body)
			if err != nil {
				return err
			}
			if callback != nil {
				r := &Result{
					Fields:       fields,
					Rows:         batch,
					CommandTag:   row.CommandTag(tag),
					RowsAffected: parseRowsAffected(tag),
				}
				if err := callback(ctx, r); err != nil && firstErr == nil {
					firstErr = err
				}
			}
			fields = nil
			batch = nil
			batchSize = 0

		case protocol.MsgEmptyQueryResponse:
			if callback != nil {
				if err := callback(ctx, &Result{}); err != nil && firstErr == nil {
					firstErr = err
				}
			}

		case protocol.MsgReadyForQuery:
			if len(f.Body) < 1 {
				return fmt.Errorf("pgconn: ReadyForQuery message too short")
			}
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			return firstErr

		case protocol.MsgErrorResponse:
			if firstErr == nil {
				firstErr = readErrorDiagnostic(f.Body)
			}

		case protocol.MsgNoticeResponse:
			// Notices are informational; no action needed.

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}

		case protocol.MsgNotificationResponse:
			if err := c.handleNotification(f.Body); err != nil {
				return err
			}

		default:
			return fmt.Errorf("pgconn: unexpected message type in query response: %c (0x%02x)", f.Kind, f.Kind)
		}
	}
}

func parseRowDescription(body []byte) ([]*row.Field, error) {
	r := message.NewReader(body)
	count, err := r.ReadInt16()
	if err != nil {
		return nil, fmt.Errorf("pgconn: reading field count: %w", err)
	}

	fields := make([]*row.Field, count)
	for i := range count {
		f := &row.Field{}
		if f.Name, err = r.ReadString(); err != nil {
			return nil, fmt.Errorf("pgconn: reading field name: %w", err)
		}
		if f.TableOID, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if f.TableAttribute, err = r.ReadInt16(); err != nil {
			return nil, err
		}
		if f.DataTypeOID, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if f.DataTypeSize, err = r.ReadInt16(); err != nil {
			return nil, err
		}
		if f.TypeModifier, err = r.ReadInt32(); err != nil {
			return nil, err
		}
		if f.Format, err = r.ReadInt16(); err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return fields, nil
}

func parseDataRow(body []byte, fields []*row.Field) (*row.Row, error) {
	r := message.NewReader(body)
	count, err := r.ReadInt16()
	if err != nil {
		return nil, fmt.Errorf("pgconn: reading column count: %w", err)
	}

	values := make([]row.Value, count)
	for i := range count {
		v, err := r.ReadByteString()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading column value: %w", err)
		}
		values[i] = row.Value(v)
	}
	return &row.Row{Fields: fields, Values: values}, nil
}

func parseCommandComplete(body []byte) (string, error) {
	r := message.NewReader(body)
	tag, err := r.ReadString()
	if err != nil {
		return "", fmt.Errorf("pgconn: reading command tag: %w", err)
	}
	return tag, nil
}

// parseRowsAffected extracts the trailing row count from a command tag
// ("SELECT 5", "INSERT 0 1", "UPDATE 10", "DELETE 3").
func parseRowsAffected(tag string) uint64 {
	var count, mult uint64
	inNumber := false

	for i := len(tag) - 1; i >= 0; i-- {
		ch := tag[i]
		switch {
		case ch >= '0' && ch <= '9':
			if !inNumber {
				inNumber = true
				count = 0
				mult = 1
			}
			count += uint64(ch-'0') * mult
			mult *= 10
		case ch == ' ':
			if inNumber {
				return count
			}
		default:
			return count
		}
	}
	return count
}
