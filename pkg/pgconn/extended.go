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

// ParameterInfo is the result of describing a prepared statement or
// portal: its parameter type OIDs and, when available, its result
// column descriptions.
type ParameterInfo struct {
	ParamTypes []uint32
	Fields     []*row.Field
}

// Parse sends a Parse message preparing name (empty for the unnamed
// statement) against sql, with paramTypes supplying parameter OIDs the
// caller already knows (0 leaves a parameter's type for the server to
// infer), followed by a Sync, and waits for ParseComplete.
func (c *Conn) Parse(ctx context.Context, name, sql string, paramTypes []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeParse(name, sql, paramTypes); err != nil {
		return fmt.Errorf("pgconn: writing Parse: %w", err)
	}
	if err := c.writeSyncNoFlush(); err != nil {
		return fmt.Errorf("pgconn: writing Sync: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return fmt.Errorf("pgconn: flushing: %w", err)
	}
	return c.waitFor(ctx, protocol.MsgParseComplete, "ParseComplete")
}

// BindAndExecute binds params to the prepared statement stmtName (empty
// for the unnamed statement) into the unnamed portal and executes it,
// sending Bind, Execute, and Sync as one batch so that Sync's implicit
// transaction close (which clears all portals) never lands between Bind
// and Execute.
func (c *Conn) BindAndExecute(ctx context.Context, stmtName string, params [][]byte, paramFormats, resultFormats []int16, maxRows int32, callback func(ctx context.Context, r *Result) error) error {
	ctx, span := c.startTraceSpan(ctx, "pgconn.BindAndExecute")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeBind("", stmtName, params, paramFormats, resultFormats); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: writing Bind: %w", err)
	}
	if err := c.writeExecute("", maxRows); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: writing Execute: %w", err)
	}
	if err := c.writeSyncNoFlush(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: writing Sync: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: flushing: %w", err)
	}

	err := c.processBindExecuteResponses(ctx, callback)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// BindAndDescribe binds params into the unnamed portal and describes it
// (Bind, Describe('P'), Sync), returning the resulting row fields
// without executing.
func (c *Conn) BindAndDescribe(ctx context.Context, stmtName string, params [][]byte, paramFormats, resultFormats []int16) (*ParameterInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeBind("", stmtName, params, paramFormats, resultFormats); err != nil {
		return nil, fmt.Errorf("pgconn: writing Bind: %w", err)
	}
	if err := c.writeDescribe('P', ""); err != nil {
		return nil, fmt.Errorf("pgconn: writing Describe: %w", err)
	}
	if err := c.writeSyncNoFlush(); err != nil {
		return nil, fmt.Errorf("pgconn: writing Sync: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return nil, fmt.Errorf("pgconn: flushing: %w", err)
	}

	return c.processBindDescribeResponses(ctx)
}

// DescribeStatement describes a prepared statement's parameter types and
// result fields (Describe('S'), Sync).
func (c *Conn) DescribeStatement(ctx context.Context, name string) (*ParameterInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeDescribe('S', name); err != nil {
		return nil, fmt.Errorf("pgconn: writing Describe: %w", err)
	}
	if err := c.writeSyncNoFlush(); err != nil {
		return nil, fmt.Errorf("pgconn: writing Sync: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return nil, fmt.Errorf("pgconn: flushing: %w", err)
	}

	return c.processDescribeStatementResponses(ctx)
}

// CloseStatement closes a prepared statement by name.
func (c *Conn) CloseStatement(ctx context.Context, name string) error {
	return c.closeTarget(ctx, 'S', name)
}

// ClosePortal closes a portal by name.
func (c *Conn) ClosePortal(ctx context.Context, name string) error {
	return c.closeTarget(ctx, 'P', name)
}

func (c *Conn) closeTarget(ctx context.Context, kind byte, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeClose(kind, name); err != nil {
		return fmt.Errorf("pgconn: writing Close: %w", err)
	}
	if err := c.writeSyncNoFlush(); err != nil {
		return fmt.Errorf("pgconn: writing Sync: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return fmt.Errorf("pgconn: flushing: %w", err)
	}
	return c.waitFor(ctx, protocol.MsgCloseComplete, "CloseComplete")
}

// Sync sends a Sync message and waits for ReadyForQuery, ending the
// current extended-query exchange and its implicit transaction if one
// was opened.
func (c *Conn) Sync(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeSyncNoFlush(); err != nil {
		return fmt.Errorf("pgconn: writing Sync: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return fmt.Errorf("pgconn: flushing: %w", err)
	}
	return c.waitForReadyForQuery(ctx)
}

// Flush sends a Flush message, requesting the server push any pending
// output without ending the extended-query exchange the way Sync would.
func (c *Conn) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transport.Writer.WriteFrame(protocol.MsgFlush, nil); err != nil {
		return fmt.Errorf("pgconn: writing Flush: %w", err)
	}
	return c.transport.Writer.Flush()
}

// PrepareAndExecute runs Parse+Bind+Execute+Sync against the unnamed
// statement and unnamed portal in a single round trip, the common case
// for one-off parameterized queries that don't need a reusable prepared
// statement.
func (c *Conn) PrepareAndExecute(ctx context.Context, sql string, params [][]byte, callback func(ctx context.Context, r *Result) error) error {
	ctx, span := c.startTraceSpan(ctx, "pgconn.PrepareAndExecute")
	defer span.End()
	span.SetAttributes(attribute.String("db.statement", sql))

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writeParse("", sql, nil); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: writing Parse: %w", err)
	}
	if err := c.writeBind("", "", params, nil, nil); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: writing Bind: %w", err)
	}
	if err := c.writeExecute("", 0); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: writing Execute: %w", err)
	}
	if err := c.writeSyncNoFlush(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: writing Sync: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("pgconn: flushing: %w", err)
	}

	err := c.processPrepareAndExecuteResponses(ctx, callback)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// PipelineExecute binds and executes the prepared statement stmtName
// once per entry in paramSets, writing every Bind+Execute pair before a
// single trailing Sync and only then reading responses — the bulk-
// loading path, which trades the usual one-round-trip-per-call overhead
// for one round trip per batch. paramFormats may be shorter than
// paramSets; a missing entry defaults to all-text format. callback is
// invoked once per item, in submission order, with that item's index.
//
// An ErrorResponse aborts every item from that point on: PostgreSQL
// silently discards pipelined messages following an error until the
// trailing Sync, so items after the failing one never reach callback.
func (c *Conn) PipelineExecute(ctx context.Context, stmtName string, paramSets [][][]byte, paramFormats [][]int16, callback func(i int, r *Result) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, params := range paramSets {
		var formats []int16
		if i < len(paramFormats) {
			formats = paramFormats[i]
		}
		if err := c.writeBind("", stmtName, params, formats, nil); err != nil {
			return fmt.Errorf("pgconn: writing Bind: %w", err)
		}
		if err := c.writeExecute("", 0); err != nil {
			return fmt.Errorf("pgconn: writing Execute: %w", err)
		}
	}
	if err := c.writeSyncNoFlush(); err != nil {
		return fmt.Errorf("pgconn: writing Sync: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return fmt.Errorf("pgconn: flushing: %w", err)
	}

	return c.processPipelineResponses(ctx, callback)
}

func (c *Conn) processPipelineResponses(ctx context.Context, callback func(i int, r *Result) error) error {
	item := -1
	var fields []*row.Field
	var batch []*row.Row
	var firstErr error

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
		case protocol.MsgBindComplete:
			item++
			fields, batch = nil, nil

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

		case protocol.MsgCommandComplete:
			tag, err := parseCommandComplete(f.Body)
			if err != nil {
				return err
			}
			if callback != nil && item >= 0 {
				r := &Result{
					Fields:       fields,
					Rows:         batch,
					CommandTag:   row.CommandTag(tag),
					RowsAffected: parseRowsAffected(tag),
				}
				if cbErr := callback(item, r); cbErr != nil && firstErr == nil {
					firstErr = cbErr
				}
			}
			fields, batch = nil, nil

		case protocol.MsgEmptyQueryResponse:
			if callback != nil && item >= 0 {
				if cbErr := callback(item, &Result{}); cbErr != nil && firstErr == nil {
					firstErr = cbErr
				}
			}

		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			return firstErr

		case protocol.MsgErrorResponse:
			if firstErr == nil {
				firstErr = readErrorDiagnostic(f.Body)
			}

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}

		case protocol.MsgNotificationResponse:
			if err := c.handleNotification(f.Body); err != nil {
				return err
			}

		default:
			return fmt.Errorf("pgconn: unexpected message type in pipeline: %c (0x%02x)", f.Kind, f.Kind)
		}
	}
}

// --- message writers ---

func (c *Conn) writeParse(name, sql string, paramTypes []uint32) error {
	w := message.NewWriter()
	w.WriteString(name)
	w.WriteString(sql)
	w.WriteInt16(int16(len(paramTypes)))
	for _, oid := range paramTypes {
		w.WriteUint32(oid)
	}
	return c.transport.Writer.WriteFrame(protocol.MsgParse, w.Bytes())
}

func (c *Conn) writeBind(portal, stmt string, params [][]byte, paramFormats, resultFormats []int16) error {
	w := message.NewWriter()
	w.WriteString(portal)
	w.WriteString(stmt)

	w.WriteInt16(int16(len(paramFormats)))
	for _, f := range paramFormats {
		w.WriteInt16(f)
	}

	w.WriteInt16(int16(len(params)))
	for _, p := range params {
		w.WriteByteString(p)
	}

	w.WriteInt16(int16(len(resultFormats)))
	for _, f := range resultFormats {
		w.WriteInt16(f)
	}

	return c.transport.Writer.WriteFrame(protocol.MsgBind, w.Bytes())
}

func (c *Conn) writeExecute(portal string, maxRows int32) error {
	w := message.NewWriter()
	w.WriteString(portal)
	w.WriteInt32(maxRows)
	return c.transport.Writer.WriteFrame(protocol.MsgExecute, w.Bytes())
}

func (c *Conn) writeDescribe(kind byte, name string) error {
	w := message.NewWriter()
	w.WriteByte(kind)
	w.WriteString(name)
	return c.transport.Writer.WriteFrame(protocol.MsgDescribe, w.Bytes())
}

func (c *Conn) writeClose(kind byte, name string) error {
	w := message.NewWriter()
	w.WriteByte(kind)
	w.WriteString(name)
	return c.transport.Writer.WriteFrame(protocol.MsgClose, w.Bytes())
}

func (c *Conn) writeSyncNoFlush() error {
	return c.transport.Writer.WriteFrame(protocol.MsgSync, nil)
}

// --- response readers ---

func (c *Conn) waitFor(ctx context.Context, want byte, wantName string) error {
	got := false
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
		case want:
			got = true

		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			if !got {
				return fmt.Errorf("pgconn: did not receive %s", wantName)
			}
			return nil

		case protocol.MsgErrorResponse:
			return c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}

		case protocol.MsgNotificationResponse:
			if err := c.handleNotification(f.Body); err != nil {
				return err
			}

		default:
			return fmt.Errorf("pgconn: unexpected message type waiting for %s: %c", wantName, f.Kind)
		}
	}
}

func (c *Conn) waitForReadyForQuery(ctx context.Context) error {
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
		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			return nil

		case protocol.MsgErrorResponse:
			return c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}

		case protocol.MsgNotificationResponse:
			if err := c.handleNotification(f.Body); err != nil {
				return err
			}

		default:
			return fmt.Errorf("pgconn: unexpected message type awaiting ReadyForQuery: %c", f.Kind)
		}
	}
}

// drainToReadyAfterError keeps reading through the mandatory
// ReadyForQuery following an ErrorResponse, returning the original
// error once the connection is usable again.
func (c *Conn) drainToReadyAfterError(ctx context.Context, firstErr error) error {
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
		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			return firstErr
		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}
		case protocol.MsgNotificationResponse:
			if err := c.handleNotification(f.Body); err != nil {
				return err
			}
		}
	}
}

func (c *Conn) processBindExecuteResponses(ctx context.Context, callback func(ctx context.Context, r *Result) error) error {
	gotBindComplete := false
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
		case protocol.MsgBindComplete:
			gotBindComplete = true

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
			fields, batch, batchSize = nil, nil, 0

		case protocol.MsgEmptyQueryResponse:
			if callback != nil {
				if err := callback(ctx, &Result{}); err != nil && firstErr == nil {
					firstErr = err
				}
			}

		case protocol.MsgPortalSuspended:
			if err := flush(); err != nil && firstErr == nil {
				firstErr = err
			}

		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			if !gotBindComplete && firstErr == nil {
				return fmt.Errorf("pgconn: did not receive BindComplete")
			}
			return firstErr

		case protocol.MsgErrorResponse:
			if firstErr == nil {
				firstErr = readErrorDiagnostic(f.Body)
			}

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}

		case protocol.MsgNotificationResponse:
			if err := c.handleNotification(f.Body); err != nil {
				return err
			}

		default:
			return fmt.Errorf("pgconn: unexpected message type: %c (0x%02x)", f.Kind, f.Kind)
		}
	}
}

func (c *Conn) processPrepareAndExecuteResponses(ctx context.Context, callback func(ctx context.Context, r *Result) error) error {
	gotParseComplete, gotBindComplete := false, false
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
		case protocol.MsgParseComplete:
			gotParseComplete = true

		case protocol.MsgBindComplete:
			gotBindComplete = true

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
			fields, batch, batchSize = nil, nil, 0

		case protocol.MsgEmptyQueryResponse:
			if callback != nil {
				if err := callback(ctx, &Result{}); err != nil && firstErr == nil {
					firstErr = err
				}
			}

		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			if firstErr == nil {
				if !gotParseComplete {
					return fmt.Errorf("pgconn: did not receive ParseComplete")
				}
				if !gotBindComplete {
					return fmt.Errorf("pgconn: did not receive BindComplete")
				}
			}
			return firstErr

		case protocol.MsgErrorResponse:
			if firstErr == nil {
				firstErr = readErrorDiagnostic(f.Body)
			}

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}

		case protocol.MsgNotificationResponse:
			if err := c.handleNotification(f.Body); err != nil {
				return err
			}

		default:
			return fmt.Errorf("pgconn: unexpected message type: %c (0x%02x)", f.Kind, f.Kind)
		}
	}
}

func (c *Conn) processBindDescribeResponses(ctx context.Context) (*ParameterInfo, error) {
	gotBindComplete := false
	info := &ParameterInfo{}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		f, err := c.transport.Reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading message: %w", err)
		}

		switch f.Kind {
		case protocol.MsgBindComplete:
			gotBindComplete = true

		case protocol.MsgRowDescription:
			parsed, err := parseRowDescription(f.Body)
			if err != nil {
				return nil, err
			}
			info.Fields = parsed

		case protocol.MsgNoData:

		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			if !gotBindComplete {
				return nil, fmt.Errorf("pgconn: did not receive BindComplete")
			}
			return info, nil

		case protocol.MsgErrorResponse:
			return nil, c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("pgconn: unexpected message type: %c (0x%02x)", f.Kind, f.Kind)
		}
	}
}

func (c *Conn) processDescribeStatementResponses(ctx context.Context) (*ParameterInfo, error) {
	info := &ParameterInfo{}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		f, err := c.transport.Reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading message: %w", err)
		}

		switch f.Kind {
		case protocol.MsgParameterDescription:
			types, err := parseParameterDescription(f.Body)
			if err != nil {
				return nil, err
			}
			info.ParamTypes = types

		case protocol.MsgRowDescription:
			parsed, err := parseRowDescription(f.Body)
			if err != nil {
				return nil, err
			}
			info.Fields = parsed

		case protocol.MsgNoData:

		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			return info, nil

		case protocol.MsgErrorResponse:
			return nil, c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("pgconn: unexpected message type: %c (0x%02x)", f.Kind, f.Kind)
		}
	}
}

func parseParameterDescription(body []byte) ([]uint32, error) {
	r := message.NewReader(body)
	count, err := r.ReadInt16()
	if err != nil {
		return nil, fmt.Errorf("pgconn: reading parameter count: %w", err)
	}
	types := make([]uint32, count)
	for i := range count {
		oid, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading parameter OID: %w", err)
		}
		types[i] = oid
	}
	return types, nil
}
