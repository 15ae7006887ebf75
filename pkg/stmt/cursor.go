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

package stmt

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pgwire/pgwire/pkg/pgconn"
	"github.com/pgwire/pgwire/pkg/pgerror"
	"github.com/pgwire/pgwire/pkg/row"
)

var cursorCounter atomic.Uint64

func nextCursorName() string {
	return fmt.Sprintf("pgwire_cursor_%d", cursorCounter.Add(1))
}

// Direction selects which way Cursor.Read walks the result set.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Whence identifies what Cursor.Seek's position is relative to.
type Whence int

const (
	Absolute Whence = iota
	Relative
	FromEnd
)

// Cursor is a scrollable, holdable server-side cursor: it survives past
// the transaction that declared it (WITH HOLD) and supports non-
// sequential access via Seek, in addition to sequential Read.
//
// Read's direction and Seek's from-end whence are defined so that, for a
// forward-ordered query Q and its reversed form Q', declaring Q and
// calling Seek(0, FromEnd) then Read(n, Backward) yields the same rows,
// in the same order, as declaring Q' and calling Seek(0, Absolute) then
// Read(n, Forward): Seek(0, FromEnd) issues MOVE FORWARD ALL, which
// positions the cursor just after the last row, and a Read(Backward)
// result is reversed before it
// is returned so both paths hand back rows in ascending visitation
// order.
type Cursor struct {
	conn   *pgconn.Conn
	name   string
	fields []*row.Field
	closed atomic.Bool
}

// declareCursor issues DECLARE ... SCROLL CURSOR WITH HOLD FOR sql,
// binding args as the query's parameters via the extended protocol so
// the cursor's underlying plan is parameterized the same way Statement's
// other operations are.
func declareCursor(ctx context.Context, conn *pgconn.Conn, sql string, args []any) (*Cursor, error) {
	name := nextCursorName()

	params := make([][]byte, len(args))
	for i, a := range args {
		data, _, err := conn.Types().Encode(ctx, 0, a)
		if err != nil {
			return nil, pgerror.Parameterf("stmt: cursor parameter %d: %w", i, err)
		}
		params[i] = data
	}

	declareSQL := fmt.Sprintf("DECLARE %s SCROLL CURSOR WITH HOLD FOR %s", name, sql)
	if err := conn.PrepareAndExecute(ctx, declareSQL, params, nil); err != nil {
		return nil, fmt.Errorf("stmt: declaring cursor: %w", err)
	}
	return &Cursor{conn: conn, name: name}, nil
}

// Read fetches up to n rows in the given direction, returning fewer than
// n once the cursor runs off the corresponding end of the result set.
// A Backward read is returned in ascending (forward) visitation order,
// matching a Forward read over the reversed query — see the Cursor
// doc comment.
func (c *Cursor) Read(ctx context.Context, n int, direction Direction) ([][]any, error) {
	verb := "FORWARD"
	if direction == Backward {
		verb = "BACKWARD"
	}
	sql := fmt.Sprintf("FETCH %s %d FROM %s", verb, n, c.name)

	results, err := c.conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("stmt: cursor read: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	r := results[0]
	c.fields = r.Fields

	out := make([][]any, 0, len(r.Rows))
	for _, rr := range r.Rows {
		decoded, err := rr.Transform(func(f *row.Field, v row.Value) (any, error) {
			if v.IsNull() {
				return nil, nil
			}
			if f == nil {
				return string(v), nil
			}
			return c.conn.Types().Decode(ctx, f.DataTypeOID, f.Format, v)
		})
		if err != nil {
			return nil, fmt.Errorf("stmt: cursor read: decoding row: %w", err)
		}
		out = append(out, decoded)
	}

	if direction == Backward {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// Seek repositions the cursor without fetching any rows, following
// PostgreSQL's MOVE semantics: Absolute positions so that the position'th
// row (1-based) is the most recently visited; Relative moves by position
// rows from the current location; FromEnd(0) positions just past the
// last row (so a following Backward read starts at the last row), and
// FromEnd(k) positions k rows further back from there.
func (c *Cursor) Seek(ctx context.Context, position int, whence Whence) error {
	var sql string
	switch whence {
	case Absolute:
		sql = fmt.Sprintf("MOVE ABSOLUTE %d FROM %s", position, c.name)
	case Relative:
		sql = fmt.Sprintf("MOVE RELATIVE %d FROM %s", position, c.name)
	case FromEnd:
		// ABSOLUTE -k lands on the k'th row from the end, so "just past
		// the last row" needs FORWARD ALL instead.
		if position == 0 {
			sql = fmt.Sprintf("MOVE FORWARD ALL FROM %s", c.name)
		} else {
			sql = fmt.Sprintf("MOVE ABSOLUTE %d FROM %s", -position, c.name)
		}
	default:
		return pgerror.Parameterf("stmt: cursor seek: unknown whence %d", whence)
	}

	if _, err := c.conn.Query(ctx, sql); err != nil {
		return fmt.Errorf("stmt: cursor seek: %w", err)
	}
	return nil
}

// Close closes the cursor. It is idempotent.
func (c *Cursor) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.conn.IsClosed() {
		return nil
	}
	if _, err := c.conn.Query(ctx, fmt.Sprintf("CLOSE %s", c.name)); err != nil {
		return fmt.Errorf("stmt: closing cursor: %w", err)
	}
	return nil
}
