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

// Package stmt is the statement/portal layer: it prepares a parameterized
// query once against a connection and offers several ways to run it
// (buffered, lazy, streaming-optimal, or as a scrollable cursor), all
// built on pkg/pgconn's extended-query-protocol methods.
package stmt

import (
	"context"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/pgwire/pgwire/pkg/pgconn"
	"github.com/pgwire/pgwire/pkg/pgerror"
	"github.com/pgwire/pgwire/pkg/row"
)

// nameCounter hands out unique prepared-statement names for this
// process: PostgreSQL's unnamed statement is overwritten by the next
// Parse on the same connection, so any statement meant to outlive a
// single call needs a name of its own.
var nameCounter atomic.Uint64

func nextName() string {
	return fmt.Sprintf("pgwire_stmt_%d", nameCounter.Add(1))
}

// Statement is a prepared statement, usable only from the connection
// that prepared it.
type Statement struct {
	conn       *pgconn.Conn
	name       string
	sql        string
	paramTypes []uint32
	fields     []*row.Field
	closed     atomic.Bool
}

// Prepare parses sql against conn, resolving its parameter and result
// column types before returning.
func Prepare(ctx context.Context, conn *pgconn.Conn, sql string) (*Statement, error) {
	name := nextName()
	if err := conn.Parse(ctx, name, sql, nil); err != nil {
		return nil, fmt.Errorf("stmt: preparing: %w", err)
	}

	info, err := conn.DescribeStatement(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("stmt: describing: %w", err)
	}

	return &Statement{
		conn:       conn,
		name:       name,
		sql:        sql,
		paramTypes: info.ParamTypes,
		fields:     info.Fields,
	}, nil
}

// Close closes the prepared statement. It is idempotent: calling Close
// more than once, or on a connection that already failed, is a no-op.
func (s *Statement) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.conn.IsClosed() {
		return nil
	}
	return s.conn.CloseStatement(ctx, s.name)
}

// bindParams encodes args against the statement's resolved parameter
// types, returning the wire-format byte slices and the format (text or
// binary) each was encoded in.
func (s *Statement) bindParams(ctx context.Context, args []any) ([][]byte, []int16, error) {
	if len(s.paramTypes) != 0 && len(args) != len(s.paramTypes) {
		return nil, nil, pgerror.Parameterf("stmt: statement takes %d parameters, got %d", len(s.paramTypes), len(args))
	}

	params := make([][]byte, len(args))
	formats := make([]int16, len(args))
	for i, arg := range args {
		var oid uint32
		if i < len(s.paramTypes) {
			oid = s.paramTypes[i]
		}
		data, format, err := s.conn.Types().Encode(ctx, oid, arg)
		if err != nil {
			return nil, nil, pgerror.Parameterf("stmt: parameter %d: %w", i, err)
		}
		params[i] = data
		formats[i] = format
	}
	return params, formats, nil
}

func (s *Statement) decodeRow(ctx context.Context, r *row.Row) ([]any, error) {
	return r.Transform(func(f *row.Field, v row.Value) (any, error) {
		if v.IsNull() {
			return nil, nil
		}
		if f == nil {
			return string(v), nil
		}
		return s.conn.Types().Decode(ctx, f.DataTypeOID, f.Format, v)
	})
}

// Exec runs the statement and returns every result row, fully decoded.
// The portal is closed (implicitly, by Sync) before Exec returns.
func (s *Statement) Exec(ctx context.Context, args ...any) ([][]any, error) {
	params, formats, err := s.bindParams(ctx, args)
	if err != nil {
		return nil, err
	}

	var out [][]any
	err = s.conn.BindAndExecute(ctx, s.name, params, formats, nil, 0, func(ctx context.Context, r *pgconn.Result) error {
		for _, rr := range r.Rows {
			decoded, err := s.decodeRow(ctx, rr)
			if err != nil {
				return err
			}
			out = append(out, decoded)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("stmt: exec: %w", err)
	}
	return out, nil
}

// First runs the statement and returns: the bare scalar if the result
// has exactly one column and one row; the first decoded row if there
// are more columns or more rows; or, for a statement with no result
// columns at all (DML), the command tag and affected row count.
func (s *Statement) First(ctx context.Context, args ...any) (any, error) {
	params, formats, err := s.bindParams(ctx, args)
	if err != nil {
		return nil, err
	}

	var fields []*row.Field
	var first []any
	var tag row.CommandTag
	var rowsAffected uint64
	var gotRow bool
	var nrows int

	err = s.conn.BindAndExecute(ctx, s.name, params, formats, nil, 0, func(ctx context.Context, r *pgconn.Result) error {
		fields = r.Fields
		tag = r.CommandTag
		rowsAffected = r.RowsAffected
		nrows += len(r.Rows)
		if !gotRow && len(r.Rows) > 0 {
			decoded, err := s.decodeRow(ctx, r.Rows[0])
			if err != nil {
				return err
			}
			first = decoded
			gotRow = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("stmt: first: %w", err)
	}

	if len(fields) == 0 {
		return CommandResult{Tag: tag, RowsAffected: rowsAffected}, nil
	}
	if !gotRow {
		return nil, nil
	}
	if len(fields) == 1 && nrows == 1 {
		return first[0], nil
	}
	return first, nil
}

// CommandResult is returned by First for a statement with no result
// columns (an INSERT/UPDATE/DELETE/etc.).
type CommandResult struct {
	Tag          row.CommandTag
	RowsAffected uint64
}

// Rows runs the statement and returns a lazy sequence of decoded rows:
// each pull suspends on the transport until the server's next DataRow
// batch arrives. Breaking out of the range loop early stops delivery,
// but the remaining rows are still read and discarded before Rows
// returns, and the portal is closed by the trailing Sync.
func (s *Statement) Rows(ctx context.Context, args ...any) iter.Seq2[[]any, error] {
	return func(yield func([]any, error) bool) {
		params, formats, err := s.bindParams(ctx, args)
		if err != nil {
			yield(nil, err)
			return
		}

		stopped := false
		err = s.conn.BindAndExecute(ctx, s.name, params, formats, nil, 0, func(ctx context.Context, r *pgconn.Result) error {
			for _, rr := range r.Rows {
				if stopped {
					return nil
				}
				decoded, derr := s.decodeRow(ctx, rr)
				if derr != nil {
					stopped = !yield(nil, derr)
					return nil
				}
				stopped = !yield(decoded, nil)
			}
			return nil
		})
		if err != nil && !stopped {
			yield(nil, fmt.Errorf("stmt: rows: %w", err))
		}
	}
}

// Column is like Rows but yields only the first column's decoded value.
func (s *Statement) Column(ctx context.Context, args ...any) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for r, err := range s.Rows(ctx, args...) {
			if err != nil {
				yield(nil, err)
				return
			}
			var v any
			if len(r) > 0 {
				v = r[0]
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Chunks is like Rows but yields a whole server DataRow batch at a time,
// the streaming-optimal path: no per-row decoding overhead is hidden
// behind the iterator, and a chunk's rows arrived in a single read.
func (s *Statement) Chunks(ctx context.Context, args ...any) iter.Seq2[[][]any, error] {
	return func(yield func([][]any, error) bool) {
		params, formats, err := s.bindParams(ctx, args)
		if err != nil {
			yield(nil, err)
			return
		}

		stopped := false
		err = s.conn.BindAndExecute(ctx, s.name, params, formats, nil, 0, func(ctx context.Context, r *pgconn.Result) error {
			if stopped || len(r.Rows) == 0 {
				return nil
			}
			chunk := make([][]any, 0, len(r.Rows))
			for _, rr := range r.Rows {
				decoded, derr := s.decodeRow(ctx, rr)
				if derr != nil {
					stopped = !yield(nil, derr)
					return nil
				}
				chunk = append(chunk, decoded)
			}
			stopped = !yield(chunk, nil)
			return nil
		})
		if err != nil && !stopped {
			yield(nil, fmt.Errorf("stmt: chunks: %w", err))
		}
	}
}

// LoadRows runs the statement once per item in argsSeq, pipelining every
// item's Bind and Execute messages before reading any of their
// acknowledgements: a bulk-loading path for e.g. repeated INSERTs. The
// first per-item error aborts every item after it.
func (s *Statement) LoadRows(ctx context.Context, argsSeq iter.Seq[[]any]) error {
	var paramSets [][][]byte
	var formatSets [][]int16
	for args := range argsSeq {
		params, formats, err := s.bindParams(ctx, args)
		if err != nil {
			return err
		}
		paramSets = append(paramSets, params)
		formatSets = append(formatSets, formats)
	}

	err := s.conn.PipelineExecute(ctx, s.name, paramSets, formatSets, nil)
	if err != nil {
		return fmt.Errorf("stmt: load_rows: %w", err)
	}
	return nil
}

// LoadChunks is like LoadRows but over chunks of argument sets, matching
// the shape of Statement.chunks on the read side: every chunk's items
// are pipelined together before their acknowledgements are read, and
// each chunk is its own pipeline batch.
func (s *Statement) LoadChunks(ctx context.Context, chunksSeq iter.Seq[[][]any]) error {
	for chunk := range chunksSeq {
		var paramSets [][][]byte
		var formatSets [][]int16
		for _, args := range chunk {
			params, formats, err := s.bindParams(ctx, args)
			if err != nil {
				return err
			}
			paramSets = append(paramSets, params)
			formatSets = append(formatSets, formats)
		}
		if err := s.conn.PipelineExecute(ctx, s.name, paramSets, formatSets, nil); err != nil {
			return fmt.Errorf("stmt: load_chunks: %w", err)
		}
	}
	return nil
}

// Declare opens a scrollable, holdable cursor over the statement's query
// bound with args. Unlike Exec/Rows/Chunks, a declared cursor survives
// past the transaction that created it (WITH HOLD) and supports
// non-sequential access via Cursor.Seek.
func (s *Statement) Declare(ctx context.Context, args ...any) (*Cursor, error) {
	return declareCursor(ctx, s.conn, s.sql, args)
}
