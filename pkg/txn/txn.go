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

// Package txn is the transaction layer: a handle over a begun
// transaction block that knows how to commit or roll back itself, and
// how to nest into automatically-named savepoints.
package txn

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pgwire/pgwire/pkg/pgconn"
	"github.com/pgwire/pgwire/pkg/pgerror"
	"github.com/pgwire/pgwire/pkg/protocol"
)

// Isolation is a PostgreSQL transaction isolation level.
type Isolation string

const (
	ReadCommitted  Isolation = "READ COMMITTED"
	RepeatableRead Isolation = "REPEATABLE READ"
	Serializable   Isolation = "SERIALIZABLE"
)

// Mode is the read/write mode of a transaction.
type Mode string

const (
	ReadWrite Mode = "READ WRITE"
	ReadOnly  Mode = "READ ONLY"
)

// Options configures a top-level Begin. All fields are optional; a zero
// Options leaves every setting at the server's default. Deferrable only
// has an effect combined with Serializable and ReadOnly; the server
// itself rejects any other combination, so this runtime does not
// pre-validate it.
type Options struct {
	Isolation  Isolation
	Mode       Mode
	Deferrable bool
}

// Tx is one transaction or savepoint handle. depth 0 is the top-level
// transaction block; depth N>0 is the Nth nested savepoint, named
// __pg_savepoint_<N>__.
type Tx struct {
	conn   *pgconn.Conn
	depth  int
	name   string // "" at depth 0
	closed atomic.Bool
}

func savepointName(depth int) string {
	return fmt.Sprintf("__pg_savepoint_%d__", depth)
}

// Begin starts a top-level transaction block on conn.
func Begin(ctx context.Context, conn *pgconn.Conn, opts Options) (*Tx, error) {
	sql := "BEGIN"
	if opts.Isolation != "" {
		sql += " ISOLATION LEVEL " + string(opts.Isolation)
	}
	if opts.Mode != "" {
		sql += " " + string(opts.Mode)
	}
	if opts.Deferrable {
		sql += " DEFERRABLE"
	}

	if _, err := conn.Query(ctx, sql); err != nil {
		return nil, fmt.Errorf("txn: begin: %w", err)
	}
	return &Tx{conn: conn, depth: 0}, nil
}

// Begin opens a nested transaction on top of t, implemented as a
// savepoint named after its nesting depth.
func (t *Tx) Begin(ctx context.Context) (*Tx, error) {
	child := &Tx{conn: t.conn, depth: t.depth + 1, name: savepointName(t.depth + 1)}
	if _, err := t.conn.Query(ctx, "SAVEPOINT "+child.name); err != nil {
		return nil, fmt.Errorf("txn: savepoint: %w", err)
	}
	return child, nil
}

// Commit commits the transaction (depth 0) or releases the savepoint
// (depth>0). At depth 0, if the connection is in a failed transaction
// block, Commit refuses to silently roll back on the caller's behalf:
// it returns a failed-block-on-exit state error, since a server-side
// ROLLBACK masquerading as a successful Commit is the single mistake
// this layer must never make.
func (t *Tx) Commit(ctx context.Context) error {
	if !t.closed.CompareAndSwap(false, true) {
		return pgerror.Statef("txn: commit: transaction already closed")
	}

	if t.depth == 0 {
		if t.conn.TxnStatus() == protocol.TxnStatusFailed {
			return pgerror.Statef("txn: commit: connection is in a failed transaction block")
		}
		if _, err := t.conn.Query(ctx, "COMMIT"); err != nil {
			return fmt.Errorf("txn: commit: %w", err)
		}
		return nil
	}

	if _, err := t.conn.Query(ctx, "RELEASE SAVEPOINT "+t.name); err != nil {
		return fmt.Errorf("txn: release savepoint: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction (depth 0) or rolls back to and
// releases the savepoint (depth>0). Rollback of an already-closed handle
// (committed or rolled back) fails with a state error rather than
// succeeding silently, since a caller relying on idempotent rollback
// here would be masking a double-exit bug in its own cleanup logic.
func (t *Tx) Rollback(ctx context.Context) error {
	if !t.closed.CompareAndSwap(false, true) {
		return pgerror.Statef("txn: rollback: transaction already closed")
	}

	if t.depth == 0 {
		if _, err := t.conn.Query(ctx, "ROLLBACK"); err != nil {
			return fmt.Errorf("txn: rollback: %w", err)
		}
		return nil
	}

	if _, err := t.conn.Query(ctx, "ROLLBACK TO SAVEPOINT "+t.name); err != nil {
		return fmt.Errorf("txn: rollback to savepoint: %w", err)
	}
	if _, err := t.conn.Query(ctx, "RELEASE SAVEPOINT "+t.name); err != nil {
		return fmt.Errorf("txn: release savepoint after rollback: %w", err)
	}
	return nil
}

// Depth returns the transaction's nesting depth (0 for the top-level
// transaction, N for the Nth nested savepoint).
func (t *Tx) Depth() int { return t.depth }

// Run begins a transaction, runs fn, and commits on fn's successful
// return or rolls back if fn returns an error or panics. This is the
// context-scoped usage pattern from the transaction layer's design: the
// transaction's fate is tied to fn's own exit path rather than left to
// the caller to remember.
func Run(ctx context.Context, conn *pgconn.Conn, opts Options, fn func(ctx context.Context, tx *Tx) error) (err error) {
	tx, err := Begin(ctx, conn, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("txn: run: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}
