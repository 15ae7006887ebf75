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

	"github.com/pgwire/pgwire/pkg/catalog"
	"github.com/pgwire/pgwire/pkg/pgconn"
)

// advisoryBool runs one of the boolean-returning pg_try_advisory_* or
// pg_advisory_unlock* functions and reports its result.
func advisoryBool(ctx context.Context, conn *pgconn.Conn, op, sql string, args ...any) (bool, error) {
	r, err := conn.QueryRow(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("stmt: advisory %s: %w", op, err)
	}
	v := r.Get(0)
	return len(v) > 0 && (v[0] == 't' || v[0] == 'T'), nil
}

// advisoryVoid runs one of the blocking pg_advisory_* lock functions,
// which return void and only ever fail by raising.
func advisoryVoid(ctx context.Context, conn *pgconn.Conn, op, sql string, args ...any) error {
	if _, err := conn.QueryRow(ctx, sql, args...); err != nil {
		return fmt.Errorf("stmt: advisory %s: %w", op, err)
	}
	return nil
}

// AdvisoryLockSession acquires a session-level exclusive advisory lock
// on the (key1, key2) pair, blocking until available.
func AdvisoryLockSession(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) error {
	return advisoryVoid(ctx, conn, "lock session", catalog.AdvisoryLockAcquireSession, key1, key2)
}

// AdvisoryLockSessionKey is AdvisoryLockSession's single int8-key form.
func AdvisoryLockSessionKey(ctx context.Context, conn *pgconn.Conn, key int64) error {
	return advisoryVoid(ctx, conn, "lock session", catalog.AdvisoryLockAcquireSessionKey, key)
}

// AdvisoryLockSessionShared acquires a session-level shared advisory
// lock on the (key1, key2) pair, blocking until available.
func AdvisoryLockSessionShared(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) error {
	return advisoryVoid(ctx, conn, "lock session shared", catalog.AdvisoryLockAcquireSessionShared, key1, key2)
}

// AdvisoryLockSessionSharedKey is AdvisoryLockSessionShared's single
// int8-key form.
func AdvisoryLockSessionSharedKey(ctx context.Context, conn *pgconn.Conn, key int64) error {
	return advisoryVoid(ctx, conn, "lock session shared", catalog.AdvisoryLockAcquireSessionSharedKey, key)
}

// AdvisoryTryLockSession attempts a session-level exclusive advisory
// lock on the (key1, key2) pair without blocking, reporting whether it
// was acquired.
func AdvisoryTryLockSession(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) (bool, error) {
	return advisoryBool(ctx, conn, "try lock session", catalog.AdvisoryLockTrySession, key1, key2)
}

// AdvisoryTryLockSessionKey is AdvisoryTryLockSession's single int8-key
// form.
func AdvisoryTryLockSessionKey(ctx context.Context, conn *pgconn.Conn, key int64) (bool, error) {
	return advisoryBool(ctx, conn, "try lock session", catalog.AdvisoryLockTrySessionKey, key)
}

// AdvisoryTryLockSessionShared attempts a session-level shared advisory
// lock on the (key1, key2) pair without blocking, reporting whether it
// was acquired.
func AdvisoryTryLockSessionShared(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) (bool, error) {
	return advisoryBool(ctx, conn, "try lock session shared", catalog.AdvisoryLockTrySessionShared, key1, key2)
}

// AdvisoryTryLockSessionSharedKey is AdvisoryTryLockSessionShared's
// single int8-key form.
func AdvisoryTryLockSessionSharedKey(ctx context.Context, conn *pgconn.Conn, key int64) (bool, error) {
	return advisoryBool(ctx, conn, "try lock session shared", catalog.AdvisoryLockTrySessionSharedKey, key)
}

// AdvisoryUnlockSession releases a session-level exclusive advisory lock
// on the (key1, key2) pair, reporting whether it was actually held.
func AdvisoryUnlockSession(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) (bool, error) {
	return advisoryBool(ctx, conn, "unlock session", catalog.AdvisoryLockReleaseSession, key1, key2)
}

// AdvisoryUnlockSessionKey is AdvisoryUnlockSession's single int8-key
// form.
func AdvisoryUnlockSessionKey(ctx context.Context, conn *pgconn.Conn, key int64) (bool, error) {
	return advisoryBool(ctx, conn, "unlock session", catalog.AdvisoryLockReleaseSessionKey, key)
}

// AdvisoryUnlockSessionShared releases a session-level shared advisory
// lock on the (key1, key2) pair, reporting whether it was actually held.
func AdvisoryUnlockSessionShared(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) (bool, error) {
	return advisoryBool(ctx, conn, "unlock session shared", catalog.AdvisoryLockReleaseSessionShared, key1, key2)
}

// AdvisoryUnlockSessionSharedKey is AdvisoryUnlockSessionShared's single
// int8-key form.
func AdvisoryUnlockSessionSharedKey(ctx context.Context, conn *pgconn.Conn, key int64) (bool, error) {
	return advisoryBool(ctx, conn, "unlock session shared", catalog.AdvisoryLockReleaseSessionSharedKey, key)
}

// AdvisoryLockXact acquires a transaction-level exclusive advisory lock
// on the (key1, key2) pair, automatically released at transaction end.
func AdvisoryLockXact(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) error {
	return advisoryVoid(ctx, conn, "lock xact", catalog.AdvisoryLockAcquireXact, key1, key2)
}

// AdvisoryLockXactKey is AdvisoryLockXact's single int8-key form.
func AdvisoryLockXactKey(ctx context.Context, conn *pgconn.Conn, key int64) error {
	return advisoryVoid(ctx, conn, "lock xact", catalog.AdvisoryLockAcquireXactKey, key)
}

// AdvisoryLockXactShared acquires a transaction-level shared advisory
// lock on the (key1, key2) pair, automatically released at transaction
// end.
func AdvisoryLockXactShared(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) error {
	return advisoryVoid(ctx, conn, "lock xact shared", catalog.AdvisoryLockAcquireXactShared, key1, key2)
}

// AdvisoryLockXactSharedKey is AdvisoryLockXactShared's single int8-key
// form.
func AdvisoryLockXactSharedKey(ctx context.Context, conn *pgconn.Conn, key int64) error {
	return advisoryVoid(ctx, conn, "lock xact shared", catalog.AdvisoryLockAcquireXactSharedKey, key)
}

// AdvisoryTryLockXact attempts a transaction-level exclusive advisory
// lock on the (key1, key2) pair without blocking.
func AdvisoryTryLockXact(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) (bool, error) {
	return advisoryBool(ctx, conn, "try lock xact", catalog.AdvisoryLockTryXact, key1, key2)
}

// AdvisoryTryLockXactKey is AdvisoryTryLockXact's single int8-key form.
func AdvisoryTryLockXactKey(ctx context.Context, conn *pgconn.Conn, key int64) (bool, error) {
	return advisoryBool(ctx, conn, "try lock xact", catalog.AdvisoryLockTryXactKey, key)
}

// AdvisoryTryLockXactShared attempts a transaction-level shared advisory
// lock on the (key1, key2) pair without blocking.
func AdvisoryTryLockXactShared(ctx context.Context, conn *pgconn.Conn, key1, key2 int32) (bool, error) {
	return advisoryBool(ctx, conn, "try lock xact shared", catalog.AdvisoryLockTryXactShared, key1, key2)
}

// AdvisoryTryLockXactSharedKey is AdvisoryTryLockXactShared's single
// int8-key form.
func AdvisoryTryLockXactSharedKey(ctx context.Context, conn *pgconn.Conn, key int64) (bool, error) {
	return advisoryBool(ctx, conn, "try lock xact shared", catalog.AdvisoryLockTryXactSharedKey, key)
}
