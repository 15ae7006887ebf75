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

// Package catalog holds the exact SQL text of the system-catalog and
// built-in-function queries the rest of the runtime is permitted to
// issue on the caller's behalf: type/composite lookups for pkg/typeio,
// settings access, advisory locks, LISTEN/NOTIFY plumbing, and the
// read-only two-phase-commit probes. Keeping the text in one place
// means every query this driver ever sends is auditable in one file.
package catalog

// LookupType resolves one pg_type row by OID: name, typtype (to tell a
// domain/base/composite/enum/range apart), typbasetype (domain base
// type), typrelid (composite's backing pg_class), and element type for
// arrays.
const LookupType = `
SELECT typname, typtype, typbasetype, typrelid, typelem, typlen, typdelim
FROM pg_catalog.pg_type
WHERE oid = $1`

// LookupComposite resolves the column list of a composite type's backing
// relation, in attribute order, skipping dropped columns.
const LookupComposite = `
SELECT attname, atttypid
FROM pg_catalog.pg_attribute
WHERE attrelid = $1 AND attnum > 0 AND NOT attisdropped
ORDER BY attnum`

// LookupBaseTypeRecursive follows typbasetype through a chain of nested
// domains until it reaches a non-domain base type, returning that type's
// OID. Recursive CTEs here avoid a round trip per domain level.
const LookupBaseTypeRecursive = `
WITH RECURSIVE base AS (
	SELECT oid, typbasetype, typtype FROM pg_catalog.pg_type WHERE oid = $1
	UNION ALL
	SELECT t.oid, t.typbasetype, t.typtype
	FROM pg_catalog.pg_type t
	JOIN base b ON t.oid = b.typbasetype
)
SELECT oid FROM base WHERE typtype <> 'd' LIMIT 1`

// StartupData probes server_version and a handful of settings this
// runtime needs to choose wire formats correctly. Targets a 9.2-minimum
// baseline: integer_datetimes has been hardcoded "on" since PostgreSQL
// 10, so the 8.1-era float-timestamp negotiation some older drivers
// perform is intentionally not implemented here (see SPEC_FULL.md §5).
const StartupData = `
SELECT name, setting
FROM pg_catalog.pg_settings
WHERE name IN ('server_version', 'server_encoding', 'client_encoding', 'DateStyle', 'TimeZone', 'integer_datetimes')`

// SettingGet reads one run-time parameter.
const SettingGet = `SELECT current_setting($1, true)`

// SettingSet applies one run-time parameter for the current session.
// PostgreSQL does not support parameter placeholders in SET, so the
// caller must use pg_catalog.set_config to pass the name/value safely.
const SettingSet = `SELECT pg_catalog.set_config($1, $2, false)`

// SettingMGet reads several run-time parameters in one round trip.
const SettingMGet = `
SELECT name, setting
FROM pg_catalog.pg_settings
WHERE name = ANY($1::text[])`

// SettingUpdate applies several run-time parameters for the current
// session in one round trip, pairing $1 (names) with $2 (values)
// positionally via unnest rather than one set_config call per key.
const SettingUpdate = `
SELECT pg_catalog.set_config(u.name, u.value, false)
FROM unnest($1::text[], $2::text[]) AS u(name, value)`

// SettingItems lists every run-time parameter visible to the current
// session, ordered by name, for an items/keys/values-style walk over
// the full pg_settings mapping rather than a lookup by known name.
const SettingItems = `
SELECT name, setting
FROM pg_catalog.pg_settings
ORDER BY name`

// ListeningChannels lists the channels the current backend is LISTENing
// on, per pg_listening_channels().
const ListeningChannels = `SELECT pg_catalog.pg_listening_channels()`

// NotifyChannel issues NOTIFY with a payload via the function form, so
// the channel and payload can be bound as ordinary parameters instead of
// being spliced into SQL text.
const NotifyChannel = `SELECT pg_catalog.pg_notify($1, $2)`

// Advisory locks come in two key shapes (a (int4,int4) pair, or a single
// int8) crossed with session/transaction scope, exclusive/shared mode,
// and blocking/try acquisition — the full matrix PostgreSQL itself
// exposes as separate pg_advisory_* functions. The *Key constants are
// the single-int8-key form; the rest take two int4 keys. Transaction-
// scoped locks release automatically at transaction end, so unlike
// session locks they have no corresponding release constant.

// AdvisoryLockAcquireSession acquires a session-level exclusive advisory
// lock, blocking until available.
const AdvisoryLockAcquireSession = `SELECT pg_catalog.pg_advisory_lock($1, $2)`

// AdvisoryLockAcquireSessionKey is AdvisoryLockAcquireSession's single
// int8-key form.
const AdvisoryLockAcquireSessionKey = `SELECT pg_catalog.pg_advisory_lock($1)`

// AdvisoryLockAcquireSessionShared acquires a session-level shared
// advisory lock, blocking until available.
const AdvisoryLockAcquireSessionShared = `SELECT pg_catalog.pg_advisory_lock_shared($1, $2)`

// AdvisoryLockAcquireSessionSharedKey is AdvisoryLockAcquireSessionShared's
// single int8-key form.
const AdvisoryLockAcquireSessionSharedKey = `SELECT pg_catalog.pg_advisory_lock_shared($1)`

// AdvisoryLockTrySession attempts a session-level exclusive advisory
// lock without blocking, returning whether it was acquired.
const AdvisoryLockTrySession = `SELECT pg_catalog.pg_try_advisory_lock($1, $2)`

// AdvisoryLockTrySessionKey is AdvisoryLockTrySession's single int8-key
// form.
const AdvisoryLockTrySessionKey = `SELECT pg_catalog.pg_try_advisory_lock($1)`

// AdvisoryLockTrySessionShared attempts a session-level shared advisory
// lock without blocking, returning whether it was acquired.
const AdvisoryLockTrySessionShared = `SELECT pg_catalog.pg_try_advisory_lock_shared($1, $2)`

// AdvisoryLockTrySessionSharedKey is AdvisoryLockTrySessionShared's
// single int8-key form.
const AdvisoryLockTrySessionSharedKey = `SELECT pg_catalog.pg_try_advisory_lock_shared($1)`

// AdvisoryLockReleaseSession releases a session-level exclusive advisory
// lock.
const AdvisoryLockReleaseSession = `SELECT pg_catalog.pg_advisory_unlock($1, $2)`

// AdvisoryLockReleaseSessionKey is AdvisoryLockReleaseSession's single
// int8-key form.
const AdvisoryLockReleaseSessionKey = `SELECT pg_catalog.pg_advisory_unlock($1)`

// AdvisoryLockReleaseSessionShared releases a session-level shared
// advisory lock.
const AdvisoryLockReleaseSessionShared = `SELECT pg_catalog.pg_advisory_unlock_shared($1, $2)`

// AdvisoryLockReleaseSessionSharedKey is AdvisoryLockReleaseSessionShared's
// single int8-key form.
const AdvisoryLockReleaseSessionSharedKey = `SELECT pg_catalog.pg_advisory_unlock_shared($1)`

// AdvisoryLockAcquireXact acquires a transaction-level exclusive
// advisory lock, automatically released at transaction end.
const AdvisoryLockAcquireXact = `SELECT pg_catalog.pg_advisory_xact_lock($1, $2)`

// AdvisoryLockAcquireXactKey is AdvisoryLockAcquireXact's single
// int8-key form.
const AdvisoryLockAcquireXactKey = `SELECT pg_catalog.pg_advisory_xact_lock($1)`

// AdvisoryLockAcquireXactShared acquires a transaction-level shared
// advisory lock, automatically released at transaction end.
const AdvisoryLockAcquireXactShared = `SELECT pg_catalog.pg_advisory_xact_lock_shared($1, $2)`

// AdvisoryLockAcquireXactSharedKey is AdvisoryLockAcquireXactShared's
// single int8-key form.
const AdvisoryLockAcquireXactSharedKey = `SELECT pg_catalog.pg_advisory_xact_lock_shared($1)`

// AdvisoryLockTryXact attempts a transaction-level exclusive advisory
// lock without blocking.
const AdvisoryLockTryXact = `SELECT pg_catalog.pg_try_advisory_xact_lock($1, $2)`

// AdvisoryLockTryXactKey is AdvisoryLockTryXact's single int8-key form.
const AdvisoryLockTryXactKey = `SELECT pg_catalog.pg_try_advisory_xact_lock($1)`

// AdvisoryLockTryXactShared attempts a transaction-level shared advisory
// lock without blocking.
const AdvisoryLockTryXactShared = `SELECT pg_catalog.pg_try_advisory_xact_lock_shared($1, $2)`

// AdvisoryLockTryXactSharedKey is AdvisoryLockTryXactShared's single
// int8-key form.
const AdvisoryLockTryXactSharedKey = `SELECT pg_catalog.pg_try_advisory_xact_lock_shared($1)`

// LookupPreparedXacts lists prepared (two-phase commit) transactions
// visible to the current user, per spec's Open Question (a): this
// runtime only exposes the read-only probe, never PREPARE TRANSACTION
// or COMMIT PREPARED themselves.
const LookupPreparedXacts = `
SELECT gid, prepared, owner, database
FROM pg_catalog.pg_prepared_xacts`

// XactIsPrepared reports whether a given global transaction ID is
// currently prepared.
const XactIsPrepared = `
SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_prepared_xacts WHERE gid = $1)`
