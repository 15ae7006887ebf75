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

package txn

import (
	"context"
	"fmt"

	"github.com/pgwire/pgwire/pkg/catalog"
	"github.com/pgwire/pgwire/pkg/pgconn"
)

// PreparedXact is one row of pg_prepared_xacts: a transaction left in
// the PREPARED state by two-phase commit, awaiting COMMIT PREPARED or
// ROLLBACK PREPARED from whatever external transaction manager owns it.
//
// Two-phase commit itself is deprecated and out of scope for this
// layer: Tx never issues PREPARE TRANSACTION, COMMIT PREPARED, or
// ROLLBACK PREPARED. These two functions exist only so a caller that
// already knows about an external 2PC coordinator can inspect what it
// left behind.
type PreparedXact struct {
	GID      string
	Prepared string
	Owner    string
	Database string
}

// LookupPreparedXacts lists every prepared transaction visible to conn's
// current user.
func LookupPreparedXacts(ctx context.Context, conn *pgconn.Conn) ([]PreparedXact, error) {
	rows, err := conn.QueryAll(ctx, catalog.LookupPreparedXacts)
	if err != nil {
		return nil, fmt.Errorf("txn: listing prepared transactions: %w", err)
	}

	out := make([]PreparedXact, 0, len(rows))
	for _, r := range rows {
		gid, _ := r.Named("gid")
		prepared, _ := r.Named("prepared")
		owner, _ := r.Named("owner")
		database, _ := r.Named("database")
		out = append(out, PreparedXact{
			GID:      string(gid),
			Prepared: string(prepared),
			Owner:    string(owner),
			Database: string(database),
		})
	}
	return out, nil
}

// IsPrepared reports whether gid currently names a prepared transaction.
func IsPrepared(ctx context.Context, conn *pgconn.Conn, gid string) (bool, error) {
	r, err := conn.QueryRow(ctx, catalog.XactIsPrepared, gid)
	if err != nil {
		return false, fmt.Errorf("txn: checking prepared transaction %q: %w", gid, err)
	}
	v, _ := r.Named("exists")
	return len(v) > 0 && (v[0] == 't' || v[0] == 'T'), nil
}
