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

// Package row holds the plain, driver-agnostic result types shared by
// the statement, portal, and cursor layers: the raw wire Value (which
// preserves NULL vs. empty-string), the Field describing one column, and
// the Row that carries both.
package row

import "github.com/pgwire/pgwire/pkg/protocol"

// Value is a single column's raw wire bytes. A nil Value is SQL NULL; a
// non-nil, zero-length Value is an empty string or empty bytea.
type Value []byte

// IsNull reports whether this value is SQL NULL.
func (v Value) IsNull() bool { return v == nil }

// Field describes one column of a RowDescription.
type Field struct {
	Name             string
	TableOID         uint32
	TableAttribute   int16
	DataTypeOID      uint32
	TypeName         string
	DataTypeSize     int16
	TypeModifier     int32
	Format           int16
}

// Row is one decoded DataRow: raw column values plus a pointer back to
// the Fields describing them, so callers can look a column up by name
// without re-threading field metadata through every call site.
type Row struct {
	Fields []*Field
	Values []Value
}

// Get returns the raw value at a 0-based column index.
func (r *Row) Get(i int) Value {
	if i < 0 || i >= len(r.Values) {
		return nil
	}
	return r.Values[i]
}

// Named returns the raw value of the first column with the given name,
// and whether such a column was found. Matching is case-sensitive, as
// PostgreSQL folds unquoted identifiers to lower case before it ever
// reaches the wire.
func (r *Row) Named(name string) (Value, bool) {
	for i, f := range r.Fields {
		if f.Name == name {
			return r.Get(i), true
		}
	}
	return nil, false
}

// Transform applies fn to every value in the row, returning a new slice
// of decoded Go values in column order. fn typically closes over a
// pkg/typeio Registry to decode by OID and format.
func (r *Row) Transform(fn func(f *Field, v Value) (any, error)) ([]any, error) {
	out := make([]any, len(r.Values))
	for i, v := range r.Values {
		var f *Field
		if i < len(r.Fields) {
			f = r.Fields[i]
		}
		decoded, err := fn(f, v)
		if err != nil {
			return nil, err
		}
		out[i] = decoded
	}
	return out, nil
}

// Notification is an asynchronous NOTIFY delivered outside of any
// query/response cycle.
type Notification struct {
	ProcessID uint32
	Channel   string
	Payload   string
}

// CommandTag is the trailing command-status string PostgreSQL sends with
// CommandComplete, e.g. "SELECT 42" or "INSERT 0 5".
type CommandTag string

// TxnStatus re-exports protocol.TransactionStatus under the row package
// so callers working with Result don't need a second import for it.
type TxnStatus = protocol.TransactionStatus
