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
	"iter"

	"github.com/pgwire/pgwire/pkg/catalog"
	"github.com/pgwire/pgwire/pkg/pgconn"
)

// SettingGet reads one run-time parameter by name. missing is true when
// name is not a known setting; current_setting's missing_ok mode returns
// NULL in that case rather than raising.
func SettingGet(ctx context.Context, conn *pgconn.Conn, name string) (value string, missing bool, err error) {
	r, err := conn.QueryRow(ctx, catalog.SettingGet, name)
	if err != nil {
		return "", false, fmt.Errorf("stmt: setting get %q: %w", name, err)
	}
	v := r.Get(0)
	if v.IsNull() {
		return "", true, nil
	}
	return string(v), false, nil
}

// SettingSet applies one run-time parameter for the current session.
func SettingSet(ctx context.Context, conn *pgconn.Conn, name, value string) error {
	if _, err := conn.QueryRow(ctx, catalog.SettingSet, name, value); err != nil {
		return fmt.Errorf("stmt: setting set %q: %w", name, err)
	}
	return nil
}

// SettingMGet reads several run-time parameters in one round trip. A
// name with no matching setting is simply absent from the result,
// matching pg_settings' own behavior of only ever listing names it
// recognizes rather than raising on an unknown one.
func SettingMGet(ctx context.Context, conn *pgconn.Conn, names []string) (map[string]string, error) {
	rows, err := conn.QueryAll(ctx, catalog.SettingMGet, names)
	if err != nil {
		return nil, fmt.Errorf("stmt: setting mget: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[string(r.Get(0))] = string(r.Get(1))
	}
	return out, nil
}

// SettingUpdate applies every name/value pair in values for the current
// session in one round trip, the bulk counterpart to SettingSet the way
// mget is the bulk counterpart to get.
func SettingUpdate(ctx context.Context, conn *pgconn.Conn, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	vals := make([]string, 0, len(values))
	for name, value := range values {
		names = append(names, name)
		vals = append(vals, value)
	}
	if _, err := conn.QueryAll(ctx, catalog.SettingUpdate, names, vals); err != nil {
		return fmt.Errorf("stmt: setting update: %w", err)
	}
	return nil
}

// SettingItems returns every current run-time parameter as a name/value
// sequence, ordered by name, in one round trip.
func SettingItems(ctx context.Context, conn *pgconn.Conn) (iter.Seq2[string, string], error) {
	rows, err := conn.QueryAll(ctx, catalog.SettingItems)
	if err != nil {
		return nil, fmt.Errorf("stmt: setting items: %w", err)
	}
	return func(yield func(string, string) bool) {
		for _, r := range rows {
			if !yield(string(r.Get(0)), string(r.Get(1))) {
				return
			}
		}
	}, nil
}

// SettingKeys is SettingItems with only the name of each parameter.
func SettingKeys(ctx context.Context, conn *pgconn.Conn) (iter.Seq[string], error) {
	items, err := SettingItems(ctx, conn)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for k := range items {
			if !yield(k) {
				return
			}
		}
	}, nil
}

// SettingValues is SettingItems with only the value of each parameter.
func SettingValues(ctx context.Context, conn *pgconn.Conn) (iter.Seq[string], error) {
	items, err := SettingItems(ctx, conn)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}, nil
}
