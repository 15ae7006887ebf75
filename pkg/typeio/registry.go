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

// Package typeio is the type registry: it maps a wire OID to the codec
// that can decode and encode it, bootstrapping the handful of types its
// own catalog queries need before any catalog query can run, and lazily
// resolving everything else (including nested domains, composites, and
// arrays) by querying pg_catalog through a caller-supplied Querier.
//
// The bootstrap set breaks an otherwise circular dependency: resolving
// an unknown OID means running a query, and running any query at all
// means decoding its result row, which needs the very OIDs the catalog
// queries themselves return (oid, name, bool, int2, int4, int8, text,
// char). Those eight types are therefore wired in directly rather than
// discovered.
package typeio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pgwire/pgwire/pkg/catalog"
	"github.com/pgwire/pgwire/pkg/pgtype"
	"github.com/pgwire/pgwire/pkg/protocol"
	"github.com/pgwire/pgwire/pkg/row"
)

// Kind classifies a pg_type entry, mirroring pg_type.typtype.
type Kind byte

// Type kinds this registry resolves.
const (
	KindBase Kind = iota
	KindDomain
	KindComposite
	KindEnum
	KindArray
	KindPseudo
)

// CompositeField describes one attribute of a composite type's backing
// relation, in declaration order.
type CompositeField struct {
	Name string
	OID  uint32
}

// Codec decodes and encodes the wire representation of one base type.
// Decode and Encode are selected by wire format (text or binary); a
// Codec need not support both, but every bootstrap and built-in codec in
// this package supports binary, and the text formats used by COPY and by
// the simple query protocol.
type Codec struct {
	DecodeBinary func([]byte) (any, error)
	DecodeText   func([]byte) (any, error)
	EncodeBinary func(any) ([]byte, error)
	EncodeText   func(any) ([]byte, error)
	// PreferredFormat is the format this runtime requests for this type
	// when it controls the choice (e.g. Bind's result-format list).
	PreferredFormat int16
}

// TypeInfo is one resolved registry entry.
type TypeInfo struct {
	OID             uint32
	Name            string
	Kind            Kind
	ElementOID      uint32 // KindArray: the element type
	BaseOID         uint32 // KindDomain: the type it was declared over
	UltimateBaseOID uint32 // KindDomain: the non-domain type at the root of the chain
	CompositeFields []CompositeField
	Codec           *Codec // nil for KindComposite/KindArray/KindPseudo
}

// Querier is the minimal query capability the registry needs to resolve
// an unknown OID against pg_catalog. pkg/pgconn's Conn satisfies this
// via its QueryRow method; the registry does not import pgconn directly,
// avoiding an import cycle (pgconn, in turn, uses a Registry to decode
// the rows it reads).
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) (*row.Row, error)
	QueryAll(ctx context.Context, sql string, args ...any) ([]*row.Row, error)
}

// Registry caches resolved TypeInfo by OID, querying q to resolve a miss.
type Registry struct {
	mu    sync.RWMutex
	cache map[uint32]*TypeInfo
	q     Querier
}

// NewRegistry builds a Registry pre-seeded with the bootstrap codecs and
// backed by q for everything else.
func NewRegistry(q Querier) *Registry {
	r := &Registry{cache: make(map[uint32]*TypeInfo), q: q}
	for oid, info := range bootstrapTypes() {
		r.cache[oid] = info
	}
	return r
}

// Register installs or overrides the codec for oid, letting a caller
// teach the registry about an extension type (e.g. postgis's geometry)
// or override a built-in decode (e.g. decode numeric as a big.Rat
// instead of pgtype.Numeric).
func (r *Registry) Register(oid uint32, info *TypeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[oid] = info
}

// Lookup resolves oid, querying pg_catalog and recursing into domain
// base types and composite member columns as needed, and caching the
// result.
func (r *Registry) Lookup(ctx context.Context, oid uint32) (*TypeInfo, error) {
	r.mu.RLock()
	if info, ok := r.cache[oid]; ok {
		r.mu.RUnlock()
		return info, nil
	}
	r.mu.RUnlock()

	info, err := r.resolve(ctx, oid)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[oid] = info
	r.mu.Unlock()
	return info, nil
}

func (r *Registry) resolve(ctx context.Context, oid uint32) (*TypeInfo, error) {
	rr, err := r.q.QueryRow(ctx, catalog.LookupType, oid)
	if err != nil {
		return nil, fmt.Errorf("typeio: looking up oid %d: %w", oid, err)
	}

	name, _ := rr.Named("typname")
	typtype, _ := rr.Named("typtype")
	typbasetype, _ := rr.Named("typbasetype")
	typrelid, _ := rr.Named("typrelid")
	typelem, _ := rr.Named("typelem")

	info := &TypeInfo{
		OID:  oid,
		Name: string(name),
	}

	switch string(typtype) {
	case "d": // domain
		info.Kind = KindDomain
		info.BaseOID = parseOID(typbasetype)
		ultimate, err := r.lookupUltimateBase(ctx, oid)
		if err != nil {
			return nil, err
		}
		info.UltimateBaseOID = ultimate
		base, err := r.Lookup(ctx, ultimate)
		if err != nil {
			return nil, err
		}
		info.Codec = base.Codec
	case "c": // composite
		info.Kind = KindComposite
		fields, err := r.lookupCompositeFields(ctx, parseOID(typrelid))
		if err != nil {
			return nil, err
		}
		info.CompositeFields = fields
	case "e": // enum
		info.Kind = KindEnum
		info.Codec = &Codec{
			DecodeText:   func(b []byte) (any, error) { return string(b), nil },
			DecodeBinary: func(b []byte) (any, error) { return string(b), nil },
			EncodeText:   func(v any) ([]byte, error) { return []byte(fmt.Sprint(v)), nil },
		}
	case "p": // pseudo-type
		info.Kind = KindPseudo
	default: // "b" base, or anything else this runtime doesn't special-case
		info.Kind = KindBase
		elemOID := parseOID(typelem)
		if elemOID != 0 {
			info.Kind = KindArray
			info.ElementOID = elemOID
		} else if codec, ok := builtinCodecs[oid]; ok {
			info.Codec = codec
		} else {
			slog.Warn("typeio: no built-in codec for base type, decoding as raw text", "oid", oid, "name", info.Name)
			info.Codec = rawTextCodec
		}
	}

	return info, nil
}

func (r *Registry) lookupUltimateBase(ctx context.Context, oid uint32) (uint32, error) {
	rr, err := r.q.QueryRow(ctx, catalog.LookupBaseTypeRecursive, oid)
	if err != nil {
		return 0, fmt.Errorf("typeio: resolving domain base for oid %d: %w", oid, err)
	}
	v, _ := rr.Named("oid")
	return parseOID(v), nil
}

func (r *Registry) lookupCompositeFields(ctx context.Context, relOID uint32) ([]CompositeField, error) {
	rows, err := r.q.QueryAll(ctx, catalog.LookupComposite, relOID)
	if err != nil {
		return nil, fmt.Errorf("typeio: resolving composite fields for relid %d: %w", relOID, err)
	}

	fields := make([]CompositeField, 0, len(rows))
	for _, rr := range rows {
		name, _ := rr.Named("attname")
		oid, _ := rr.Named("atttypid")
		fields = append(fields, CompositeField{Name: string(name), OID: parseOID(oid)})
	}
	return fields, nil
}

func parseOID(v row.Value) uint32 {
	var n uint32
	for _, c := range v {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + uint32(c-'0')
	}
	return n
}

// Decode decodes raw bytes of the given OID and wire format into a Go
// value, recursing through domains, arrays, and composites.
func (r *Registry) Decode(ctx context.Context, oid uint32, format int16, raw []byte) (any, error) {
	if raw == nil {
		return nil, nil
	}

	info, err := r.Lookup(ctx, oid)
	if err != nil {
		return nil, err
	}

	switch info.Kind {
	case KindArray:
		return r.decodeArray(ctx, info, format, raw)
	case KindComposite:
		return r.decodeComposite(ctx, raw)
	default:
		if info.Codec == nil {
			return raw, nil
		}
		if format == protocol.FormatBinary && info.Codec.DecodeBinary != nil {
			return info.Codec.DecodeBinary(raw)
		}
		if info.Codec.DecodeText != nil {
			return info.Codec.DecodeText(raw)
		}
		return raw, nil
	}
}

// Encode marshals v for transmission as the parameter bound to oid,
// returning the wire bytes and the format they're encoded in. A nil v
// encodes as a SQL NULL (nil bytes, format text). An oid of 0 (the
// server left the parameter's type for the client to choose, or the
// caller never resolved it) falls back to text format via fmt.Sprint,
// letting the server infer the type from context the same way it would
// for a literal in the simple query protocol.
func (r *Registry) Encode(ctx context.Context, oid uint32, v any) ([]byte, int16, error) {
	if v == nil {
		return nil, protocol.FormatText, nil
	}
	if oid == 0 {
		return pgtype.EncodeText(fmt.Sprint(v)), protocol.FormatText, nil
	}

	info, err := r.Lookup(ctx, oid)
	if err != nil {
		return nil, 0, err
	}
	if info.Codec == nil {
		return pgtype.EncodeText(fmt.Sprint(v)), protocol.FormatText, nil
	}
	if info.Codec.EncodeBinary != nil {
		b, err := info.Codec.EncodeBinary(v)
		if err != nil {
			return nil, 0, fmt.Errorf("typeio: encoding %s parameter: %w", info.Name, err)
		}
		return b, protocol.FormatBinary, nil
	}
	if info.Codec.EncodeText != nil {
		b, err := info.Codec.EncodeText(v)
		if err != nil {
			return nil, 0, fmt.Errorf("typeio: encoding %s parameter: %w", info.Name, err)
		}
		return b, protocol.FormatText, nil
	}
	return pgtype.EncodeText(fmt.Sprint(v)), protocol.FormatText, nil
}

func (r *Registry) decodeArray(ctx context.Context, info *TypeInfo, format int16, raw []byte) (any, error) {
	if format != protocol.FormatBinary {
		// Text-format arrays use PostgreSQL's brace/comma array literal
		// syntax, which this runtime does not parse; callers wanting
		// array values should request binary result format.
		return nil, fmt.Errorf("typeio: text-format array decoding not supported for %s", info.Name)
	}
	arr, err := pgtype.DecodeArrayBinary(raw)
	if err != nil {
		return nil, fmt.Errorf("typeio: decoding array %s: %w", info.Name, err)
	}

	out := make([]any, len(arr.Elements))
	for i, elem := range arr.Elements {
		if elem == nil {
			continue
		}
		v, err := r.Decode(ctx, arr.ElementOID, format, elem)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *Registry) decodeComposite(ctx context.Context, raw []byte) (any, error) {
	fields, err := pgtype.DecodeCompositeBinary(raw)
	if err != nil {
		return nil, fmt.Errorf("typeio: decoding composite: %w", err)
	}

	out := make(map[string]any, len(fields))
	for i, f := range fields {
		var v any
		if f.Value != nil {
			v, err = r.Decode(ctx, f.OID, protocol.FormatBinary, f.Value)
			if err != nil {
				return nil, err
			}
		}
		out[fmt.Sprintf("f%d", i)] = v
	}
	return out, nil
}
