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

package typeio

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pgwire/pgwire/pkg/pgtype"
	"github.com/pgwire/pgwire/pkg/protocol"
)

var rawTextCodec = &Codec{
	DecodeText:   func(b []byte) (any, error) { return string(b), nil },
	DecodeBinary: func(b []byte) (any, error) { return append([]byte(nil), b...), nil },
	EncodeText:   func(v any) ([]byte, error) { return []byte(fmt.Sprint(v)), nil },
}

var textCodec = &Codec{
	DecodeText:      func(b []byte) (any, error) { return pgtype.DecodeText(b), nil },
	DecodeBinary:    func(b []byte) (any, error) { return pgtype.DecodeText(b), nil },
	EncodeText:      func(v any) ([]byte, error) { return pgtype.EncodeText(fmt.Sprint(v)), nil },
	PreferredFormat: protocol.FormatText,
}

var boolCodec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeBool(b) },
	DecodeText:   func(b []byte) (any, error) { return len(b) > 0 && (b[0] == 't' || b[0] == 'T'), nil },
	EncodeBinary: func(v any) ([]byte, error) {
		bv, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("typeio: expected bool, got %T", v)
		}
		return pgtype.EncodeBool(bv), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var int2Codec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeInt2(b) },
	DecodeText:   func(b []byte) (any, error) { return strconv.ParseInt(string(b), 10, 16) },
	EncodeBinary: func(v any) ([]byte, error) {
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return pgtype.EncodeInt2(int16(n)), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var int4Codec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeInt4(b) },
	DecodeText:   func(b []byte) (any, error) { return strconv.ParseInt(string(b), 10, 32) },
	EncodeBinary: func(v any) ([]byte, error) {
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return pgtype.EncodeInt4(int32(n)), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var int8Codec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeInt8(b) },
	DecodeText:   func(b []byte) (any, error) { return strconv.ParseInt(string(b), 10, 64) },
	EncodeBinary: func(v any) ([]byte, error) {
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return pgtype.EncodeInt8(n), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var oidCodec = &Codec{
	DecodeBinary: func(b []byte) (any, error) {
		v, err := pgtype.DecodeInt4(b)
		return uint32(v), err
	},
	DecodeText: func(b []byte) (any, error) {
		v, err := strconv.ParseUint(string(b), 10, 32)
		return uint32(v), err
	},
	PreferredFormat: protocol.FormatBinary,
}

var float4Codec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeFloat4(b) },
	DecodeText:   func(b []byte) (any, error) { return strconv.ParseFloat(string(b), 32) },
	EncodeBinary: func(v any) ([]byte, error) {
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return pgtype.EncodeFloat4(float32(f)), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var float8Codec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeFloat8(b) },
	DecodeText:   func(b []byte) (any, error) { return strconv.ParseFloat(string(b), 64) },
	EncodeBinary: func(v any) ([]byte, error) {
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return pgtype.EncodeFloat8(f), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var byteaCodec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeByteaBinary(b), nil },
	DecodeText:   func(b []byte) (any, error) { return pgtype.DecodeByteaText(b) },
	EncodeBinary: func(v any) ([]byte, error) {
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("typeio: expected []byte, got %T", v)
		}
		return pgtype.EncodeByteaBinary(b), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var numericCodec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeNumericBinary(b) },
	DecodeText:   func(b []byte) (any, error) { return string(b), nil },
	PreferredFormat: protocol.FormatText,
}

var timestampCodec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeTimestamp(b) },
	DecodeText: func(b []byte) (any, error) {
		return time.Parse("2006-01-02 15:04:05.999999", string(b))
	},
	EncodeBinary: func(v any) ([]byte, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("typeio: expected time.Time, got %T", v)
		}
		return pgtype.EncodeTimestamp(t), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var dateCodec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeDate(b) },
	DecodeText:   func(b []byte) (any, error) { return time.Parse("2006-01-02", string(b)) },
	EncodeBinary: func(v any) ([]byte, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("typeio: expected time.Time, got %T", v)
		}
		return pgtype.EncodeDate(t), nil
	},
	PreferredFormat: protocol.FormatBinary,
}

var inetCodec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeInet(b) },
	DecodeText:   func(b []byte) (any, error) { return string(b), nil },
	PreferredFormat: protocol.FormatText,
}

var intervalCodec = &Codec{
	DecodeBinary: func(b []byte) (any, error) { return pgtype.DecodeInterval(b) },
	DecodeText:   func(b []byte) (any, error) { return string(b), nil },
	PreferredFormat: protocol.FormatText,
}

// builtinCodecs maps the fixed OIDs of PostgreSQL's built-in scalar
// types to their codec. Types not listed here (extension types, and any
// scalar OID this runtime hasn't special-cased) fall back to
// rawTextCodec with a one-time warning.
var builtinCodecs = map[uint32]*Codec{
	pgtype.OIDBool:        boolCodec,
	pgtype.OIDBytea:       byteaCodec,
	pgtype.OIDChar:        textCodec,
	pgtype.OIDName:        textCodec,
	pgtype.OIDInt8:        int8Codec,
	pgtype.OIDInt2:        int2Codec,
	pgtype.OIDInt4:        int4Codec,
	pgtype.OIDText:        textCodec,
	pgtype.OIDOid:         oidCodec,
	pgtype.OIDJSON:        textCodec,
	pgtype.OIDFloat4:      float4Codec,
	pgtype.OIDFloat8:      float8Codec,
	pgtype.OIDInet:        inetCodec,
	pgtype.OIDBpchar:      textCodec,
	pgtype.OIDVarchar:     textCodec,
	pgtype.OIDDate:        dateCodec,
	pgtype.OIDTimestamp:   timestampCodec,
	pgtype.OIDTimestampTZ: timestampCodec,
	pgtype.OIDInterval:    intervalCodec,
	pgtype.OIDNumeric:     numericCodec,
	pgtype.OIDUUID:        textCodec,
	pgtype.OIDJSONB:       rawTextCodec,
}

// bootstrapTypes returns TypeInfo entries for the OIDs the registry's
// own catalog queries return before any type resolution can happen:
// oid, name, bool, int2, int4, int8, text, and char (see the package
// doc comment for why these eight specifically).
func bootstrapTypes() map[uint32]*TypeInfo {
	mk := func(oid uint32, name string, codec *Codec) *TypeInfo {
		return &TypeInfo{OID: oid, Name: name, Kind: KindBase, Codec: codec}
	}
	return map[uint32]*TypeInfo{
		pgtype.OIDOid:   mk(pgtype.OIDOid, "oid", oidCodec),
		pgtype.OIDText:  mk(pgtype.OIDText, "text", textCodec),
		pgtype.OIDChar:  mk(pgtype.OIDChar, "char", textCodec),
		pgtype.OIDBool:  mk(pgtype.OIDBool, "bool", boolCodec),
		pgtype.OIDName:  mk(pgtype.OIDName, "name", textCodec),
		pgtype.OIDInt2:  mk(pgtype.OIDInt2, "int2", int2Codec),
		pgtype.OIDInt4:  mk(pgtype.OIDInt4, "int4", int4Codec),
		pgtype.OIDInt8:  mk(pgtype.OIDInt8, "int8", int8Codec),
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("typeio: cannot encode %T as integer", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("typeio: cannot encode %T as float", v)
	}
}
