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

package pgtype

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// EncodeBool encodes a bool in binary format: one byte, 0 or 1.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeBool decodes a binary-format bool.
func DecodeBool(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, fmt.Errorf("pgtype: bool must be 1 byte, got %d", len(b))
	}
	return b[0] != 0, nil
}

// EncodeInt2 encodes an int16 in binary format (big-endian).
func EncodeInt2(v int16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

// DecodeInt2 decodes a binary-format int16.
func DecodeInt2(b []byte) (int16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("pgtype: int2 must be 2 bytes, got %d", len(b))
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// EncodeInt4 encodes an int32 in binary format (big-endian).
func EncodeInt4(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

// DecodeInt4 decodes a binary-format int32.
func DecodeInt4(b []byte) (int32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("pgtype: int4 must be 4 bytes, got %d", len(b))
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// EncodeInt8 encodes an int64 in binary format (big-endian).
func EncodeInt8(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// DecodeInt8 decodes a binary-format int64.
func DecodeInt8(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("pgtype: int8 must be 8 bytes, got %d", len(b))
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// EncodeFloat4 encodes a float32 bit-exactly, as PostgreSQL does: the
// IEEE-754 bit pattern, big-endian, with no normalization of NaN payloads.
func EncodeFloat4(v float32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
	return b
}

// DecodeFloat4 decodes a binary-format float32.
func DecodeFloat4(b []byte) (float32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("pgtype: float4 must be 4 bytes, got %d", len(b))
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// EncodeFloat8 encodes a float64 bit-exactly.
func EncodeFloat8(v float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return b
}

// DecodeFloat8 decodes a binary-format float64.
func DecodeFloat8(b []byte) (float64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("pgtype: float8 must be 8 bytes, got %d", len(b))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// EncodeText encodes text/varchar/bpchar/name/unknown: both the binary
// and text wire formats of these types are the raw bytes, so this is an
// identity function kept for symmetry with the rest of the codec set.
func EncodeText(v string) []byte { return []byte(v) }

// DecodeText decodes text/varchar/bpchar/name/unknown.
func DecodeText(b []byte) string { return string(b) }

// EncodeByteaBinary encodes bytea in binary format: the raw bytes
// verbatim, with no escaping.
func EncodeByteaBinary(v []byte) []byte { return v }

// DecodeByteaBinary decodes binary-format bytea.
func DecodeByteaBinary(b []byte) []byte { return b }

// EncodeByteaText encodes bytea in PostgreSQL's "hex" text output format,
// the default since server version 9.0: "\x" followed by lowercase hex.
func EncodeByteaText(v []byte) []byte {
	out := make([]byte, 2+hex.EncodedLen(len(v)))
	out[0] = '\\'
	out[1] = 'x'
	hex.Encode(out[2:], v)
	return out
}

// DecodeByteaText decodes the "\x..." hex text format, and also accepts
// the legacy backslash-escape format for servers configured with
// bytea_output=escape.
func DecodeByteaText(b []byte) ([]byte, error) {
	if len(b) >= 2 && b[0] == '\\' && b[1] == 'x' {
		out := make([]byte, hex.DecodedLen(len(b)-2))
		if _, err := hex.Decode(out, b[2:]); err != nil {
			return nil, fmt.Errorf("pgtype: invalid bytea hex encoding: %w", err)
		}
		return out, nil
	}
	return decodeByteaEscape(b)
}

func decodeByteaEscape(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		if b[i] != '\\' {
			out = append(out, b[i])
			i++
			continue
		}
		if i+1 >= len(b) {
			return nil, fmt.Errorf("pgtype: truncated bytea escape")
		}
		if b[i+1] == '\\' {
			out = append(out, '\\')
			i += 2
			continue
		}
		if i+3 >= len(b) {
			return nil, fmt.Errorf("pgtype: truncated bytea octal escape")
		}
		var n byte
		for j := 1; j <= 3; j++ {
			c := b[i+j]
			if c < '0' || c > '7' {
				return nil, fmt.Errorf("pgtype: invalid bytea octal escape")
			}
			n = n*8 + (c - '0')
		}
		out = append(out, n)
		i += 4
	}
	return out, nil
}
