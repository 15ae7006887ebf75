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
	"fmt"
)

// CompositeField is one field of a decoded composite (row) value: its
// declared type OID and its raw bytes (nil for NULL).
type CompositeField struct {
	OID   uint32
	Value []byte
}

// DecodeCompositeBinary decodes PostgreSQL's binary composite/record wire
// format: int32 field count, then per field a uint32 type OID and a
// length-prefixed value (-1 length for NULL). Unlike arrays, a composite
// carries each field's own OID, since fields may differ in type.
func DecodeCompositeBinary(b []byte) ([]CompositeField, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("pgtype: composite header too short")
	}
	n := int32(binary.BigEndian.Uint32(b[0:4]))
	if n < 0 {
		return nil, fmt.Errorf("pgtype: invalid composite field count %d", n)
	}

	pos := 4
	fields := make([]CompositeField, n)
	for i := int32(0); i < n; i++ {
		if pos+8 > len(b) {
			return nil, fmt.Errorf("pgtype: composite field header truncated")
		}
		oid := binary.BigEndian.Uint32(b[pos : pos+4])
		flen := int32(binary.BigEndian.Uint32(b[pos+4 : pos+8]))
		pos += 8

		if flen == -1 {
			fields[i] = CompositeField{OID: oid, Value: nil}
			continue
		}
		if flen < 0 || pos+int(flen) > len(b) {
			return nil, fmt.Errorf("pgtype: composite field value truncated")
		}
		fields[i] = CompositeField{OID: oid, Value: b[pos : pos+int(flen)]}
		pos += int(flen)
	}

	return fields, nil
}

// EncodeCompositeBinary encodes composite fields back to wire format.
func EncodeCompositeBinary(fields []CompositeField) []byte {
	w := make([]byte, 4, 4+len(fields)*8)
	binary.BigEndian.PutUint32(w[0:4], uint32(len(fields)))

	for _, f := range fields {
		var oidBuf [4]byte
		binary.BigEndian.PutUint32(oidBuf[:], f.OID)
		w = append(w, oidBuf[:]...)

		if f.Value == nil {
			var lb [4]byte
			nullLen := int32(-1)
			binary.BigEndian.PutUint32(lb[:], uint32(nullLen))
			w = append(w, lb[:]...)
			continue
		}
		var lb [4]byte
		binary.BigEndian.PutUint32(lb[:], uint32(int32(len(f.Value))))
		w = append(w, lb[:]...)
		w = append(w, f.Value...)
	}

	return w
}
