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

// ArrayDimension is one entry of an array's dimension header.
type ArrayDimension struct {
	Length     int32
	LowerBound int32
}

// Array is a decoded binary array value. Element bytes are kept as raw
// slices (nil for NULL elements); the caller decodes each with the
// element codec for ElementOID.
type Array struct {
	ElementOID  uint32
	Dimensions  []ArrayDimension
	HasNulls    bool
	Elements    [][]byte
}

// DecodeArrayBinary decodes PostgreSQL's binary array wire format:
// int32 ndim, int32 hasnull flag, uint32 element-type OID, then ndim
// (length, lower-bound) pairs, then a flat sequence of length-prefixed
// elements in row-major order (a -1 length denotes a NULL element).
func DecodeArrayBinary(b []byte) (Array, error) {
	if len(b) < 12 {
		return Array{}, fmt.Errorf("pgtype: array header too short")
	}
	ndim := int32(binary.BigEndian.Uint32(b[0:4]))
	hasNull := binary.BigEndian.Uint32(b[4:8]) != 0
	elemOID := binary.BigEndian.Uint32(b[8:12])

	pos := 12
	dims := make([]ArrayDimension, ndim)
	total := int64(1)
	for i := int32(0); i < ndim; i++ {
		if pos+8 > len(b) {
			return Array{}, fmt.Errorf("pgtype: array dimension header truncated")
		}
		length := int32(binary.BigEndian.Uint32(b[pos : pos+4]))
		lower := int32(binary.BigEndian.Uint32(b[pos+4 : pos+8]))
		dims[i] = ArrayDimension{Length: length, LowerBound: lower}
		total *= int64(length)
		pos += 8
	}
	if ndim == 0 {
		total = 0
	}

	elements := make([][]byte, 0, total)
	for pos < len(b) {
		if pos+4 > len(b) {
			return Array{}, fmt.Errorf("pgtype: array element length truncated")
		}
		elen := int32(binary.BigEndian.Uint32(b[pos : pos+4]))
		pos += 4
		if elen == -1 {
			elements = append(elements, nil)
			continue
		}
		if elen < 0 || pos+int(elen) > len(b) {
			return Array{}, fmt.Errorf("pgtype: array element truncated")
		}
		elements = append(elements, b[pos:pos+int(elen)])
		pos += int(elen)
	}

	return Array{ElementOID: elemOID, Dimensions: dims, HasNulls: hasNull, Elements: elements}, nil
}

// EncodeArrayBinary encodes an Array back to wire format.
func EncodeArrayBinary(a Array) []byte {
	w := make([]byte, 0, 12+len(a.Dimensions)*8+len(a.Elements)*8)

	var hdr [12]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(a.Dimensions)))
	if a.HasNulls {
		binary.BigEndian.PutUint32(hdr[4:8], 1)
	}
	binary.BigEndian.PutUint32(hdr[8:12], a.ElementOID)
	w = append(w, hdr[:]...)

	for _, d := range a.Dimensions {
		var db [8]byte
		binary.BigEndian.PutUint32(db[0:4], uint32(d.Length))
		binary.BigEndian.PutUint32(db[4:8], uint32(d.LowerBound))
		w = append(w, db[:]...)
	}

	for _, e := range a.Elements {
		if e == nil {
			var lb [4]byte
			nullLen := int32(-1)
			binary.BigEndian.PutUint32(lb[:], uint32(nullLen))
			w = append(w, lb[:]...)
			continue
		}
		var lb [4]byte
		binary.BigEndian.PutUint32(lb[:], uint32(int32(len(e))))
		w = append(w, lb[:]...)
		w = append(w, e...)
	}

	return w
}
