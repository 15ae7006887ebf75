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
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// EncodeCopyTextRow renders one row of COPY TEXT-format data: fields
// separated by tabs, NULL as a bare backslash-N, with \, \t, \n, \r, and
// \\ escaped in field values, terminated by a newline.
func EncodeCopyTextRow(fields [][]byte) []byte {
	var sb bytes.Buffer
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte('\t')
		}
		if f == nil {
			sb.WriteString(`\N`)
			continue
		}
		sb.WriteString(escapeCopyText(f))
	}
	sb.WriteByte('\n')
	return sb.Bytes()
}

func escapeCopyText(f []byte) string {
	var sb strings.Builder
	for _, c := range f {
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// DecodeCopyTextRow splits one line of COPY TEXT-format data (without
// its trailing newline) into fields, unescaping each and mapping a bare
// \N back to a nil (NULL) field.
func DecodeCopyTextRow(line []byte) [][]byte {
	rawFields := bytes.Split(line, []byte{'\t'})
	out := make([][]byte, len(rawFields))
	for i, raw := range rawFields {
		if string(raw) == `\N` {
			out[i] = nil
			continue
		}
		out[i] = unescapeCopyText(raw)
	}
	return out
}

func unescapeCopyText(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			out = append(out, raw[i])
			continue
		}
		i++
		switch raw[i] {
		case '\\':
			out = append(out, '\\')
		case 't':
			out = append(out, '\t')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		default:
			out = append(out, raw[i])
		}
	}
	return out
}

// copyBinarySignature is the 11-byte magic PostgreSQL prefixes the COPY
// BINARY format with: "PGCOPY\n\377\r\n\0".
var copyBinarySignature = []byte("PGCOPY\n\377\r\n\000")

// EncodeCopyBinaryHeader builds the fixed binary-COPY file header: the
// signature, a 4-byte flags field (always 0, no OIDs), and a 4-byte
// header-extension length (always 0).
func EncodeCopyBinaryHeader() []byte {
	out := make([]byte, 0, len(copyBinarySignature)+8)
	out = append(out, copyBinarySignature...)
	out = append(out, 0, 0, 0, 0) // flags
	out = append(out, 0, 0, 0, 0) // header extension length
	return out
}

// ValidateCopyBinaryHeader checks that b begins with the binary-COPY
// signature and returns the number of bytes the fixed header occupies.
func ValidateCopyBinaryHeader(b []byte) (int, error) {
	if len(b) < len(copyBinarySignature)+8 {
		return 0, fmt.Errorf("pgtype: binary copy header truncated")
	}
	if !bytes.Equal(b[:len(copyBinarySignature)], copyBinarySignature) {
		return 0, fmt.Errorf("pgtype: not a binary copy stream")
	}
	pos := len(copyBinarySignature) + 4 // skip signature + flags
	extLen := int32(binary.BigEndian.Uint32(b[pos : pos+4]))
	pos += 4 + int(extLen)
	return pos, nil
}

// EncodeCopyBinaryRow encodes one binary-COPY tuple: int16 field count,
// then per field a length-prefixed value (-1 for NULL).
func EncodeCopyBinaryRow(fields [][]byte) []byte {
	out := make([]byte, 2, 2+len(fields)*4)
	binary.BigEndian.PutUint16(out[0:2], uint16(len(fields)))
	for _, f := range fields {
		if f == nil {
			var lb [4]byte
			nullLen := int32(-1)
			binary.BigEndian.PutUint32(lb[:], uint32(nullLen))
			out = append(out, lb[:]...)
			continue
		}
		var lb [4]byte
		binary.BigEndian.PutUint32(lb[:], uint32(int32(len(f))))
		out = append(out, lb[:]...)
		out = append(out, f...)
	}
	return out
}

// DecodeCopyBinaryRow decodes one binary-COPY tuple. A field count of -1
// denotes the binary-COPY trailer and is returned as (nil, true, nil).
func DecodeCopyBinaryRow(b []byte) (fields [][]byte, trailer bool, err error) {
	if len(b) < 2 {
		return nil, false, fmt.Errorf("pgtype: binary copy row truncated")
	}
	n := int16(binary.BigEndian.Uint16(b[0:2]))
	if n == -1 {
		return nil, true, nil
	}
	if n < 0 {
		return nil, false, fmt.Errorf("pgtype: invalid binary copy field count %d", n)
	}

	pos := 2
	out := make([][]byte, n)
	for i := int16(0); i < n; i++ {
		if pos+4 > len(b) {
			return nil, false, fmt.Errorf("pgtype: binary copy field length truncated")
		}
		flen := int32(binary.BigEndian.Uint32(b[pos : pos+4]))
		pos += 4
		if flen == -1 {
			out[i] = nil
			continue
		}
		if flen < 0 || pos+int(flen) > len(b) {
			return nil, false, fmt.Errorf("pgtype: binary copy field value truncated")
		}
		out[i] = b[pos : pos+int(flen)]
		pos += int(flen)
	}

	return out, false, nil
}
