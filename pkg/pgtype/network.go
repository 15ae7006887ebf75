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
	"fmt"
	"net"
)

const (
	pgAFInet  = 2
	pgAFInet6 = 3
)

// Inet is a decoded inet/cidr value: an address, a mask width, and
// whether this value is the cidr variant (is_cidr byte on the wire).
type Inet struct {
	Addr    net.IP
	Bits    int
	IsCIDR  bool
	Version int // 4 or 6
}

// EncodeInet encodes an Inet in binary format: family, mask bits,
// is_cidr flag, address length, then the raw address bytes (4 or 16).
func EncodeInet(v Inet) []byte {
	family := byte(pgAFInet)
	addr := v.Addr.To4()
	if addr == nil {
		family = pgAFInet6
		addr = v.Addr.To16()
	}

	out := make([]byte, 4+len(addr))
	out[0] = family
	out[1] = byte(v.Bits)
	if v.IsCIDR {
		out[2] = 1
	}
	out[3] = byte(len(addr))
	copy(out[4:], addr)
	return out
}

// DecodeInet decodes a binary inet/cidr value.
func DecodeInet(b []byte) (Inet, error) {
	if len(b) < 4 {
		return Inet{}, fmt.Errorf("pgtype: inet header too short")
	}
	family, bits, isCIDR, alen := b[0], b[1], b[2] != 0, int(b[3])
	if len(b) != 4+alen {
		return Inet{}, fmt.Errorf("pgtype: inet length mismatch")
	}

	version := 4
	if family == pgAFInet6 {
		version = 6
	}

	return Inet{
		Addr:    append(net.IP(nil), b[4:4+alen]...),
		Bits:    int(bits),
		IsCIDR:  isCIDR,
		Version: version,
	}, nil
}
