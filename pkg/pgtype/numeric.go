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
	"strings"
)

// Numeric signs, per src/backend/utils/adt/numeric.c.
const (
	numericPositive = 0x0000
	numericNegative = 0x4000
	numericNaN      = 0xC000
	numericPInf     = 0xD000
	numericNInf     = 0xF000

	nbase   = 10000
	dscale  = 4 // decimal digits per NBASE limb
)

// Numeric is the decimal triple PostgreSQL's binary numeric format
// decomposes into: unscaled base-10000 digits, a base-10000 exponent
// (weight), a sign, and the display scale (digits right of the point).
// It carries arbitrary precision without a lossy float64 round trip.
type Numeric struct {
	Digits []int16 // base-10000 digits, most significant first
	Weight int16   // weight of Digits[0], in base-10000 limbs
	Sign   uint16  // numericPositive, numericNegative, numericNaN, ...
	DScale uint16  // digits displayed after the decimal point
}

// IsNaN reports whether this value is the NaN special value.
func (n Numeric) IsNaN() bool { return n.Sign == numericNaN }

// IsInf reports whether this value is +/-Infinity (introduced in
// PostgreSQL 17's numeric special values).
func (n Numeric) IsInf() bool { return n.Sign == numericPInf || n.Sign == numericNInf }

// DecodeNumericBinary decodes PostgreSQL's binary numeric wire format:
// int16 ndigits, int16 weight, uint16 sign, uint16 dscale, then ndigits
// big-endian int16 base-10000 digits.
func DecodeNumericBinary(b []byte) (Numeric, error) {
	if len(b) < 8 {
		return Numeric{}, fmt.Errorf("pgtype: numeric header too short (%d bytes)", len(b))
	}
	ndigits := int(int16(binary.BigEndian.Uint16(b[0:2])))
	weight := int16(binary.BigEndian.Uint16(b[2:4]))
	sign := binary.BigEndian.Uint16(b[4:6])
	dscaleVal := binary.BigEndian.Uint16(b[6:8])

	if ndigits < 0 || len(b) != 8+ndigits*2 {
		return Numeric{}, fmt.Errorf("pgtype: numeric length mismatch for %d digits", ndigits)
	}

	digits := make([]int16, ndigits)
	for i := 0; i < ndigits; i++ {
		off := 8 + i*2
		digits[i] = int16(binary.BigEndian.Uint16(b[off : off+2]))
	}

	return Numeric{Digits: digits, Weight: weight, Sign: sign, DScale: dscaleVal}, nil
}

// EncodeNumericBinary encodes a Numeric back to wire format.
func EncodeNumericBinary(n Numeric) []byte {
	out := make([]byte, 8+len(n.Digits)*2)
	binary.BigEndian.PutUint16(out[0:2], uint16(int16(len(n.Digits))))
	binary.BigEndian.PutUint16(out[2:4], uint16(n.Weight))
	binary.BigEndian.PutUint16(out[4:6], n.Sign)
	binary.BigEndian.PutUint16(out[6:8], n.DScale)
	for i, d := range n.Digits {
		off := 8 + i*2
		binary.BigEndian.PutUint16(out[off:off+2], uint16(d))
	}
	return out
}

// String renders the Numeric as PostgreSQL would display it in text
// format: sign, integer part, and exactly DScale fractional digits.
func (n Numeric) String() string {
	switch n.Sign {
	case numericNaN:
		return "NaN"
	case numericPInf:
		return "Infinity"
	case numericNInf:
		return "-Infinity"
	}

	var sb strings.Builder
	if n.Sign == numericNegative {
		sb.WriteByte('-')
	}

	// The integer part spans limbs [0, weight], the fractional part the
	// rest. weight can be negative (value < 1) or beyond len(Digits)-1
	// (trailing zero limbs implied).
	intLimbs := int(n.Weight) + 1
	if intLimbs <= 0 {
		sb.WriteByte('0')
	} else {
		for i := 0; i < intLimbs; i++ {
			var d int16
			if i < len(n.Digits) {
				d = n.Digits[i]
			}
			if i == 0 {
				fmt.Fprintf(&sb, "%d", d)
			} else {
				fmt.Fprintf(&sb, "%04d", d)
			}
		}
	}

	if n.DScale == 0 {
		return sb.String()
	}

	sb.WriteByte('.')
	// Build the fractional digits limb by limb, then trim/pad to DScale.
	var frac strings.Builder
	for i := intLimbs; i < intLimbs+((int(n.DScale)+dscale-1)/dscale)+1; i++ {
		var d int16
		if i >= 0 && i < len(n.Digits) {
			d = n.Digits[i]
		}
		fmt.Fprintf(&frac, "%04d", d)
	}
	fs := frac.String()
	for len(fs) < int(n.DScale) {
		fs += "0"
	}
	sb.WriteString(fs[:n.DScale])

	return sb.String()
}
