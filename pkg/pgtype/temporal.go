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
	"time"
)

// pgEpoch is 2000-01-01 00:00:00 UTC, the zero point for every
// PostgreSQL date/time/timestamp binary representation.
var pgEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Every server since PostgreSQL 10 builds with --disable-integer-datetimes
// removed: timestamps are always 64-bit microseconds. This runtime
// implements only that representation; the pre-10 floating-point
// timestamp representation is not supported.

// EncodeTimestamp encodes a timestamp or timestamptz as microseconds
// since 2000-01-01. Callers are responsible for normalizing timestamptz
// values to UTC before calling this, since the wire format carries no
// time zone of its own.
func EncodeTimestamp(t time.Time) []byte {
	micros := t.UTC().Sub(pgEpoch).Microseconds()
	return EncodeInt8(micros)
}

// DecodeTimestamp decodes a binary timestamp/timestamptz into UTC.
func DecodeTimestamp(b []byte) (time.Time, error) {
	micros, err := DecodeInt8(b)
	if err != nil {
		return time.Time{}, fmt.Errorf("pgtype: timestamp: %w", err)
	}
	return pgEpoch.Add(time.Duration(micros) * time.Microsecond), nil
}

// EncodeDate encodes a date as the signed day count since 2000-01-01.
func EncodeDate(t time.Time) []byte {
	days := int32(t.UTC().Truncate(24 * time.Hour).Sub(pgEpoch).Hours() / 24)
	return EncodeInt4(days)
}

// DecodeDate decodes a binary date into a UTC midnight time.Time.
func DecodeDate(b []byte) (time.Time, error) {
	days, err := DecodeInt4(b)
	if err != nil {
		return time.Time{}, fmt.Errorf("pgtype: date: %w", err)
	}
	return pgEpoch.AddDate(0, 0, int(days)), nil
}

// EncodeTime encodes a time-of-day as microseconds since midnight.
func EncodeTime(d time.Duration) []byte {
	return EncodeInt8(d.Microseconds())
}

// DecodeTime decodes a binary time-of-day.
func DecodeTime(b []byte) (time.Duration, error) {
	micros, err := DecodeInt8(b)
	if err != nil {
		return 0, fmt.Errorf("pgtype: time: %w", err)
	}
	return time.Duration(micros) * time.Microsecond, nil
}

// TimeTZ is a time-of-day plus a fixed UTC offset in seconds east.
type TimeTZ struct {
	Time        time.Duration
	OffsetSecEast int32
}

// EncodeTimeTZ encodes a timetz: 8-byte microseconds, 4-byte zone offset
// in seconds east of UTC (PostgreSQL stores it negated, seconds west;
// this runtime exposes the more intuitive "east" sign and flips it here).
func EncodeTimeTZ(v TimeTZ) []byte {
	out := make([]byte, 12)
	copy(out[0:8], EncodeInt8(v.Time.Microseconds()))
	binary.BigEndian.PutUint32(out[8:12], uint32(-v.OffsetSecEast))
	return out
}

// DecodeTimeTZ decodes a binary timetz.
func DecodeTimeTZ(b []byte) (TimeTZ, error) {
	if len(b) != 12 {
		return TimeTZ{}, fmt.Errorf("pgtype: timetz must be 12 bytes, got %d", len(b))
	}
	micros, _ := DecodeInt8(b[0:8])
	offWest := int32(binary.BigEndian.Uint32(b[8:12]))
	return TimeTZ{Time: time.Duration(micros) * time.Microsecond, OffsetSecEast: -offWest}, nil
}

// Interval is PostgreSQL's three-component interval: microseconds,
// days, and months, kept separate because month length is ambiguous
// (interval arithmetic is calendar-aware, not a fixed duration).
type Interval struct {
	Microseconds int64
	Days         int32
	Months       int32
}

// EncodeInterval encodes an Interval: 8-byte microseconds, 4-byte days,
// 4-byte months.
func EncodeInterval(v Interval) []byte {
	out := make([]byte, 16)
	copy(out[0:8], EncodeInt8(v.Microseconds))
	binary.BigEndian.PutUint32(out[8:12], uint32(v.Days))
	binary.BigEndian.PutUint32(out[12:16], uint32(v.Months))
	return out
}

// DecodeInterval decodes a binary interval.
func DecodeInterval(b []byte) (Interval, error) {
	if len(b) != 16 {
		return Interval{}, fmt.Errorf("pgtype: interval must be 16 bytes, got %d", len(b))
	}
	micros, _ := DecodeInt8(b[0:8])
	days := int32(binary.BigEndian.Uint32(b[8:12]))
	months := int32(binary.BigEndian.Uint32(b[12:16]))
	return Interval{Microseconds: micros, Days: days, Months: months}, nil
}
