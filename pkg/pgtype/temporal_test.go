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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTrip(t *testing.T) {
	want := time.Date(2026, 8, 3, 12, 30, 45, 123000, time.UTC)
	encoded := EncodeTimestamp(want)
	got, err := DecodeTimestamp(encoded)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestTimestampEpochIsZero(t *testing.T) {
	encoded := EncodeTimestamp(pgEpoch)
	assert.Equal(t, int64(0), int64Of(t, encoded))
}

func int64Of(t *testing.T, b []byte) int64 {
	t.Helper()
	v, err := DecodeInt8(b)
	require.NoError(t, err)
	return v
}

func TestDateRoundTrip(t *testing.T) {
	want := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	encoded := EncodeDate(want)
	got, err := DecodeDate(encoded)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	want := 13*time.Hour + 45*time.Minute + 30*time.Second
	encoded := EncodeTime(want)
	got, err := DecodeTime(encoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTimeTZRoundTrip(t *testing.T) {
	want := TimeTZ{Time: 8 * time.Hour, OffsetSecEast: -18000} // UTC-5
	encoded := EncodeTimeTZ(want)
	got, err := DecodeTimeTZ(encoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeTimeTZRejectsWrongLength(t *testing.T) {
	_, err := DecodeTimeTZ([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestIntervalRoundTrip(t *testing.T) {
	want := Interval{Microseconds: 1_500_000, Days: 3, Months: 14}
	encoded := EncodeInterval(want)
	got, err := DecodeInterval(encoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeIntervalRejectsWrongLength(t *testing.T) {
	_, err := DecodeInterval([]byte{1, 2, 3})
	assert.Error(t, err)
}
