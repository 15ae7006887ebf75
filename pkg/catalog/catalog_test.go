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

package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// paramCount counts the highest $N placeholder used in a query, a cheap
// guard against a copy-paste that leaves a query's placeholder count out
// of sync with the number of arguments callers actually bind.
func paramCount(sql string) int {
	max := 0
	for i := 1; i <= 9; i++ {
		if strings.Contains(sql, "$"+string(rune('0'+i))) {
			max = i
		}
	}
	return max
}

func TestSingleParamQueriesUseExactlyOnePlaceholder(t *testing.T) {
	for name, sql := range map[string]string{
		"LookupType":              LookupType,
		"LookupComposite":         LookupComposite,
		"LookupBaseTypeRecursive": LookupBaseTypeRecursive,
		"SettingGet":              SettingGet,
		"ListeningChannels":       ListeningChannels,
		"XactIsPrepared":          XactIsPrepared,
	} {
		t.Run(name, func(t *testing.T) {
			if name == "ListeningChannels" {
				assert.Equal(t, 0, paramCount(sql))
				return
			}
			assert.Equal(t, 1, paramCount(sql), "%s should bind exactly one parameter", name)
		})
	}
}

func TestTwoParamAdvisoryLockQueriesUseTwoPlaceholders(t *testing.T) {
	for name, sql := range map[string]string{
		"AdvisoryLockAcquireSession":       AdvisoryLockAcquireSession,
		"AdvisoryLockAcquireSessionShared": AdvisoryLockAcquireSessionShared,
		"AdvisoryLockTrySession":           AdvisoryLockTrySession,
		"AdvisoryLockTrySessionShared":     AdvisoryLockTrySessionShared,
		"AdvisoryLockReleaseSession":       AdvisoryLockReleaseSession,
		"AdvisoryLockReleaseSessionShared": AdvisoryLockReleaseSessionShared,
		"AdvisoryLockAcquireXact":          AdvisoryLockAcquireXact,
		"AdvisoryLockAcquireXactShared":    AdvisoryLockAcquireXactShared,
		"AdvisoryLockTryXact":              AdvisoryLockTryXact,
		"AdvisoryLockTryXactShared":        AdvisoryLockTryXactShared,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 2, paramCount(sql))
		})
	}
}

func TestSingleKeyAdvisoryLockQueriesUseExactlyOnePlaceholder(t *testing.T) {
	for name, sql := range map[string]string{
		"AdvisoryLockAcquireSessionKey":       AdvisoryLockAcquireSessionKey,
		"AdvisoryLockAcquireSessionSharedKey": AdvisoryLockAcquireSessionSharedKey,
		"AdvisoryLockTrySessionKey":           AdvisoryLockTrySessionKey,
		"AdvisoryLockTrySessionSharedKey":     AdvisoryLockTrySessionSharedKey,
		"AdvisoryLockReleaseSessionKey":       AdvisoryLockReleaseSessionKey,
		"AdvisoryLockReleaseSessionSharedKey": AdvisoryLockReleaseSessionSharedKey,
		"AdvisoryLockAcquireXactKey":          AdvisoryLockAcquireXactKey,
		"AdvisoryLockAcquireXactSharedKey":    AdvisoryLockAcquireXactSharedKey,
		"AdvisoryLockTryXactKey":              AdvisoryLockTryXactKey,
		"AdvisoryLockTryXactSharedKey":        AdvisoryLockTryXactSharedKey,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 1, paramCount(sql))
		})
	}
}

func TestNotifyChannelBindsChannelAndPayload(t *testing.T) {
	assert.Equal(t, 2, paramCount(NotifyChannel))
}

func TestStartupDataHasNoPlaceholders(t *testing.T) {
	assert.Equal(t, 0, paramCount(StartupData))
	assert.Contains(t, StartupData, "server_version")
	assert.Contains(t, StartupData, "integer_datetimes")
}

func TestSettingMGetBindsOneArrayPlaceholder(t *testing.T) {
	assert.Equal(t, 1, paramCount(SettingMGet))
	assert.Contains(t, SettingMGet, "pg_settings")
}

func TestSettingUpdateBindsNamesAndValuesArrays(t *testing.T) {
	assert.Equal(t, 2, paramCount(SettingUpdate))
	assert.Contains(t, SettingUpdate, "unnest")
}

func TestSettingItemsHasNoPlaceholders(t *testing.T) {
	assert.Equal(t, 0, paramCount(SettingItems))
	assert.Contains(t, SettingItems, "pg_settings")
}
