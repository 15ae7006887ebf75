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

// Package pgtype implements the element-level byte codecs for the
// PostgreSQL built-in scalar, array, and composite types: binary-format
// pack/unpack functions keyed by OID, used by pkg/typeio's registry and
// by pkg/row's Transform callback.
package pgtype

// OID values for the built-in types this runtime bootstraps without a
// catalog round-trip (see pkg/typeio's bootstrap set) plus the other
// scalar types it knows how to codec natively. These match PostgreSQL's
// fixed pg_type OIDs, which have been stable since the type OID
// allocation scheme was introduced and are never reassigned.
const (
	OIDBool        = 16
	OIDBytea       = 17
	OIDChar        = 18
	OIDName        = 19
	OIDInt8        = 20
	OIDInt2        = 21
	OIDInt4        = 23
	OIDText        = 25
	OIDOid         = 26
	OIDJSON        = 114
	OIDPoint       = 600
	OIDFloat4      = 700
	OIDFloat8      = 701
	OIDInet        = 869
	OIDBoolArray   = 1000
	OIDInt2Array   = 1005
	OIDInt4Array   = 1007
	OIDTextArray   = 1009
	OIDVarcharArr  = 1015
	OIDInt8Array   = 1016
	OIDFloat4Array = 1021
	OIDFloat8Array = 1022
	OIDBpchar      = 1042
	OIDVarchar     = 1043
	OIDDate        = 1082
	OIDTime        = 1083
	OIDTimestamp   = 1114
	OIDTimestampTZ = 1184
	OIDInterval    = 1186
	OIDTimeTZ      = 1266
	OIDNumeric     = 1700
	OIDUUID        = 2950
	OIDJSONB       = 3802
)
