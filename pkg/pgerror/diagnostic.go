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

// Package pgerror is the server error taxonomy: the wire diagnostic
// carried by both ErrorResponse and NoticeResponse, and the small set of
// sentinel-wrapped error kinds (protocol, authentication, transport,
// parameter, state, copy) the rest of the runtime raises.
package pgerror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
)

// Diagnostic represents one PostgreSQL diagnostic message. The wire
// format for ErrorResponse ('E') and NoticeResponse ('N') is identical
// aside from the message kind, so one struct and one parser serve both.
type Diagnostic struct {
	MessageType      byte
	Severity         string
	Code             string
	Message          string
	Detail           string
	Hint             string
	Position         int32
	InternalPosition int32
	InternalQuery    string
	Where            string
	Schema           string
	Table            string
	Column           string
	DataType         string
	Constraint       string
}

// IsError reports whether this diagnostic was carried by ErrorResponse.
func (d *Diagnostic) IsError() bool { return d.MessageType == protocol.MsgErrorResponse }

// IsNotice reports whether this diagnostic was carried by NoticeResponse.
func (d *Diagnostic) IsNotice() bool { return d.MessageType == protocol.MsgNoticeResponse }

// SQLSTATE returns the 5-character SQLSTATE code.
func (d *Diagnostic) SQLSTATE() string { return d.Code }

// SQLSTATEClass returns the first two characters of the SQLSTATE code,
// identifying the error class (e.g. "42" = syntax/access error).
func (d *Diagnostic) SQLSTATEClass() string {
	if len(d.Code) < 2 {
		return ""
	}
	return d.Code[:2]
}

// IsClass reports whether the SQLSTATE code belongs to the given class.
func (d *Diagnostic) IsClass(class string) bool { return d.SQLSTATEClass() == class }

// IsFatal reports whether the severity is FATAL or PANIC.
func (d *Diagnostic) IsFatal() bool {
	return d.Severity == "FATAL" || d.Severity == "PANIC"
}

// Error implements the error interface as "SEVERITY: message".
func (d *Diagnostic) Error() string {
	if d == nil {
		return "ERROR: unknown error"
	}
	return d.Severity + ": " + d.Message
}

// FullError adds the SQLSTATE code: "SEVERITY: message (SQLSTATE code)".
func (d *Diagnostic) FullError() string {
	if d == nil {
		return "ERROR: unknown error (SQLSTATE 00000)"
	}
	return d.Severity + ": " + d.Message + " (SQLSTATE " + d.Code + ")"
}

// Validate checks that the fields PostgreSQL always sends are present.
// This is lenient by design: callers should log a warning on failure,
// not reject the diagnostic outright, since a future server version
// could legally omit a field this runtime doesn't yet expect.
func (d *Diagnostic) Validate() error {
	if d == nil {
		return errors.New("diagnostic is nil")
	}

	var issues []string
	if d.MessageType != protocol.MsgErrorResponse && d.MessageType != protocol.MsgNoticeResponse {
		if d.MessageType == 0 {
			issues = append(issues, "MessageType is unset (0x00): must be 'E' or 'N'")
		} else {
			issues = append(issues, fmt.Sprintf("invalid MessageType '%c' (0x%02x): must be 'E' or 'N'", d.MessageType, d.MessageType))
		}
	}
	if d.Severity == "" {
		issues = append(issues, "Severity is empty")
	}
	if d.Code == "" {
		issues = append(issues, "Code (SQLSTATE) is empty")
	}
	if d.Message == "" {
		issues = append(issues, "Message is empty")
	}

	if len(issues) > 0 {
		return fmt.Errorf("invalid diagnostic: %s", strings.Join(issues, "; "))
	}
	return nil
}

// ParseDiagnostic decodes the shared ErrorResponse/NoticeResponse body
// format: a sequence of (field-code byte, null-terminated string) pairs
// terminated by a single zero byte.
func ParseDiagnostic(msgType byte, body []byte) (*Diagnostic, error) {
	r := message.NewReader(body)
	d := &Diagnostic{MessageType: msgType}

	for {
		code, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("pgerror: reading field code: %w", err)
		}
		if code == 0 {
			break
		}
		value, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("pgerror: reading field %c: %w", code, err)
		}
		switch code {
		case protocol.FieldSeverity, protocol.FieldSeverityV:
			d.Severity = value
		case protocol.FieldCode:
			d.Code = value
		case protocol.FieldMessage:
			d.Message = value
		case protocol.FieldDetail:
			d.Detail = value
		case protocol.FieldHint:
			d.Hint = value
		case protocol.FieldPosition:
			d.Position = atoi32(value)
		case protocol.FieldInternalPosition:
			d.InternalPosition = atoi32(value)
		case protocol.FieldInternalQuery:
			d.InternalQuery = value
		case protocol.FieldWhere:
			d.Where = value
		case protocol.FieldSchema:
			d.Schema = value
		case protocol.FieldTable:
			d.Table = value
		case protocol.FieldColumn:
			d.Column = value
		case protocol.FieldDataType:
			d.DataType = value
		case protocol.FieldConstraint:
			d.Constraint = value
		// FieldFile, FieldLine, FieldRoutine are server-internal debug
		// fields; this runtime has no use for them and drops them.
		default:
		}
	}

	return d, nil
}

func atoi32(s string) int32 {
	var n int32
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int32(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}
