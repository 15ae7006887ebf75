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

package pgerror

import "fmt"

// Sentinel kinds callers can match with errors.Is. ServerError and the
// errors built by the constructors below wrap exactly one of these;
// pkg/stmt and pkg/txn raise their parameter and state errors that way.
// Apart from server errors, the errors raised inside pkg/pgconn are
// plain fmt.Errorf values and match none of them.
var (
	// ErrProtocol marks a malformed or out-of-sequence wire message.
	ErrProtocol = fmt.Errorf("pgwire: protocol error")
	// ErrServer marks an ErrorResponse from the backend; wrapped errors
	// carry a *Diagnostic via errors.As.
	ErrServer = fmt.Errorf("pgwire: server error")
	// ErrAuthentication marks a failed or unsupported authentication
	// exchange.
	ErrAuthentication = fmt.Errorf("pgwire: authentication error")
	// ErrTransport marks a failure of the underlying connection (dial,
	// read, write, TLS handshake).
	ErrTransport = fmt.Errorf("pgwire: transport error")
	// ErrParameter marks an invalid argument supplied by the caller
	// (wrong parameter count, unencodable Go value, bad OID).
	ErrParameter = fmt.Errorf("pgwire: parameter error")
	// ErrState marks an operation attempted from the wrong connection,
	// transaction, or cursor state (e.g. Commit with no open transaction).
	ErrState = fmt.Errorf("pgwire: state error")
	// ErrCopy marks a failure specific to the COPY sub-protocol.
	ErrCopy = fmt.Errorf("pgwire: copy error")
)

// ServerError wraps a backend Diagnostic as an error satisfying
// errors.Is(err, ErrServer) and errors.As(err, &diag).
type ServerError struct {
	Diagnostic *Diagnostic
}

func (e *ServerError) Error() string { return e.Diagnostic.FullError() }

func (e *ServerError) Unwrap() error { return ErrServer }

// As lets errors.As extract the wrapped *Diagnostic directly.
func (e *ServerError) As(target any) bool {
	if d, ok := target.(**Diagnostic); ok {
		*d = e.Diagnostic
		return true
	}
	return false
}

// NewServerError wraps a parsed diagnostic as an error.
func NewServerError(d *Diagnostic) error {
	return &ServerError{Diagnostic: d}
}

// Protocolf builds an ErrProtocol-wrapped error with a formatted message.
func Protocolf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrProtocol)...)
}

// Authenticationf builds an ErrAuthentication-wrapped error.
func Authenticationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAuthentication)...)
}

// Transportf builds an ErrTransport-wrapped error.
func Transportf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrTransport)...)
}

// Parameterf builds an ErrParameter-wrapped error.
func Parameterf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrParameter)...)
}

// Statef builds an ErrState-wrapped error.
func Statef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrState)...)
}

// Copyf builds an ErrCopy-wrapped error.
func Copyf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrCopy)...)
}
