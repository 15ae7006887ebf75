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

// Package copypipe holds the plumbing shared by pkg/pgconn's COPY IN,
// COPY OUT, and COPY BOTH handling: chunking a caller's io.Reader into
// CopyData-sized pieces on the way in, writing CopyData payloads to a
// caller's io.Writer on the way out, and telling apart a fault in the
// caller's side of the pipe from a fault reported by the server.
package copypipe

import (
	"errors"
	"fmt"
	"io"
)

// ProducerFault wraps an error reading from the caller-supplied source
// during a COPY FROM STDIN (COPY IN) transfer. The caller's reader is
// external to the wire protocol, so a ProducerFault is reported back to
// the caller rather than treated as a protocol error; the connection
// itself sends CopyFail and remains usable.
type ProducerFault struct{ Err error }

func (e *ProducerFault) Error() string { return fmt.Sprintf("copypipe: reading source: %v", e.Err) }
func (e *ProducerFault) Unwrap() error { return e.Err }

// ReceiverFault wraps an error writing to the caller-supplied sink
// during a COPY TO STDOUT (COPY OUT) transfer.
type ReceiverFault struct{ Err error }

func (e *ReceiverFault) Error() string { return fmt.Sprintf("copypipe: writing sink: %v", e.Err) }
func (e *ReceiverFault) Unwrap() error { return e.Err }

// CopyFailure is the error the server reports back once the client's
// CopyFail message reaches it, carrying the client-supplied message.
type CopyFailure struct{ Message string }

func (e *CopyFailure) Error() string { return fmt.Sprintf("copypipe: copy aborted: %s", e.Message) }

// ErrDone signals the receive side has reached CopyDone; callers of
// ReceiveCopyData-style loops can treat it exactly like io.EOF, since it
// is io.EOF itself.
var ErrDone = io.EOF

// Pump reads from src in chunkSize pieces and calls send for each
// non-empty chunk until src returns io.EOF, returning nil on a clean
// end. A read error from src is reported as a ProducerFault; an error
// returned by send (a wire write failure) is returned unwrapped, since
// that fault belongs to the connection, not the caller's data source.
func Pump(src io.Reader, chunkSize int, send func([]byte) error) error {
	buf := make([]byte, chunkSize)
	return PumpBuffer(src, buf, send)
}

// PumpBuffer is Pump with the chunk buffer supplied by the caller
// instead of allocated fresh, so a connection that pools its COPY
// buffers (see pkg/bufpool) can reuse one across repeated CopyFrom
// calls rather than allocating a new chunk buffer every time.
func PumpBuffer(src io.Reader, buf []byte, send func([]byte) error) error {
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if serr := send(buf[:n]); serr != nil {
				return serr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return &ProducerFault{Err: err}
		}
	}
}

// Sink writes chunk to dst, wrapping any write failure as a
// ReceiverFault so the caller can distinguish "my sink broke" from a
// protocol-level error on the connection.
func Sink(dst io.Writer, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	if _, err := dst.Write(chunk); err != nil {
		return &ReceiverFault{Err: err}
	}
	return nil
}

// Reconcile picks the error to surface once a COPY operation ends:
// a fault on the caller's side of the pipe (producer/receiver) always
// takes precedence over a server-reported error, since the server error
// is usually just the downstream consequence of the client's own fault
// (an aborted CopyFail, or a connection reset triggered by the caller
// closing early).
func Reconcile(localErr, serverErr error) error {
	if localErr != nil {
		return localErr
	}
	return serverErr
}
