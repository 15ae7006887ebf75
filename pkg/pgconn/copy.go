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

package pgconn

import (
	"context"
	"fmt"
	"io"

	"github.com/pgwire/pgwire/pkg/copypipe"
	"github.com/pgwire/pgwire/pkg/frame"
	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
	"github.com/pgwire/pgwire/pkg/row"
)

// copyChunkSize is the size of each CopyData frame this runtime sends
// while pumping a caller's io.Reader into a COPY FROM STDIN.
const copyChunkSize = 64 * 1024

// CopyFrom issues sql (expected to be a "COPY ... FROM STDIN" statement)
// and streams src's bytes to the server as CopyData messages until src
// is exhausted, then sends CopyDone. If src returns an error mid-stream,
// CopyFail is sent instead and the returned error is a
// copypipe.ProducerFault wrapping src's error; the server's resulting
// error is not included in it.
func (c *Conn) CopyFrom(ctx context.Context, sql string, src io.Reader) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := message.NewWriter()
	w.WriteString(sql)
	if err := c.transport.Writer.WriteFrame(protocol.MsgQuery, w.Bytes()); err != nil {
		return nil, fmt.Errorf("pgconn: sending Query: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return nil, fmt.Errorf("pgconn: flushing Query: %w", err)
	}

	f, err := c.transport.Reader.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("pgconn: reading message: %w", err)
	}
	switch f.Kind {
	case protocol.MsgCopyInResponse:
		// proceed below
	case protocol.MsgErrorResponse:
		return nil, c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))
	default:
		return nil, fmt.Errorf("pgconn: expected CopyInResponse, got %c", f.Kind)
	}

	chunkBuf := c.transport.Pool.Get(copyChunkSize)
	defer c.transport.Pool.Put(chunkBuf)
	pumpErr := copypipe.PumpBuffer(src, *chunkBuf, func(chunk []byte) error {
		return c.transport.Writer.WriteFrame(protocol.MsgCopyData, chunk)
	})

	if pumpErr != nil {
		failMsg := message.NewWriter()
		failMsg.WriteString(pumpErr.Error())
		_ = c.transport.Writer.WriteFrame(protocol.MsgCopyFail, failMsg.Bytes())
	} else {
		if err := c.transport.Writer.WriteFrame(protocol.MsgCopyDone, nil); err != nil {
			return nil, fmt.Errorf("pgconn: sending CopyDone: %w", err)
		}
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return nil, fmt.Errorf("pgconn: flushing: %w", err)
	}

	result, serverErr := c.finishCopyQuery(ctx)
	if err := copypipe.Reconcile(pumpErr, serverErr); err != nil {
		return nil, err
	}
	return result, nil
}

// CopyTo issues sql (expected to be a "COPY ... TO STDOUT" statement)
// and streams the server's CopyData payloads to dst until CopyDone. A
// write failure on dst is reported as a copypipe.ReceiverFault.
func (c *Conn) CopyTo(ctx context.Context, sql string, dst io.Writer) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := message.NewWriter()
	w.WriteString(sql)
	if err := c.transport.Writer.WriteFrame(protocol.MsgQuery, w.Bytes()); err != nil {
		return nil, fmt.Errorf("pgconn: sending Query: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return nil, fmt.Errorf("pgconn: flushing Query: %w", err)
	}

	f, err := c.transport.Reader.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("pgconn: reading message: %w", err)
	}
	switch f.Kind {
	case protocol.MsgCopyOutResponse:
		// proceed below
	case protocol.MsgErrorResponse:
		return nil, c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))
	default:
		return nil, fmt.Errorf("pgconn: expected CopyOutResponse, got %c", f.Kind)
	}

	var sinkErr error
loop:
	for {
		f, err := c.transport.Reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading message: %w", err)
		}
		switch f.Kind {
		case protocol.MsgCopyData:
			if sinkErr == nil {
				sinkErr = copypipe.Sink(dst, f.Body)
			}
		case protocol.MsgCopyDone:
			break loop
		case protocol.MsgErrorResponse:
			return nil, c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))
		default:
			return nil, fmt.Errorf("pgconn: unexpected message type during COPY OUT: %c", f.Kind)
		}
	}

	result, serverErr := c.finishCopyQuery(ctx)
	if err := copypipe.Reconcile(sinkErr, serverErr); err != nil {
		return nil, err
	}
	return result, nil
}

// finishCopyQuery drains the CommandComplete/ReadyForQuery tail common
// to both CopyFrom and CopyTo once the CopyData phase has ended.
func (c *Conn) finishCopyQuery(ctx context.Context) (*Result, error) {
	result := &Result{}
	var firstErr error
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		f, err := c.transport.Reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading message: %w", err)
		}
		switch f.Kind {
		case protocol.MsgCommandComplete:
			tag, err := parseCommandComplete(f.Body)
			if err != nil {
				return nil, err
			}
			result.CommandTag = row.CommandTag(tag)
			result.RowsAffected = parseRowsAffected(tag)

		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			return result, firstErr

		case protocol.MsgErrorResponse:
			if firstErr == nil {
				firstErr = readErrorDiagnostic(f.Body)
			}

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("pgconn: unexpected message type finishing COPY: %c", f.Kind)
		}
	}
}

// CopyInStream is a raw COPY FROM STDIN session, used when a caller
// wants to drive the chunk loop itself — e.g. as a copypipe.Receiver
// under a Manager fanning one producer out to several statements —
// rather than handing CopyFrom a single io.Reader.
type CopyInStream struct {
	conn *Conn
}

// StartCopyIn issues sql (expected to be a "COPY ... FROM STDIN"
// statement) and returns a stream once the server answers with
// CopyInResponse. The caller owns the connection's mutex for the
// stream's lifetime.
func (c *Conn) StartCopyIn(ctx context.Context, sql string) (*CopyInStream, error) {
	c.mu.Lock()

	w := message.NewWriter()
	w.WriteString(sql)
	if err := c.transport.Writer.WriteFrame(protocol.MsgQuery, w.Bytes()); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: sending Query: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: flushing Query: %w", err)
	}

	f, err := c.transport.Reader.ReadFrame()
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: reading message: %w", err)
	}
	switch f.Kind {
	case protocol.MsgCopyInResponse:
		return &CopyInStream{conn: c}, nil
	case protocol.MsgErrorResponse:
		err := c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))
		c.mu.Unlock()
		return nil, err
	default:
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: expected CopyInResponse, got %c", f.Kind)
	}
}

// Accept implements copypipe.Receiver: a nil chunk with failed set
// sends CopyFail with reason instead of CopyData, matching the copy
// manager's abnormal-exit contract.
func (s *CopyInStream) Accept(chunk []byte, failed bool, reason string) error {
	if failed {
		w := message.NewWriter()
		w.WriteString(reason)
		if err := s.conn.transport.Writer.WriteFrame(protocol.MsgCopyFail, w.Bytes()); err != nil {
			return fmt.Errorf("pgconn: sending CopyFail: %w", err)
		}
		return s.conn.transport.Writer.Flush()
	}
	if err := s.conn.transport.Writer.WriteFrame(protocol.MsgCopyData, chunk); err != nil {
		return fmt.Errorf("pgconn: sending CopyData: %w", err)
	}
	return s.conn.transport.Writer.Flush()
}

// Close sends CopyDone and drains to ReadyForQuery, releasing the
// connection for further requests.
func (s *CopyInStream) Close(ctx context.Context) (*Result, error) {
	defer s.conn.mu.Unlock()

	if err := s.conn.transport.Writer.WriteFrame(protocol.MsgCopyDone, nil); err != nil {
		return nil, fmt.Errorf("pgconn: sending CopyDone: %w", err)
	}
	if err := s.conn.transport.Writer.Flush(); err != nil {
		return nil, fmt.Errorf("pgconn: flushing: %w", err)
	}
	return s.conn.finishCopyQuery(ctx)
}

// CopyOutStream is a raw COPY TO STDOUT session, the producer side of
// a copypipe.Manager transfer.
type CopyOutStream struct {
	conn *Conn
}

// StartCopyOut issues sql (expected to be a "COPY ... TO STDOUT"
// statement) and returns a stream once the server answers with
// CopyOutResponse.
func (c *Conn) StartCopyOut(ctx context.Context, sql string) (*CopyOutStream, error) {
	c.mu.Lock()

	w := message.NewWriter()
	w.WriteString(sql)
	if err := c.transport.Writer.WriteFrame(protocol.MsgQuery, w.Bytes()); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: sending Query: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: flushing Query: %w", err)
	}

	f, err := c.transport.Reader.ReadFrame()
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: reading message: %w", err)
	}
	switch f.Kind {
	case protocol.MsgCopyOutResponse:
		return &CopyOutStream{conn: c}, nil
	case protocol.MsgErrorResponse:
		err := c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))
		c.mu.Unlock()
		return nil, err
	default:
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: expected CopyOutResponse, got %c", f.Kind)
	}
}

// Receive returns the stream's next chunk as a copypipe.Producer would:
// a nil slice with copypipe.ErrDone once the server reaches CopyDone.
func (s *CopyOutStream) Receive() ([]byte, error) {
	for {
		f, err := s.conn.transport.Reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading message: %w", err)
		}
		switch f.Kind {
		case protocol.MsgCopyData:
			return f.Body, nil
		case protocol.MsgCopyDone:
			return nil, copypipe.ErrDone
		case protocol.MsgErrorResponse:
			return nil, readErrorDiagnostic(f.Body)
		default:
			return nil, fmt.Errorf("pgconn: unexpected message type during COPY OUT: %c", f.Kind)
		}
	}
}

// Close drains the command-complete tail once Receive has returned
// copypipe.ErrDone, releasing the connection for further requests.
func (s *CopyOutStream) Close(ctx context.Context) (*Result, error) {
	defer s.conn.mu.Unlock()
	return s.conn.finishCopyQuery(ctx)
}

// CopyBothStream is a bidirectional COPY session, the mode PostgreSQL
// uses for logical and physical replication: both sides send CopyData
// frames independently until either issues CopyDone.
type CopyBothStream struct {
	conn *Conn
}

// StartCopyBoth issues sql (typically START_REPLICATION) and returns a
// stream once the server answers with CopyBothResponse. The caller owns
// the connection's mutex for the stream's lifetime: no other request may
// be issued on this Conn until the stream is closed.
func (c *Conn) StartCopyBoth(ctx context.Context, sql string) (*CopyBothStream, error) {
	c.mu.Lock()

	w := message.NewWriter()
	w.WriteString(sql)
	if err := c.transport.Writer.WriteFrame(protocol.MsgQuery, w.Bytes()); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: sending Query: %w", err)
	}
	if err := c.transport.Writer.Flush(); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: flushing Query: %w", err)
	}

	f, err := c.transport.Reader.ReadFrame()
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: reading message: %w", err)
	}
	switch f.Kind {
	case protocol.MsgCopyBothResponse:
		return &CopyBothStream{conn: c}, nil
	case protocol.MsgErrorResponse:
		err := c.drainToReadyAfterError(ctx, readErrorDiagnostic(f.Body))
		c.mu.Unlock()
		return nil, err
	default:
		c.mu.Unlock()
		return nil, fmt.Errorf("pgconn: expected CopyBothResponse, got %c", f.Kind)
	}
}

// Send writes one CopyData frame to the server.
func (s *CopyBothStream) Send(data []byte) error {
	if err := s.conn.transport.Writer.WriteFrame(protocol.MsgCopyData, data); err != nil {
		return fmt.Errorf("pgconn: sending CopyData: %w", err)
	}
	return s.conn.transport.Writer.Flush()
}

// Receive reads one CopyData payload from the server, returning
// copypipe.ErrDone once the server sends CopyDone.
func (s *CopyBothStream) Receive() ([]byte, error) {
	for {
		f, err := s.conn.transport.Reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading message: %w", err)
		}
		switch f.Kind {
		case protocol.MsgCopyData:
			return f.Body, nil
		case protocol.MsgCopyDone:
			return nil, copypipe.ErrDone
		case protocol.MsgErrorResponse:
			return nil, readErrorDiagnostic(f.Body)
		default:
			return nil, fmt.Errorf("pgconn: unexpected message type in COPY BOTH: %c", f.Kind)
		}
	}
}

// Close sends CopyDone and drains to ReadyForQuery, releasing the
// connection for further requests.
func (s *CopyBothStream) Close(ctx context.Context) (*Result, error) {
	defer s.conn.mu.Unlock()

	if err := s.conn.transport.Writer.WriteFrame(protocol.MsgCopyDone, nil); err != nil {
		return nil, fmt.Errorf("pgconn: sending CopyDone: %w", err)
	}
	if err := s.conn.transport.Writer.Flush(); err != nil {
		return nil, fmt.Errorf("pgconn: flushing: %w", err)
	}

	for {
		f, err := s.conn.transport.Reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading message: %w", err)
		}
		switch f.Kind {
		case protocol.MsgCopyData:
			// The server may still have buffered data in flight; discard
			// it, since the caller has already decided to stop reading.
		case protocol.MsgCommandComplete, protocol.MsgReadyForQuery, protocol.MsgErrorResponse, protocol.MsgNoticeResponse, protocol.MsgParameterStatus:
			return s.conn.finishCopyQueryFrame(ctx, f)
		default:
			return nil, fmt.Errorf("pgconn: unexpected message type closing COPY BOTH: %c", f.Kind)
		}
	}
}

// finishCopyQueryFrame continues finishCopyQuery's loop starting from a
// frame already read, used when Close has consumed the first
// post-CopyDone message itself while discarding trailing CopyData.
func (c *Conn) finishCopyQueryFrame(ctx context.Context, first frame.Frame) (*Result, error) {
	result := &Result{}
	var firstErr error
	f := first
	for {
		switch f.Kind {
		case protocol.MsgCommandComplete:
			tag, err := parseCommandComplete(f.Body)
			if err != nil {
				return nil, err
			}
			result.CommandTag = row.CommandTag(tag)
			result.RowsAffected = parseRowsAffected(tag)

		case protocol.MsgReadyForQuery:
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			return result, firstErr

		case protocol.MsgErrorResponse:
			if firstErr == nil {
				firstErr = readErrorDiagnostic(f.Body)
			}

		case protocol.MsgNoticeResponse:

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return nil, err
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		next, err := c.transport.Reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("pgconn: reading message: %w", err)
		}
		f = next
	}
}
