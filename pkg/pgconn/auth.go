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
	"crypto/md5" //nolint:gosec // required by PostgreSQL's MD5 authentication method
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/pgwire/pgwire/pkg/message"
	"github.com/pgwire/pgwire/pkg/protocol"
	"github.com/pgwire/pgwire/pkg/scram"
)

// startup sends the StartupMessage and drives authentication through to
// the first ReadyForQuery.
func (c *Conn) startup(ctx context.Context) error {
	if err := c.sendStartupMessage(); err != nil {
		return fmt.Errorf("sending startup message: %w", err)
	}
	return c.processStartupResponses(ctx)
}

func (c *Conn) sendStartupMessage() error {
	w := message.NewWriter()
	w.WriteUint32(uint32(protocol.ProtocolVersionNumber))

	w.WriteString("user")
	w.WriteString(c.config.User)

	if c.config.Database != "" {
		w.WriteString("database")
		w.WriteString(c.config.Database)
	}
	for key, value := range c.config.Parameters {
		w.WriteString(key)
		w.WriteString(value)
	}
	w.WriteByte(0)

	if err := c.transport.Writer.WriteStartupFrame(w.Bytes()); err != nil {
		return err
	}
	return c.transport.Writer.Flush()
}

func (c *Conn) processStartupResponses(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := c.transport.Reader.ReadFrame()
		if err != nil {
			return fmt.Errorf("reading message: %w", err)
		}

		switch f.Kind {
		case protocol.MsgAuthenticationRequest:
			if err := c.handleAuthenticationRequest(f.Body); err != nil {
				return err
			}

		case protocol.MsgBackendKeyData:
			if err := c.handleBackendKeyData(f.Body); err != nil {
				return err
			}

		case protocol.MsgParameterStatus:
			if err := c.handleParameterStatus(f.Body); err != nil {
				return err
			}

		case protocol.MsgReadyForQuery:
			if len(f.Body) < 1 {
				return fmt.Errorf("ReadyForQuery message too short")
			}
			c.txnStatus = protocol.TransactionStatus(f.Body[0])
			return nil

		case protocol.MsgErrorResponse:
			return readErrorDiagnostic(f.Body)

		case protocol.MsgNoticeResponse:
			// Notices during startup are informational only.

		default:
			return fmt.Errorf("unexpected message type during startup: %c (0x%02x)", f.Kind, f.Kind)
		}
	}
}

func (c *Conn) handleAuthenticationRequest(body []byte) error {
	if len(body) < 4 {
		return fmt.Errorf("authentication message too short")
	}
	r := message.NewReader(body)
	authType, err := r.ReadInt32()
	if err != nil {
		return fmt.Errorf("reading auth type: %w", err)
	}

	switch authType {
	case protocol.AuthOk:
		return nil

	case protocol.AuthCleartextPassword:
		return c.sendPasswordMessage(c.config.Password)

	case protocol.AuthMD5Password:
		salt, err := r.ReadBytes(4)
		if err != nil {
			return fmt.Errorf("reading MD5 salt: %w", err)
		}
		return c.sendMD5PasswordMessage(salt)

	case protocol.AuthSASL:
		var mechanisms []string
		for r.Remaining() > 0 {
			mech, err := r.ReadString()
			if err != nil {
				return fmt.Errorf("reading SASL mechanism: %w", err)
			}
			if mech == "" {
				break
			}
			mechanisms = append(mechanisms, mech)
		}
		if !slices.Contains(mechanisms, "SCRAM-SHA-256") {
			return fmt.Errorf("server does not support SCRAM-SHA-256 (offered: %v)", mechanisms)
		}
		return c.authenticateSCRAM()

	default:
		return fmt.Errorf("unsupported authentication method: %d", authType)
	}
}

func (c *Conn) sendPasswordMessage(password string) error {
	w := message.NewWriter()
	w.WriteString(password)
	if err := c.transport.Writer.WriteFrame(protocol.MsgPasswordMsg, w.Bytes()); err != nil {
		return err
	}
	return c.transport.Writer.Flush()
}

func (c *Conn) sendMD5PasswordMessage(salt []byte) error {
	h1 := md5.New() //nolint:gosec // required by PostgreSQL protocol
	h1.Write([]byte(c.config.Password))
	h1.Write([]byte(c.config.User))
	hash1 := hex.EncodeToString(h1.Sum(nil))

	h2 := md5.New() //nolint:gosec // required by PostgreSQL protocol
	h2.Write([]byte(hash1))
	h2.Write(salt)
	hash2 := hex.EncodeToString(h2.Sum(nil))

	return c.sendPasswordMessage("md5" + hash2)
}

// authenticateSCRAM drives the SASLInitialResponse/SASLResponse exchange
// for SCRAM-SHA-256, in either password or passthrough-key mode
// depending on which fields Config sets.
func (c *Conn) authenticateSCRAM() error {
	var client *scram.Client
	if len(c.config.ClientKey) > 0 && len(c.config.ServerKey) > 0 {
		client = scram.NewClientWithKeys(c.config.User, c.config.ClientKey, c.config.ServerKey)
	} else {
		client = scram.NewClientWithPassword(c.config.User, c.config.Password)
	}

	clientFirst, err := client.ClientFirstMessage()
	if err != nil {
		return fmt.Errorf("scram: building client-first message: %w", err)
	}

	w := message.NewWriter()
	w.WriteString("SCRAM-SHA-256")
	w.WriteByteString([]byte(clientFirst))
	if err := c.transport.Writer.WriteFrame(protocol.MsgPasswordMsg, w.Bytes()); err != nil {
		return err
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return err
	}

	f, err := c.transport.Reader.ReadFrame()
	if err != nil {
		return fmt.Errorf("reading SASL continue: %w", err)
	}
	if f.Kind == protocol.MsgErrorResponse {
		return readErrorDiagnostic(f.Body)
	}
	if f.Kind != protocol.MsgAuthenticationRequest {
		return fmt.Errorf("unexpected message type awaiting SASL continue: %c", f.Kind)
	}
	r := message.NewReader(f.Body)
	authType, err := r.ReadInt32()
	if err != nil || authType != protocol.AuthSASLContinue {
		return fmt.Errorf("expected AuthenticationSASLContinue, got type %d", authType)
	}
	serverFirst := string(r.ReadRemaining())

	clientFinal, err := client.ProcessServerFirst(serverFirst)
	if err != nil {
		return fmt.Errorf("scram: %w", err)
	}

	if err := c.transport.Writer.WriteFrame(protocol.MsgPasswordMsg, []byte(clientFinal)); err != nil {
		return err
	}
	if err := c.transport.Writer.Flush(); err != nil {
		return err
	}

	f, err = c.transport.Reader.ReadFrame()
	if err != nil {
		return fmt.Errorf("reading SASL final: %w", err)
	}
	if f.Kind == protocol.MsgErrorResponse {
		return readErrorDiagnostic(f.Body)
	}
	if f.Kind != protocol.MsgAuthenticationRequest {
		return fmt.Errorf("unexpected message type awaiting SASL final: %c", f.Kind)
	}
	r = message.NewReader(f.Body)
	authType, err = r.ReadInt32()
	if err != nil || authType != protocol.AuthSASLFinal {
		return fmt.Errorf("expected AuthenticationSASLFinal, got type %d", authType)
	}
	serverFinal := string(r.ReadRemaining())

	if err := client.VerifyServerFinal(serverFinal); err != nil {
		return fmt.Errorf("scram: %w", err)
	}

	// The server still owes us a final AuthenticationOk before startup
	// can proceed; read and check it here.
	f, err = c.transport.Reader.ReadFrame()
	if err != nil {
		return fmt.Errorf("reading post-SCRAM AuthenticationOk: %w", err)
	}
	if f.Kind == protocol.MsgErrorResponse {
		return readErrorDiagnostic(f.Body)
	}
	if f.Kind != protocol.MsgAuthenticationRequest {
		return fmt.Errorf("unexpected message type awaiting AuthenticationOk: %c", f.Kind)
	}
	r = message.NewReader(f.Body)
	authType, err = r.ReadInt32()
	if err != nil || authType != protocol.AuthOk {
		return fmt.Errorf("expected AuthenticationOk after SCRAM, got type %d", authType)
	}
	return nil
}

func (c *Conn) handleBackendKeyData(body []byte) error {
	if len(body) < 8 {
		return fmt.Errorf("BackendKeyData message too short")
	}
	r := message.NewReader(body)
	pid, err := r.ReadUint32()
	if err != nil {
		return err
	}
	secret, err := r.ReadUint32()
	if err != nil {
		return err
	}
	c.processID = pid
	c.secretKey = secret
	return nil
}
