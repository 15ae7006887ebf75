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

package scram

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// clientNonceLength is 24 bytes (192 bits of entropy), base64-encoded to
// 32 characters.
const clientNonceLength = 24

// Client drives one client-side SCRAM-SHA-256 exchange: ClientFirstMessage,
// then ProcessServerFirst, then VerifyServerFinal, called in that order
// for a single authentication attempt.
type Client struct {
	username string

	password  string
	clientKey []byte
	serverKey []byte

	clientNonce            string
	clientFirstMessageBare string
	authMessage            string
}

// NewClientWithPassword builds a Client that derives SCRAM keys from a
// plaintext password, the ordinary case.
func NewClientWithPassword(username, password string) *Client {
	return &Client{username: username, password: password}
}

// NewClientWithKeys builds a Client for SCRAM key passthrough: the
// caller has already extracted a ClientKey/ServerKey pair (typically by
// verifying an upstream client's own SCRAM exchange) and authenticates
// to this server with them directly, without ever holding a password.
func NewClientWithKeys(username string, clientKey, serverKey []byte) *Client {
	return &Client{username: username, clientKey: clientKey, serverKey: serverKey}
}

// ClientFirstMessage builds the client-first-message, including the
// "n,," GS2 header for "no channel binding, no authorization identity".
func (c *Client) ClientFirstMessage() (string, error) {
	nonceBytes := make([]byte, clientNonceLength)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("scram: failed to generate client nonce: %w", err)
	}
	c.clientNonce = base64.StdEncoding.EncodeToString(nonceBytes)

	c.clientFirstMessageBare = "n=" + encodeSaslName(c.username) + ",r=" + c.clientNonce
	return "n,," + c.clientFirstMessageBare, nil
}

// ProcessServerFirst consumes the server-first-message and returns the
// client-final-message to send back.
func (c *Client) ProcessServerFirst(serverFirst string) (string, error) {
	combinedNonce, salt, iterations, err := parseServerFirstMessage(serverFirst)
	if err != nil {
		return "", fmt.Errorf("scram: failed to parse server-first-message: %w", err)
	}

	if len(combinedNonce) < len(c.clientNonce) || combinedNonce[:len(c.clientNonce)] != c.clientNonce {
		return "", errors.New("scram: server nonce does not start with client nonce (possible attack)")
	}

	channelBinding := base64.StdEncoding.EncodeToString([]byte("n,,"))
	clientFinalWithoutProof := "c=" + channelBinding + ",r=" + combinedNonce

	c.authMessage = buildAuthMessage(c.clientFirstMessageBare, serverFirst, clientFinalWithoutProof)

	var clientKey []byte
	if c.clientKey != nil {
		clientKey = c.clientKey
	} else {
		saltedPassword := computeSaltedPassword(c.password, salt, iterations)
		clientKey = computeClientKey(saltedPassword)
		c.clientKey = clientKey
		c.serverKey = computeServerKey(saltedPassword)
	}

	storedKey := computeStoredKey(clientKey)
	clientSignature := computeClientSignature(storedKey, c.authMessage)
	clientProof, err := computeClientProof(clientKey, clientSignature)
	if err != nil {
		return "", fmt.Errorf("scram: failed to compute client proof: %w", err)
	}

	proofB64 := base64.StdEncoding.EncodeToString(clientProof)
	return clientFinalWithoutProof + ",p=" + proofB64, nil
}

// VerifyServerFinal checks the server-final-message's signature for
// mutual authentication, confirming the server also knows ServerKey.
func (c *Client) VerifyServerFinal(serverFinal string) error {
	if len(serverFinal) < 2 || serverFinal[:2] != "v=" {
		return errors.New("scram: invalid server-final-message: expected v=...")
	}

	serverSig, err := base64.StdEncoding.DecodeString(serverFinal[2:])
	if err != nil {
		return fmt.Errorf("scram: invalid server signature: %w", err)
	}

	if c.serverKey == nil {
		return errors.New("scram: server key not available for verification")
	}
	expected := computeServerSignature(c.serverKey, c.authMessage)

	if !hmac.Equal(serverSig, expected) {
		return errors.New("scram: server signature verification failed")
	}
	return nil
}

// ClientKey returns the derived (or passthrough) ClientKey, available
// once ProcessServerFirst has run. A proxy can save this to re-
// authenticate to another backend without the original password.
func (c *Client) ClientKey() []byte { return c.clientKey }

// ServerKey returns the derived (or passthrough) ServerKey.
func (c *Client) ServerKey() []byte { return c.serverKey }

// encodeSaslName escapes '=' and ',' per RFC 5802's SASLprep profile for
// the "n=" attribute of client-first-message.
func encodeSaslName(s string) string {
	s = strings.ReplaceAll(s, "=", "=3D")
	s = strings.ReplaceAll(s, ",", "=2C")
	return s
}

// parseServerFirstMessage parses "r=<nonce>,s=<salt-b64>,i=<iterations>".
func parseServerFirstMessage(msg string) (nonce string, salt []byte, iterations int, err error) {
	if msg == "" {
		return "", nil, 0, errors.New("scram: empty server-first-message")
	}

	for _, attr := range strings.Split(msg, ",") {
		switch {
		case strings.HasPrefix(attr, "r="):
			nonce = attr[2:]
		case strings.HasPrefix(attr, "s="):
			salt, err = base64.StdEncoding.DecodeString(attr[2:])
			if err != nil {
				return "", nil, 0, fmt.Errorf("scram: invalid salt: %w", err)
			}
		case strings.HasPrefix(attr, "i="):
			iterations, err = strconv.Atoi(attr[2:])
			if err != nil {
				return "", nil, 0, fmt.Errorf("scram: invalid iterations: %w", err)
			}
		}
	}

	if nonce == "" {
		return "", nil, 0, errors.New("scram: missing nonce in server-first-message")
	}
	if salt == nil {
		return "", nil, 0, errors.New("scram: missing salt in server-first-message")
	}
	if iterations == 0 {
		return "", nil, 0, errors.New("scram: missing iterations in server-first-message")
	}

	return nonce, salt, iterations, nil
}
