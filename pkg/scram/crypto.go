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

// Package scram implements the client side of SCRAM-SHA-256 (RFC 5802)
// authentication, as negotiated by a PostgreSQL AuthenticationSASL
// request. It supports both ordinary password authentication and a
// passthrough mode where pre-extracted ClientKey/ServerKey are supplied
// instead of a plaintext password, for proxies that verified a client
// upstream and want to re-authenticate to the backend without ever
// seeing that client's password.
package scram

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	sha256Size = 32

	clientKeyLiteral = "Client Key"
	serverKeyLiteral = "Server Key"
)

// ErrAuthenticationFailed indicates the server's derived proof did not
// match: the password (or passthrough key) supplied was wrong.
var ErrAuthenticationFailed = errors.New("scram: authentication failed")

// computeSaltedPassword computes SaltedPassword = Hi(password, salt, i)
// via PBKDF2-HMAC-SHA-256.
//
// This does not perform SASLprep normalization of the password.
// PostgreSQL itself does not enforce strict SASLprep, so plain UTF-8
// comparison is compatible with every server this runtime talks to.
func computeSaltedPassword(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, sha256Size, sha256.New)
}

func computeClientKey(saltedPassword []byte) []byte {
	return hmacSHA256(saltedPassword, []byte(clientKeyLiteral))
}

func computeStoredKey(clientKey []byte) []byte {
	h := sha256.Sum256(clientKey)
	return h[:]
}

func computeServerKey(saltedPassword []byte) []byte {
	return hmacSHA256(saltedPassword, []byte(serverKeyLiteral))
}

func computeClientSignature(storedKey []byte, authMessage string) []byte {
	return hmacSHA256(storedKey, []byte(authMessage))
}

func computeServerSignature(serverKey []byte, authMessage string) []byte {
	return hmacSHA256(serverKey, []byte(authMessage))
}

func computeClientProof(clientKey, clientSignature []byte) ([]byte, error) {
	return xorBytes(clientKey, clientSignature)
}

func buildAuthMessage(clientFirstMessageBare, serverFirstMessage, clientFinalMessageWithoutProof string) string {
	return clientFirstMessageBare + "," + serverFirstMessage + "," + clientFinalMessageWithoutProof
}

func hmacSHA256(key, message []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(message)
	return h.Sum(nil)
}

func xorBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("scram: xorBytes length mismatch (a=%d, b=%d)", len(a), len(b))
	}
	result := make([]byte, len(a))
	for i := range a {
		result[i] = a[i] ^ b[i]
	}
	return result, nil
}
