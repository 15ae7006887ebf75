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
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer plays the server side of RFC 5802 well enough to drive a
// full exchange against Client without a real backend: it knows the
// password out of band (as a real server's stored verifier effectively
// does) and derives the same SaltedPassword/ClientKey/ServerKey.
type fakeServer struct {
	password   string
	salt       []byte
	iterations int
	nonce      string
}

func newFakeServer(password string) *fakeServer {
	salt := make([]byte, 16)
	_, _ = rand.Read(salt)
	nonceBytes := make([]byte, 18)
	_, _ = rand.Read(nonceBytes)
	return &fakeServer{
		password:   password,
		salt:       salt,
		iterations: 4096,
		nonce:      base64.StdEncoding.EncodeToString(nonceBytes),
	}
}

func (s *fakeServer) firstMessage(clientNonce string) string {
	combined := clientNonce + s.nonce
	return "r=" + combined + ",s=" + base64.StdEncoding.EncodeToString(s.salt) + ",i=" + itoa(s.iterations)
}

func (s *fakeServer) finalMessage(clientFirstBare, serverFirst, clientFinalWithoutProof string) string {
	saltedPassword := computeSaltedPassword(s.password, s.salt, s.iterations)
	serverKey := computeServerKey(saltedPassword)
	authMessage := buildAuthMessage(clientFirstBare, serverFirst, clientFinalWithoutProof)
	sig := computeServerSignature(serverKey, authMessage)
	return "v=" + base64.StdEncoding.EncodeToString(sig)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestClientFullExchangeSucceedsWithCorrectPassword(t *testing.T) {
	srv := newFakeServer("correct horse battery staple")
	c := NewClientWithPassword("alice", "correct horse battery staple")

	first, err := c.ClientFirstMessage()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first, "n,,n=alice,r="))

	clientNonce := strings.TrimPrefix(first, "n,,n=alice,r=")
	serverFirst := srv.firstMessage(clientNonce)

	final, err := c.ProcessServerFirst(serverFirst)
	require.NoError(t, err)
	require.True(t, strings.Contains(final, ",p="))

	withoutProof := final[:strings.LastIndex(final, ",p=")]
	serverFinal := srv.finalMessage(c.clientFirstMessageBare, serverFirst, withoutProof)

	err = c.VerifyServerFinal(serverFinal)
	assert.NoError(t, err)
}

func TestClientRejectsTamperedServerNonce(t *testing.T) {
	c := NewClientWithPassword("bob", "hunter2")
	_, err := c.ClientFirstMessage()
	require.NoError(t, err)

	_, err = c.ProcessServerFirst("r=not-the-clients-nonce-at-all,s=" + base64.StdEncoding.EncodeToString([]byte("salt1234")) + ",i=4096")
	assert.Error(t, err)
}

func TestClientRejectsForgedServerSignature(t *testing.T) {
	srv := newFakeServer("s3cret")
	c := NewClientWithPassword("carol", "s3cret")

	first, err := c.ClientFirstMessage()
	require.NoError(t, err)
	clientNonce := strings.TrimPrefix(first, "n,,n=carol,r=")
	serverFirst := srv.firstMessage(clientNonce)

	_, err = c.ProcessServerFirst(serverFirst)
	require.NoError(t, err)

	err = c.VerifyServerFinal("v=" + base64.StdEncoding.EncodeToString([]byte("not the real signature!")))
	assert.Error(t, err)
}

func TestClientWithKeysPassthroughSkipsPasswordDerivation(t *testing.T) {
	srv := newFakeServer("irrelevant")
	saltedPassword := computeSaltedPassword("irrelevant", srv.salt, srv.iterations)
	clientKey := computeClientKey(saltedPassword)
	serverKey := computeServerKey(saltedPassword)

	c := NewClientWithKeys("dave", clientKey, serverKey)
	first, err := c.ClientFirstMessage()
	require.NoError(t, err)
	clientNonce := strings.TrimPrefix(first, "n,,n=dave,r=")
	serverFirst := srv.firstMessage(clientNonce)

	final, err := c.ProcessServerFirst(serverFirst)
	require.NoError(t, err)
	withoutProof := final[:strings.LastIndex(final, ",p=")]
	serverFinal := srv.finalMessage(c.clientFirstMessageBare, serverFirst, withoutProof)

	assert.NoError(t, c.VerifyServerFinal(serverFinal))
	assert.Equal(t, clientKey, c.ClientKey())
	assert.Equal(t, serverKey, c.ServerKey())
}

func TestEncodeSaslNameEscapesReservedChars(t *testing.T) {
	assert.Equal(t, "a=3Db=2Cc", encodeSaslName("a=b,c"))
}

func TestParseServerFirstMessageRejectsMissingFields(t *testing.T) {
	_, _, _, err := parseServerFirstMessage("")
	assert.Error(t, err)

	_, _, _, err = parseServerFirstMessage("r=nonce")
	assert.Error(t, err)

	_, _, _, err = parseServerFirstMessage("r=nonce,s=" + base64.StdEncoding.EncodeToString([]byte("salt")))
	assert.Error(t, err)
}
