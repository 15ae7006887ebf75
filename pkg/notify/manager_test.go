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

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgwire/pgwire/pkg/pgconn"
)

// Manager.poll/Poll/Iterate drive a real *pgconn.Conn through
// DrainAsync, which needs a live connection; they're exercised by this
// runtime's integration suite instead. Add/Remove/Garbage never touch
// the connection itself, so they're tested here with bare, unconnected
// *pgconn.Conn values used purely as distinct map keys.
func distinctConns(n int) []*pgconn.Conn {
	conns := make([]*pgconn.Conn, n)
	for i := range conns {
		conns[i] = &pgconn.Conn{}
	}
	return conns
}

func TestManagerAddRegistersConnAsActive(t *testing.T) {
	m := NewManager()
	conns := distinctConns(2)
	m.Add(conns[0])
	m.Add(conns[1])
	assert.ElementsMatch(t, conns, m.activeConns())
}

func TestManagerRemoveUnregistersConn(t *testing.T) {
	m := NewManager()
	conns := distinctConns(2)
	m.Add(conns[0])
	m.Add(conns[1])
	m.Remove(conns[0])
	assert.Equal(t, []*pgconn.Conn{conns[1]}, m.activeConns())
}

func TestManagerRemoveOfUnknownConnIsNoop(t *testing.T) {
	m := NewManager()
	conns := distinctConns(1)
	assert.NotPanics(t, func() { m.Remove(conns[0]) })
	assert.Empty(t, m.activeConns())
}

func TestManagerRetireMovesConnFromActiveToGarbage(t *testing.T) {
	m := NewManager()
	conns := distinctConns(1)
	m.Add(conns[0])

	boom := assert.AnError
	m.retire(conns[0], boom)

	assert.Empty(t, m.activeConns())
	garbage := m.Garbage()
	assert.Equal(t, boom, garbage[conns[0]])
}

func TestManagerGarbageDrainsAndResetsOnRead(t *testing.T) {
	m := NewManager()
	conns := distinctConns(1)
	m.Add(conns[0])
	m.retire(conns[0], assert.AnError)

	first := m.Garbage()
	assert.Len(t, first, 1)

	second := m.Garbage()
	assert.Empty(t, second)
}
