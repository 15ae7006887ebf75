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

// Package notify is the notification manager: it multiplexes LISTEN/
// NOTIFY delivery across a set of connections by readiness-polling each
// one in turn, folding dead connections into a garbage set instead of
// letting one bad connection stop the others.
package notify

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/pgwire/pgwire/pkg/pgconn"
	"github.com/pgwire/pgwire/pkg/row"
)

// pollSlice bounds how long a single connection's DrainAsync call may
// block per round, so the manager can round-robin fairly across many
// connections instead of one hogging the whole poll.
const pollSlice = 50 * time.Millisecond

// Event is one poll result: either a notification delivered on Conn, or
// — when Notification is nil — an idle tick marking that the requested
// timeout elapsed with nothing pending. The idle tick is the only safe
// point for a consumer to break out of a long-running iteration.
type Event struct {
	Conn         *pgconn.Conn
	Notification *row.Notification
}

// Manager multiplexes notification delivery across a set of
// connections. It is not safe for concurrent use from multiple
// goroutines without external synchronization, matching every other
// piece of this runtime's single-driver-thread-per-connection model.
type Manager struct {
	mu      sync.Mutex
	conns   map[*pgconn.Conn]struct{}
	garbage map[*pgconn.Conn]error
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		conns:   make(map[*pgconn.Conn]struct{}),
		garbage: make(map[*pgconn.Conn]error),
	}
}

// Add registers conn with the manager.
func (m *Manager) Add(conn *pgconn.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[conn] = struct{}{}
}

// Remove unregisters conn, if present. It does not close conn.
func (m *Manager) Remove(conn *pgconn.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, conn)
}

// Garbage returns the connections that raised during polling, along
// with the error that retired each one, and clears the manager's
// internal record of them. A connection in this set has already been
// dropped from the active set; the caller decides whether to close it.
func (m *Manager) Garbage() map[*pgconn.Conn]error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.garbage
	m.garbage = make(map[*pgconn.Conn]error)
	return out
}

func (m *Manager) activeConns() []*pgconn.Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*pgconn.Conn, 0, len(m.conns))
	for c := range m.conns {
		out = append(out, c)
	}
	return out
}

func (m *Manager) retire(conn *pgconn.Conn, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, conn)
	m.garbage[conn] = err
}

// poll runs exactly one round over every active connection, draining
// each for up to slice and collecting whatever notifications land on
// its channel in the process. A connection whose DrainAsync call fails
// is retired into the garbage set and skipped for the rest of this
// round and all future ones.
func (m *Manager) poll(ctx context.Context, slice time.Duration) []Event {
	var events []Event
	for _, c := range m.activeConns() {
		if err := c.DrainAsync(ctx, slice); err != nil {
			m.retire(c, err)
			continue
		}
	drain:
		for {
			select {
			case n := <-c.Notifications():
				events = append(events, Event{Conn: c, Notification: n})
			default:
				break drain
			}
		}
	}
	return events
}

// Poll runs one polling pass and returns every notification currently
// available, following the three timeout semantics the notification
// manager's design calls for:
//
//   - timeout == nil: blocks until at least one connection delivers a
//     notification.
//   - *timeout == 0: a non-blocking snapshot of whatever is pending
//     right now, possibly empty.
//   - *timeout > 0: polls for up to that long, returning an empty
//     result (not an error) if nothing arrived before it elapsed.
func (m *Manager) Poll(ctx context.Context, timeout *time.Duration) ([]Event, error) {
	if timeout != nil && *timeout == 0 {
		return m.poll(ctx, 0), nil
	}

	var deadline time.Time
	hasDeadline := false
	if timeout != nil {
		deadline = time.Now().Add(*timeout)
		hasDeadline = true
	}

	for {
		if events := m.poll(ctx, pollSlice); len(events) > 0 {
			return events, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if hasDeadline && !time.Now().Before(deadline) {
			return nil, nil
		}
	}
}

// Iterate returns a lazy sequence of Events, calling Poll repeatedly. A
// zero-value Event (Notification == nil) marks an idle tick under a
// t>0 timeout — the only point at which a consumer should consider
// breaking out of the range loop, per the manager's design. With a nil
// timeout the sequence never produces an idle tick; with a zero timeout
// it yields exactly the connections' currently pending notifications and
// then ends.
func (m *Manager) Iterate(ctx context.Context, timeout *time.Duration) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		nonBlocking := timeout != nil && *timeout == 0
		for {
			events, err := m.Poll(ctx, timeout)
			if err != nil {
				yield(Event{}, err)
				return
			}
			if len(events) == 0 {
				if nonBlocking {
					return
				}
				if !yield(Event{}, nil) {
					return
				}
				continue
			}
			for _, e := range events {
				if !yield(e, nil) {
					return
				}
			}
		}
	}
}
