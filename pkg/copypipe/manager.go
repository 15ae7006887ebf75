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

package copypipe

import (
	"fmt"
)

// Producer is the source side of a Manager transfer: one call returns
// the next chunk of CopyData bytes, or io.EOF once exhausted. A
// *pgconn.Conn in copy-out state, or any other chunked byte source,
// satisfies this by wrapping its Receive/Read method.
type Producer func() ([]byte, error)

// Receiver is one sink side of a Manager transfer: it accepts a chunk,
// or the manager's final CopyFail reason on abnormal exit (chunk == nil
// and failed == true). A *pgconn.Conn in copy-in state, or any other
// chunked byte sink, satisfies this by wrapping its Send/Write method
// and sending CopyFail when failed is set.
type Receiver interface {
	Accept(chunk []byte, failed bool, reason string) error
}

// FanoutFault names the receiver that faulted during a transfer cycle,
// alongside the error it raised. The manager's caller identifies the
// receiver itself (by identity, since Receiver is an interface) to
// decide whether it can be repaired and readmitted via Manager.Reconcile.
//
// This is distinct from the single-sink ReceiverFault raised by Sink:
// a Manager tracks a set of receivers and must keep naming which one
// faulted even after isolating it from the active set.
type FanoutFault struct {
	Receiver Receiver
	Err      error
}

func (e *FanoutFault) Error() string {
	return fmt.Sprintf("copypipe: receiver fault: %v", e.Err)
}
func (e *FanoutFault) Unwrap() error { return e.Err }

// CopyManagerFailure aggregates every exit-time error from the producer
// and whatever receivers were still active when a Manager.Run call
// exited abnormally (an untrapped producer fault, or the caller
// breaking the cycle early by returning a non-nil error from onFault).
type CopyManagerFailure struct {
	Producer  error
	Receivers map[Receiver]error
}

func (e *CopyManagerFailure) Error() string {
	return fmt.Sprintf("copypipe: copy manager aborted: producer=%v, %d receiver(s) failed", e.Producer, len(e.Receivers))
}

// Manager fans one producer's chunks out to a set of active receivers,
// isolating a faulting receiver from the others instead of aborting the
// whole transfer the moment one sink misbehaves.
type Manager struct {
	produce Producer
	active  map[Receiver]struct{}
	order   []Receiver
}

// NewManager returns a Manager pumping chunks from produce to the given
// initial set of receivers.
func NewManager(produce Producer, receivers ...Receiver) *Manager {
	m := &Manager{
		produce: produce,
		active:  make(map[Receiver]struct{}, len(receivers)),
		order:   append([]Receiver(nil), receivers...),
	}
	for _, r := range receivers {
		m.active[r] = struct{}{}
	}
	return m
}

// Reconcile readmits r to the active set, for use after the caller has
// repaired whatever caused an earlier FanoutFault. Reconciling a
// receiver that was never removed is a no-op.
func (m *Manager) Reconcile(r Receiver) {
	if _, known := m.active[r]; known {
		return
	}
	m.active[r] = struct{}{}
	for _, existing := range m.order {
		if existing == r {
			return
		}
	}
	m.order = append(m.order, r)
}

// Active reports the receivers currently in the active set, in the
// order they were registered.
func (m *Manager) Active() []Receiver {
	out := make([]Receiver, 0, len(m.order))
	for _, r := range m.order {
		if _, ok := m.active[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Run drives the transfer to completion: it calls produce repeatedly,
// writing each chunk to every active receiver, until produce returns
// done (io.EOF, reported by the caller's Producer as a nil chunk with a
// nil error alongside a true done return is not the convention here —
// Producer signals end of input by returning io.EOF as its error).
//
// onFault, if non-nil, is called synchronously with each FanoutFault
// as it happens; returning a non-nil error from onFault aborts the
// whole transfer (sending CopyFail to every other still-active
// receiver and returning a CopyManagerFailure), while returning nil
// drops only the faulting receiver and continues the cycle — the
// default if onFault is nil.
func (m *Manager) Run(onFault func(*FanoutFault) error) error {
	for {
		chunk, err := m.produce()
		if err != nil {
			if err == ErrDone {
				return nil
			}
			return m.abort(&ProducerFault{Err: err})
		}

		for _, r := range m.Active() {
			if werr := r.Accept(chunk, false, ""); werr != nil {
				fault := &FanoutFault{Receiver: r, Err: werr}
				delete(m.active, r)
				if onFault != nil {
					if aerr := onFault(fault); aerr != nil {
						return m.abort(aerr)
					}
				}
			}
		}
	}
}

// abort sends CopyFail to every receiver still active and returns a
// CopyManagerFailure aggregating cause alongside whatever error each of
// those receivers itself raises while being told to fail.
func (m *Manager) abort(cause error) error {
	failure := &CopyManagerFailure{Receivers: make(map[Receiver]error)}
	if pf, ok := cause.(*ProducerFault); ok {
		failure.Producer = pf
	} else {
		failure.Producer = cause
	}

	reason := cause.Error()
	for _, r := range m.Active() {
		if err := r.Accept(nil, true, reason); err != nil {
			failure.Receivers[r] = err
		}
		delete(m.active, r)
	}
	return failure
}
