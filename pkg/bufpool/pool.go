// Copyright 2025 Supabase, Inc.
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

// Package bufpool buckets []byte buffers by power-of-two capacity so a
// connection that repeatedly streams COPY chunks or large message
// bodies doesn't pay a fresh allocation every time. The bucketing
// scheme is the one Vitess's bucketpool popularized; pkg/pgconn and
// pkg/wire size their pools around this driver's own traffic shapes
// (a CopyFrom/CopyTo chunk, a single incoming frame body) rather than
// a multi-tenant proxy's mixed connection set.
package bufpool

import (
	"math/bits"
	"sync"
)

// bucket holds every pooled buffer of one fixed capacity.
type bucket struct {
	capacity int
	slices   sync.Pool
}

func newBucket(capacity int) *bucket {
	return &bucket{
		capacity: capacity,
		slices: sync.Pool{
			New: func() interface{} {
				buf := make([]byte, capacity)
				return &buf
			},
		},
	}
}

// Pool buckets buffers between a floor and ceiling capacity, doubling
// at each step: [min, min*2, min*4, ..., max]. A single Pool is meant
// to be shared across every CopyFrom/CopyTo call (or every frame read)
// on one connection, not recreated per request.
type Pool struct {
	min, max int
	buckets  []*bucket
}

// New builds a Pool covering [min, max]. Panics if max < min, since
// that leaves no buckets to build.
func New(min, max int) *Pool {
	if max < min {
		panic("bufpool: max must be >= min")
	}

	var buckets []*bucket
	for capacity := min; capacity < max; capacity *= 2 {
		buckets = append(buckets, newBucket(capacity))
	}
	buckets = append(buckets, newBucket(max))

	return &Pool{min: min, max: max, buckets: buckets}
}

// bucketFor returns the smallest bucket able to hold size bytes, or
// nil once size exceeds the pool's ceiling.
func (p *Pool) bucketFor(size int) *bucket {
	if size > p.max {
		return nil
	}

	quotient, remainder := bits.Div64(0, uint64(size), uint64(p.min))
	idx := bits.Len64(quotient)
	if remainder == 0 && quotient != 0 && quotient&(quotient-1) == 0 {
		idx--
	}
	if idx >= len(p.buckets) {
		idx = len(p.buckets) - 1
	}
	return p.buckets[idx]
}

// Get returns a buffer of exactly size bytes (capacity may run ahead
// of it). A size past the pool's ceiling — an oversized COPY chunk, an
// unusually large message body — skips the pool and allocates
// directly rather than growing a bucket permanently to fit one outlier.
func (p *Pool) Get(size int) *[]byte {
	b := p.bucketFor(size)
	if b == nil {
		buf := make([]byte, size)
		return &buf
	}
	buf := b.slices.Get().(*[]byte)
	*buf = (*buf)[:size]
	return buf
}

// Put returns buf to the bucket matching its capacity for reuse by the
// next Get on that connection. A capacity landing outside every bucket
// (an oversized buffer Get allocated directly) is simply dropped.
func (p *Pool) Put(buf *[]byte) {
	b := p.bucketFor(cap(*buf))
	if b == nil {
		return
	}
	*buf = (*buf)[:cap(*buf)]
	b.slices.Put(buf)
}
