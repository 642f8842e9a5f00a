// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

import "code.hybscloud.com/atomix"

// pad is cache line padding to prevent false sharing between the
// producer-hot and consumer-hot field groups (spec.md §5).
type pad [64]byte

// Queue is a single-producer/single-consumer lock-free FIFO queue whose
// logical capacity grows and shrinks at runtime between MinCapacity and
// MaxCapacity (spec.md, all sections).
//
// Queue provides non-blocking Enqueue and Dequeue. Both return a sentinel
// error (ErrFull / ErrEmpty) instead of blocking; callers that want
// blocking semantics loop on the non-blocking return, optionally backing
// off with their own wait (spec.md §5).
//
// Exactly one goroutine may call Enqueue and exactly one goroutine may
// call Dequeue over the Queue's lifetime. Violating this is undefined
// behavior.
type Queue struct {
	_ pad
	// info packs {head, queueSize}. head is written only by the producer
	// (from the batching probe); queueSize is written by the producer
	// (grow, plain store) and the consumer (shrink, via LT-CAS).
	info atomix.Uint64
	_    pad

	// localHead is the producer's private shadow of info's head
	// sub-field, advanced on every successful Enqueue (spec.md §3).
	// Producer-only: never read or written by the consumer.
	localHead uint64
	// trafficFull counts contiguous full-stall runs, incremented once
	// per run by the producer (spec.md §4.5). Read by the consumer at
	// wrap time, so it lives in an atomix field despite having a single
	// writer.
	trafficFull atomix.Uint64
	// fullRunActive is set while the producer is in an ongoing stall
	// run, so trafficFull increments once per run and not once per call.
	// Producer-only.
	fullRunActive bool
	_             pad

	// tail is the consumer-owned read index, read cross-thread by
	// Distance()/Stats() and so kept atomic despite having one writer.
	tail atomix.Uint64
	// trafficEmpty is the consumer's stall-run counter, the mirror of
	// trafficFull.
	trafficEmpty atomix.Uint64
	// emptyRunActive is the consumer-only mirror of fullRunActive.
	emptyRunActive bool
	_              pad

	// data is allocated once at cfg.MaxCapacity length and never
	// reallocated; growth and shrink only change how much of it is
	// logically in play (spec.md §3). The unused tail of the slice is
	// always zero (Go's zero-value guarantee for make()), which is what
	// makes newly-exposed slots after a grow read as empty.
	//
	// Each slot is an atomix.Uint64 rather than a plain uint64: unlike a
	// classic Lamport ring buffer where head/tail publication alone
	// establishes happens-before, this design's fast path tests slot
	// occupancy directly (spec.md §4.1 step 1, §4.2 step 1) without
	// going through the shared info word on every call. The 0-to-v and
	// v-to-0 slot transitions are themselves the cross-thread signal
	// (spec.md §4.2, "the release point that synchronizes"), so each
	// slot needs its own acquire/release pair, not just the index
	// variables.
	data []atomix.Uint64
	_    pad

	cfg Config
}

// NewQueue creates a Queue per cfg (spec.md §6 queue_init). cfg.InitialCapacity
// is rounded up to the next power of two. Returns ErrInvalidConfig if cfg is
// internally inconsistent.
func NewQueue(cfg Config) (*Queue, error) {
	if cfg.MaxCapacity == 0 {
		d := NewConfig(cfg.InitialCapacity)
		cfg.MaxCapacity = d.MaxCapacity
		cfg.MinCapacity = d.MinCapacity
		cfg.DefaultBatchSize = d.DefaultBatchSize
		cfg.BatchSlice = d.BatchSlice
		cfg.EnlargeThreshold = d.EnlargeThreshold
		cfg.ShrinkThreshold = d.ShrinkThreshold
		cfg.Penalty = d.Penalty
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	initial := roundToPow2(cfg.InitialCapacity)
	if initial < cfg.MinCapacity {
		initial = cfg.MinCapacity
	}
	if initial > cfg.MaxCapacity {
		return nil, fmtErrConfig("initial capacity %d exceeds max capacity %d", initial, cfg.MaxCapacity)
	}

	q := &Queue{
		data: make([]atomix.Uint64, cfg.MaxCapacity),
		cfg:  cfg,
	}
	q.info.StoreRelaxed(packWord(0, uint32(initial)))
	return q, nil
}

// Cap returns the queue's current logical capacity. It changes over time
// as the queue grows and shrinks (spec.md P4: MinCapacity <= Cap() <=
// MaxCapacity always holds).
func (q *Queue) Cap() int {
	_, size := unpackWord(q.info.LoadAcquire())
	return int(size)
}

// Distance returns a producer-observed, advisory estimate of the number
// of occupied slots (spec.md §6 distance). It is racy by construction:
// the consumer may be concurrently advancing tail, so the result can be
// stale the instant it is returned. Use it for monitoring, not control
// flow.
func (q *Queue) Distance() int {
	head, size := unpackWord(q.info.LoadAcquire())
	tail := q.tail.LoadAcquire()
	if uint64(head) >= tail {
		return int(uint64(head) - tail)
	}
	return int(uint64(head) + uint64(size) - tail)
}

// Stats is a point-in-time, advisory snapshot of queue health. It
// supplements spec.md's bare distance() operation; nothing in the
// protocol depends on it being accurate or up to date.
type Stats struct {
	Capacity    int
	Distance    int
	FullStalls  uint64
	EmptyStalls uint64
}

// Stats returns a Stats snapshot. Like Distance, it is racy by design.
func (q *Queue) Stats() Stats {
	return Stats{
		Capacity:    q.Cap(),
		Distance:    q.Distance(),
		FullStalls:  q.trafficFull.LoadRelaxed(),
		EmptyStalls: q.trafficEmpty.LoadRelaxed(),
	}
}

func roundToPow2(n int) int {
	if n < 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
