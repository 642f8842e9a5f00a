// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dynq provides a single-producer/single-consumer lock-free FIFO
// queue whose logical capacity grows and shrinks at runtime.
//
// # Quick Start
//
//	q, err := dynq.NewQueue(dynq.NewConfig(1024))
//	if err != nil {
//	    // invalid configuration
//	}
//
//	// Producer goroutine
//	go func() {
//	    backoff := iox.Backoff{}
//	    for data := range input {
//	        for q.Enqueue(data) != nil {
//	            backoff.Wait() // ErrFull: back off and retry
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	// Consumer goroutine
//	go func() {
//	    backoff := iox.Backoff{}
//	    for {
//	        v, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait() // ErrEmpty: nothing to read yet
//	            continue
//	        }
//	        backoff.Reset()
//	        process(v)
//	    }
//	}()
//
// # Why Dynamic Capacity
//
// A fixed-capacity SPSC ring buffer either over-provisions for the worst
// burst it will ever see, or drops work during one. dynq instead starts
// small and grows when the producer consistently outruns the consumer,
// then shrinks back down once the pressure subsides, without either side
// ever blocking or taking a lock. Growth and shrink happen in place: the
// backing array is allocated once at MaxCapacity and never reallocated,
// so a grow is a single plain store of the new capacity and a shrink is
// a single compare-and-swap.
//
// # Batching Probe
//
// On a classic SPSC ring buffer, the producer detects "full" by reading
// the consumer's tail index, and the consumer detects "empty" by reading
// the producer's head index, the two cross-core reads that dominate cost
// under contention. dynq's producer instead tests slot occupancy
// directly and, each time it catches up with its last published head,
// probes ahead in halving power-of-two strides (DefaultBatchSize down to
// BatchSlice) to find a free slot
// without ever touching the consumer's index. This trades perfectly
// tight packing for fewer cross-core cache line transfers; the producer
// may skip past slots it could have used.
//
// # Resize Protocol
//
// Capacity changes are asymmetric by design. Growth is
// producer-unilateral: the producer is the only writer of both the head
// and capacity sub-fields of the packed info word while growing, so it
// plain-stores the doubled capacity. Shrink is consumer-initiated and
// uses a compare-and-swap against the whole packed word: because head
// and capacity share one word, the CAS naturally fails if the producer
// has moved its head in the interim, so a shrink can never discard live
// data out from under the producer.
//
// Both directions are driven by traffic counters: each side counts
// contiguous stall runs, not individual failed calls, and each side's
// own wrap logic compares the two counters against a configurable
// threshold: the producer's wrap decides whether to grow, the consumer's
// whether to shrink.
//
// # Element Value
//
// Elements are uint64. The value 0 is reserved to mean "slot empty";
// Enqueue rejects it with ErrInvalidElement rather than silently
// corrupting the empty-detection protocol.
//
// # Error Handling
//
// Enqueue and Dequeue never block and never panic. They return
// [ErrFull] / [ErrEmpty], both wrapping [code.hybscloud.com/iox.ErrWouldBlock]
// for ecosystem consistency, when they cannot proceed immediately:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(v)
//	    if err == nil {
//	        break
//	    }
//	    if !dynq.IsWouldBlock(err) {
//	        return err // ErrInvalidElement, not a stall
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	dynq.IsWouldBlock(err)  // true if queue full/empty
//	dynq.IsSemantic(err)    // true if control flow signal
//	dynq.IsNonFailure(err)  // true if nil or a would-block signal
//
// # Observing Resizes
//
// Resizes are advisory events, not errors. Install a callback through
// [Builder.WithOnResize] or [Config.OnResize] to observe them:
//
//	cfg := dynq.New(1024).WithOnResize(func(ev dynq.ResizeEvent) {
//	    log.Printf("dynq: %s %d -> %d", ev.Kind, ev.OldCapacity, ev.NewCapacity)
//	}).Config()
//
// # Thread Safety
//
// Exactly one goroutine may call Enqueue over the Queue's lifetime, and
// exactly one (possibly different) goroutine may call Dequeue. Calling
// either from more than one goroutine concurrently is undefined
// behavior. dynq does not implement multi-producer or multi-consumer
// variants; use a queue designed for that access pattern if you need
// one.
//
// # Capacity
//
// InitialCapacity rounds up to the next power of two; a value below
// MinCapacity is raised to MinCapacity, and a value above MaxCapacity
// makes NewQueue return ErrInvalidConfig. Cap reports the queue's current logical
// capacity, which changes over time as the queue grows and shrinks.
//
// Distance and Stats are racy, point-in-time estimates intended for
// monitoring; nothing in the protocol depends on them being accurate or
// up to date.
//
// # Race Detection
//
// This design's fast path establishes happens-before through a slot's
// own value transition (0 -> v -> 0) rather than through head/tail index
// publication alone, so every slot is backed by an atomic word with
// explicit acquire/release ordering rather than a plain field. See
// RaceEnabled for the build tag that gates tests whose synthetic
// contention the race detector cannot usefully observe.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and its
// caller-side retry back-off ([iox.Backoff], used in the examples above),
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for the back-off
// primitive the batching probe spins on between attempts.
package dynq
