// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

// resizeOnProducerWrap implements the grow half of the resize protocol
// (spec.md §4.3). Called only from Enqueue, only at the instant the
// producer's local_head would wrap past the current logical capacity.
//
// Growth is producer-unilateral: the producer is the sole writer of both
// the head and queueSize sub-fields during growth, so it may plain-store
// the doubled queueSize (spec.md: "Since the producer is the only writer
// of info.head AND of info.queue_size during growth, it may perform a
// plain store"). The newly-exposed upper half of data is already zero
// because data is allocated at MaxCapacity length up front, so it reads
// as empty without any initialization work.
func (q *Queue) resizeOnProducerWrap(qsize uint32) {
	delta := int64(q.trafficFull.LoadRelaxed()) - int64(q.trafficEmpty.LoadRelaxed())
	if delta < q.cfg.EnlargeThreshold {
		q.localHead = 0
		return
	}

	doubled := qsize * 2
	if int(doubled) > q.cfg.MaxCapacity {
		// Growth would exceed MaxCapacity: skip it, continue at current
		// capacity (spec.md §7, "Grow would exceed MAX_CAPACITY").
		q.localHead = 0
		q.emitResize(ResizeEvent{Kind: "grow-failed", OldCapacity: int(qsize), NewCapacity: int(qsize)})
		return
	}

	word := q.info.LoadRelaxed()
	q.info.StoreRelease(withQueueSize(word, doubled))
	q.trafficFull.StoreRelaxed(0)
	q.trafficEmpty.StoreRelaxed(0)
	// The new head points past the end of the old range: the first
	// index of the newly-available region (spec.md §4.1 step 4).
	q.localHead = uint64(qsize)
	q.emitResize(ResizeEvent{Kind: "grow", OldCapacity: int(qsize), NewCapacity: int(doubled)})
}

// tryShrink implements the shrink half of the resize protocol (spec.md
// §4.3). Called only from Dequeue, only at the instant the consumer's
// tail would wrap past the current logical capacity.
//
// Shrink is consumer-initiated via LT-CAS: the consumer reads the whole
// packed info word, computes a halved queueSize, and attempts a
// whole-word compare-and-swap against the word it read. Because head and
// queueSize share one word, the CAS naturally fails if the producer has
// concurrently published a new head (via the batching probe) — the
// guard the spec calls the "less-than compare-and-swap" trick, even
// though the comparison here is a plain word equality: the head
// sub-field's inclusion in the compared word is what conditions the
// queueSize write on head's observed value.
func (q *Queue) tryShrink() {
	delta := int64(q.trafficEmpty.LoadRelaxed()) - int64(q.trafficFull.LoadRelaxed())
	if delta < q.cfg.ShrinkThreshold {
		return
	}

	old := q.info.LoadAcquire()
	head, qsize := unpackWord(old)

	if int(qsize) <= q.cfg.MinCapacity {
		// Shrink would go below MinCapacity: skip, reattempt on next
		// wrap (spec.md §7, "Shrink would truncate live data").
		return
	}
	if uint64(head) >= uint64(qsize)/2 {
		// Shrink would truncate live data: the producer hasn't wrapped
		// into the lower half yet. Wait for it to do so naturally.
		return
	}

	newWord := packWord(head, qsize/2)
	if !q.info.CompareAndSwapAcqRel(old, newWord) {
		// Lost to concurrent growth (or another head publication):
		// abort silently, the next wrap re-evaluates (spec.md §7).
		return
	}

	q.trafficFull.StoreRelaxed(0)
	q.trafficEmpty.StoreRelaxed(0)
	q.emitResize(ResizeEvent{Kind: "shrink", OldCapacity: int(qsize), NewCapacity: int(qsize / 2)})
}

// emitResize invokes cfg.OnResize if the caller installed one. See
// DESIGN.md for why this callback replaces a hard logging dependency.
func (q *Queue) emitResize(ev ResizeEvent) {
	if q.cfg.OnResize != nil {
		q.cfg.OnResize(ev)
	}
}
