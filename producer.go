// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

// Enqueue publishes v at the current head slot and advances the logical
// head by one, or returns ErrFull without touching data (spec.md §4.1).
//
// Enqueue must only be called from the single producer goroutine.
func (q *Queue) Enqueue(v uint64) error {
	if v == 0 {
		return ErrInvalidElement
	}

	word := q.info.LoadRelaxed()
	head, _ := unpackWord(word)

	if q.localHead == uint64(head) {
		// The producer has caught up with its published head (after a
		// wrap, or after one stride when the stride is below the
		// capacity): probe ahead instead of touching the consumer's
		// index (spec.md §4.1a).
		if err := q.batchProbe(word); err != nil {
			q.noteFullStall()
			return err
		}
	} else if q.data[q.localHead].LoadAcquire() != 0 {
		q.noteFullStall()
		return ErrFull
	}
	q.clearFullStall()

	_, qsize := unpackWord(q.info.LoadRelaxed())
	lhead := q.localHead
	q.localHead++

	if q.localHead < uint64(qsize) {
		q.data[lhead].StoreRelease(v)
		return nil
	}

	// Wrap-around: local_head has reached qsize (spec.md §4.1 step 4).
	q.resizeOnProducerWrap(qsize)
	q.data[lhead].StoreRelease(v)
	return nil
}

// batchProbe amortizes fullness detection by jumping ahead in
// power-of-two strides without touching the consumer's tail index
// (spec.md §4.1a). word is the info snapshot Enqueue already read; it is
// reused for the final publish so the probe does not introduce an extra
// read of (and race window against) a concurrent shrink.
func (q *Queue) batchProbe(word uint64) error {
	head, qsize := unpackWord(word)
	stride := uint32(q.cfg.DefaultBatchSize)
	probe := (head + stride) % qsize

	for q.data[probe].LoadAcquire() != 0 {
		waitTicks(q.cfg.Penalty)
		if stride > uint32(q.cfg.BatchSlice) {
			stride >>= 1
			probe = (head + stride) % qsize
		} else {
			return ErrFull
		}
	}

	q.info.StoreRelease(withHead(word, probe))
	return nil
}

// noteFullStall increments trafficFull once per contiguous stall run,
// not once per failed call (spec.md §4.5).
func (q *Queue) noteFullStall() {
	if !q.fullRunActive {
		q.fullRunActive = true
		q.trafficFull.AddAcqRel(1)
	}
}

func (q *Queue) clearFullStall() {
	q.fullRunActive = false
}
