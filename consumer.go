// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

// Dequeue reads the value at the tail slot, clears it to 0, advances the
// tail by one, and returns it, or returns ErrEmpty without side effects
// (spec.md §4.2).
//
// Dequeue must only be called from the single consumer goroutine.
//
// The clear-to-zero is sequenced after the tail advance (spec.md §9's
// resolution of the tail-zeroing open question: advance tail first, then
// perform the read-then-clear under acquire/release), since the producer
// never follows the tail index and only reacts to slot-level occupancy.
func (q *Queue) Dequeue() (uint64, error) {
	tail := q.tail.LoadRelaxed()
	if q.data[tail].LoadAcquire() == 0 {
		q.noteEmptyStall()
		return 0, ErrEmpty
	}
	q.clearEmptyStall()

	ltail := tail
	q.tail.StoreRelease(ltail + 1)

	_, qsize := unpackWord(q.info.LoadAcquire())
	if ltail+1 >= uint64(qsize) {
		q.tryShrink()
		q.tail.StoreRelease(0)
	}

	v := q.data[ltail].LoadAcquire()
	q.data[ltail].StoreRelease(0)
	return v, nil
}

// noteEmptyStall is the consumer-side mirror of noteFullStall.
func (q *Queue) noteEmptyStall() {
	if !q.emptyRunActive {
		q.emptyRunActive = true
		q.trafficEmpty.AddAcqRel(1)
	}
}

func (q *Queue) clearEmptyStall() {
	q.emptyRunActive = false
}
