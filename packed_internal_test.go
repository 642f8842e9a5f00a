// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

import (
	"testing"

	"code.hybscloud.com/atomix"
)

// TestLTCASPrimitive demonstrates the less-than compare-and-swap trick
// this package's info word relies on (spec.md §9, "the packed-word
// trick"; glossary "LT-CAS"): a whole-word CAS conditions a write to one
// sub-field on the other sub-field's observed value, so a concurrent
// plain update to the other sub-field is enough to make a stale CAS fail.
//
// This mirrors the reference CAS_range.c demonstration one-for-one,
// scaled from its 8-bit/8-bit split to this package's 32-bit/32-bit
// split: a low sub-field near its maximum stands in for the reference's
// 0xFE byte, so adding 3 to the whole word carries into the high
// sub-field exactly as addition carried into the reference's high byte.
func TestLTCASPrimitive(t *testing.T) {
	var word atomix.Uint64

	// target = 0x01FF, then a plain store sets the low byte to 0xFE.
	// Our analog: head=1, queueSize at max-1.
	word.StoreRelaxed(packWord(1, 0xFFFFFFFE))
	if h, q := unpackWord(word.LoadRelaxed()); h != 1 || q != 0xFFFFFFFE {
		t.Fatalf("setup: got head=%#x queueSize=%#x, want head=0x1 queueSize=0xfffffffe", h, q)
	}

	// First CAS: high sub-field 1 -> 2, expecting the current low
	// sub-field unchanged. Must succeed (nothing else has touched word).
	old := packWord(1, 0xFFFFFFFE)
	if !word.CompareAndSwapAcqRel(old, packWord(2, 0xFFFFFFFE)) {
		t.Fatalf("first CAS: want success")
	}
	if h, q := unpackWord(word.LoadRelaxed()); h != 2 || q != 0xFFFFFFFE {
		t.Fatalf("after first CAS: got head=%#x queueSize=%#x, want head=0x2 queueSize=0xfffffffe", h, q)
	}

	// target += 3: a plain arithmetic add on the whole word. The low
	// sub-field overflows past its max and carries one into the high
	// sub-field, exactly as the reference's byte-wide add carries.
	word.StoreRelaxed(word.LoadRelaxed() + 3)
	if h, q := unpackWord(word.LoadRelaxed()); h != 3 || q != 1 {
		t.Fatalf("after += 3: got head=%#x queueSize=%#x, want head=0x3 queueSize=0x1", h, q)
	}

	// Second CAS: high sub-field 2 -> 2, built against the stale
	// observation. Must fail: the actual high sub-field is now 3.
	staleOld := packWord(2, 1)
	if word.CompareAndSwapAcqRel(staleOld, packWord(2, 1)) {
		t.Fatalf("second CAS: want failure (high sub-field moved from 2 to 3)")
	}

	// Third CAS: high sub-field 3 -> 4, built against the current
	// observation. Must succeed.
	freshOld := packWord(3, 1)
	if !word.CompareAndSwapAcqRel(freshOld, packWord(4, 1)) {
		t.Fatalf("third CAS: want success")
	}
	if h, q := unpackWord(word.LoadRelaxed()); h != 4 || q != 1 {
		t.Fatalf("after third CAS: got head=%#x queueSize=%#x, want head=0x4 queueSize=0x1", h, q)
	}
}

// TestShrinkDeniedWhenHeadInUpperHalf is boundary scenario 4: if the
// producer's published head sits at or past queue_size/2 at the instant
// a consumer wrap evaluates shrink, the shrink must be refused and no
// data lost. Reproducing the exact race ("the producer moves head
// between the consumer's read of info and its CAS") deterministically
// through Enqueue/Dequeue alone is impractical — the batching probe
// always catches local_head back up to a fresh head value before the
// producer's own wrap, so head is never observably stuck in the upper
// half at a real wrap boundary in single-threaded use. This test instead
// engineers the precondition directly and exercises tryShrink through
// the same Dequeue call path a live race would take.
func TestShrinkDeniedWhenHeadInUpperHalf(t *testing.T) {
	cfg := NewConfig(8)
	cfg.MaxCapacity = 8
	cfg.MinCapacity = 4
	cfg.ShrinkThreshold = 0
	q, err := NewQueue(cfg)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	q.info.StoreRelaxed(packWord(5, 8)) // head=5 is in the upper half of an 8-slot ring
	q.tail.StoreRelaxed(7)
	q.data[7].StoreRelaxed(42)
	q.trafficEmpty.StoreRelaxed(1000) // clear the threshold gate, force the CAS attempt

	v, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if v != 42 {
		t.Fatalf("Dequeue: got %d, want 42 (no data lost)", v)
	}
	if q.Cap() != 8 {
		t.Fatalf("Cap: got %d, want 8 (shrink must be denied while head is in the upper half)", q.Cap())
	}
}
