// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

// info packs {head, queueSize} into a single machine word (spec.md §3,
// "Packed word info"). head occupies the high 32 bits, queueSize the low
// 32 bits. Packing the pair into one word lets the consumer's shrink
// attempt condition a write to queueSize on the producer's head sub-field
// being unchanged, via a single whole-word compare-and-swap (the LT-CAS
// trick, spec.md §4.3 and glossary).
//
// The producer is the sole writer of the head sub-field. It is written
// only from the batching probe (spec.md §4.1a step 3), never on the
// per-element fast path. Both the producer (grow) and the consumer
// (shrink, via CAS) write the queueSize sub-field.

func packWord(head, queueSize uint32) uint64 {
	return uint64(head)<<32 | uint64(queueSize)
}

func unpackWord(word uint64) (head, queueSize uint32) {
	return uint32(word >> 32), uint32(word)
}

// withHead returns word with its head sub-field replaced, leaving
// queueSize untouched. This is the Go realization of the reference C
// code's plain (non-atomic, read-modify-write) assignment to a single
// bitfield member of a packed struct (spec.md §9, "packed-word trick").
func withHead(word uint64, head uint32) uint64 {
	_, size := unpackWord(word)
	return packWord(head, size)
}

// withQueueSize is the queueSize-sub-field equivalent of withHead, used
// by the producer's plain-store grow path (spec.md §4.1 step 4).
func withQueueSize(word uint64, queueSize uint32) uint64 {
	head, _ := unpackWord(word)
	return packWord(head, queueSize)
}
