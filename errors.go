// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrFull indicates Enqueue could not proceed because the queue is full.
//
// ErrFull is a control flow signal, not a failure. Wraps [iox.ErrWouldBlock]
// for ecosystem consistency, so [IsWouldBlock] and [iox.IsWouldBlock] both
// report true for it.
var ErrFull = fmt.Errorf("dynq: queue full: %w", iox.ErrWouldBlock)

// ErrEmpty indicates Dequeue could not proceed because the queue is empty.
//
// Wraps [iox.ErrWouldBlock] for the same reason as [ErrFull].
var ErrEmpty = fmt.Errorf("dynq: queue empty: %w", iox.ErrWouldBlock)

// ErrInvalidElement is returned by Enqueue when the caller passes the
// sentinel value 0. The queue uses 0 to mean "slot empty" (spec.md §9);
// enqueueing it cannot be told apart from an empty slot, so it is rejected
// rather than silently corrupting the empty-detection protocol.
var ErrInvalidElement = errors.New("dynq: element value 0 is reserved as the empty sentinel")

// ErrInvalidConfig is returned by NewQueue when Config fails validation
// (capacity bounds, non-power-of-two capacity or batch size, negative
// thresholds or penalty).
var ErrInvalidConfig = errors.New("dynq: invalid configuration")

// IsWouldBlock reports whether err indicates the operation would block
// (queue full on Enqueue, queue empty on Dequeue). Delegates to
// [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsFull reports whether err is (or wraps) ErrFull.
func IsFull(err error) bool {
	return errors.Is(err, ErrFull)
}

// IsEmpty reports whether err is (or wraps) ErrEmpty.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmpty)
}

// IsSemantic reports whether err is a control flow signal rather than a
// failure. Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
