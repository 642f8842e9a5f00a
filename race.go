// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package dynq

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent stress tests that spin real goroutines
// against the queue, which the race detector cannot usefully observe
// past the slot-level acquire/release synchronization (see doc.go).
const RaceEnabled = true
