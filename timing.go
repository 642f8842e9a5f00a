// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

import (
	"time"

	"code.hybscloud.com/spin"
)

// counterBase is the reference point readCounter measures from.
var counterBase = time.Now()

// readCounter returns a monotonic nanosecond counter, standing in for the
// reference design's rdtsc_bare() (spec.md §4.4). time.Since uses the
// monotonic clock reading that time.Now() carries on every supported
// platform, so wall-clock adjustments do not move the counter.
func readCounter() int64 {
	return int64(time.Since(counterBase))
}

// waitTicks spins until at least d has elapsed, issuing a CPU pause
// instruction (via [spin.Wait]) each iteration instead of burning a tight
// empty loop. It is a back-off/rate-limit primitive only, never used for
// synchronization (spec.md §4.4, §5).
func waitTicks(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := readCounter() + d.Nanoseconds()
	sw := spin.Wait{}
	for readCounter() < deadline {
		sw.Once()
	}
}
