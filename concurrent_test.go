// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/dynq"
	"code.hybscloud.com/iox"
)

// TestConcurrentProducerConsumer runs a real producer goroutine and a
// real consumer goroutine against one Queue, checking P1 (FIFO), P2
// (non-loss), and P3 (non-duplication) under genuine concurrency rather
// than single-threaded simulation. Skipped under -race: the race
// detector cannot see the slot-level acquire/release synchronization
// this design relies on in place of head/tail index publication (see
// doc.go, "Race Detection").
func TestConcurrentProducerConsumer(t *testing.T) {
	if dynq.RaceEnabled {
		t.Skip("skip: relies on atomic orderings the race detector cannot observe")
	}

	const n = 200_000
	q, err := dynq.NewQueue(dynq.NewConfig(64))
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := 1; i <= n; i++ {
			for q.Enqueue(uint64(i)) != nil {
				if time.Now().After(deadline) {
					t.Error("producer: timed out")
					return
				}
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	received := make([]uint64, 0, n)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for len(received) < n {
			v, err := q.Dequeue()
			if err != nil {
				if time.Now().After(deadline) {
					t.Error("consumer: timed out")
					return
				}
				backoff.Wait()
				continue
			}
			backoff.Reset()
			received = append(received, v)
		}
	}()

	wg.Wait()

	if len(received) != n {
		t.Fatalf("non-loss: received %d values, want %d", len(received), n)
	}
	for i, v := range received {
		if v != uint64(i+1) {
			t.Fatalf("FIFO order broken at index %d: got %d, want %d", i, v, i+1)
		}
	}
}

// TestConcurrentResizeUnderPressure drives a producer far enough ahead
// of a throttled consumer to force real grow and shrink cycles while
// checking P4 (capacity bounds) throughout, and P2/P3 (non-loss,
// non-duplication) at the end.
func TestConcurrentResizeUnderPressure(t *testing.T) {
	if dynq.RaceEnabled {
		t.Skip("skip: relies on atomic orderings the race detector cannot observe")
	}

	const n = 50_000
	cfg := dynq.New(8).
		WithMaxCapacity(1024).
		WithMinCapacity(8).
		WithThresholds(4, 4).
		Config()
	q, err := dynq.NewQueue(cfg)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	var boundsViolation atomix.Bool
	stopMonitor := make(chan struct{})
	var monitorWg sync.WaitGroup
	monitorWg.Add(1)
	go func() {
		defer monitorWg.Done()
		for {
			select {
			case <-stopMonitor:
				return
			default:
			}
			if c := q.Cap(); c < cfg.MinCapacity || c > cfg.MaxCapacity {
				boundsViolation.Store(true)
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := 1; i <= n; i++ {
			for q.Enqueue(uint64(i)) != nil {
				if time.Now().After(deadline) {
					t.Error("producer: timed out")
					return
				}
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	received := make([]uint64, 0, n)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for len(received) < n {
			v, err := q.Dequeue()
			if err != nil {
				if time.Now().After(deadline) {
					t.Error("consumer: timed out")
					return
				}
				backoff.Wait()
				continue
			}
			backoff.Reset()
			received = append(received, v)
			// Throttle the consumer so the producer builds up pressure
			// and forces growth, then lets it drain down to shrink.
			if len(received)%997 == 0 {
				time.Sleep(time.Microsecond)
			}
		}
	}()

	wg.Wait()
	close(stopMonitor)
	monitorWg.Wait()

	if boundsViolation.Load() {
		t.Fatalf("capacity bound violated during run: Cap() left [%d,%d]", cfg.MinCapacity, cfg.MaxCapacity)
	}
	if len(received) != n {
		t.Fatalf("non-loss: received %d values, want %d", len(received), n)
	}
	seen := make(map[uint64]bool, n)
	for _, v := range received {
		if seen[v] {
			t.Fatalf("non-duplication: value %d received twice", v)
		}
		seen[v] = true
	}
}
