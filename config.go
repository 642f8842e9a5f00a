// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dynq

import (
	"fmt"
	"time"
)

// Default configuration constants (spec.md §6), sized to preserve the
// reference ratios MaxCapacity = 1024·BatchSlice, MinCapacity = 2·BatchSlice.
const (
	DefaultBatchSlice       = 64
	DefaultBatchSize        = 1024
	DefaultMinCapacity      = 2 * DefaultBatchSlice
	DefaultMaxCapacity      = 1024 * DefaultBatchSlice
	DefaultEnlargeThreshold = 1024
	DefaultShrinkThreshold  = 128
	DefaultPenaltyTicks     = 1000
)

// ResizeEvent describes a grow or shrink decision made by the queue, for
// callers that want visibility into capacity changes without the queue
// taking a hard dependency on a specific logging library (see DESIGN.md).
type ResizeEvent struct {
	// Kind is "grow", "grow-failed", or "shrink".
	Kind string
	// OldCapacity and NewCapacity are the logical capacity before/after.
	// For "grow-failed", NewCapacity equals OldCapacity.
	OldCapacity int
	NewCapacity int
}

// Config configures a Queue at construction time.
type Config struct {
	// InitialCapacity is the starting logical capacity. Rounded up to the
	// next power of two; a value below MinCapacity is raised to
	// MinCapacity, and one above MaxCapacity is rejected.
	InitialCapacity int

	// MaxCapacity bounds how far the queue may grow. Must be a power of
	// two and a multiple of MinCapacity.
	MaxCapacity int
	// MinCapacity bounds how far the queue may shrink. Must be a power
	// of two.
	MinCapacity int

	// DefaultBatchSize is the initial stride of the producer's batching
	// probe (spec.md §4.1a). Must be a power of two.
	DefaultBatchSize int
	// BatchSlice is the minimum stride the batching probe halves down
	// to before giving up. Must be a power of two, <= DefaultBatchSize.
	BatchSlice int

	// EnlargeThreshold is how far traffic_full must lead traffic_empty
	// before a wrap triggers a grow.
	EnlargeThreshold int64
	// ShrinkThreshold is the empty-side equivalent for shrink.
	ShrinkThreshold int64

	// Penalty is the back-off duration the batching probe spins for
	// between probe attempts (spec.md §4.4).
	Penalty time.Duration

	// OnResize, if non-nil, is called synchronously from the thread that
	// made a resize decision. It must not call back into the queue.
	OnResize func(ResizeEvent)
}

// NewConfig returns a Config with initialCapacity and every other field
// set to its documented default, ready to be adjusted with the Builder
// methods or used as-is.
func NewConfig(initialCapacity int) Config {
	return Config{
		InitialCapacity:  initialCapacity,
		MaxCapacity:      DefaultMaxCapacity,
		MinCapacity:      DefaultMinCapacity,
		DefaultBatchSize: DefaultBatchSize,
		BatchSlice:       DefaultBatchSlice,
		EnlargeThreshold: DefaultEnlargeThreshold,
		ShrinkThreshold:  DefaultShrinkThreshold,
		Penalty:          DefaultPenaltyTicks * time.Nanosecond,
	}
}

// Builder provides a fluent API for configuring a Queue before creation,
// mirroring the teacher package's Options/Builder pattern.
//
// Example:
//
//	q, err := dynq.New(1024).WithMaxCapacity(1 << 20).WithPenalty(500 * time.Nanosecond).Build()
type Builder struct {
	cfg Config
}

// New starts a Builder with the given initial capacity and every other
// field defaulted (see NewConfig).
func New(initialCapacity int) *Builder {
	return &Builder{cfg: NewConfig(initialCapacity)}
}

// WithMaxCapacity sets the upper capacity bound.
func (b *Builder) WithMaxCapacity(n int) *Builder {
	b.cfg.MaxCapacity = n
	return b
}

// WithMinCapacity sets the lower capacity bound.
func (b *Builder) WithMinCapacity(n int) *Builder {
	b.cfg.MinCapacity = n
	return b
}

// WithBatch sets the batching probe's initial stride and minimum slice.
func (b *Builder) WithBatch(defaultSize, slice int) *Builder {
	b.cfg.DefaultBatchSize = defaultSize
	b.cfg.BatchSlice = slice
	return b
}

// WithThresholds sets the traffic-counter thresholds that drive resize
// decisions.
func (b *Builder) WithThresholds(enlarge, shrink int64) *Builder {
	b.cfg.EnlargeThreshold = enlarge
	b.cfg.ShrinkThreshold = shrink
	return b
}

// WithPenalty sets the batching probe's back-off duration.
func (b *Builder) WithPenalty(d time.Duration) *Builder {
	b.cfg.Penalty = d
	return b
}

// WithOnResize installs a callback invoked whenever the queue grows,
// fails to grow, or shrinks.
func (b *Builder) WithOnResize(fn func(ResizeEvent)) *Builder {
	b.cfg.OnResize = fn
	return b
}

// Build validates the accumulated Config and constructs a Queue.
func (b *Builder) Build() (*Queue, error) {
	return NewQueue(b.cfg)
}

// Config returns the accumulated configuration without building a Queue.
func (b *Builder) Config() Config {
	return b.cfg
}

// validate checks Config for internal consistency, returning
// ErrInvalidConfig (wrapped with detail) on failure.
func (c Config) validate() error {
	switch {
	case c.MinCapacity < 2:
		return fmtErrConfig("min capacity must be >= 2, got %d", c.MinCapacity)
	case !isPowerOfTwo(c.MinCapacity):
		return fmtErrConfig("min capacity must be a power of two, got %d", c.MinCapacity)
	case !isPowerOfTwo(c.MaxCapacity):
		return fmtErrConfig("max capacity must be a power of two, got %d", c.MaxCapacity)
	case c.MaxCapacity < c.MinCapacity:
		return fmtErrConfig("max capacity %d is below min capacity %d", c.MaxCapacity, c.MinCapacity)
	case c.BatchSlice < 1 || !isPowerOfTwo(c.BatchSlice):
		return fmtErrConfig("batch slice must be a positive power of two, got %d", c.BatchSlice)
	case c.DefaultBatchSize < c.BatchSlice || !isPowerOfTwo(c.DefaultBatchSize):
		return fmtErrConfig("default batch size must be a power of two >= batch slice, got %d", c.DefaultBatchSize)
	case c.EnlargeThreshold < 0 || c.ShrinkThreshold < 0:
		return fmtErrConfig("thresholds must be non-negative")
	case c.Penalty < 0:
		return fmtErrConfig("penalty must be non-negative")
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func fmtErrConfig(format string, args ...any) error {
	return &configError{msg: fmt.Sprintf(format, args...)}
}

type configError struct{ msg string }

func (e *configError) Error() string { return "dynq: invalid configuration: " + e.msg }

func (e *configError) Unwrap() error { return ErrInvalidConfig }
