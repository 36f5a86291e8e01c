// Package grading computes a student's academic standing from raw score entries.
//
// Every function in this package is pure: the same entries and weight configuration always
// produce the same result, and no call retains state. Values may be shared across goroutines.
package grading

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultTrendWindow is the number of most recent scores compared against the baseline.
	DefaultTrendWindow = 3
	// DefaultTrendDeadband is the percentage-point gap required before a trend is reported.
	DefaultTrendDeadband = 2.0
)

var (
	// ErrInvalidEntry marks entries rejected before aggregation.
	ErrInvalidEntry = errors.New("invalid grade entry")
	// ErrInvalidWeights marks weight configurations outside the [0,1] range.
	ErrInvalidWeights = errors.New("invalid category weights")
)

// RejectedEntry identifies an entry excluded from aggregation.
type RejectedEntry struct {
	Index   int    `json:"index"`
	EntryID string `json:"entry_id,omitempty"`
	Reason  string `json:"reason"`
}

// ValidationError lists every entry that failed validation.
type ValidationError struct {
	Rejected []RejectedEntry
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Rejected) == 0 {
		return ErrInvalidEntry.Error()
	}
	reasons := make([]string, 0, len(e.Rejected))
	for _, r := range e.Rejected {
		reasons = append(reasons, fmt.Sprintf("#%d: %s", r.Index, r.Reason))
	}
	return fmt.Sprintf("%s (%d rejected): %s", ErrInvalidEntry, len(e.Rejected), strings.Join(reasons, "; "))
}

// Is lets errors.Is match ErrInvalidEntry.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidEntry
}

// Engine carries the tunable parts of the computation.
type Engine struct {
	trendWindow    int
	trendDeadband  float64
	creditWeighted bool
}

// Option customises an Engine.
type Option func(*Engine)

// WithTrendWindow sets how many recent scores form the trend window.
func WithTrendWindow(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.trendWindow = k
		}
	}
}

// WithTrendDeadband sets the minimum gap, in percentage points, for a non-stable trend.
func WithTrendDeadband(d float64) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.trendDeadband = d
		}
	}
}

// WithCreditWeighting toggles credit-hour weighting of the GPA mean.
func WithCreditWeighting(enabled bool) Option {
	return func(e *Engine) {
		e.creditWeighted = enabled
	}
}

// NewEngine builds an Engine with defaults overridden by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		trendWindow:    DefaultTrendWindow,
		trendDeadband:  DefaultTrendDeadband,
		creditWeighted: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// DefaultEngine returns the engine used by the package level helpers.
func DefaultEngine() *Engine {
	return defaultEngine
}

// clamp bounds v to [lo, hi]; NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
