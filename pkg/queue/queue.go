// Package queue drives accessions from discovery to the catalog.
//
// Work is grouped into cycles, one per target and date window. The
// Runner enumerates a window into queued items and uploads queued
// cycles. The Processor moves a single item through fetch and catalog
// writes. The Checker reconciles a past window, processing only what
// did not succeed.
//
// The store is the only source of truth. Aggregate counts of a cycle
// are always recomputed from its items, which makes every step safe
// to repeat after a crash.
package queue

import (
	"io"
	"log/slog"
	"time"

	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/schema"
)

// DefaultFetchTimeout limits the time spent on fetching one accession.
const DefaultFetchTimeout = 3 * time.Minute

// NoDataInfo is the info of an item that was fetched but has no data.
const NoDataInfo = "no data available"

// Tally counts terminal states reached by items.
type Tally struct {
	Success int
	Failure int
	Warning int
}

// Add sums two tallies.
func (t Tally) Add(o Tally) Tally {
	return Tally{
		Success: t.Success + o.Success,
		Failure: t.Failure + o.Failure,
		Warning: t.Warning + o.Warning,
	}
}

// Total returns the number of terminal states in the tally.
func (t Tally) Total() int {
	return t.Success + t.Failure + t.Warning
}

func (t *Tally) inc(s schema.Status) {
	switch s {
	case schema.StatusSuccess:
		t.Success++
	case schema.StatusFailure:
		t.Failure++
	case schema.StatusWarning:
		t.Warning++
	}
}

// Progress receives a notification after every processed item.
type Progress interface {
	Increment()
	Finish()
}

type settings struct {
	log          *slog.Logger
	fetchTimeout time.Duration
	locker       pipeline.Locker
	progress     func(total int) Progress
	now          func() time.Time
	onCycle      func(schema.Cycle, Tally)
}

func newSettings(opts []Option) settings {
	res := settings{
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(&res)
	}
	return res
}

// Option changes settings of Processor, Runner and Checker.
type Option func(*settings)

// OptLogger sets the logger. Without it nothing is logged.
func OptLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// OptFetchTimeout sets the deadline of a fetch of one accession.
// Non-positive values are ignored.
func OptFetchTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// OptLocker makes the Runner and the Checker take an exclusive lock on
// a target window while they work on it.
func OptLocker(l pipeline.Locker) Option {
	return func(s *settings) {
		s.locker = l
	}
}

// OptProgress sets a constructor of a progress indicator. It is called
// once per batch of items with the size of the batch.
func OptProgress(fn func(total int) Progress) Option {
	return func(s *settings) {
		s.progress = fn
	}
}

// OptClock replaces the source of the current time.
func OptClock(fn func() time.Time) Option {
	return func(s *settings) {
		if fn != nil {
			s.now = fn
		}
	}
}

// OptOnCycle registers a callback that receives every finalized cycle
// together with the tally of the pass that finalized it.
func OptOnCycle(fn func(schema.Cycle, Tally)) Option {
	return func(s *settings) {
		s.onCycle = fn
	}
}
