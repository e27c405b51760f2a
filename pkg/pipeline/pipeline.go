// Package pipeline declares collaborators of the upload queue: the
// status store, discovery of accessions, fetching of their metadata
// and the catalog that receives the resulting projects.
package pipeline

import (
	"context"

	"github.com/gnames/geopephub/pkg/schema"
	"github.com/gnames/geopephub/pkg/target"
)

// Store keeps cycles and items. Every write is an independent
// transaction. Writes stamp StatusDate and assign IDs to new records.
//
// When a cycle holds several rows of the same accession, only the
// latest row (highest ID) takes part in filtered queries and counts.
type Store interface {
	// CreateOrUpdateCycle inserts a cycle with zero ID or updates an
	// existing one.
	CreateOrUpdateCycle(ctx context.Context, c *schema.Cycle) error

	// CreateOrUpdateItem inserts an item with zero ID or updates an
	// existing one.
	CreateOrUpdateItem(ctx context.Context, it *schema.Item) error

	// QueuedCycles returns cycles with queued status. Empty target
	// means all targets.
	QueuedCycles(ctx context.Context, target string) ([]schema.Cycle, error)

	// QueuedItems returns queued items of a cycle.
	QueuedItems(ctx context.Context, cycleID uint) ([]schema.Item, error)

	// FailedItems returns items of a cycle that did not finish with
	// success. That includes warnings and items stuck in processing.
	FailedItems(ctx context.Context, cycleID uint) ([]schema.Item, error)

	// CountByStatus counts items of a cycle with the given status.
	CountByStatus(
		ctx context.Context,
		cycleID uint,
		status schema.Status,
	) (int, error)

	// CountAccessions returns the number of distinct accessions of a
	// cycle.
	CountAccessions(ctx context.Context, cycleID uint) (int, error)

	// FindCycle looks for a cycle with exactly the same target and
	// window. The boolean is false if there is no such cycle.
	FindCycle(
		ctx context.Context,
		target, start, end string,
	) (schema.Cycle, bool, error)

	// Items returns the latest item of every accession in a cycle.
	Items(ctx context.Context, cycleID uint) ([]schema.Item, error)

	// Cycles returns the most recent cycles, newest first.
	Cycles(ctx context.Context, target string, limit int) ([]schema.Cycle, error)
}

// Discoverer finds accessions published within a window.
type Discoverer interface {
	Discover(ctx context.Context, t target.Target, w Window) ([]string, error)
}

// Fetcher downloads metadata of an accession and converts it into
// sub-projects. Zero sub-projects without an error means the accession
// has nothing to upload. Implementations must respect the deadline of
// the context.
type Fetcher interface {
	Fetch(ctx context.Context, t target.Target, gse string) ([]SubProject, error)
}

// Catalog stores projects.
type Catalog interface {
	// Create writes a sub-project as namespace/name:tag. With overwrite
	// an existing project is replaced.
	Create(
		ctx context.Context,
		sub SubProject,
		namespace, name, tag string,
		overwrite bool,
	) error

	// Count returns the number of projects in a namespace.
	Count(ctx context.Context, namespace string) (int, error)
}

// Locker provides exclusive access to a key across processes.
type Locker interface {
	// TryLock acquires the lock without waiting. It returns an error if
	// the lock is held by somebody else. The returned function releases
	// the lock.
	TryLock(ctx context.Context, key string) (unlock func() error, err error)
}
