// Package iostore implements pipeline.Store on PostgreSQL with GORM.
// This is an impure I/O package.
package iostore

import (
	"context"
	"time"

	"github.com/gnames/geopephub/internal/ioschema"
	"github.com/gnames/geopephub/pkg/db"
	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type store struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a Store that shares the connection pool of the operator.
// The operator must be connected.
func New(op db.Operator) (pipeline.Store, error) {
	gormDB, err := ioschema.OpenGORM(op)
	if err != nil {
		return nil, err
	}
	return &store{db: gormDB, now: time.Now}, nil
}

// CreateOrUpdateCycle implements pipeline.Store.
func (s *store) CreateOrUpdateCycle(ctx context.Context, c *schema.Cycle) error {
	c.StatusDate = s.now()
	err := s.db.WithContext(ctx).Save(c).Error
	if err != nil {
		return SaveCycleError(c.ID, err)
	}
	return nil
}

// CreateOrUpdateItem implements pipeline.Store. The owning cycle is
// never written through an item.
func (s *store) CreateOrUpdateItem(ctx context.Context, it *schema.Item) error {
	it.StatusDate = s.now()
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(it).Error
	if err != nil {
		return SaveItemError(it.GSE, it.UploadCycleID, err)
	}
	return nil
}

// QueuedCycles implements pipeline.Store.
func (s *store) QueuedCycles(ctx context.Context, target string) ([]schema.Cycle, error) {
	var res []schema.Cycle
	q := s.db.WithContext(ctx).Where("status = ?", schema.StatusQueued)
	if target != "" {
		q = q.Where("target = ?", target)
	}
	if err := q.Order("id").Find(&res).Error; err != nil {
		return nil, QueryError("queued cycles", err)
	}
	return res, nil
}

// latest limits a query to the newest row of every accession of a
// cycle.
func (s *store) latest(ctx context.Context, cycleID uint) *gorm.DB {
	sub := s.db.Model(&schema.Item{}).
		Select("MAX(id)").
		Where("upload_cycle_id = ?", cycleID).
		Group("gse")
	return s.db.WithContext(ctx).Model(&schema.Item{}).
		Where("id IN (?)", sub)
}

// QueuedItems implements pipeline.Store.
func (s *store) QueuedItems(ctx context.Context, cycleID uint) ([]schema.Item, error) {
	var res []schema.Item
	err := s.latest(ctx, cycleID).
		Where("status = ?", schema.StatusQueued).
		Order("id").
		Find(&res).Error
	if err != nil {
		return nil, QueryError("queued items", err)
	}
	return res, nil
}

// FailedItems implements pipeline.Store.
func (s *store) FailedItems(ctx context.Context, cycleID uint) ([]schema.Item, error) {
	var res []schema.Item
	err := s.latest(ctx, cycleID).
		Where("status <> ?", schema.StatusSuccess).
		Order("id").
		Find(&res).Error
	if err != nil {
		return nil, QueryError("failed items", err)
	}
	return res, nil
}

// CountByStatus implements pipeline.Store.
func (s *store) CountByStatus(
	ctx context.Context,
	cycleID uint,
	status schema.Status,
) (int, error) {
	var res int64
	err := s.latest(ctx, cycleID).
		Where("status = ?", status).
		Count(&res).Error
	if err != nil {
		return 0, CountError(cycleID, string(status), err)
	}
	return int(res), nil
}

// CountAccessions implements pipeline.Store.
func (s *store) CountAccessions(ctx context.Context, cycleID uint) (int, error) {
	var res int64
	err := s.db.WithContext(ctx).Model(&schema.Item{}).
		Where("upload_cycle_id = ?", cycleID).
		Distinct("gse").
		Count(&res).Error
	if err != nil {
		return 0, CountError(cycleID, "accessions", err)
	}
	return int(res), nil
}

// FindCycle implements pipeline.Store. If several cycles share the
// window, the newest one is returned.
func (s *store) FindCycle(
	ctx context.Context,
	target, start, end string,
) (schema.Cycle, bool, error) {
	var res []schema.Cycle
	err := s.db.WithContext(ctx).
		Where("target = ? AND start_period = ? AND end_period = ?",
			target, start, end).
		Order("id DESC").
		Limit(1).
		Find(&res).Error
	if err != nil {
		return schema.Cycle{}, false, QueryError("cycle by window", err)
	}
	if len(res) == 0 {
		return schema.Cycle{}, false, nil
	}
	return res[0], true, nil
}

// Items implements pipeline.Store.
func (s *store) Items(ctx context.Context, cycleID uint) ([]schema.Item, error) {
	var res []schema.Item
	err := s.latest(ctx, cycleID).Order("id").Find(&res).Error
	if err != nil {
		return nil, QueryError("items", err)
	}
	return res, nil
}

// Cycles implements pipeline.Store.
func (s *store) Cycles(ctx context.Context, target string, limit int) ([]schema.Cycle, error) {
	var res []schema.Cycle
	q := s.db.WithContext(ctx).Order("id DESC")
	if target != "" {
		q = q.Where("target = ?", target)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, QueryError("cycles", err)
	}
	return res, nil
}
