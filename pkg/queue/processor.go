package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/gnames/geopephub/pkg/target"
)

// Processor moves one item through fetch and catalog writes.
type Processor struct {
	settings
	store   pipeline.Store
	fetcher pipeline.Fetcher
	catalog pipeline.Catalog
}

// NewProcessor creates a Processor.
func NewProcessor(
	st pipeline.Store,
	f pipeline.Fetcher,
	c pipeline.Catalog,
	opts ...Option,
) *Processor {
	return &Processor{
		settings: newSettings(opts),
		store:    st,
		fetcher:  f,
		catalog:  c,
	}
}

// ProcessItem fetches an accession and writes its sub-projects to the
// catalog, persisting the item after every step. Fetch and catalog
// failures end up in the item and in the tally. Only store errors are
// returned, they mean the state of the item is unknown.
func (p *Processor) ProcessItem(
	ctx context.Context,
	t target.Target,
	tag string,
	it *schema.Item,
) (Tally, error) {
	var res Tally
	log := p.log.With("gse", it.GSE, "target", t.String())

	it.Status = schema.StatusProcessing
	it.LogStage = schema.StageClaimed
	if err := p.store.CreateOrUpdateItem(ctx, it); err != nil {
		return res, err
	}

	subs, err := p.fetch(ctx, t, it.GSE)
	if err != nil {
		log.Warn("Fetch failed", "error", err)
		it.Status = schema.StatusFailure
		it.Info = err.Error()
		it.StatusInfo = schema.InfoFetch
		if err = p.store.CreateOrUpdateItem(ctx, it); err != nil {
			return res, err
		}
		res.inc(it.Status)
		return res, nil
	}

	if len(subs) == 0 {
		log.Info("No data available")
		it.Status = schema.StatusWarning
		it.Info = NoDataInfo
		it.StatusInfo = schema.InfoFetch
		it.LogStage = schema.StageFetched
		if err = p.store.CreateOrUpdateItem(ctx, it); err != nil {
			return res, err
		}
		res.inc(it.Status)
		return res, nil
	}

	for _, sub := range subs {
		tally, err := p.upload(ctx, t, tag, it, sub)
		if err != nil {
			return res, err
		}
		res = res.Add(tally)
	}
	return res, nil
}

func (p *Processor) fetch(
	ctx context.Context,
	t target.Target,
	gse string,
) ([]pipeline.SubProject, error) {
	fctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	subs, err := p.fetcher.Fetch(fctx, t, gse)
	if err != nil && errors.Is(fctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("fetch timed out after %s: %w", p.fetchTimeout, err)
	}
	return subs, err
}

func (p *Processor) upload(
	ctx context.Context,
	t target.Target,
	tag string,
	it *schema.Item,
	sub pipeline.SubProject,
) (Tally, error) {
	var res Tally
	subTag := sub.Tag
	if subTag == "" {
		subTag = t.CatalogTag(tag, "")
	}

	it.RegistryPath = pipeline.RegistryPath(t.String(), sub.Name, subTag)
	// Siblings after the first one must not move the stage back.
	if it.LogStage < schema.StageFetched {
		it.LogStage = schema.StageFetched
	}
	if err := p.store.CreateOrUpdateItem(ctx, it); err != nil {
		return res, err
	}

	sub.Description = pipeline.AddBacklink(it.GSE, sub.Description)
	catalogTag := t.CatalogTag(tag, sub.Tag)
	err := p.catalog.Create(ctx, sub, t.String(), sub.Name, catalogTag, true)

	it.LogStage = schema.StageUploaded
	it.StatusInfo = schema.InfoCatalog
	if err != nil {
		p.log.Warn("Catalog write failed",
			"gse", it.GSE,
			"project", it.RegistryPath,
			"error", err,
		)
		it.Status = schema.StatusFailure
		it.Info = err.Error()
	} else {
		p.log.Info("Project uploaded",
			"gse", it.GSE,
			"project", it.RegistryPath,
			"samples", len(sub.Samples),
		)
		it.Status = schema.StatusSuccess
		it.Info = ""
	}

	if err = p.store.CreateOrUpdateItem(ctx, it); err != nil {
		return res, err
	}
	res.inc(it.Status)
	return res, nil
}
