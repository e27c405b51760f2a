/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"

	"github.com/gnames/gn"
	"github.com/gnames/geopephub/internal/iocatalog"
	"github.com/gnames/geopephub/internal/iodb"
	"github.com/gnames/geopephub/internal/iogeo"
	"github.com/gnames/geopephub/internal/iogeometadb"
	"github.com/gnames/geopephub/internal/iometrics"
	"github.com/gnames/geopephub/internal/iostore"
	"github.com/gnames/geopephub/pkg/config"
	"github.com/gnames/geopephub/pkg/db"
	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/queue"
	"github.com/gnames/geopephub/pkg/schema"
)

// service holds connected collaborators of the queue for one
// invocation.
type service struct {
	op      db.Operator
	store   pipeline.Store
	catalog pipeline.Catalog
	runner  *queue.Runner
	checker *queue.Checker
	metrics *iometrics.Recorder
	closers []func() error
}

// connect opens the database and checks that the status tables exist.
func connect(ctx context.Context, cfg *config.Config) (db.Operator, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	hasTables, err := op.HasTables(ctx,
		schema.Cycle{}.TableName(), schema.Item{}.TableName())
	if err != nil {
		op.Close()
		return nil, err
	}
	if !hasTables {
		op.Close()
		return nil, &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Status tables do not exist.</err>
   Run <em>'geopephub create'</em> first to initialize the schema.`,
			Err: errors.New("status tables are missing"),
		}
	}
	return op, nil
}

// newService connects to the database and wires discovery, fetching,
// catalog and metrics according to the configuration.
func newService(ctx context.Context, cfg *config.Config) (*service, error) {
	op, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &service{op: op}
	s.closers = append(s.closers, op.Close)

	s.store, err = iostore.New(op)
	if err != nil {
		s.close()
		return nil, err
	}

	client := iogeo.NewClient(cfg)
	var disc pipeline.Discoverer = iogeo.NewDiscoverer(client)
	if cfg.GEO.Discovery == "geometadb" {
		mdb, err := iogeometadb.Open(cfg.GEO.GEOmetadbPath)
		if err != nil {
			s.close()
			return nil, err
		}
		s.closers = append(s.closers, mdb.Close)
		disc = mdb
	}

	s.catalog = iocatalog.New(op, cfg.Catalog)
	s.metrics = iometrics.New(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job)

	qopts := []queue.Option{
		queue.OptLogger(logger),
		queue.OptFetchTimeout(cfg.Fetch.Timeout),
		queue.OptLocker(op),
		queue.OptProgress(newProgress),
		queue.OptOnCycle(s.metrics.Record),
	}
	proc := queue.NewProcessor(s.store, iogeo.NewFetcher(client), s.catalog, qopts...)
	s.runner = queue.NewRunner(s.store, disc, proc, qopts...)
	s.checker = queue.NewChecker(s.store, s.runner, qopts...)

	return s, nil
}

// close pushes metrics and releases resources in reverse order.
func (s *service) close() {
	if s.metrics != nil {
		ctx := context.Background()
		if err := s.metrics.Push(ctx); err != nil {
			logger.Warn("Cannot push metrics", "error", err)
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("Cannot release resource", "error", err)
		}
	}
}
