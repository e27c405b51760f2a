package queue_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gnames/geopephub/pkg/pipeline"
	"github.com/gnames/geopephub/pkg/queue"
	"github.com/gnames/geopephub/pkg/schema"
	"github.com/gnames/geopephub/pkg/target"
)

var errStore = errors.New("store is down")

// memStore keeps cycles and items in memory. Every item write is
// recorded, so tests can inspect the sequence of states of a row.
type memStore struct {
	mu        sync.Mutex
	lastID    uint
	cycles    map[uint]schema.Cycle
	items     map[uint]schema.Item
	history   map[uint][]schema.Item
	failItems bool
}

func newMemStore() *memStore {
	return &memStore{
		cycles:  make(map[uint]schema.Cycle),
		items:   make(map[uint]schema.Item),
		history: make(map[uint][]schema.Item),
	}
}

func (s *memStore) CreateOrUpdateCycle(_ context.Context, c *schema.Cycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		s.lastID++
		c.ID = s.lastID
	}
	c.StatusDate = time.Now()
	s.cycles[c.ID] = *c
	return nil
}

func (s *memStore) CreateOrUpdateItem(_ context.Context, it *schema.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failItems {
		return errStore
	}
	if it.ID == 0 {
		s.lastID++
		it.ID = s.lastID
	}
	it.StatusDate = time.Now()
	s.items[it.ID] = *it
	s.history[it.ID] = append(s.history[it.ID], *it)
	return nil
}

// latest returns the newest row of every accession of a cycle, sorted
// by ID.
func (s *memStore) latest(cycleID uint) []schema.Item {
	byGSE := make(map[string]schema.Item)
	for _, v := range s.items {
		if v.UploadCycleID != cycleID {
			continue
		}
		if old, ok := byGSE[v.GSE]; !ok || old.ID < v.ID {
			byGSE[v.GSE] = v
		}
	}
	res := make([]schema.Item, 0, len(byGSE))
	for _, v := range byGSE {
		res = append(res, v)
	}
	slices.SortFunc(res, func(a, b schema.Item) int {
		return int(a.ID) - int(b.ID)
	})
	return res
}

func (s *memStore) filter(cycleID uint, fn func(schema.Item) bool) []schema.Item {
	var res []schema.Item
	for _, v := range s.latest(cycleID) {
		if fn(v) {
			res = append(res, v)
		}
	}
	return res
}

func (s *memStore) QueuedCycles(_ context.Context, tgt string) ([]schema.Cycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []schema.Cycle
	for _, v := range s.cycles {
		if v.Status == schema.StatusQueued && (tgt == "" || v.Target == tgt) {
			res = append(res, v)
		}
	}
	slices.SortFunc(res, func(a, b schema.Cycle) int {
		return int(a.ID) - int(b.ID)
	})
	return res, nil
}

func (s *memStore) QueuedItems(_ context.Context, cycleID uint) ([]schema.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(cycleID, func(it schema.Item) bool {
		return it.Status == schema.StatusQueued
	}), nil
}

func (s *memStore) FailedItems(_ context.Context, cycleID uint) ([]schema.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(cycleID, func(it schema.Item) bool {
		return it.Status != schema.StatusSuccess
	}), nil
}

func (s *memStore) CountByStatus(
	_ context.Context,
	cycleID uint,
	status schema.Status,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.filter(cycleID, func(it schema.Item) bool {
		return it.Status == status
	})), nil
}

func (s *memStore) CountAccessions(_ context.Context, cycleID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.latest(cycleID)), nil
}

func (s *memStore) FindCycle(
	_ context.Context,
	tgt, start, end string,
) (schema.Cycle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res schema.Cycle
	var found bool
	for _, v := range s.cycles {
		if v.Target == tgt && v.StartPeriod == start && v.EndPeriod == end {
			if !found || v.ID > res.ID {
				res = v
				found = true
			}
		}
	}
	return res, found, nil
}

func (s *memStore) Items(_ context.Context, cycleID uint) ([]schema.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest(cycleID), nil
}

func (s *memStore) Cycles(_ context.Context, tgt string, limit int) ([]schema.Cycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []schema.Cycle
	for _, v := range s.cycles {
		if tgt == "" || v.Target == tgt {
			res = append(res, v)
		}
	}
	slices.SortFunc(res, func(a, b schema.Cycle) int {
		return int(b.ID) - int(a.ID)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// itemWrites returns the total number of item writes.
func (s *memStore) itemWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res int
	for _, v := range s.history {
		res += len(v)
	}
	return res
}

func (s *memStore) cycle(id uint) schema.Cycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles[id]
}

func (s *memStore) itemsOf(cycleID uint) map[string]schema.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make(map[string]schema.Item)
	for _, v := range s.latest(cycleID) {
		res[v.GSE] = v
	}
	return res
}

func (s *memStore) rowCount(cycleID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res int
	for _, v := range s.items {
		if v.UploadCycleID == cycleID {
			res++
		}
	}
	return res
}

type fakeDiscoverer struct {
	gses    []string
	err     error
	windows []pipeline.Window
	targets []string
}

func (d *fakeDiscoverer) Discover(
	_ context.Context,
	t target.Target,
	w pipeline.Window,
) ([]string, error) {
	d.windows = append(d.windows, w)
	d.targets = append(d.targets, t.String())
	if d.err != nil {
		return nil, d.err
	}
	return d.gses, nil
}

// fakeFetcher returns prepared sub-projects. Accessions in errs fail,
// accessions in slow block until the context is done.
type fakeFetcher struct {
	subs  map[string][]pipeline.SubProject
	errs  map[string]error
	slow  map[string]bool
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		subs: make(map[string][]pipeline.SubProject),
		errs: make(map[string]error),
		slow: make(map[string]bool),
	}
}

func (f *fakeFetcher) Fetch(
	ctx context.Context,
	_ target.Target,
	gse string,
) ([]pipeline.SubProject, error) {
	f.calls = append(f.calls, gse)
	if f.slow[gse] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := f.errs[gse]; ok {
		return nil, err
	}
	return f.subs[gse], nil
}

type created struct {
	sub       pipeline.SubProject
	namespace string
	name      string
	tag       string
	overwrite bool
}

type fakeCatalog struct {
	fail    map[string]error
	created []created
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{fail: make(map[string]error)}
}

func (c *fakeCatalog) Create(
	_ context.Context,
	sub pipeline.SubProject,
	namespace, name, tag string,
	overwrite bool,
) error {
	if err, ok := c.fail[name]; ok {
		return err
	}
	c.created = append(c.created, created{
		sub:       sub,
		namespace: namespace,
		name:      name,
		tag:       tag,
		overwrite: overwrite,
	})
	return nil
}

func (c *fakeCatalog) Count(_ context.Context, namespace string) (int, error) {
	var res int
	for _, v := range c.created {
		if v.namespace == namespace {
			res++
		}
	}
	return res, nil
}

type fakeLocker struct {
	held     map[string]bool
	acquired []string
	released []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) TryLock(_ context.Context, key string) (func() error, error) {
	if l.held[key] {
		return nil, fmt.Errorf("lock %s is held", key)
	}
	l.held[key] = true
	l.acquired = append(l.acquired, key)
	return func() error {
		delete(l.held, key)
		l.released = append(l.released, key)
		return nil
	}, nil
}

type fakeProgress struct {
	total     int
	increment int
	finished  bool
}

func (p *fakeProgress) Increment() { p.increment++ }
func (p *fakeProgress) Finish()    { p.finished = true }

// env bundles fakes and the queue components built on them.
type env struct {
	store   *memStore
	disc    *fakeDiscoverer
	fetch   *fakeFetcher
	catalog *fakeCatalog
	runner  *queue.Runner
	checker *queue.Checker
}

func newEnv(opts ...queue.Option) *env {
	e := &env{
		store:   newMemStore(),
		disc:    &fakeDiscoverer{},
		fetch:   newFakeFetcher(),
		catalog: newFakeCatalog(),
	}
	proc := queue.NewProcessor(e.store, e.fetch, e.catalog, opts...)
	e.runner = queue.NewRunner(e.store, e.disc, proc, opts...)
	e.checker = queue.NewChecker(e.store, e.runner, opts...)
	return e
}

func sub(key string) pipeline.SubProject {
	name, tag := pipeline.ParseKey(key)
	return pipeline.SubProject{
		Name:        name,
		Tag:         tag,
		Description: "about " + name,
		Samples:     []map[string]string{{"sample_name": "s1"}},
	}
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(pipeline.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
