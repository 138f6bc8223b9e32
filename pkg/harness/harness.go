// Package harness runs the full conformance pipeline over a schema corpus.
//
// For each schema document the harness runs: parse, meta-schema check,
// compile, cycle detection, and test vectors. Documents are processed in
// parallel by a bounded worker pool, and per-document results are cached by
// content hash so unchanged files are not re-checked between runs.
//
// Skip lists are harness policy, not detector behavior: a document on the
// known-cyclic list still has its cycle detected, but the failure is reported
// as skipped instead of failing the run.
package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/cache"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/observability"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/report"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema/cycles"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/validate"
)

// Options configures a corpus run.
type Options struct {
	// CorpusRoot is the directory walked for schema documents.
	CorpusRoot string

	// Workers bounds the number of documents checked concurrently.
	// Defaults to runtime.NumCPU().
	Workers int

	// KnownCyclic lists corpus-relative paths whose cycle failures are
	// reported as skipped. The detector still runs on them.
	KnownCyclic []string

	// KnownFailing lists corpus-relative paths that are not checked at all;
	// they appear in the report with every check skipped.
	KnownFailing []string

	// Cache stores per-document results keyed by content hash.
	// Defaults to a NullCache.
	Cache cache.Cache

	// CacheTTL bounds the lifetime of cached results. Zero means no expiry.
	CacheTTL time.Duration

	// OnResult, if set, is called from worker goroutines as each document
	// finishes. The TUI uses this for live progress.
	OnResult func(report.DocumentResult)
}

// Runner executes corpus runs. Safe for repeated Run calls.
type Runner struct {
	opts         Options
	engine       *validate.Engine
	knownCyclic  map[string]struct{}
	knownFailing map[string]struct{}
}

// New creates a Runner checking documents with the given engine.
func New(engine *validate.Engine, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	return &Runner{
		opts:         opts,
		engine:       engine,
		knownCyclic:  toSet(opts.KnownCyclic),
		knownFailing: toSet(opts.KnownFailing),
	}
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[filepath.ToSlash(p)] = struct{}{}
	}
	return set
}

// Discover returns the corpus-relative paths of all schema documents under
// the corpus root, sorted. Test-vector files are not documents.
func (r *Runner) Discover() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(r.opts.CorpusRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" || validate.IsVectorPath(path) {
			return nil
		}
		rel, err := filepath.Rel(r.opts.CorpusRoot, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Run checks every document in the corpus and returns the aggregate report.
// The error is reserved for infrastructure failures; conformance failures
// are carried in the report.
func (r *Runner) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()
	paths, err := r.Discover()
	if err != nil {
		return nil, err
	}

	observability.Corpus().OnRunStart(ctx, r.opts.CorpusRoot, len(paths))

	jobs := make(chan string)
	results := make(chan report.DocumentResult)

	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range jobs {
				res := r.checkDocument(ctx, rel)
				if r.opts.OnResult != nil {
					r.opts.OnResult(res)
				}
				results <- res
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rel := range paths {
			select {
			case jobs <- rel:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	rep := report.New(r.opts.CorpusRoot)
	for res := range results {
		rep.Add(res)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Workers finish out of order.
	sort.Slice(rep.Results, func(i, j int) bool {
		return rep.Results[i].Path < rep.Results[j].Path
	})
	rep.Duration = time.Since(start)

	observability.Corpus().OnRunComplete(ctx, r.opts.CorpusRoot, rep.Failed(), rep.Duration)
	return rep, nil
}

func (r *Runner) checkDocument(ctx context.Context, rel string) (res report.DocumentResult) {
	start := time.Now()
	observability.Corpus().OnDocumentStart(ctx, rel)

	res = report.DocumentResult{Path: rel}
	defer func() {
		res.Duration = time.Since(start)
		observability.Corpus().OnDocumentComplete(ctx, rel, res.Passed(), res.Duration)
	}()

	if _, ok := r.knownFailing[rel]; ok {
		res.MetaSchema = report.Skipped("known failing")
		res.Compile = report.Skipped("known failing")
		res.Cycles = report.Skipped("known failing")
		return res
	}

	abs := filepath.Join(r.opts.CorpusRoot, filepath.FromSlash(rel))
	data, err := os.ReadFile(abs)
	if err != nil {
		res.MetaSchema = report.Failed("read: %v", err)
		res.Compile = report.Skipped("document unreadable")
		res.Cycles = report.Skipped("document unreadable")
		return res
	}
	res.ContentHash = cache.Hash(data)

	key := cache.ResultKey(rel, res.ContentHash)
	if cached, ok := r.cacheGet(ctx, key); ok {
		res = cached
		return res
	}

	doc, err := schema.Parse(bytes.NewReader(data))
	if err != nil {
		res.MetaSchema = report.Failed("parse: %v", err)
		res.Compile = report.Skipped("document unparseable")
		res.Cycles = report.Skipped("document unparseable")
		return res
	}

	if err := r.engine.CheckMetaSchema(doc); err != nil {
		res.MetaSchema = report.Failed("%v", err)
	} else {
		res.MetaSchema = report.OK()
	}

	compiled, err := r.engine.CompileDocument(abs, doc)
	if err != nil {
		res.Compile = report.Failed("%v", err)
	} else {
		res.Compile = report.OK()
	}

	if cyc := cycles.Detect(doc); cyc != nil {
		observability.Corpus().OnCycleFound(ctx, rel, cyc)
		res.Cycle = cyc
		if _, ok := r.knownCyclic[rel]; ok {
			res.Cycles = report.Skipped("known cyclic: " + cyc.String())
		} else {
			res.Cycles = report.Failed("%s", cyc.String())
		}
	} else {
		res.Cycles = report.OK()
	}

	if compiled != nil {
		vectors, err := validate.LoadVectors(validate.VectorPath(abs))
		if err != nil {
			res.Vectors = []validate.VectorResult{{Name: "load vectors", Passed: false, Message: err.Error()}}
		} else if len(vectors) > 0 {
			res.Vectors = validate.RunVectors(compiled, vectors)
		}
	}

	r.cacheSet(ctx, key, res)
	return res
}

func (r *Runner) cacheGet(ctx context.Context, key string) (report.DocumentResult, bool) {
	data, ok, err := r.opts.Cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "result")
		return report.DocumentResult{}, false
	}
	var res report.DocumentResult
	if err := json.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, "result")
		return report.DocumentResult{}, false
	}
	observability.Cache().OnCacheHit(ctx, "result")
	res.Cached = true
	return res, true
}

func (r *Runner) cacheSet(ctx context.Context, key string, res report.DocumentResult) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.opts.Cache.Set(ctx, key, data, r.opts.CacheTTL); err != nil {
		return
	}
	observability.Cache().OnCacheSet(ctx, "result", len(data))
}
