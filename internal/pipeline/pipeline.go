// Package pipeline orchestrates a crawl run: it resolves each configured
// source to a crawler, extracts raw records, pushes them through the ETL
// steps, persists the surviving documents, and publishes a run summary.
// Sources run concurrently and fail independently; one broken site never
// aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
	"github.com/ozanunsal/hikmet-crawler/internal/crawler"
	"github.com/ozanunsal/hikmet-crawler/internal/etl"
	"github.com/ozanunsal/hikmet-crawler/internal/metrics"
	"github.com/ozanunsal/hikmet-crawler/internal/publisher"
	"github.com/ozanunsal/hikmet-crawler/internal/record"
)

// DefaultConcurrency bounds how many sources crawl at once.
const DefaultConcurrency = 4

// Store persists validated documents.
type Store interface {
	StoreBatch(ctx context.Context, docs []etl.Document) (etl.StoreResult, error)
}

// Config holds run-level settings.
type Config struct {
	// Concurrency is the number of sources crawled in parallel.
	Concurrency int
	// SafeMode, when non-nil, overrides each source's own safe-mode flag.
	// The SAFE_MODE environment variable still wins over it.
	SafeMode *bool
	// SafeModeDefault is the file-level default applied when neither an
	// override nor a per-source flag is present.
	SafeModeDefault bool
}

// Pipeline wires the crawler registry to the ETL steps and the stores.
type Pipeline struct {
	registry  *crawler.Registry
	deps      crawler.Deps
	store     Store
	publisher publisher.Publisher
	logger    *zap.Logger
	cfg       Config
}

// New assembles a pipeline. The store and publisher may be nil; a nil store
// turns the run into a dry run and a nil publisher skips the summary.
func New(registry *crawler.Registry, deps crawler.Deps, store Store, pub publisher.Publisher, logger *zap.Logger, cfg Config) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Pipeline{
		registry:  registry,
		deps:      deps,
		store:     store,
		publisher: pub,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run crawls the given sources concurrently and returns the run report.
// Per-source failures are recorded in the report, not returned; the error is
// non-nil only when the run itself could not execute.
func (p *Pipeline) Run(ctx context.Context, sources []config.Source) (RunReport, error) {
	metrics.Init()

	report := RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	if len(sources) == 0 {
		report.FinishedAt = time.Now().UTC()
		return report, nil
	}

	pool, err := ants.NewPool(p.cfg.Concurrency)
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	envValue, envSet := config.SafeModeEnv()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []SourceReport
	)
	for _, src := range sources {
		src := src
		wg.Add(1)
		task := func() {
			defer wg.Done()
			safeMode := config.ResolveSafeMode(src, p.cfg.SafeModeDefault, envValue, envSet, p.cfg.SafeMode)
			result := p.runSource(ctx, src, safeMode)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}
		if err := pool.Submit(task); err != nil {
			// Pool refused the task (released or overloaded); run inline so
			// the source still gets its turn.
			p.logger.Warn("worker pool rejected source, running inline", zap.String("source", src.Name), zap.Error(err))
			task()
		}
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	report.Sources = results
	report.FinishedAt = time.Now().UTC()
	report.aggregate()

	p.publish(ctx, report)
	return report, ctx.Err()
}

func (p *Pipeline) runSource(ctx context.Context, src config.Source, safeMode bool) SourceReport {
	started := time.Now()
	logger := p.logger.With(zap.String("source", src.Name), zap.String("kind", string(src.Kind)))
	result := SourceReport{
		Name:     src.Name,
		Kind:     src.Kind,
		SafeMode: safeMode,
	}
	fail := func(err error) SourceReport {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(started)
		metrics.ObserveSourceRun("error")
		logger.Error("source crawl failed", zap.Error(err))
		return result
	}

	metrics.SourceStarted()
	defer metrics.SourceFinished()

	instance, err := p.registry.Create(src, p.deps, crawler.Options{SafeMode: safeMode})
	if err != nil {
		return fail(fmt.Errorf("create crawler: %w", err))
	}
	defer func() {
		if cerr := instance.Close(); cerr != nil {
			logger.Warn("crawler close failed", zap.Error(cerr))
		}
	}()

	var raw []record.Record
	for _, link := range instance.Links() {
		if ctx.Err() != nil {
			return fail(ctx.Err())
		}
		result.LinksProcessed++
		recs, err := instance.Extract(ctx, link, src.Name)
		if err != nil {
			// One bad seed does not sink the source.
			result.Errors = append(result.Errors, fmt.Sprintf("extract %s: %v", link, err))
			logger.Warn("extract failed", zap.String("link", link), zap.Error(err))
			continue
		}
		metrics.ObserveRecords(src.Name, string(src.Kind), len(recs))
		raw = append(raw, recs...)
	}
	result.Extracted = len(raw)

	normalized := etl.Normalize(raw)
	unique := etl.Dedupe(normalized)
	result.Duplicates = len(normalized) - len(unique)
	metrics.ObserveDropped(src.Name, "duplicate", result.Duplicates)

	docs := make([]etl.Document, 0, len(unique))
	for _, rec := range unique {
		doc, err := etl.BuildDocument(rec)
		if err != nil {
			result.Invalid++
			logger.Debug("record failed validation", zap.String("title", rec.Title), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	metrics.ObserveDropped(src.Name, "invalid", result.Invalid)

	if p.store != nil && len(docs) > 0 {
		stored, err := p.store.StoreBatch(ctx, docs)
		result.Inserted = stored.Inserted
		result.Updated = stored.Updated
		metrics.ObserveStored(string(src.Kind), "inserted", stored.Inserted)
		metrics.ObserveStored(string(src.Kind), "updated", stored.Updated)
		if err != nil {
			return fail(fmt.Errorf("store documents: %w", err))
		}
	}

	result.Duration = time.Since(started)
	if result.OK() {
		metrics.ObserveSourceRun("ok")
	} else {
		metrics.ObserveSourceRun("partial")
	}
	logger.Info("source crawl finished",
		zap.Int("links_processed", result.LinksProcessed),
		zap.Int("extracted", result.Extracted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("invalid", result.Invalid),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", result.Duration),
	)
	return result
}

func (p *Pipeline) publish(ctx context.Context, report RunReport) {
	if p.publisher == nil {
		return
	}
	id, err := p.publisher.Publish(ctx, report)
	if err != nil {
		p.logger.Warn("publish run summary failed", zap.String("run_id", report.RunID), zap.Error(err))
		return
	}
	p.logger.Info("run summary published", zap.String("run_id", report.RunID), zap.String("message_id", id))
}
