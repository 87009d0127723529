package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"flats-scraper/config"
	"flats-scraper/models"
	"flats-scraper/observability"
	"flats-scraper/pdfdoc"
	"flats-scraper/scraper"
	"flats-scraper/storage"
	"flats-scraper/utils"
)

// RunResult describes the output of one completed run.
type RunResult struct {
	RunID      string
	OutputPath string
	Table      *models.Table
}

// Pipeline runs fetch → scrape → enrich → normalize → merge → write, strictly
// in sequence. Stages are built per run so that every line they log carries
// the run ID.
type Pipeline struct {
	cfg    *config.Config
	schema *config.Schema

	pageFetcher scraper.Fetcher
	docFetcher  scraper.Fetcher

	output   storage.TableWriter
	sinks    []storage.TableWriter
	uploader storage.FileUploader

	logger  *utils.Logger
	metrics *observability.Metrics
}

// stages holds the run-scoped components of one run.
type stages struct {
	pageFetcher scraper.Fetcher
	docFetcher  scraper.Fetcher
	listing     *scraper.ListingScraper
	enricher    *Enricher
	cleaner     *Cleaner
	prices      *scraper.PriceExtractor
}

// NewPipeline validates the schema-driven stages. pageFetcher retrieves the
// listing page and docFetcher the floor-plan and price documents; they may be
// the same.
func NewPipeline(cfg *config.Config, schema *config.Schema, pageFetcher, docFetcher scraper.Fetcher,
	output storage.TableWriter, logger *utils.Logger, metrics *observability.Metrics) (*Pipeline, error) {
	if _, err := scraper.NewFloorPlanExtractor(schema.FloorPlan, pdfdoc.DefaultLayout(), logger); err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:         cfg,
		schema:      schema,
		pageFetcher: pageFetcher,
		docFetcher:  docFetcher,
		output:      output,
		logger:      logger,
		metrics:     metrics,
	}, nil
}

func (p *Pipeline) stagesFor(log *utils.Logger) (*stages, error) {
	extractor, err := scraper.NewFloorPlanExtractor(p.schema.FloorPlan, pdfdoc.DefaultLayout(), log)
	if err != nil {
		return nil, err
	}
	docFetcher := scraper.Scoped(p.docFetcher, log)
	return &stages{
		pageFetcher: scraper.Scoped(p.pageFetcher, log),
		docFetcher:  docFetcher,
		listing:     scraper.NewListingScraper(p.schema.Listing, log),
		enricher: NewEnricher(docFetcher, extractor, p.schema.Listing.DocumentColumn,
			utils.NewThrottle(p.cfg.DocumentDelayMs), log, p.metrics),
		cleaner: NewCleaner(p.schema.Listing, log, p.metrics),
		prices:  scraper.NewPriceExtractor(p.schema.Prices, log, p.metrics),
	}, nil
}

// AddSink registers an additional best-effort writer (spreadsheet, database).
func (p *Pipeline) AddSink(w storage.TableWriter) {
	p.sinks = append(p.sinks, w)
}

// SetUploader registers where the written file is copied after the run.
func (p *Pipeline) SetUploader(u storage.FileUploader) {
	p.uploader = u
}

// Run executes one scrape. A listing page that cannot be fetched ends the run
// with no output and a nil result; the fetcher has already logged the error.
// Structural problems in the page and output write failures are returned as
// errors. The metrics textfile is written however the run ends.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.logger.With(runID[:8])
	defer p.flushMetrics(log, start)

	st, err := p.stagesFor(log)
	if err != nil {
		return nil, err
	}

	log.Info("[pipeline] Starting run %s for %s", runID, p.cfg.ListingURL)

	page, err := st.pageFetcher.Fetch(ctx, p.cfg.ListingURL)
	if err != nil {
		log.Info("[pipeline] Listing page unavailable, no output written")
		return nil, nil
	}

	table, err := st.listing.Scrape(page, p.cfg.ListingURL)
	if err != nil {
		return nil, err
	}

	if p.cfg.IncludeFloorPlans {
		table = st.enricher.Enrich(ctx, table)
	}

	table, err = st.cleaner.Clean(table)
	if err != nil {
		return nil, err
	}

	if p.cfg.IncludePrices {
		table = p.mergePrices(ctx, log, st, table)
	}

	path, err := p.output.WriteTable(ctx, runID, table)
	if err != nil {
		return nil, fmt.Errorf("services: write output: %w", err)
	}
	p.metrics.AddRowsWritten(table.Len())
	log.Info("[pipeline] Data saved to %s", path)

	p.writeSinks(ctx, log, runID, table, path)

	return &RunResult{RunID: runID, OutputPath: path, Table: table}, nil
}

func (p *Pipeline) flushMetrics(log *utils.Logger, start time.Time) {
	p.metrics.SetRunDuration(time.Since(start).Seconds())
	if p.cfg.MetricsFile == "" {
		return
	}
	if err := p.metrics.WriteTextfile(p.cfg.MetricsFile); err != nil {
		log.Error("[pipeline] %v", err)
	}
}

// mergePrices joins the price table onto the listing and projects the fixed
// output columns. A price document that cannot be fetched merges as empty.
func (p *Pipeline) mergePrices(ctx context.Context, log *utils.Logger, st *stages, listing *models.Table) *models.Table {
	prices := models.NewTable(st.prices.Headers()...)
	content, err := st.docFetcher.Fetch(ctx, p.cfg.PriceDocumentURL)
	if err != nil {
		p.metrics.ObserveDocument("prices", err)
	} else {
		prices, err = st.prices.Extract(content, p.cfg.PriceDocumentURL)
		p.metrics.ObserveDocument("prices", err)
	}

	merged := Merge(listing, prices, p.schema.Listing.IDColumn)
	if len(p.schema.Output.MergedColumns) == 0 {
		return merged
	}

	out, missing := merged.Select(p.schema.Output.MergedColumns)
	if len(missing) > 0 {
		log.Warn("[pipeline] Output columns missing from merged data, left empty: %q", missing)
	}
	return out
}

func (p *Pipeline) writeSinks(ctx context.Context, log *utils.Logger, runID string, table *models.Table, path string) {
	for _, s := range p.sinks {
		loc, err := s.WriteTable(ctx, runID, table)
		if err != nil {
			log.Error("[pipeline] Extra output failed: %v", err)
			continue
		}
		log.Info("[pipeline] Data also saved to %s", loc)
	}

	if p.uploader != nil {
		loc, err := p.uploader.UploadFile(ctx, path)
		if err != nil {
			log.Error("[pipeline] Upload failed: %v", err)
			return
		}
		log.Info("[pipeline] Uploaded %s", loc)
	}
}

// Close releases every writer.
func (p *Pipeline) Close() error {
	var errs []error
	if err := p.output.Close(); err != nil {
		errs = append(errs, err)
	}
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
