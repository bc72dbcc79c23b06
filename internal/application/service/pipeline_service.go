package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nikhil-rg/salespipe/internal/config"
	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	domainservice "github.com/nikhil-rg/salespipe/internal/domain/service"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/parser"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/report"
)

// RunResult summarizes a completed pipeline run.
type RunResult struct {
	Stats        entity.RunStats
	Summary      *entity.AnalyticsSummary
	EnrichedPath string
	ReportPath   string
}

// PipelineService orchestrates one full run:
// parse -> validate -> filter -> aggregate -> enrich -> write artifacts.
type PipelineService struct {
	cfg       *config.Config
	parser    *parser.Parser
	validator *ValidationService
	filter    *FilterService
	analytics *AnalyticsService
	enricher  *EnrichmentService
	writer    *report.Writer
	log       logger.Logger
}

// NewPipelineService wires the pipeline stages from configuration and a
// catalog lookup capability.
func NewPipelineService(cfg *config.Config, catalog domainservice.CatalogAPI, log logger.Logger) *PipelineService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &PipelineService{
		cfg:       cfg,
		parser:    parser.New(cfg.DelimiterRune(), cfg.Encoding, log),
		validator: NewValidationService(log),
		filter:    NewFilterService(log),
		analytics: NewAnalyticsService(log),
		enricher:  NewEnrichmentService(catalog, cfg.Catalog.MaxConcurrentLookups, log),
		writer:    report.NewWriter(cfg.DelimiterRune(), log),
		log:       log,
	}
}

// Run executes the pipeline with the given filter criteria. Anything
// scoped to a single record or product key is absorbed and counted;
// conditions that would make the output meaningless abort the run before
// any artifact is written.
func (p *PipelineService) Run(ctx context.Context, criteria Criteria) (*RunResult, error) {
	runID := uuid.New().String()
	log := p.log.WithField("run_id", runID)

	// An impossible predicate combination fails fast, before any I/O.
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	log.Info("starting pipeline run", map[string]interface{}{
		"input": p.cfg.InputPath,
	})

	results, err := p.parser.ParseFile(p.cfg.InputPath)
	if err != nil {
		return nil, err
	}

	valid, rejections := p.validator.Validate(results)
	if len(valid) == 0 {
		return nil, entity.ErrNoValidRecords
	}

	filtered, err := p.filter.Apply(valid, criteria)
	if err != nil {
		return nil, err
	}

	summary := p.analytics.Summarize(filtered)
	enriched, enrichStats := p.enricher.Enrich(ctx, filtered)

	stats := entity.RunStats{
		RunID:       runID,
		StartedAt:   time.Now(),
		Rejections:  rejections,
		FilteredOut: len(valid) - len(filtered),
		Enrichment:  enrichStats,
	}

	// Each artifact fails independently; the other is still attempted.
	var writeErrs []error
	if err := p.writer.WriteEnriched(p.cfg.EnrichedPath, enriched); err != nil {
		log.Error("enriched dataset write failed", map[string]interface{}{"error": err.Error()})
		writeErrs = append(writeErrs, err)
	}
	if err := p.writer.WriteReport(p.cfg.ReportPath, &stats, summary); err != nil {
		log.Error("report write failed", map[string]interface{}{"error": err.Error()})
		writeErrs = append(writeErrs, err)
	}
	if len(writeErrs) > 0 {
		return nil, errors.Join(writeErrs...)
	}

	log.Info("pipeline run complete", map[string]interface{}{
		"valid":     len(valid),
		"filtered":  len(filtered),
		"enriched":  enrichStats.Matched,
		"report":    p.cfg.ReportPath,
		"dataset":   p.cfg.EnrichedPath,
	})

	return &RunResult{
		Stats:        stats,
		Summary:      summary,
		EnrichedPath: p.cfg.EnrichedPath,
		ReportPath:   p.cfg.ReportPath,
	}, nil
}
