package rateio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/rateio/pkg/application/dto"
	"github.com/vsinha/rateio/pkg/application/services/commercial"
	"github.com/vsinha/rateio/pkg/application/services/extraction"
	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
	"github.com/vsinha/rateio/pkg/infrastructure/events"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/memory"
)

// ServiceConfig holds configuration for the rateio pipeline
type ServiceConfig struct {
	// Workers bounds the number of documents extracted concurrently
	Workers int
}

// DefaultServiceConfig returns the configuration used by NewService
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{Workers: 4}
}

// Service runs the whole pipeline: commercial facts and document extraction,
// aggregation, allocation, consolidation and sequencing
type Service struct {
	config       ServiceConfig
	extractor    *extraction.FieldExtractor
	commercial   *commercial.Extractor
	aggregator   *Aggregator
	engine       *AllocationEngine
	consolidator *Consolidator
	sequencer    *Sequencer
	store        events.EventStore
	logger       *zap.Logger
}

// NewService creates a new rateio service with default configuration
func NewService(logger *zap.Logger) *Service {
	return NewServiceWithConfig(DefaultServiceConfig(), logger)
}

// NewServiceWithConfig creates a new rateio service with custom configuration
func NewServiceWithConfig(config ServiceConfig, logger *zap.Logger) *Service {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		config:       config,
		extractor:    extraction.NewFieldExtractor(),
		commercial:   commercial.NewExtractor(),
		aggregator:   NewAggregator(),
		engine:       NewAllocationEngine(),
		consolidator: NewConsolidator(),
		sequencer:    NewSequencer(),
		logger:       logger.Named("rateio"),
	}
}

// WithEventStore records the stages of every run in store, one stream per run
func (s *Service) WithEventStore(store events.EventStore) *Service {
	s.store = store
	return s
}

// Run computes the rateio of the documents in docs using the load
// announcements of emailText
func (s *Service) Run(ctx context.Context, docs repositories.DocumentRepository, emailText string) (*dto.RateioResult, error) {
	facts := memory.NewCommercialFactRepository()
	warnings, err := s.commercial.Extract(emailText, facts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dispatch email: %w", err)
	}
	return s.RunWithFacts(ctx, docs, facts, warnings...)
}

// RunWithFacts computes the rateio of the documents in docs using already
// collected commercial facts. factWarnings lead the run's warnings.
func (s *Service) RunWithFacts(
	ctx context.Context,
	docs repositories.DocumentRepository,
	facts repositories.CommercialFactRepository,
	factWarnings ...string,
) (*dto.RateioResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	journal := events.NewJournal(s.store, runID)
	logger := s.logger.With(zap.String("run_id", runID))

	s.record(logger, journal, events.RunStartedEvent, events.RunStarted{Source: fmt.Sprintf("%T", docs)})
	s.record(logger, journal, events.FactsParsedEvent, events.FactsParsed{
		Facts:    len(facts.GetAllFacts()),
		Warnings: len(factWarnings),
	})

	records, extractionWarnings, err := s.ExtractDocuments(ctx, docs, journal)
	if err != nil {
		s.record(logger, journal, events.RunFailedEvent, events.RunFailed{Stage: "extraction", Error: err.Error()})
		logger.Error("run failed", zap.Error(err))
		return nil, err
	}

	warnings := make([]string, 0, len(factWarnings)+len(extractionWarnings))
	warnings = append(warnings, factWarnings...)
	warnings = append(warnings, extractionWarnings...)

	result, err := s.process(ctx, logger, journal, records, facts, warnings)
	if err != nil {
		s.record(logger, journal, events.RunFailedEvent, events.RunFailed{Stage: "processing", Error: err.Error()})
		logger.Error("run failed", zap.Error(err))
		return nil, err
	}
	result.Duration = time.Since(start)

	s.finish(logger, journal, result)
	return result, nil
}

// Process runs aggregation, allocation, consolidation and sequencing over
// already extracted records
func (s *Service) Process(
	ctx context.Context,
	records []entities.DocumentRecord,
	facts repositories.CommercialFactRepository,
) (*dto.RateioResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	journal := events.NewJournal(s.store, runID)
	logger := s.logger.With(zap.String("run_id", runID))

	result, err := s.process(ctx, logger, journal, records, facts, nil)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)

	s.finish(logger, journal, result)
	return result, nil
}

type extracted struct {
	record   entities.DocumentRecord
	warnings []string
}

// ExtractDocuments extracts every document of docs, at most config.Workers
// at a time. Records and warnings are returned in document order. Failing to
// open a document or to decode its text aborts the extraction.
func (s *Service) ExtractDocuments(
	ctx context.Context,
	docs repositories.DocumentRepository,
	journal *events.Journal,
) ([]entities.DocumentRecord, []string, error) {
	names, err := docs.ListDocuments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list documents: %w", err)
	}
	s.record(s.logger, journal, events.DocumentsListedEvent, events.DocumentsListed{Documents: names})

	results := make([]extracted, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			stream, err := docs.OpenDocument(gctx, name)
			if err != nil {
				return fmt.Errorf("failed to open document %s: %w", name, err)
			}
			defer stream.Close()

			record, warnings, err := s.extractor.Extract(stream)
			if err != nil {
				return fmt.Errorf("document %s: %w", name, err)
			}
			record.Source = name

			located := make([]string, len(warnings))
			for j, warning := range warnings {
				located[j] = fmt.Sprintf("%s: %s", name, warning)
			}
			results[i] = extracted{record: record, warnings: located}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	records := make([]entities.DocumentRecord, 0, len(results))
	var warnings []string
	for _, r := range results {
		records = append(records, r.record)
		warnings = append(warnings, r.warnings...)
		s.record(s.logger, journal, events.DocumentExtractedEvent, events.DocumentExtracted{
			Document:   r.record.Source,
			Invoice:    r.record.Invoice,
			LoadNumber: r.record.LoadNumber,
			Warnings:   len(r.warnings),
		})
	}

	s.logger.Debug("documents extracted",
		zap.Int("documents", len(records)),
		zap.Int("warnings", len(warnings)),
	)
	return records, warnings, nil
}

func (s *Service) process(
	ctx context.Context,
	logger *zap.Logger,
	journal *events.Journal,
	records []entities.DocumentRecord,
	facts repositories.CommercialFactRepository,
	warnings []string,
) (*dto.RateioResult, error) {
	result := dto.NewRateioResult(journal.RunID())
	result.Documents = len(records)
	result.Warnings = append(result.Warnings, warnings...)

	carriers, stats, aggregationWarnings := s.aggregator.Aggregate(records, facts)
	result.Carriers = carriers
	result.Warnings = append(result.Warnings, aggregationWarnings...)
	s.record(logger, journal, events.LoadsAggregatedEvent, events.LoadsAggregated{
		Carriers: len(carriers),
		Loads:    stats.Loads,
		Skipped:  stats.Skipped,
	})
	logger.Debug("records aggregated",
		zap.Int("carriers", len(carriers)),
		zap.Int("loads", stats.Loads),
		zap.Int("skipped", stats.Skipped),
	)

	for _, name := range carriers.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		group := carriers[name]
		for _, number := range group.LoadNumbers() {
			load := group.Loads[number]

			allocation := s.engine.Allocate(load)
			result.Allocations = append(result.Allocations, allocation)
			s.record(logger, journal, events.LoadAllocatedEvent, events.LoadAllocated{Allocation: allocation})
			if allocation.Skipped {
				result.Warnings = append(result.Warnings, fmt.Sprintf("carrier %q: load %d has no volume, freight not apportioned", name, number))
			}

			before := len(load.Deliveries)
			s.consolidator.Consolidate(load)
			s.record(logger, journal, events.LoadConsolidatedEvent, events.LoadConsolidated{
				Carrier:    name,
				LoadNumber: number,
				Before:     before,
				After:      len(load.Deliveries),
			})
		}

		sequenceWarnings := s.sequencer.Sequence(group)
		result.Warnings = append(result.Warnings, sequenceWarnings...)
		s.record(logger, journal, events.CarrierSequencedEvent, events.CarrierSequenced{
			Carrier:  name,
			Sequence: group.Sequence,
			Omitted:  len(sequenceWarnings),
		})
	}
	logger.Debug("loads allocated and sequenced", zap.Int("allocations", len(result.Allocations)))

	return result, nil
}

func (s *Service) finish(logger *zap.Logger, journal *events.Journal, result *dto.RateioResult) {
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	s.record(logger, journal, events.RunCompletedEvent, events.RunCompleted{
		Documents: result.Documents,
		Carriers:  len(result.Carriers),
		Loads:     result.LoadCount(),
		Warnings:  len(result.Warnings),
		Duration:  result.Duration,
	})
	logger.Info("run completed",
		zap.Int("documents", result.Documents),
		zap.Int("carriers", len(result.Carriers)),
		zap.Int("loads", result.LoadCount()),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", result.Duration),
	)
}

func (s *Service) record(logger *zap.Logger, journal *events.Journal, eventType string, data any) {
	if err := journal.Record(eventType, data); err != nil {
		logger.Warn("failed to record run event", zap.String("event", eventType), zap.Error(err))
	}
}
