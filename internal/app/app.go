package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/swos-squad-import/internal/config"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/infrastructure/sink/csvfile"
	"github.com/riskibarqy/swos-squad-import/internal/infrastructure/sink/jsonl"
	"github.com/riskibarqy/swos-squad-import/internal/infrastructure/sink/memory"
	"github.com/riskibarqy/swos-squad-import/internal/infrastructure/sink/postgres"
	"github.com/riskibarqy/swos-squad-import/internal/infrastructure/transfermarkt"
	"github.com/riskibarqy/swos-squad-import/internal/lookup"
	"github.com/riskibarqy/swos-squad-import/internal/normalize"
	"github.com/riskibarqy/swos-squad-import/internal/pipeline"
	"github.com/riskibarqy/swos-squad-import/internal/platform/id"
	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
	"github.com/riskibarqy/swos-squad-import/internal/platform/metrics"
	"github.com/riskibarqy/swos-squad-import/internal/seasonstats"
	"github.com/riskibarqy/swos-squad-import/internal/usecase"
)

const (
	metricsJob = "swos_import"
)

// Importer holds the wired import pipeline and the resources it owns.
type Importer struct {
	Service *usecase.ImportService
	Source  *transfermarkt.Client
	Metrics *metrics.Recorder
	Memory  *memory.Sink

	cfg    config.Config
	db     *sqlx.DB
	logger *logging.Logger
}

func NewImporter(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Importer, error) {
	if logger == nil {
		logger = logging.Default()
	}

	tables, err := lookup.LoadDir(cfg.LookupDir)
	if err != nil {
		return nil, fmt.Errorf("load lookup tables: %w", err)
	}
	logger.Debug("lookup tables loaded",
		"positions", tables.Positions.Len(),
		"nationalities", tables.Nationalities.Len(),
		"dir", cfg.LookupDir,
	)

	recorder := metrics.NewRecorder(metrics.WithConstLabels(map[string]string{
		"service": cfg.ServiceName,
	}))

	normalizer := normalize.New(tables)
	builder := pipeline.NewBuilder(
		normalizer,
		seasonstats.NewResolver(cfg.CurrentSeason),
		pipeline.WithLogger(logger.Named("pipeline")),
		pipeline.WithObserver(recorder),
	)

	client, err := transfermarkt.NewClient(transfermarkt.ClientConfig{
		BaseURL:      cfg.TMBaseURL,
		UserAgent:    cfg.TMUserAgent,
		Timeout:      cfg.TMTimeout,
		PageCacheTTL: cfg.TMPageCacheTTL,
		Logger:       logger.Named("transfermarkt"),
	})
	if err != nil {
		return nil, fmt.Errorf("build transfermarkt client: %w", err)
	}
	provider := transfermarkt.NewProvider(client, transfermarkt.ProviderConfig{
		CurrentSeason: cfg.CurrentSeason,
		SeasonYear:    cfg.SeasonYear,
	}, logger.Named("transfermarkt"))

	importer := &Importer{
		Source:  client,
		Metrics: recorder,
		cfg:     cfg,
		logger:  logger,
	}

	if cfg.HasSink(config.SinkPostgres) {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		importer.db = db
	}

	sinks, mem, err := buildSinks(cfg, importer.db)
	if err != nil {
		_ = importer.Close()
		return nil, err
	}
	importer.Memory = mem

	importer.Service = usecase.NewImportService(
		provider,
		normalizer,
		pipeline.NewAggregator(builder),
		sinks,
		id.NewUUIDGenerator(),
		recorder,
		usecase.ImportConfig{
			MaxClubWorkers:   cfg.MaxClubWorkers,
			MaxPlayerWorkers: cfg.MaxPlayerWorkers,
		},
		logger.Named("usecase"),
	)

	logger.Info("importer ready",
		"sinks", cfg.SinkKinds,
		"current_season", cfg.CurrentSeason,
		"season_year", cfg.SeasonYear,
		"max_club_workers", cfg.MaxClubWorkers,
	)
	return importer, nil
}

// PushMetrics sends the run's metrics to the configured Pushgateway. It is a
// no-op when PUSHGATEWAY_URL is unset.
func (a *Importer) PushMetrics(ctx context.Context, runID string) error {
	if a.cfg.PushgatewayURL == "" {
		return nil
	}
	if err := a.Metrics.Push(ctx, a.cfg.PushgatewayURL, metricsJob, runID); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

func (a *Importer) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func buildSinks(cfg config.Config, db *sqlx.DB) ([]player.Sink, *memory.Sink, error) {
	sinks := make([]player.Sink, 0, len(cfg.SinkKinds))
	var mem *memory.Sink
	for _, kind := range cfg.SinkKinds {
		switch kind {
		case config.SinkCSV:
			sinks = append(sinks, csvfile.New(cfg.OutputDir))
		case config.SinkJSONL:
			sinks = append(sinks, jsonl.New(cfg.OutputDir))
		case config.SinkMemory:
			mem = memory.New()
			sinks = append(sinks, mem)
		case config.SinkPostgres:
			if db == nil {
				return nil, nil, errors.New("postgres sink requires an open database")
			}
			sinks = append(sinks, postgres.New(db))
		default:
			return nil, nil, fmt.Errorf("unknown sink kind %q", kind)
		}
	}
	if len(sinks) == 0 {
		return nil, nil, errors.New("at least one sink is required")
	}
	return sinks, mem, nil
}
