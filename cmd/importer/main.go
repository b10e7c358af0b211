package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/swos-squad-import/internal/app"
	"github.com/riskibarqy/swos-squad-import/internal/config"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/infrastructure/transfermarkt"
	"github.com/riskibarqy/swos-squad-import/internal/observability"
	"github.com/riskibarqy/swos-squad-import/internal/platform/id"
	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
	"github.com/riskibarqy/swos-squad-import/internal/usecase"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

type flags struct {
	clubsURL      string
	clubURL       string
	numberOfClubs int
	country       string
	outputDir     string
	sinks         string
	maxWorkers    int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "importer",
		Short:         "Imports Transfermarkt squads as SWOS player records.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := applyFlags(cmd, &cfg, f); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, f)
		},
	}

	cmd.Flags().StringVarP(&f.clubsURL, "clubs-url", "u", "", "league overview URL (default IMPORT_LEAGUE_URL)")
	cmd.Flags().StringVar(&f.clubURL, "club-url", "", "import a single club page instead of a league")
	cmd.Flags().IntVarP(&f.numberOfClubs, "number-of-clubs", "n", 0, "clubs to import from the league page, 0 for all (default IMPORT_NUMBER_OF_CLUBS)")
	cmd.Flags().StringVar(&f.country, "country", "", "country label for output routing (default IMPORT_COUNTRY)")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "directory for file sinks (default OUTPUT_DIR)")
	cmd.Flags().StringVar(&f.sinks, "sinks", "", "comma separated sinks: csv, jsonl, postgres, memory (default SINK_KINDS)")
	cmd.Flags().IntVar(&f.maxWorkers, "max-workers", 0, "concurrent clubs (default IMPORT_MAX_CLUB_WORKERS)")
	return cmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) error {
	flagSet := cmd.Flags()
	if flagSet.Changed("clubs-url") {
		cfg.LeagueURL = f.clubsURL
	}
	if flagSet.Changed("number-of-clubs") {
		if f.numberOfClubs < 0 {
			return fmt.Errorf("--number-of-clubs must be >= 0")
		}
		cfg.NumberOfClubs = f.numberOfClubs
	}
	if flagSet.Changed("country") {
		cfg.Country = f.country
	}
	if flagSet.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if flagSet.Changed("sinks") {
		kinds, err := config.ParseSinkKinds(f.sinks)
		if err != nil {
			return err
		}
		cfg.SinkKinds = kinds
	}
	if cfg.HasSink(config.SinkPostgres) && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required for the %s sink", config.SinkPostgres)
	}
	return nil
}

func run(ctx context.Context, cfg config.Config, f flags) error {
	logger := logging.New(logging.Options{Format: cfg.LogFormat, Level: cfg.LogLevel})
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown tracing", "error", err)
		}
	}()

	importer, err := app.NewImporter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build importer: %w", err)
	}
	defer func() {
		_ = importer.Close()
	}()

	ctx, span := otel.Tracer("swos-squad-import/cmd/importer").Start(ctx, "importer.run")
	defer span.End()

	var result usecase.ImportLeagueResult
	if f.clubURL != "" {
		result, err = importSingleClub(ctx, importer, cfg, f.clubURL)
	} else {
		result, err = importer.Service.ImportLeague(ctx, usecase.ImportLeagueInput{
			LeagueRef:     cfg.LeagueURL,
			Country:       cfg.Country,
			NumberOfClubs: cfg.NumberOfClubs,
			MaxWorkers:    f.maxWorkers,
		})
	}
	if err != nil {
		return err
	}

	result.NoMatches = importer.Metrics.NoMatchCounts()
	renderSummary(os.Stdout, result)

	hits, fetches := importer.Source.CacheStats()
	logger.Info("page cache", "hits", hits, "fetches", fetches)

	if err := importer.PushMetrics(ctx, result.RunID); err != nil {
		logger.Warn("push metrics", "error", err)
	}

	if result.ClubCount > 0 && result.FailedCount == result.ClubCount {
		return fmt.Errorf("all %d clubs failed", result.ClubCount)
	}
	return nil
}

func importSingleClub(ctx context.Context, importer *app.Importer, cfg config.Config, clubURL string) (usecase.ImportLeagueResult, error) {
	runID, err := id.NewUUIDGenerator().NewID()
	if err != nil {
		return usecase.ImportLeagueResult{}, fmt.Errorf("generate run id: %w", err)
	}

	dest := player.Destination{
		RunID:   runID,
		Country: cfg.Country,
		League:  transfermarkt.LeagueNameFromURL(cfg.LeagueURL),
	}
	clubResult, err := importer.Service.ImportClub(ctx, clubURL, dest)
	if err != nil {
		logging.Default().Error("import club", "club_url", clubURL, "error", err)
	}

	result := usecase.ImportLeagueResult{
		RunID:         runID,
		League:        dest.League,
		Country:       dest.Country,
		ClubCount:     1,
		PlayerCount:   clubResult.Players,
		FailedPlayers: clubResult.FailedPlayers,
		WorkerCount:   1,
		Clubs:         []usecase.ClubImportResult{clubResult},
	}
	if clubResult.Status == usecase.ClubStatusFailed {
		result.FailedCount = 1
	} else {
		result.SuccessCount = 1
	}
	return result, nil
}
