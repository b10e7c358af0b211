package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/swos-squad-import/internal/domain/club"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/normalize"
	"github.com/riskibarqy/swos-squad-import/internal/pipeline"
	"github.com/riskibarqy/swos-squad-import/internal/platform/id"
	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
)

const (
	ClubStatusSuccess = "success"
	ClubStatusPartial = "partial"
	ClubStatusFailed  = "failed"

	defaultMaxClubWorkers   = 4
	defaultMaxPlayerWorkers = 8
)

// ImportObserver receives per-club outcomes, typically a metrics recorder.
type ImportObserver interface {
	ObserveClub(status string, elapsed time.Duration)
	ObservePlayers(built, failed int)
}

type nopImportObserver struct{}

func (nopImportObserver) ObserveClub(string, time.Duration) {}
func (nopImportObserver) ObservePlayers(int, int)           {}

type ImportConfig struct {
	MaxClubWorkers   int
	MaxPlayerWorkers int
}

type ImportLeagueInput struct {
	LeagueRef string `validate:"required,url"`
	Country   string `validate:"max=64"`
	// NumberOfClubs limits the import to the first clubs on the league page.
	// Zero imports every club.
	NumberOfClubs int `validate:"gte=0"`
	MaxWorkers    int `validate:"gte=0"`
}

type ImportLeagueResult struct {
	RunID         string             `json:"run_id"`
	League        string             `json:"league"`
	Country       string             `json:"country"`
	ClubCount     int                `json:"club_count"`
	SuccessCount  int                `json:"success_count"`
	FailedCount   int                `json:"failed_count"`
	PlayerCount   int                `json:"player_count"`
	FailedPlayers int                `json:"failed_players"`
	WorkerCount   int                `json:"worker_count"`
	Clubs         []ClubImportResult `json:"clubs"`
	// NoMatches counts lookup misses by field name across the run.
	NoMatches map[string]int `json:"no_matches,omitempty"`
}

type ClubImportResult struct {
	Order         int      `json:"order"`
	ClubName      string   `json:"club_name"`
	ClubRef       string   `json:"club_ref"`
	Status        string   `json:"status"`
	Players       int      `json:"players"`
	FailedPlayers int      `json:"failed_players"`
	Locations     []string `json:"locations,omitempty"`
	DurationMs    int64    `json:"duration_ms"`
	Message       string   `json:"message,omitempty"`
}

type ImportService struct {
	provider   club.Provider
	normalizer *normalize.Normalizer
	aggregator *pipeline.Aggregator
	sinks      []player.Sink
	ids        id.Generator
	observer   ImportObserver
	validate   *validator.Validate
	cfg        ImportConfig
	logger     *logging.Logger
}

func NewImportService(
	provider club.Provider,
	normalizer *normalize.Normalizer,
	aggregator *pipeline.Aggregator,
	sinks []player.Sink,
	ids id.Generator,
	observer ImportObserver,
	cfg ImportConfig,
	logger *logging.Logger,
) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	if observer == nil {
		observer = nopImportObserver{}
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.MaxClubWorkers <= 0 {
		cfg.MaxClubWorkers = defaultMaxClubWorkers
	}
	if cfg.MaxPlayerWorkers <= 0 {
		cfg.MaxPlayerWorkers = defaultMaxPlayerWorkers
	}

	return &ImportService{
		provider:   provider,
		normalizer: normalizer,
		aggregator: aggregator,
		sinks:      sinks,
		ids:        ids,
		observer:   observer,
		validate:   validator.New(),
		cfg:        cfg,
		logger:     logger,
	}
}

// ImportLeague imports the clubs of one league overview page. A club that
// fails is reported in the result; it never aborts its siblings.
func (s *ImportService) ImportLeague(ctx context.Context, input ImportLeagueInput) (ImportLeagueResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportLeague")
	defer span.End()

	input.LeagueRef = strings.TrimSpace(input.LeagueRef)
	input.Country = strings.TrimSpace(input.Country)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return ImportLeagueResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.provider == nil || s.aggregator == nil || s.normalizer == nil {
		return ImportLeagueResult{}, fmt.Errorf("%w: import service is not fully configured", ErrDependencyUnavailable)
	}
	if len(s.sinks) == 0 {
		return ImportLeagueResult{}, fmt.Errorf("%w: no sink configured", ErrDependencyUnavailable)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return ImportLeagueResult{}, fmt.Errorf("generate run id: %w", err)
	}

	league, err := s.provider.FetchLeague(ctx, input.LeagueRef)
	if err != nil {
		return ImportLeagueResult{}, fmt.Errorf("%w: fetch league %s: %v", ErrDependencyUnavailable, input.LeagueRef, err)
	}

	clubs := league.Clubs
	if input.NumberOfClubs > 0 && input.NumberOfClubs < len(clubs) {
		clubs = clubs[:input.NumberOfClubs]
	}

	workerCount := normalizeWorkerCount(input.MaxWorkers, s.cfg.MaxClubWorkers, len(clubs))
	result := ImportLeagueResult{
		RunID:       runID,
		League:      league.Name,
		Country:     input.Country,
		ClubCount:   len(clubs),
		WorkerCount: workerCount,
		Clubs:       make([]ClubImportResult, 0, len(clubs)),
	}
	if len(clubs) == 0 {
		s.logger.WarnContext(ctx, "league page lists no clubs", "league", league.Name, "league_ref", input.LeagueRef)
		return result, nil
	}

	s.logger.InfoContext(ctx, "import league started",
		"run_id", runID,
		"league", league.Name,
		"clubs", len(clubs),
		"workers", workerCount,
	)

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ImportLeagueResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ClubImportResult, len(clubs))
	var workers sync.WaitGroup
	for i, link := range clubs {
		i, link := i, link
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			dest := player.Destination{RunID: runID, Country: input.Country, League: league.Name, Club: link.Name}
			row, err := s.ImportClub(ctx, link.Ref, dest)
			if err != nil {
				s.logger.WarnContext(ctx, "skip club", "club", link.Name, "club_ref", link.Ref, "error", err)
			}
			row.Order = i
			if row.ClubName == "" {
				row.ClubName = link.Name
			}
			results <- row
		}); err != nil {
			workers.Done()
			return ImportLeagueResult{}, fmt.Errorf("submit club to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Clubs = append(result.Clubs, row)
		result.PlayerCount += row.Players
		result.FailedPlayers += row.FailedPlayers
		if row.Status == ClubStatusFailed {
			result.FailedCount++
		} else {
			result.SuccessCount++
		}
	}
	sort.SliceStable(result.Clubs, func(i, j int) bool {
		return result.Clubs[i].Order < result.Clubs[j].Order
	})

	s.logger.InfoContext(ctx, "import league finished",
		"run_id", runID,
		"league", league.Name,
		"clubs_ok", result.SuccessCount,
		"clubs_failed", result.FailedCount,
		"players", result.PlayerCount,
		"players_failed", result.FailedPlayers,
	)
	return result, nil
}

// ImportClub fetches, normalizes and persists one club. The returned result
// is always populated; err is non-nil only when the club produced nothing.
func (s *ImportService) ImportClub(ctx context.Context, clubRef string, dest player.Destination) (ClubImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportClub")
	defer span.End()

	start := time.Now()
	result := ClubImportResult{ClubRef: clubRef, ClubName: dest.Club, Status: ClubStatusFailed}
	finish := func(err error) (ClubImportResult, error) {
		elapsed := time.Since(start)
		result.DurationMs = elapsed.Milliseconds()
		if err != nil {
			result.Status = ClubStatusFailed
			result.Message = err.Error()
		}
		s.observer.ObserveClub(result.Status, elapsed)
		s.observer.ObservePlayers(result.Players, result.FailedPlayers)
		return result, err
	}

	roster, err := s.provider.FetchClubRoster(ctx, clubRef)
	if err != nil {
		return finish(fmt.Errorf("%w: fetch club %s: %v", club.ErrSourceUnavailable, clubRef, err))
	}
	if err := roster.Club.Validate(); err != nil {
		return finish(fmt.Errorf("%w: club %s: %v", ErrInvalidInput, clubRef, err))
	}
	result.ClubName = roster.Club.Name
	dest.Club = roster.Club.Name
	logger := s.logger.With("club", roster.Club.Name)

	rows, rosterIndex, failures := s.fetchSeasons(ctx, roster.Rows)
	records, buildFailures := s.aggregator.Process(rows, roster.Club)
	for _, failure := range buildFailures {
		failure.Index = rosterIndex[failure.Index]
		failures = append(failures, failure)
	}
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Index < failures[j].Index })
	for _, failure := range failures {
		logger.WarnContext(ctx, "skip player", "row", failure.Index, "player", failure.Player, "error", failure.Err)
	}
	result.Players = len(records)
	result.FailedPlayers = len(failures)

	if len(records) == 0 {
		return finish(fmt.Errorf("club %s produced no records", roster.Club.Name))
	}

	var sinkErrs []error
	for _, sink := range s.sinks {
		location, err := sink.WriteClubRecords(ctx, dest, records)
		if err != nil {
			sinkErrs = append(sinkErrs, err)
			logger.ErrorContext(ctx, "write club records", "error", err)
			continue
		}
		result.Locations = append(result.Locations, location)
	}

	switch {
	case len(sinkErrs) == len(s.sinks):
		return finish(fmt.Errorf("persist club %s: %w", roster.Club.Name, errors.Join(sinkErrs...)))
	case len(sinkErrs) > 0:
		result.Status = ClubStatusPartial
		result.Message = errors.Join(sinkErrs...).Error()
	case len(failures) > 0:
		result.Status = ClubStatusPartial
		result.Message = fmt.Sprintf("%d player rows skipped", len(failures))
	default:
		result.Status = ClubStatusSuccess
	}

	logger.InfoContext(ctx, "club imported",
		"players", result.Players,
		"players_failed", result.FailedPlayers,
		"status", result.Status,
	)
	return finish(nil)
}

type seasonFetch struct {
	row player.RawRow
	err error
}

// fetchSeasons loads the statistics cells of every row that links to a stats
// page. Rows keep their roster order; rows whose fetch failed are dropped
// and reported. rosterIndex maps each kept row back to its roster position.
func (s *ImportService) fetchSeasons(ctx context.Context, rows []player.RawRow) (kept []player.RawRow, rosterIndex []int, failures []pipeline.RowError) {
	mapper := iter.Mapper[player.RawRow, seasonFetch]{MaxGoroutines: s.cfg.MaxPlayerWorkers}
	fetched := mapper.Map(rows, func(row *player.RawRow) seasonFetch {
		out := *row
		if strings.TrimSpace(row.StatsRef) == "" {
			return seasonFetch{row: out}
		}
		if err := ctx.Err(); err != nil {
			return seasonFetch{row: out, err: err}
		}
		category := s.normalizer.Position(row.PositionText)
		cells, err := s.provider.FetchSeasonCells(ctx, row.StatsRef, category)
		if err != nil {
			return seasonFetch{row: out, err: fmt.Errorf("%w: fetch stats %s: %v", club.ErrSourceUnavailable, row.StatsRef, err)}
		}
		out.Season = cells
		return seasonFetch{row: out}
	})

	kept = make([]player.RawRow, 0, len(rows))
	rosterIndex = make([]int, 0, len(rows))
	for i, f := range fetched {
		if f.err != nil {
			failures = append(failures, pipeline.RowError{Index: i, Player: f.row.Name, Err: f.err})
			continue
		}
		kept = append(kept, f.row)
		rosterIndex = append(rosterIndex, i)
	}
	return kept, rosterIndex, failures
}

func normalizeWorkerCount(requested, configured, tasks int) int {
	workers := requested
	if workers <= 0 {
		workers = configured
	}
	if workers > tasks {
		workers = tasks
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
