package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/swos-squad-import/internal/domain/club"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
	"github.com/riskibarqy/swos-squad-import/internal/lookup"
	clubmock "github.com/riskibarqy/swos-squad-import/internal/mocks/domain/club"
	playermock "github.com/riskibarqy/swos-squad-import/internal/mocks/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/normalize"
	"github.com/riskibarqy/swos-squad-import/internal/pipeline"
	"github.com/riskibarqy/swos-squad-import/internal/platform/id"
	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
	"github.com/riskibarqy/swos-squad-import/internal/seasonstats"
	"github.com/stretchr/testify/mock"
)

const (
	leagueRef  = "https://www.transfermarkt.com/premier-league/startseite/wettbewerb/GB1"
	arsenalRef = "https://www.transfermarkt.com/fc-arsenal/startseite/verein/11"
	chelseaRef = "https://www.transfermarkt.com/fc-chelsea/startseite/verein/631"
	spursRef   = "https://www.transfermarkt.com/tottenham-hotspur/startseite/verein/148"
)

type recordingObserver struct {
	mu       sync.Mutex
	statuses []string
	built    int
	failed   int
}

func (o *recordingObserver) ObserveClub(status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
}

func (o *recordingObserver) ObservePlayers(built, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.built += built
	o.failed += failed
}

func newImportService(t *testing.T, provider club.Provider, observer ImportObserver, sinks ...player.Sink) *ImportService {
	t.Helper()
	tables, err := lookup.LoadDefault()
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	normalizer := normalize.New(tables)
	builder := pipeline.NewBuilder(normalizer, seasonstats.NewResolver("25/26"), pipeline.WithLogger(logging.NewNop()))
	return NewImportService(
		provider,
		normalizer,
		pipeline.NewAggregator(builder),
		sinks,
		id.Static("run-1"),
		observer,
		ImportConfig{MaxClubWorkers: 2, MaxPlayerWorkers: 2},
		logging.NewNop(),
	)
}

func anyCtx() any {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

func arsenalRoster() club.Roster {
	return club.Roster{
		Club: club.Context{Name: "Arsenal FC", Ref: arsenalRef},
		Rows: []player.RawRow{
			{ShirtNumber: "1", Name: "David Raya", StatsRef: "stats/raya", PositionText: "Goalkeeper", MarketValueText: "€35.00m", NationalityText: "Spain"},
			{ShirtNumber: "7", Name: "Bukayo Saka", StatsRef: "stats/saka", PositionText: "Right Winger", MarketValueText: "€150.00m", NationalityText: "England"},
			{ShirtNumber: "41", Name: "Declan Rice", PositionText: "Defensive Midfield", MarketValueText: "€120.00m", NationalityText: "England"},
		},
	}
}

func TestImportService_ImportClub_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	provider := clubmock.NewProvider(t)
	sink := playermock.NewSink(t)
	observer := &recordingObserver{}
	service := newImportService(t, provider, observer, sink)

	provider.On("FetchClubRoster", anyCtx(), arsenalRef).Return(arsenalRoster(), nil).Once()
	provider.
		On("FetchSeasonCells", anyCtx(), "stats/raya", player.PositionGoalkeeper).
		Return(playerstats.SeasonCells{SeasonsReported: []string{"25/26"}, Cells: []string{"25/26", "8", "", "", "", "", "5", "4", "720'"}}, nil).
		Once()
	provider.
		On("FetchSeasonCells", anyCtx(), "stats/saka", player.PositionRightWinger).
		Return(playerstats.SeasonCells{SeasonsReported: []string{"24/25"}}, nil).
		Once()

	dest := player.Destination{Country: "England", League: "Premier League", Club: "Arsenal"}
	wantDest := player.Destination{Country: "England", League: "Premier League", Club: "Arsenal FC"}
	sink.
		On("WriteClubRecords", anyCtx(), wantDest, mock.MatchedBy(func(records []player.Record) bool {
			return len(records) == 3 &&
				records[0].Name == "David Raya" &&
				records[1].Name == "Bukayo Saka" &&
				records[2].Name == "Declan Rice"
		})).
		Return("out/England/Premier League/Arsenal FC.csv", nil).
		Once()

	got, err := service.ImportClub(context.Background(), arsenalRef, dest)
	if err != nil {
		t.Fatalf("import club: %v", err)
	}
	if got.Status != ClubStatusSuccess {
		t.Fatalf("unexpected status: got=%s message=%s", got.Status, got.Message)
	}
	if got.Players != 3 || got.FailedPlayers != 0 {
		t.Fatalf("unexpected player counts: players=%d failed=%d", got.Players, got.FailedPlayers)
	}
	if len(got.Locations) != 1 {
		t.Fatalf("unexpected locations: %+v", got.Locations)
	}
	if len(observer.statuses) != 1 || observer.statuses[0] != ClubStatusSuccess || observer.built != 3 {
		t.Fatalf("unexpected observer state: %+v", observer)
	}
}

func TestImportService_ImportClub_SkipsPlayerWhoseStatsFailUsingMockery(t *testing.T) {
	t.Parallel()

	provider := clubmock.NewProvider(t)
	sink := playermock.NewSink(t)
	service := newImportService(t, provider, nil, sink)

	provider.On("FetchClubRoster", anyCtx(), arsenalRef).Return(arsenalRoster(), nil).Once()
	provider.
		On("FetchSeasonCells", anyCtx(), "stats/raya", player.PositionGoalkeeper).
		Return(playerstats.SeasonCells{}, errors.New("connection reset")).
		Once()
	provider.
		On("FetchSeasonCells", anyCtx(), "stats/saka", player.PositionRightWinger).
		Return(playerstats.SeasonCells{SeasonsReported: []string{"25/26"}, Cells: []string{"25/26", "9", "4", "3"}}, nil).
		Once()
	sink.
		On("WriteClubRecords", anyCtx(), mock.Anything, mock.MatchedBy(func(records []player.Record) bool {
			return len(records) == 2 && records[0].Name == "Bukayo Saka" && records[1].Name == "Declan Rice"
		})).
		Return("memory", nil).
		Once()

	got, err := service.ImportClub(context.Background(), arsenalRef, player.Destination{Country: "England"})
	if err != nil {
		t.Fatalf("import club: %v", err)
	}
	if got.Status != ClubStatusPartial {
		t.Fatalf("expected partial status, got %s", got.Status)
	}
	if got.Players != 2 || got.FailedPlayers != 1 {
		t.Fatalf("unexpected player counts: players=%d failed=%d", got.Players, got.FailedPlayers)
	}
}

func TestImportService_ImportClub_RosterUnavailableUsingMockery(t *testing.T) {
	t.Parallel()

	provider := clubmock.NewProvider(t)
	sink := playermock.NewSink(t)
	service := newImportService(t, provider, nil, sink)

	provider.On("FetchClubRoster", anyCtx(), chelseaRef).Return(club.Roster{}, errors.New("status 503")).Once()

	got, err := service.ImportClub(context.Background(), chelseaRef, player.Destination{Club: "Chelsea FC"})
	if !errors.Is(err, club.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if got.Status != ClubStatusFailed || got.ClubName != "Chelsea FC" {
		t.Fatalf("unexpected result: %+v", got)
	}
	sink.AssertNotCalled(t, "WriteClubRecords", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportService_ImportLeague_ContinuesAfterClubFailureUsingMockery(t *testing.T) {
	t.Parallel()

	provider := clubmock.NewProvider(t)
	sink := playermock.NewSink(t)
	service := newImportService(t, provider, nil, sink)

	provider.
		On("FetchLeague", anyCtx(), leagueRef).
		Return(club.League{
			Name: "Premier League",
			Ref:  leagueRef,
			Clubs: []club.Link{
				{Name: "Arsenal FC", Ref: arsenalRef},
				{Name: "Chelsea FC", Ref: chelseaRef},
				{Name: "Tottenham Hotspur", Ref: spursRef},
			},
		}, nil).
		Once()

	roster := arsenalRoster()
	for i := range roster.Rows {
		roster.Rows[i].StatsRef = ""
	}
	provider.On("FetchClubRoster", anyCtx(), arsenalRef).Return(roster, nil).Once()
	provider.On("FetchClubRoster", anyCtx(), chelseaRef).Return(club.Roster{}, errors.New("timeout")).Once()
	sink.On("WriteClubRecords", anyCtx(), mock.Anything, mock.Anything).Return("memory", nil).Once()

	got, err := service.ImportLeague(context.Background(), ImportLeagueInput{
		LeagueRef:     leagueRef,
		Country:       "England",
		NumberOfClubs: 2,
	})
	if err != nil {
		t.Fatalf("import league: %v", err)
	}
	if got.RunID != "run-1" || got.League != "Premier League" {
		t.Fatalf("unexpected league result: %+v", got)
	}
	if got.ClubCount != 2 || got.SuccessCount != 1 || got.FailedCount != 1 {
		t.Fatalf("unexpected club counts: %+v", got)
	}
	if got.Clubs[0].ClubName != "Arsenal FC" || got.Clubs[1].ClubName != "Chelsea FC" {
		t.Fatalf("clubs out of league order: %+v", got.Clubs)
	}
	if got.PlayerCount != 3 {
		t.Fatalf("unexpected player count: %d", got.PlayerCount)
	}
}

func TestImportService_ImportLeague_InvalidInput(t *testing.T) {
	t.Parallel()

	service := newImportService(t, clubmock.NewProvider(t), nil, playermock.NewSink(t))

	for _, input := range []ImportLeagueInput{
		{},
		{LeagueRef: "not a url"},
		{LeagueRef: leagueRef, NumberOfClubs: -1},
	} {
		if _, err := service.ImportLeague(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestImportService_ImportLeague_SourceUnavailableUsingMockery(t *testing.T) {
	t.Parallel()

	provider := clubmock.NewProvider(t)
	service := newImportService(t, provider, nil, playermock.NewSink(t))

	provider.On("FetchLeague", anyCtx(), leagueRef).Return(club.League{}, errors.New("dns")).Once()

	_, err := service.ImportLeague(context.Background(), ImportLeagueInput{LeagueRef: leagueRef})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestNormalizeWorkerCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		requested, configured, tasks, want int
	}{
		{requested: 0, configured: 4, tasks: 20, want: 4},
		{requested: 8, configured: 4, tasks: 20, want: 8},
		{requested: 0, configured: 4, tasks: 2, want: 2},
		{requested: 0, configured: 0, tasks: 0, want: 1},
	}
	for _, tc := range cases {
		if got := normalizeWorkerCount(tc.requested, tc.configured, tc.tasks); got != tc.want {
			t.Fatalf("normalizeWorkerCount(%d, %d, %d) = %d, want %d", tc.requested, tc.configured, tc.tasks, got, tc.want)
		}
	}
}
