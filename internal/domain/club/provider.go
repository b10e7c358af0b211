package club

import (
	"context"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
)

// Provider isolates roster fields from the upstream source.
type Provider interface {
	FetchLeague(ctx context.Context, leagueRef string) (League, error)
	FetchClubRoster(ctx context.Context, clubRef string) (Roster, error)
	FetchSeasonCells(ctx context.Context, statsRef string, category player.PositionCategory) (playerstats.SeasonCells, error)
}
