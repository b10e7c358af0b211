package seasonstats

import (
	"strings"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
)

var minutesNoise = strings.NewReplacer("'", "", ".", "", ",", "", " ", "")

// Resolver turns the statistics cells of one player into a SeasonStats value
// for a fixed current season label such as "25/26".
type Resolver struct {
	currentSeason string
}

func NewResolver(currentSeason string) *Resolver {
	return &Resolver{currentSeason: strings.TrimSpace(currentSeason)}
}

func (r *Resolver) CurrentSeason() string {
	return r.currentSeason
}

// Available reports whether the current season is among the reported seasons.
func (r *Resolver) Available(seasonsReported []string) bool {
	if r.currentSeason == "" {
		return false
	}
	for _, season := range seasonsReported {
		if strings.TrimSpace(season) == r.currentSeason {
			return true
		}
	}
	return false
}

// Resolve never returns a field holding an empty string. When the current
// season is absent every field is the sentinel and the cells are ignored.
func (r *Resolver) Resolve(category player.PositionCategory, cells playerstats.SeasonCells) playerstats.SeasonStats {
	if !r.Available(cells.SeasonsReported) {
		return absent(category)
	}

	cell := func(i int) string {
		if i >= len(cells.Cells) {
			return playerstats.Sentinel
		}
		return orSentinel(strings.TrimSpace(cells.Cells[i]))
	}

	if category.IsGoalkeeper() {
		return playerstats.GoalkeeperStats{
			Season:            cell(0),
			Games:             cell(1),
			Goals:             cell(2),
			YellowCards:       cell(3),
			SecondYellowCards: cell(4),
			RedCards:          cell(5),
			GoalsConceded:     cell(6),
			CleanSheets:       cell(7),
			Minutes:           minutes(cell(8)),
		}
	}

	return playerstats.FielderStats{
		Season:            cell(0),
		Games:             cell(1),
		Goals:             cell(2),
		Assists:           cell(3),
		YellowCards:       cell(4),
		SecondYellowCards: cell(5),
		RedCards:          cell(6),
		Minutes:           minutes(cell(7)),
	}
}

func absent(category player.PositionCategory) playerstats.SeasonStats {
	s := playerstats.Sentinel
	if category.IsGoalkeeper() {
		return playerstats.GoalkeeperStats{
			Season: s, Games: s, Goals: s, YellowCards: s, SecondYellowCards: s,
			RedCards: s, GoalsConceded: s, CleanSheets: s, Minutes: s,
		}
	}
	return playerstats.FielderStats{
		Season: s, Games: s, Goals: s, Assists: s, YellowCards: s,
		SecondYellowCards: s, RedCards: s, Minutes: s,
	}
}

// minutes strips the time mark and thousands separators: "1.234'" -> "1234".
func minutes(text string) string {
	if text == playerstats.Sentinel {
		return text
	}
	return orSentinel(strings.TrimSpace(minutesNoise.Replace(text)))
}

func orSentinel(text string) string {
	if text == "" {
		return playerstats.Sentinel
	}
	return text
}
