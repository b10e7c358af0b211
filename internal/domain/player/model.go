package player

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
)

// PositionCategory is the SWOS position a source position maps to.
type PositionCategory string

const (
	PositionGoalkeeper  PositionCategory = "G"
	PositionDefender    PositionCategory = "D"
	PositionLeftBack    PositionCategory = "LB"
	PositionRightBack   PositionCategory = "RB"
	PositionMidfielder  PositionCategory = "M"
	PositionLeftWinger  PositionCategory = "LW"
	PositionRightWinger PositionCategory = "RW"
	PositionAttacker    PositionCategory = "A"
	PositionUnknown     PositionCategory = "Unknown"
)

var AllPositions = map[PositionCategory]struct{}{
	PositionGoalkeeper:  {},
	PositionDefender:    {},
	PositionLeftBack:    {},
	PositionRightBack:   {},
	PositionMidfielder:  {},
	PositionLeftWinger:  {},
	PositionRightWinger: {},
	PositionAttacker:    {},
	PositionUnknown:     {},
}

// Bracket-table group keys.
const (
	GroupGoalkeeper = "G"
	GroupDefender   = "D"
	GroupMidfielder = "M"
	GroupAttacker   = "A"
	GroupWinger     = "LW/RW"
	GroupFullBack   = "LB/RB"
)

var AllGroups = []string{
	GroupGoalkeeper,
	GroupDefender,
	GroupMidfielder,
	GroupAttacker,
	GroupWinger,
	GroupFullBack,
}

func (p PositionCategory) IsGoalkeeper() bool {
	return p == PositionGoalkeeper
}

// Group returns the bracket-table group for the category. Unknown has none.
func (p PositionCategory) Group() (string, bool) {
	switch p {
	case PositionGoalkeeper:
		return GroupGoalkeeper, true
	case PositionDefender:
		return GroupDefender, true
	case PositionMidfielder:
		return GroupMidfielder, true
	case PositionAttacker:
		return GroupAttacker, true
	case PositionLeftWinger, PositionRightWinger:
		return GroupWinger, true
	case PositionLeftBack, PositionRightBack:
		return GroupFullBack, true
	default:
		return "", false
	}
}

// RawRow is one roster row as isolated by the source provider.
type RawRow struct {
	ShirtNumber     string
	Name            string
	ProfileRef      string
	StatsRef        string
	MarketValueText string
	PositionText    string
	NationalityText string
	Season          playerstats.SeasonCells
}

func (r RawRow) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// Record is the normalized output for one player. Empty Nationality,
// ValueSWOS and Stars mean the source value had no mapping.
type Record struct {
	ClubName    string
	ClubRef     string
	ScheduleRef string

	ShirtNumber string
	Name        string
	ProfileRef  string

	PositionText    string
	Position        PositionCategory
	NationalityText string
	Nationality     string

	MarketValueText string
	MarketValue     int64
	ValueParsed     bool
	ValueSWOS       string
	Stars           string

	Stats playerstats.SeasonStats
}
