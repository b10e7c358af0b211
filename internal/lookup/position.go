package lookup

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
)

const TablePositions = "positions"

// sourcePositions maps source position names to SWOS positions.
var sourcePositions = map[string]player.PositionCategory{
	"Goalkeeper":         player.PositionGoalkeeper,
	"Defender":           player.PositionDefender,
	"Centre-Back":        player.PositionDefender,
	"Left-Back":          player.PositionLeftBack,
	"Right-Back":         player.PositionRightBack,
	"Midfield":           player.PositionMidfielder,
	"Defensive Midfield": player.PositionMidfielder,
	"Central Midfield":   player.PositionMidfielder,
	"Attacking Midfield": player.PositionMidfielder,
	"Left Midfield":      player.PositionMidfielder,
	"Right Midfield":     player.PositionMidfielder,
	"Left Winger":        player.PositionLeftWinger,
	"Right Winger":       player.PositionRightWinger,
	"Attack":             player.PositionAttacker,
	"Second Striker":     player.PositionAttacker,
	"Centre-Forward":     player.PositionAttacker,
}

// PositionMap is an immutable source-position lookup.
type PositionMap struct {
	entries map[string]player.PositionCategory
}

func DefaultPositionMap() PositionMap {
	m, _ := NewPositionMap(sourcePositions)
	return m
}

// NewPositionMap copies entries. Unknown is not a valid target: it is what
// a miss resolves to.
func NewPositionMap(entries map[string]player.PositionCategory) (PositionMap, error) {
	if len(entries) == 0 {
		return PositionMap{}, loadError(TablePositions, "embedded", ErrTableEmpty)
	}

	out := make(map[string]player.PositionCategory, len(entries))
	for name, category := range entries {
		if _, ok := player.AllPositions[category]; !ok || category == player.PositionUnknown {
			return PositionMap{}, loadError(TablePositions, "embedded", crerr.Wrapf(ErrMalformedRow, "position %q maps to %q", name, category))
		}
		out[name] = category
	}

	return PositionMap{entries: out}, nil
}

func (m PositionMap) Lookup(name string) (player.PositionCategory, bool) {
	category, ok := m.entries[name]
	return category, ok
}

func (m PositionMap) Len() int {
	return len(m.entries)
}
