package normalize

import (
	"errors"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/lookup"
)

var (
	ErrParse   = errors.New("unparseable market value")
	ErrNoMatch = errors.New("no lookup match")
)

const minSuggestionSimilarity = 0.85

// Normalizer maps raw source fields onto SWOS values through a fixed set of
// lookup tables.
type Normalizer struct {
	tables *lookup.Tables
}

func New(tables *lookup.Tables) *Normalizer {
	return &Normalizer{tables: tables}
}

// Position never fails: unmapped text resolves to PositionUnknown.
func (n *Normalizer) Position(text string) player.PositionCategory {
	if category, ok := n.tables.Positions.Lookup(strings.TrimSpace(text)); ok {
		return category
	}
	return player.PositionUnknown
}

// Nationality reports false when the country has no entry. A found entry
// may still carry an empty code.
func (n *Normalizer) Nationality(text string) (string, bool) {
	return n.tables.Nationalities.Lookup(strings.TrimSpace(text))
}

// SuggestNationality returns the closest known country name for a miss, for
// log output only.
func (n *Normalizer) SuggestNationality(text string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return "", false
	}

	var best string
	var bestScore float64
	for _, name := range n.tables.Nationalities.Names() {
		score := matchr.JaroWinkler(needle, strings.ToLower(name), false)
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore < minSuggestionSimilarity {
		return "", false
	}
	return best, true
}
