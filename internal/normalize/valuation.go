package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
)

const (
	// "€45.00m": two decimals are kept in the digits, so 4500 * 10,000.
	millionsMultiplier  int64 = 10_000
	thousandsMultiplier int64 = 1_000
)

var (
	currencySymbols     = []string{"€", "£", "$"}
	thousandsSeparators = strings.NewReplacer(".", "", ",", "", " ", "", "\u00a0", "")
)

// Valuation is a market value resolved against the bracket table.
type Valuation struct {
	Value string
	Stars int
}

// ParseMarketValue converts "€45.00m", "€800k", "€1.500.000" or "€0" into
// an integer amount.
func ParseMarketValue(text string) (int64, error) {
	raw := strings.TrimSpace(text)
	for _, symbol := range currencySymbols {
		raw = strings.TrimPrefix(raw, symbol)
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(raw, "m"):
		multiplier = millionsMultiplier
		raw = strings.TrimSuffix(raw, "m")
	case strings.HasSuffix(raw, "k"):
		multiplier = thousandsMultiplier
		raw = strings.TrimSuffix(raw, "k")
	}

	digits := thousandsSeparators.Replace(raw)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrParse, text)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrParse, text)
		}
	}

	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrParse, text, err)
	}
	if value > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("%w: %q overflows", ErrParse, text)
	}

	return value * multiplier, nil
}

// Bucketize finds the bracket of the category's group that contains value.
// Full-backs share one group, wingers share another.
func (n *Normalizer) Bucketize(value int64, category player.PositionCategory) (Valuation, bool) {
	group, ok := category.Group()
	if !ok {
		return Valuation{}, false
	}

	bracket, ok := n.tables.Brackets.Find(group, value)
	if !ok {
		return Valuation{}, false
	}

	return Valuation{Value: bracket.Value, Stars: bracket.Stars}, true
}
