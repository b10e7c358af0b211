package lookup

import (
	"io"
	"math"
	"sort"
	"strconv"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
)

const (
	TableBrackets = "market_value_brackets"

	ColumnMinValue = "mv_tm_min"
	ColumnMaxValue = "mv_tm_max"
	ColumnSWOS     = "mv_swos"
	ColumnStars    = "stars"

	// Bracket bounds are written in millions; parsed market values are in units.
	bracketUnit = 1_000_000
	// Bounds carry three decimals, so adjacent brackets sit one step apart.
	bracketStep = bracketUnit / 1_000
)

// Bracket is one market-value bucket. Min and Max are inclusive and already
// scaled to units.
type Bracket struct {
	Group string
	Min   int64
	Max   int64
	Value string
	Stars int
}

func (b Bracket) Contains(value int64) bool {
	return value >= b.Min && value <= b.Max
}

// ParseBrackets reads one group's bracket file.
func ParseBrackets(group string, r io.Reader, source string) ([]Bracket, error) {
	rows, err := readTable(r, ColumnMinValue, ColumnMaxValue, ColumnSWOS, ColumnStars)
	if err != nil {
		return nil, loadError(TableBrackets, source, err)
	}

	out := make([]Bracket, 0, len(rows))
	for _, row := range rows {
		minValue, err := parseMillions(row.values[0])
		if err != nil {
			return nil, loadError(TableBrackets, source, crerr.Wrapf(ErrMalformedRow, "line %d %s: %v", row.line, ColumnMinValue, err))
		}
		maxValue, err := parseMillions(row.values[1])
		if err != nil {
			return nil, loadError(TableBrackets, source, crerr.Wrapf(ErrMalformedRow, "line %d %s: %v", row.line, ColumnMaxValue, err))
		}
		if minValue > maxValue {
			return nil, loadError(TableBrackets, source, crerr.Wrapf(ErrMalformedRow, "line %d: min %d above max %d", row.line, minValue, maxValue))
		}
		if row.values[2] == "" {
			return nil, loadError(TableBrackets, source, crerr.Wrapf(ErrMalformedRow, "line %d: empty %s", row.line, ColumnSWOS))
		}
		stars, err := strconv.Atoi(row.values[3])
		if err != nil || stars < 0 {
			return nil, loadError(TableBrackets, source, crerr.Wrapf(ErrMalformedRow, "line %d: invalid %s %q", row.line, ColumnStars, row.values[3]))
		}

		out = append(out, Bracket{
			Group: group,
			Min:   minValue,
			Max:   maxValue,
			Value: row.values[2],
			Stars: stars,
		})
	}

	return out, nil
}

func parseMillions(raw string) (int64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if value < 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, crerr.Newf("value %q out of range", raw)
	}
	return int64(math.Round(value * bracketUnit)), nil
}

// BracketTable holds every position group's brackets sorted by Min.
type BracketTable struct {
	groups map[string][]Bracket
}

// NewBracketTable requires every group in player.AllGroups and rejects
// overlapping brackets within a group, as well as gaps wider than one
// table step between neighbours.
func NewBracketTable(groups map[string][]Bracket) (BracketTable, error) {
	out := make(map[string][]Bracket, len(groups))
	for _, group := range player.AllGroups {
		items, ok := groups[group]
		if !ok {
			return BracketTable{}, loadError(TableBrackets, group, ErrTableMissing)
		}
		if len(items) == 0 {
			return BracketTable{}, loadError(TableBrackets, group, ErrTableEmpty)
		}

		sorted := append([]Bracket(nil), items...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Min <= sorted[i-1].Max {
				return BracketTable{}, loadError(TableBrackets, group, crerr.Wrapf(
					ErrOverlap, "[%d,%d] and [%d,%d]",
					sorted[i-1].Min, sorted[i-1].Max, sorted[i].Min, sorted[i].Max,
				))
			}
			if gap := sorted[i].Min - sorted[i-1].Max; gap > bracketStep {
				return BracketTable{}, loadError(TableBrackets, group, crerr.Wrapf(
					ErrGap, "[%d,%d] and [%d,%d]",
					sorted[i-1].Min, sorted[i-1].Max, sorted[i].Min, sorted[i].Max,
				))
			}
		}
		out[group] = sorted
	}

	return BracketTable{groups: out}, nil
}

// Find returns the bracket of group containing value. A value between one
// bracket's Max and the next bracket's Min belongs to the lower bracket, so
// literal amounts such as 1.199.500 still resolve.
func (t BracketTable) Find(group string, value int64) (Bracket, bool) {
	items := t.groups[group]
	idx := sort.Search(len(items), func(i int) bool { return items[i].Min > value }) - 1
	if idx < 0 {
		return Bracket{}, false
	}
	if idx == len(items)-1 && !items[idx].Contains(value) {
		return Bracket{}, false
	}
	return items[idx], true
}

func (t BracketTable) Brackets(group string) []Bracket {
	return append([]Bracket(nil), t.groups[group]...)
}
