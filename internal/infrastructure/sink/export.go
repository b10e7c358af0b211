// Package sink holds the flat export layout shared by the file sinks.
package sink

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
)

const (
	ColumnClub            = "club"
	ColumnClubURL         = "club_url"
	ColumnSchedule        = "schedule"
	ColumnPlayerNumber    = "player_number"
	ColumnPlayer          = "player"
	ColumnPlayerURL       = "player_url"
	ColumnNationalityTM   = "nationality_tm"
	ColumnNationalitySWOS = "nationality_swos"
	ColumnPositionTM      = "position_tm"
	ColumnPositionSWOS    = "position_swos"
	ColumnMarketValueTM   = "market_value_tm"
	ColumnMarketValue     = "market_value"
	ColumnValueSWOS       = "value_swos"
	ColumnStars           = "stars"
	ColumnStatsSchema     = "stats_schema"
)

// Header is the union of record and statistics columns. Statistics a schema
// does not carry are written as empty cells.
var Header = append([]string{
	ColumnClub,
	ColumnClubURL,
	ColumnSchedule,
	ColumnPlayerNumber,
	ColumnPlayer,
	ColumnPlayerURL,
	ColumnNationalityTM,
	ColumnNationalitySWOS,
	ColumnPositionTM,
	ColumnPositionSWOS,
	ColumnMarketValueTM,
	ColumnMarketValue,
	ColumnValueSWOS,
	ColumnStars,
	ColumnStatsSchema,
}, playerstats.AllFields...)

// Row flattens a record in Header order.
func Row(record player.Record) []string {
	marketValue := ""
	if record.ValueParsed {
		marketValue = strconv.FormatInt(record.MarketValue, 10)
	}
	schema := ""
	if record.Stats != nil {
		schema = string(record.Stats.Schema())
	}

	row := []string{
		record.ClubName,
		record.ClubRef,
		record.ScheduleRef,
		record.ShirtNumber,
		record.Name,
		record.ProfileRef,
		record.NationalityText,
		record.Nationality,
		record.PositionText,
		string(record.Position),
		record.MarketValueText,
		marketValue,
		record.ValueSWOS,
		record.Stars,
		schema,
	}

	stats := playerstats.ValueMap(record.Stats)
	for _, field := range playerstats.AllFields {
		row = append(row, stats[field])
	}
	return row
}

// FilePath returns <dir>/<country>/<league>/<club><ext>.
func FilePath(dir string, dest player.Destination, ext string) string {
	return filepath.Join(dir, PathSegment(dest.Country), PathSegment(dest.League), PathSegment(dest.Club)+ext)
}

var segmentReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "..", "-")

// PathSegment makes name safe as a single path element.
func PathSegment(name string) string {
	name = strings.TrimSpace(segmentReplacer.Replace(name))
	if name == "" || name == "." {
		return "unknown"
	}
	return name
}
