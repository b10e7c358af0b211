package postgres

import (
	"database/sql"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
)

const squadPlayersTable = "squad_players"

type squadPlayerInsertModel struct {
	RunID           string        `db:"run_id"`
	Country         string        `db:"country"`
	League          string        `db:"league"`
	ClubName        string        `db:"club_name"`
	ClubURL         string        `db:"club_url"`
	ScheduleURL     string        `db:"schedule_url"`
	RowIndex        int           `db:"row_index"`
	ShirtNumber     string        `db:"shirt_number"`
	Name            string        `db:"name"`
	ProfileURL      string        `db:"profile_url"`
	NationalityTM   string        `db:"nationality_tm"`
	NationalitySWOS string        `db:"nationality_swos"`
	PositionTM      string        `db:"position_tm"`
	PositionSWOS    string        `db:"position_swos"`
	MarketValueTM   string        `db:"market_value_tm"`
	MarketValue     sql.NullInt64 `db:"market_value"`
	ValueSWOS       string        `db:"value_swos"`
	Stars           string        `db:"stars"`
	StatsSchema     string        `db:"stats_schema"`
	Stats           string        `db:"stats"`
}

func toInsertModel(dest player.Destination, index int, record player.Record) (squadPlayerInsertModel, error) {
	model := squadPlayerInsertModel{
		RunID:           dest.RunID,
		Country:         dest.Country,
		League:          dest.League,
		ClubName:        record.ClubName,
		ClubURL:         record.ClubRef,
		ScheduleURL:     record.ScheduleRef,
		RowIndex:        index,
		ShirtNumber:     record.ShirtNumber,
		Name:            record.Name,
		ProfileURL:      record.ProfileRef,
		NationalityTM:   record.NationalityText,
		NationalitySWOS: record.Nationality,
		PositionTM:      record.PositionText,
		PositionSWOS:    string(record.Position),
		MarketValueTM:   record.MarketValueText,
		MarketValue:     sql.NullInt64{Int64: record.MarketValue, Valid: record.ValueParsed},
		ValueSWOS:       record.ValueSWOS,
		Stars:           record.Stars,
		Stats:           "{}",
	}

	if record.Stats != nil {
		stats, err := sonic.MarshalString(playerstats.ValueMap(record.Stats))
		if err != nil {
			return squadPlayerInsertModel{}, fmt.Errorf("encode stats for %s: %w", record.Name, err)
		}
		model.StatsSchema = string(record.Stats.Schema())
		model.Stats = stats
	}
	return model, nil
}
