package jsonl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
	"github.com/riskibarqy/swos-squad-import/internal/infrastructure/sink"
	"github.com/valyala/bytebufferpool"
)

const extension = ".jsonl"

// Sorted keys keep the stats object byte-stable between runs.
var encoder = sonic.Config{SortMapKeys: true}.Froze()

// Document is the JSON shape of one record line.
type Document struct {
	RunID   string `json:"run_id,omitempty"`
	Country string `json:"country,omitempty"`
	League  string `json:"league,omitempty"`

	Club        string `json:"club"`
	ClubURL     string `json:"club_url"`
	ScheduleURL string `json:"schedule_url,omitempty"`

	ShirtNumber string `json:"player_number"`
	Name        string `json:"player"`
	ProfileURL  string `json:"player_url"`

	NationalityTM   string `json:"nationality_tm"`
	NationalitySWOS string `json:"nationality_swos"`
	PositionTM      string `json:"position_tm"`
	PositionSWOS    string `json:"position_swos"`

	MarketValueTM string `json:"market_value_tm"`
	MarketValue   *int64 `json:"market_value"`
	ValueSWOS     string `json:"value_swos"`
	Stars         string `json:"stars"`

	StatsSchema string            `json:"stats_schema,omitempty"`
	Stats       map[string]string `json:"stats,omitempty"`
}

func NewDocument(dest player.Destination, record player.Record) Document {
	doc := Document{
		RunID:           dest.RunID,
		Country:         dest.Country,
		League:          dest.League,
		Club:            record.ClubName,
		ClubURL:         record.ClubRef,
		ScheduleURL:     record.ScheduleRef,
		ShirtNumber:     record.ShirtNumber,
		Name:            record.Name,
		ProfileURL:      record.ProfileRef,
		NationalityTM:   record.NationalityText,
		NationalitySWOS: record.Nationality,
		PositionTM:      record.PositionText,
		PositionSWOS:    string(record.Position),
		MarketValueTM:   record.MarketValueText,
		ValueSWOS:       record.ValueSWOS,
		Stars:           record.Stars,
	}
	if record.ValueParsed {
		value := record.MarketValue
		doc.MarketValue = &value
	}
	if record.Stats != nil {
		doc.StatsSchema = string(record.Stats.Schema())
		doc.Stats = playerstats.ValueMap(record.Stats)
	}
	return doc
}

// Sink writes one JSON document per line, one file per club.
type Sink struct {
	dir string
}

var _ player.Sink = (*Sink)(nil)

func New(dir string) *Sink {
	return &Sink{dir: dir}
}

func (s *Sink) WriteClubRecords(ctx context.Context, dest player.Destination, records []player.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, record := range records {
		line, err := encoder.Marshal(NewDocument(dest, record))
		if err != nil {
			return "", fmt.Errorf("encode record for %s: %w", record.Name, err)
		}
		_, _ = buf.Write(line)
		_ = buf.WriteByte('\n')
	}

	path := sink.FilePath(s.dir, dest, extension)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create jsonl directory: %w", err)
	}
	if err := os.WriteFile(path, buf.B, 0o644); err != nil {
		return "", fmt.Errorf("write jsonl file: %w", err)
	}
	return path, nil
}
