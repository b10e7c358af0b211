package pipeline

import (
	"fmt"

	"github.com/riskibarqy/swos-squad-import/internal/domain/club"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
)

// RowError is a player row that produced no record.
type RowError struct {
	Index  int
	Player string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Index, e.Player, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

type Aggregator struct {
	builder *Builder
}

func NewAggregator(builder *Builder) *Aggregator {
	return &Aggregator{builder: builder}
}

// Process builds records in row order. A failing row is reported and
// skipped; it never discards its siblings.
func (a *Aggregator) Process(rows []player.RawRow, clubCtx club.Context) ([]player.Record, []RowError) {
	records := make([]player.Record, 0, len(rows))
	var failures []RowError
	for i, row := range rows {
		record, err := a.builder.Build(row, clubCtx)
		if err != nil {
			failures = append(failures, RowError{Index: i, Player: row.Name, Err: err})
			continue
		}
		records = append(records, record)
	}
	return records, failures
}
