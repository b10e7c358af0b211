package pipeline

import (
	"fmt"
	"strconv"

	"github.com/riskibarqy/swos-squad-import/internal/domain/club"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/normalize"
	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
	"github.com/riskibarqy/swos-squad-import/internal/seasonstats"
)

// Field names reported to a MatchObserver.
const (
	FieldPosition    = "position"
	FieldNationality = "nationality"
	FieldMarketValue = "market_value"
)

// MatchObserver is notified once per field that could not be mapped.
type MatchObserver interface {
	ObserveNoMatch(field string)
}

type nopObserver struct{}

func (nopObserver) ObserveNoMatch(string) {}

type Builder struct {
	normalizer *normalize.Normalizer
	resolver   *seasonstats.Resolver
	logger     *logging.Logger
	observer   MatchObserver
}

type Option func(*Builder)

func WithLogger(logger *logging.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithObserver(observer MatchObserver) Option {
	return func(b *Builder) {
		if observer != nil {
			b.observer = observer
		}
	}
}

func NewBuilder(normalizer *normalize.Normalizer, resolver *seasonstats.Resolver, opts ...Option) *Builder {
	b := &Builder{
		normalizer: normalizer,
		resolver:   resolver,
		logger:     logging.Default(),
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles one record. Unmapped fields stay empty (or Unknown for the
// position); only a row without a name is rejected.
func (b *Builder) Build(row player.RawRow, clubCtx club.Context) (player.Record, error) {
	if err := row.Validate(); err != nil {
		return player.Record{}, fmt.Errorf("build record for club %s: %w", clubCtx.Name, err)
	}

	record := player.Record{
		ClubName:        clubCtx.Name,
		ClubRef:         clubCtx.Ref,
		ScheduleRef:     clubCtx.ScheduleRef,
		ShirtNumber:     row.ShirtNumber,
		Name:            row.Name,
		ProfileRef:      row.ProfileRef,
		PositionText:    row.PositionText,
		NationalityText: row.NationalityText,
		MarketValueText: row.MarketValueText,
	}

	record.Position = b.normalizer.Position(row.PositionText)
	if record.Position == player.PositionUnknown {
		b.noMatch(row, FieldPosition, row.PositionText)
	}

	if code, ok := b.normalizer.Nationality(row.NationalityText); ok {
		record.Nationality = code
	} else {
		args := []any{}
		if suggestion, ok := b.normalizer.SuggestNationality(row.NationalityText); ok {
			args = append(args, "suggestion", suggestion)
		}
		b.noMatch(row, FieldNationality, row.NationalityText, args...)
	}

	b.value(&record, row)
	record.Stats = b.resolver.Resolve(record.Position, row.Season)

	return record, nil
}

func (b *Builder) value(record *player.Record, row player.RawRow) {
	amount, err := normalize.ParseMarketValue(row.MarketValueText)
	if err != nil {
		b.noMatch(row, FieldMarketValue, row.MarketValueText, "error", err)
		return
	}
	record.MarketValue = amount
	record.ValueParsed = true

	valuation, ok := b.normalizer.Bucketize(amount, record.Position)
	if !ok {
		b.noMatch(row, FieldMarketValue, row.MarketValueText, "amount", amount, "position", string(record.Position))
		return
	}
	record.ValueSWOS = valuation.Value
	record.Stars = strconv.Itoa(valuation.Stars)
}

func (b *Builder) noMatch(row player.RawRow, field, value string, extra ...any) {
	b.observer.ObserveNoMatch(field)
	args := append([]any{"field", field, "value", value, "player", row.Name}, extra...)
	b.logger.Warn("no lookup match", args...)
}
