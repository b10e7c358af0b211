package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	qb "github.com/riskibarqy/swos-squad-import/internal/platform/querybuilder"
)

// Sink replaces a club's current squad rows in one transaction. Previous
// rows are soft deleted so earlier runs stay queryable by run_id.
type Sink struct {
	db *sqlx.DB
}

var _ player.Sink = (*Sink)(nil)

func New(db *sqlx.DB) *Sink {
	return &Sink{db: db}
}

func (s *Sink) WriteClubRecords(ctx context.Context, dest player.Destination, records []player.Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no records for club %s", dest.Club)
	}
	clubURL := records[0].ClubRef

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx replace squad: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := clearSquadQuery(clubURL)
	if err != nil {
		return "", fmt.Errorf("build clear squad query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return "", fmt.Errorf("clear squad club=%s: %w", clubURL, err)
	}

	insertQuery, insertArgs, err := insertSquadQuery(dest, records)
	if err != nil {
		return "", fmt.Errorf("build insert squad query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return "", fmt.Errorf("insert squad club=%s rows=%d: %w", clubURL, len(records), err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit replace squad tx: %w", err)
	}
	return fmt.Sprintf("postgres:%s?club_url=%s&run_id=%s", squadPlayersTable, clubURL, dest.RunID), nil
}

func clearSquadQuery(clubURL string) (string, []any, error) {
	return qb.Update(squadPlayersTable).
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("club_url", clubURL),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
}

func insertSquadQuery(dest player.Destination, records []player.Record) (string, []any, error) {
	models := make([]squadPlayerInsertModel, 0, len(records))
	for i, record := range records {
		model, err := toInsertModel(dest, i, record)
		if err != nil {
			return "", nil, err
		}
		models = append(models, model)
	}
	return qb.InsertModels(squadPlayersTable, models, "")
}
