package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/infrastructure/sink"
)

const extension = ".csv"

// Sink writes one CSV file per club under dir/<country>/<league>/.
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

	path := sink.FilePath(s.dir, dest, extension)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create csv directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".club-*.csv")
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(sink.Header); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		if err := w.Write(sink.Row(record)); err != nil {
			tmp.Close()
			return "", fmt.Errorf("write csv row for %s: %w", record.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close csv file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move csv into place: %w", err)
	}
	return path, nil
}
