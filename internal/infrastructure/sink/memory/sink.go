package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
)

// Sink keeps records in process. It backs dry runs and tests.
type Sink struct {
	mu    sync.RWMutex
	clubs map[player.Destination][]player.Record
	order []player.Destination
}

var _ player.Sink = (*Sink)(nil)

func New() *Sink {
	return &Sink{clubs: make(map[player.Destination][]player.Record)}
}

func (s *Sink) WriteClubRecords(_ context.Context, dest player.Destination, records []player.Record) (string, error) {
	copied := append([]player.Record(nil), records...)

	s.mu.Lock()
	if _, ok := s.clubs[dest]; !ok {
		s.order = append(s.order, dest)
	}
	s.clubs[dest] = copied
	s.mu.Unlock()

	return fmt.Sprintf("memory://%s/%s/%s", dest.Country, dest.League, dest.Club), nil
}

func (s *Sink) Records(dest player.Destination) []player.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]player.Record(nil), s.clubs[dest]...)
}

// Destinations lists every destination in first-write order.
func (s *Sink) Destinations() []player.Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]player.Destination(nil), s.order...)
}
