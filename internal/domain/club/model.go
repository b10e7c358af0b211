package club

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
)

// ErrSourceUnavailable marks a failed fetch of a league, club or player page.
var ErrSourceUnavailable = errors.New("source unavailable")

// Context is the club metadata copied into every player record.
type Context struct {
	Name        string
	Ref         string
	ScheduleRef string
}

func (c Context) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("club name is required")
	}
	if c.Ref == "" {
		return fmt.Errorf("club ref is required")
	}
	return nil
}

// Link is one club entry on a league overview page.
type Link struct {
	Name string
	Ref  string
}

// League is a league overview page with its clubs in page order.
type League struct {
	Name  string
	Ref   string
	Clubs []Link
}

// Roster is a club page reduced to its context and player rows.
type Roster struct {
	Club Context
	Rows []player.RawRow
}
