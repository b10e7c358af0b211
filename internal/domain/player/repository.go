package player

import "context"

// Destination routes one club's records inside a sink.
type Destination struct {
	RunID   string
	Country string
	League  string
	Club    string
}

// Sink persists normalized records.
type Sink interface {
	WriteClubRecords(ctx context.Context, dest Destination, records []Record) (string, error)
}
