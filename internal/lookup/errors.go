package lookup

import (
	"errors"
	"fmt"
)

var (
	ErrTableMissing  = errors.New("table missing")
	ErrTableEmpty    = errors.New("table empty")
	ErrMissingColumn = errors.New("missing column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrOverlap       = errors.New("overlapping brackets")
	ErrGap           = errors.New("gap between brackets")
	ErrDuplicateKey  = errors.New("duplicate key")
)

// LoadError reports a lookup table that cannot be used. It is fatal: no
// record can be normalized without the tables.
type LoadError struct {
	Table  string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load lookup table %s (%s): %v", e.Table, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(table, source string, err error) error {
	return &LoadError{Table: table, Source: source, Err: err}
}
