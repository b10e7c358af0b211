package lookup

import (
	"io"
	"sort"

	crerr "github.com/cockroachdb/errors"
)

const (
	TableNationalities = "nationalities"

	ColumnSourceNation = "nat_tm"
	ColumnSWOSNation   = "nat_swos"
)

// NationalityMap maps source country names to SWOS nationality codes. An
// entry may map to an empty code; that is still a match.
type NationalityMap struct {
	entries map[string]string
}

func ParseNationalities(r io.Reader, source string) (NationalityMap, error) {
	rows, err := readTable(r, ColumnSourceNation, ColumnSWOSNation)
	if err != nil {
		return NationalityMap{}, loadError(TableNationalities, source, err)
	}

	entries := make(map[string]string, len(rows))
	for _, row := range rows {
		name, code := row.values[0], row.values[1]
		if name == "" {
			return NationalityMap{}, loadError(TableNationalities, source, crerr.Wrapf(ErrMalformedRow, "line %d: empty %s", row.line, ColumnSourceNation))
		}
		if existing, ok := entries[name]; ok && existing != code {
			return NationalityMap{}, loadError(TableNationalities, source, crerr.Wrapf(
				ErrDuplicateKey, "line %d: %q maps to both %q and %q", row.line, name, existing, code,
			))
		}
		entries[name] = code
	}

	return NationalityMap{entries: entries}, nil
}

func (m NationalityMap) Lookup(name string) (string, bool) {
	code, ok := m.entries[name]
	return code, ok
}

// Names returns the source keys in sorted order.
func (m NationalityMap) Names() []string {
	out := make([]string, 0, len(m.entries))
	for name := range m.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (m NationalityMap) Len() int {
	return len(m.entries)
}
