package lookup

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
)

//go:embed data/*.csv
var embedded embed.FS

const NationalityFileName = "nat.csv"

// BracketFileName returns the file holding a group's brackets, e.g.
// "LW/RW" -> "mv_LW_RW.csv".
func BracketFileName(group string) string {
	return "mv_" + strings.ReplaceAll(group, "/", "_") + ".csv"
}

// Tables bundles the three lookup tables. It is read-only after Load and
// safe to share between goroutines.
type Tables struct {
	Positions     PositionMap
	Brackets      BracketTable
	Nationalities NationalityMap
}

// Load reads bracket and nationality files from fsys. Every error is a
// *LoadError.
func Load(fsys fs.FS) (*Tables, error) {
	groups := make(map[string][]Bracket, len(player.AllGroups))
	for _, group := range player.AllGroups {
		name := BracketFileName(group)
		f, err := fsys.Open(name)
		if err != nil {
			return nil, openError(TableBrackets, name, err)
		}
		items, err := ParseBrackets(group, f, name)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		groups[group] = items
	}

	brackets, err := NewBracketTable(groups)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(NationalityFileName)
	if err != nil {
		return nil, openError(TableNationalities, NationalityFileName, err)
	}
	defer f.Close()

	nationalities, err := ParseNationalities(f, NationalityFileName)
	if err != nil {
		return nil, err
	}

	return &Tables{
		Positions:     DefaultPositionMap(),
		Brackets:      brackets,
		Nationalities: nationalities,
	}, nil
}

// LoadDefault loads the tables compiled into the binary.
func LoadDefault() (*Tables, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, loadError("embedded", "data", err)
	}
	return Load(sub)
}

// LoadDir loads tables from a directory; an empty dir selects the embedded set.
func LoadDir(dir string) (*Tables, error) {
	if strings.TrimSpace(dir) == "" {
		return LoadDefault()
	}
	return Load(os.DirFS(dir))
}

func openError(table, source string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return loadError(table, source, ErrTableMissing)
	}
	return loadError(table, source, err)
}
