package lookup

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBrackets = "mv_tm_min;mv_tm_max;mv_swos;stars\n0;0.499;25K;0\n0.5;4.999;500K;2\n5;999.999;5M;4\n"

func validFS() fstest.MapFS {
	fsys := fstest.MapFS{
		NationalityFileName: {Data: []byte("nat_tm;nat_swos\nEngland;ENG\nGermany;GER\n")},
	}
	for _, group := range player.AllGroups {
		fsys[BracketFileName(group)] = &fstest.MapFile{Data: []byte(validBrackets)}
	}
	return fsys
}

func TestLoadDefault(t *testing.T) {
	tables, err := LoadDefault()
	require.NoError(t, err)

	assert.Greater(t, tables.Nationalities.Len(), 50)
	assert.Greater(t, tables.Positions.Len(), 10)
	for _, group := range player.AllGroups {
		items := tables.Brackets.Brackets(group)
		require.NotEmpty(t, items, "group %s", group)
		assert.Equal(t, int64(0), items[0].Min, "group %s must start at zero", group)
	}
}

func TestLoadDefault_BracketsNeverOverlap(t *testing.T) {
	tables, err := LoadDefault()
	require.NoError(t, err)

	for _, group := range player.AllGroups {
		items := tables.Brackets.Brackets(group)
		for i := range items {
			for j := range items {
				if i == j {
					continue
				}
				overlap := items[i].Min <= items[j].Max && items[j].Min <= items[i].Max
				assert.False(t, overlap, "group %s brackets %d and %d overlap", group, i, j)
			}
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fstest.MapFS)
		target error
	}{
		{
			name:   "missing bracket file",
			mutate: func(fsys fstest.MapFS) { delete(fsys, BracketFileName(player.GroupWinger)) },
			target: ErrTableMissing,
		},
		{
			name:   "missing nationality file",
			mutate: func(fsys fstest.MapFS) { delete(fsys, NationalityFileName) },
			target: ErrTableMissing,
		},
		{
			name: "empty bracket file",
			mutate: func(fsys fstest.MapFS) {
				fsys[BracketFileName(player.GroupGoalkeeper)] = &fstest.MapFile{Data: []byte("")}
			},
			target: ErrTableEmpty,
		},
		{
			name: "header only",
			mutate: func(fsys fstest.MapFS) {
				fsys[NationalityFileName] = &fstest.MapFile{Data: []byte("nat_tm;nat_swos\n")}
			},
			target: ErrTableEmpty,
		},
		{
			name: "missing stars column",
			mutate: func(fsys fstest.MapFS) {
				fsys[BracketFileName(player.GroupDefender)] = &fstest.MapFile{Data: []byte("mv_tm_min;mv_tm_max;mv_swos\n0;1;25K\n")}
			},
			target: ErrMissingColumn,
		},
		{
			name: "comma delimited file",
			mutate: func(fsys fstest.MapFS) {
				fsys[NationalityFileName] = &fstest.MapFile{Data: []byte("nat_tm,nat_swos\nEngland,ENG\n")}
			},
			target: ErrMissingColumn,
		},
		{
			name: "non numeric bound",
			mutate: func(fsys fstest.MapFS) {
				fsys[BracketFileName(player.GroupAttacker)] = &fstest.MapFile{Data: []byte("mv_tm_min;mv_tm_max;mv_swos;stars\nzero;1;25K;0\n")}
			},
			target: ErrMalformedRow,
		},
		{
			name: "overlapping brackets",
			mutate: func(fsys fstest.MapFS) {
				fsys[BracketFileName(player.GroupMidfielder)] = &fstest.MapFile{Data: []byte("mv_tm_min;mv_tm_max;mv_swos;stars\n0;1;25K;0\n1;2;50K;1\n")}
			},
			target: ErrOverlap,
		},
		{
			name: "gap wider than one step",
			mutate: func(fsys fstest.MapFS) {
				fsys[BracketFileName(player.GroupMidfielder)] = &fstest.MapFile{Data: []byte("mv_tm_min;mv_tm_max;mv_swos;stars\n0;1;25K;0\n1.5;2;50K;1\n")}
			},
			target: ErrGap,
		},
		{
			name: "conflicting nationality",
			mutate: func(fsys fstest.MapFS) {
				fsys[NationalityFileName] = &fstest.MapFile{Data: []byte("nat_tm;nat_swos\nEngland;ENG\nEngland;GBR\n")}
			},
			target: ErrDuplicateKey,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fsys := validFS()
			tc.mutate(fsys)

			_, err := Load(fsys)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestBracketTable_Find(t *testing.T) {
	tables, err := Load(validFS())
	require.NoError(t, err)

	tests := []struct {
		value int64
		want  string
		found bool
	}{
		{value: 0, want: "25K", found: true},
		{value: 499_000, want: "25K", found: true},
		{value: 499_500, want: "25K", found: true},
		{value: 499_999, want: "25K", found: true},
		{value: 500_000, want: "500K", found: true},
		{value: 4_999_000, want: "500K", found: true},
		{value: 5_000_000, want: "5M", found: true},
		{value: 999_999_000, want: "5M", found: true},
		{value: 1_000_000_000, found: false},
	}

	for _, tc := range tests {
		got, ok := tables.Brackets.Find(player.GroupDefender, tc.value)
		assert.Equal(t, tc.found, ok, "value %d", tc.value)
		assert.Equal(t, tc.want, got.Value, "value %d", tc.value)
	}

	_, ok := tables.Brackets.Find("X", 0)
	assert.False(t, ok)
}

func TestLoadDefault_LiteralAmountsBetweenBoundsResolve(t *testing.T) {
	tables, err := LoadDefault()
	require.NoError(t, err)

	for _, group := range player.AllGroups {
		items := tables.Brackets.Brackets(group)
		for i := 1; i < len(items); i++ {
			between := items[i-1].Max + bracketStep/2
			got, ok := tables.Brackets.Find(group, between)
			require.True(t, ok, "group %s value %d", group, between)
			assert.Equal(t, items[i-1], got, "group %s value %d", group, between)

			got, ok = tables.Brackets.Find(group, items[i].Min)
			require.True(t, ok)
			assert.Equal(t, items[i], got)
		}
	}
}

func TestParseNationalities_ExplicitEmptyTarget(t *testing.T) {
	m, err := ParseNationalities(strings.NewReader("nat_tm;nat_swos\nEngland;ENG\nAtlantis;\nEngland;ENG\n"), "inline")
	require.NoError(t, err)

	code, ok := m.Lookup("Atlantis")
	assert.True(t, ok)
	assert.Empty(t, code)

	_, ok = m.Lookup("Narnia")
	assert.False(t, ok)

	assert.Equal(t, []string{"Atlantis", "England"}, m.Names())
}

func TestNewPositionMap_RejectsUnknownTarget(t *testing.T) {
	_, err := NewPositionMap(map[string]player.PositionCategory{"Sweeper": player.PositionUnknown})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)

	_, err = NewPositionMap(nil)
	assert.ErrorIs(t, err, ErrTableEmpty)
}
