package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/riskibarqy/swos-squad-import/internal/usecase"
)

func renderSummary(w io.Writer, result usecase.ImportLeagueResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("%s (run %s)", summaryLeague(result), result.RunID))
	t.AppendHeader(table.Row{"#", "Club", "Status", "Players", "Skipped", "Time", "Output"})

	for _, club := range result.Clubs {
		t.AppendRow(table.Row{
			club.Order + 1,
			club.ClubName,
			club.Status,
			club.Players,
			club.FailedPlayers,
			fmt.Sprintf("%dms", club.DurationMs),
			summaryOutput(club),
		})
	}

	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d clubs", result.ClubCount),
		fmt.Sprintf("%d ok / %d failed", result.SuccessCount, result.FailedCount),
		result.PlayerCount,
		result.FailedPlayers,
		"",
		"",
	})
	t.Render()

	if len(result.NoMatches) > 0 {
		renderNoMatches(w, result.NoMatches)
	}
}

// renderNoMatches lists fields that fell back to their NoMatch value.
func renderNoMatches(w io.Writer, counts map[string]int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("lookup misses")
	t.AppendHeader(table.Row{"Field", "NoMatch"})

	total := 0
	for _, field := range slices.Sorted(maps.Keys(counts)) {
		t.AppendRow(table.Row{field, counts[field]})
		total += counts[field]
	}
	t.AppendFooter(table.Row{"total", total})
	t.Render()
}

func summaryLeague(result usecase.ImportLeagueResult) string {
	if result.League == "" {
		return "import"
	}
	if result.Country == "" {
		return result.League
	}
	return result.Country + " / " + result.League
}

func summaryOutput(club usecase.ClubImportResult) string {
	if len(club.Locations) > 0 {
		return strings.Join(club.Locations, "\n")
	}
	return club.Message
}
