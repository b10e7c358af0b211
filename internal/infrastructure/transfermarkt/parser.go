package transfermarkt

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/swos-squad-import/internal/domain/club"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
)

const (
	goalkeeperCells = 9
	fielderCells    = 8
)

func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// parseLeagueClubs returns the club links of a league overview page in page
// order. The overview lists every club once in its own hauptlink cell.
func parseLeagueClubs(doc *goquery.Document) []club.Link {
	var links []club.Link
	seen := map[string]struct{}{}
	doc.Find("td.hauptlink.no-border-links").Each(func(_ int, cell *goquery.Selection) {
		anchor := cell.Find("a[href]").First()
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, club.Link{Name: cleanText(cell.Text()), Ref: href})
	})
	return links
}

func parseClubName(doc *goquery.Document) string {
	return cleanText(doc.Find("h1").First().Text())
}

// parseRosterRows isolates the raw fields of every squad row. Hrefs are
// returned as found on the page.
func parseRosterRows(doc *goquery.Document) []player.RawRow {
	var rows []player.RawRow
	doc.Find("table.items > tbody > tr.odd, table.items > tbody > tr.even").Each(func(_ int, tr *goquery.Selection) {
		nameCell := tr.Find("td.hauptlink").Not(".rechts").First()
		profile, _ := nameCell.Find("a[href]").First().Attr("href")

		rows = append(rows, player.RawRow{
			ShirtNumber:     cleanText(tr.Find("div.rn_nummer").First().Text()),
			Name:            cleanText(nameCell.Text()),
			ProfileRef:      strings.TrimSpace(profile),
			MarketValueText: cleanText(tr.Find("td.rechts.hauptlink").First().Text()),
			PositionText:    cleanText(tr.Find("table.inline-table tr").Eq(1).Find("td").First().Text()),
			NationalityText: strings.TrimSpace(tr.Find("img.flaggenrahmen").First().AttrOr("title", "")),
		})
	})
	return rows
}

// parseSeasonCells reads a player performance table. The first cell of each
// row is its season label; logo-only cells (competition, club) are dropped.
// The returned cells belong to the first row labelled currentSeason.
func parseSeasonCells(doc *goquery.Document, currentSeason string, category player.PositionCategory) playerstats.SeasonCells {
	var out playerstats.SeasonCells
	doc.Find("table.items > tbody > tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Children().Filter("td").Each(func(_ int, td *goquery.Selection) {
			text := cleanText(td.Text())
			if text == "" && td.Find("img").Length() > 0 {
				return
			}
			cells = append(cells, text)
		})
		if len(cells) == 0 || cells[0] == "" {
			return
		}

		out.SeasonsReported = append(out.SeasonsReported, cells[0])
		if out.Cells == nil && cells[0] == currentSeason {
			out.Cells = alignCells(cells, category)
		}
	})
	return out
}

// alignCells fits a row to the schema width while keeping minutes, which is
// always the last column of the table, in the last schema slot. Extra
// columns are dropped and missing ones are left empty.
func alignCells(cells []string, category player.PositionCategory) []string {
	width := fielderCells
	if category.IsGoalkeeper() {
		width = goalkeeperCells
	}
	if len(cells) == width {
		return cells
	}
	aligned := make([]string, width)
	if len(cells) < 2 {
		copy(aligned, cells)
		return aligned
	}
	copy(aligned[:width-1], cells[:min(len(cells)-1, width-1)])
	aligned[width-1] = cells[len(cells)-1]
	return aligned
}

// cleanText collapses whitespace, including non-breaking spaces, and drops
// control characters.
func cleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
