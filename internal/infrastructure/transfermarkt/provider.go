package transfermarkt

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/swos-squad-import/internal/domain/club"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
	"github.com/riskibarqy/swos-squad-import/internal/platform/logging"
)

type ProviderConfig struct {
	// CurrentSeason is the season label used on performance pages, e.g. "25/26".
	CurrentSeason string
	// SeasonYear is the saison_id appended to schedule links.
	SeasonYear int
}

// Provider implements club.Provider on top of the site's HTML pages.
type Provider struct {
	client *Client
	cfg    ProviderConfig
	logger *logging.Logger
}

var _ club.Provider = (*Provider)(nil)

func NewProvider(client *Client, cfg ProviderConfig, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.Default()
	}
	return &Provider{client: client, cfg: cfg, logger: logger}
}

func (p *Provider) FetchLeague(ctx context.Context, leagueRef string) (club.League, error) {
	body, err := p.client.Page(ctx, leagueRef)
	if err != nil {
		return club.League{}, err
	}
	doc, err := parseDocument(body)
	if err != nil {
		return club.League{}, crerr.Wrapf(club.ErrSourceUnavailable, "league %s: %v", leagueRef, err)
	}

	league := club.League{Name: LeagueNameFromURL(leagueRef), Ref: leagueRef}
	for _, link := range parseLeagueClubs(doc) {
		ref, err := p.client.Resolve(link.Ref)
		if err != nil {
			p.logger.WarnContext(ctx, "skip club link", "club", link.Name, "href", link.Ref, "error", err)
			continue
		}
		league.Clubs = append(league.Clubs, club.Link{Name: link.Name, Ref: ref})
	}
	return league, nil
}

func (p *Provider) FetchClubRoster(ctx context.Context, clubRef string) (club.Roster, error) {
	body, err := p.client.Page(ctx, clubRef)
	if err != nil {
		return club.Roster{}, err
	}
	doc, err := parseDocument(body)
	if err != nil {
		return club.Roster{}, crerr.Wrapf(club.ErrSourceUnavailable, "club %s: %v", clubRef, err)
	}

	clubURL, err := p.client.Resolve(clubRef)
	if err != nil {
		return club.Roster{}, crerr.Wrapf(club.ErrSourceUnavailable, "club %s: %v", clubRef, err)
	}
	roster := club.Roster{
		Club: club.Context{
			Name:        parseClubName(doc),
			Ref:         clubURL,
			ScheduleRef: ScheduleURL(clubURL, p.cfg.SeasonYear),
		},
	}

	for _, row := range parseRosterRows(doc) {
		if row.ProfileRef != "" {
			if profile, err := p.client.Resolve(row.ProfileRef); err == nil {
				row.ProfileRef = profile
				row.StatsRef = StatsURL(profile)
			}
		}
		roster.Rows = append(roster.Rows, row)
	}
	return roster, nil
}

func (p *Provider) FetchSeasonCells(ctx context.Context, statsRef string, category player.PositionCategory) (playerstats.SeasonCells, error) {
	body, err := p.client.Page(ctx, statsRef)
	if err != nil {
		return playerstats.SeasonCells{}, err
	}
	doc, err := parseDocument(body)
	if err != nil {
		return playerstats.SeasonCells{}, crerr.Wrapf(club.ErrSourceUnavailable, "stats %s: %v", statsRef, err)
	}
	return parseSeasonCells(doc, p.cfg.CurrentSeason, category), nil
}

// LeagueNameFromURL derives a display name from the first path segment:
// ".../premier-league/startseite/wettbewerb/GB1" -> "Premier League".
func LeagueNameFromURL(leagueURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(leagueURL))
	if err != nil {
		return ""
	}
	segment, _, _ := strings.Cut(strings.Trim(parsed.Path, "/"), "/")
	words := strings.Fields(strings.ReplaceAll(segment, "-", " "))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ScheduleURL points a club overview URL at its fixtures page for year.
func ScheduleURL(clubURL string, year int) string {
	if clubURL == "" {
		return ""
	}
	schedule := strings.Replace(clubURL, "/startseite/", "/spielplan/", 1)
	if year <= 0 {
		return schedule
	}
	return fmt.Sprintf("%s/saison_id/%s", strings.TrimRight(schedule, "/"), strconv.Itoa(year))
}

// StatsURL maps a player profile URL to the performance data page.
func StatsURL(profileURL string) string {
	return strings.Replace(profileURL, "/profil/", "/leistungsdaten/", 1)
}
