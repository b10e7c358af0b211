package playerstats

// Sentinel marks a statistic that is not available for the current season.
const Sentinel = "-"

// Schema names the field layout of a SeasonStats value.
type Schema string

const (
	SchemaGoalkeeper Schema = "goalkeeper"
	SchemaFielder    Schema = "fielder"
)

// Field names shared by both schemas. The order of Fields() follows the
// source statistics table, not this list.
const (
	FieldSeason            = "season"
	FieldGames             = "games"
	FieldGoals             = "goals"
	FieldAssists           = "assists"
	FieldYellowCards       = "yellow_cards"
	FieldSecondYellowCards = "second_yellow_cards"
	FieldRedCards          = "red_cards"
	FieldGoalsConceded     = "goals_conceded"
	FieldCleanSheets       = "clean_sheets"
	FieldMinutes           = "minutes"
)

// AllFields is the union of goalkeeper and fielder columns in export order.
var AllFields = []string{
	FieldSeason,
	FieldGames,
	FieldGoals,
	FieldAssists,
	FieldYellowCards,
	FieldSecondYellowCards,
	FieldRedCards,
	FieldGoalsConceded,
	FieldCleanSheets,
	FieldMinutes,
}

// SeasonCells is the raw statistics payload isolated by the source provider.
// Cells holds the current-season row only; it is empty when the current
// season is not among SeasonsReported.
type SeasonCells struct {
	SeasonsReported []string
	Cells           []string
}

// NamedValue is one resolved statistic.
type NamedValue struct {
	Name  string
	Value string
}

// SeasonStats is either GoalkeeperStats or FielderStats.
type SeasonStats interface {
	Schema() Schema
	Fields() []NamedValue
}

type GoalkeeperStats struct {
	Season            string
	Games             string
	Goals             string
	YellowCards       string
	SecondYellowCards string
	RedCards          string
	GoalsConceded     string
	CleanSheets       string
	Minutes           string
}

func (GoalkeeperStats) Schema() Schema { return SchemaGoalkeeper }

func (s GoalkeeperStats) Fields() []NamedValue {
	return []NamedValue{
		{Name: FieldSeason, Value: s.Season},
		{Name: FieldGames, Value: s.Games},
		{Name: FieldGoals, Value: s.Goals},
		{Name: FieldYellowCards, Value: s.YellowCards},
		{Name: FieldSecondYellowCards, Value: s.SecondYellowCards},
		{Name: FieldRedCards, Value: s.RedCards},
		{Name: FieldGoalsConceded, Value: s.GoalsConceded},
		{Name: FieldCleanSheets, Value: s.CleanSheets},
		{Name: FieldMinutes, Value: s.Minutes},
	}
}

type FielderStats struct {
	Season            string
	Games             string
	Goals             string
	Assists           string
	YellowCards       string
	SecondYellowCards string
	RedCards          string
	Minutes           string
}

func (FielderStats) Schema() Schema { return SchemaFielder }

func (s FielderStats) Fields() []NamedValue {
	return []NamedValue{
		{Name: FieldSeason, Value: s.Season},
		{Name: FieldGames, Value: s.Games},
		{Name: FieldGoals, Value: s.Goals},
		{Name: FieldAssists, Value: s.Assists},
		{Name: FieldYellowCards, Value: s.YellowCards},
		{Name: FieldSecondYellowCards, Value: s.SecondYellowCards},
		{Name: FieldRedCards, Value: s.RedCards},
		{Name: FieldMinutes, Value: s.Minutes},
	}
}

// ValueMap indexes the resolved fields by name. Fields outside the schema
// are absent from the map.
func ValueMap(stats SeasonStats) map[string]string {
	if stats == nil {
		return map[string]string{}
	}
	fields := stats.Fields()
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Value
	}
	return out
}
