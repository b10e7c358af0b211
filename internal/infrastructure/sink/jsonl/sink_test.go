package jsonl

import (
	"bufio"
	"context"
	"os"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/swos-squad-import/internal/domain/player"
	"github.com/riskibarqy/swos-squad-import/internal/domain/playerstats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_WriteClubRecords(t *testing.T) {
	s := New(t.TempDir())
	dest := player.Destination{RunID: "run-1", Country: "England", League: "Premier League", Club: "Arsenal FC"}
	records := []player.Record{
		{
			ClubName:    "Arsenal FC",
			Name:        "Declan Rice",
			Position:    player.PositionMidfielder,
			MarketValue: 120_000_000,
			ValueParsed: true,
			ValueSWOS:   "15M",
			Stars:       "5",
			Stats: playerstats.FielderStats{
				Season: "25/26", Games: "10", Goals: "2", Assists: "3", YellowCards: "1",
				SecondYellowCards: "-", RedCards: "-", Minutes: "850",
			},
		},
		{ClubName: "Arsenal FC", Name: "Unvalued", MarketValueText: "-"},
	}

	location, err := s.WriteClubRecords(context.Background(), dest, records)
	require.NoError(t, err)

	f, err := os.Open(location)
	require.NoError(t, err)
	defer f.Close()

	var docs []Document
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var doc Document
		require.NoError(t, sonic.Unmarshal(scanner.Bytes(), &doc))
		docs = append(docs, doc)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, docs, 2)

	assert.Equal(t, "run-1", docs[0].RunID)
	require.NotNil(t, docs[0].MarketValue)
	assert.Equal(t, int64(120_000_000), *docs[0].MarketValue)
	assert.Equal(t, "fielder", docs[0].StatsSchema)
	assert.Equal(t, "3", docs[0].Stats[playerstats.FieldAssists])
	_, hasConceded := docs[0].Stats[playerstats.FieldGoalsConceded]
	assert.False(t, hasConceded)

	assert.Nil(t, docs[1].MarketValue)
	assert.Empty(t, docs[1].Stats)
}

func TestSink_StatsKeysAreSorted(t *testing.T) {
	s := New(t.TempDir())
	dest := player.Destination{RunID: "run-1", Club: "Arsenal FC"}
	records := []player.Record{{
		ClubName: "Arsenal FC",
		Name:     "David Raya",
		Position: player.PositionGoalkeeper,
		Stats: playerstats.GoalkeeperStats{
			Season: "25/26", Games: "12", Goals: "-", YellowCards: "1", SecondYellowCards: "-",
			RedCards: "-", GoalsConceded: "14", CleanSheets: "4", Minutes: "1080",
		},
	}}

	var outputs []string
	for range 5 {
		location, err := s.WriteClubRecords(context.Background(), dest, records)
		require.NoError(t, err)
		raw, err := os.ReadFile(location)
		require.NoError(t, err)
		outputs = append(outputs, string(raw))
	}

	want := `"stats":{"clean_sheets":"4","games":"12","goals":"-","goals_conceded":"14","minutes":"1080",` +
		`"red_cards":"-","season":"25/26","second_yellow_cards":"-","yellow_cards":"1"}`
	for _, out := range outputs {
		assert.Contains(t, out, want)
		assert.Equal(t, outputs[0], out)
	}
}
