package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/stats"
)

func game(ts int64, class models.Class, turn models.Turn, result models.Result) models.Game {
	return models.Game{
		ID:            "g" + string(rune('a'+ts%26)),
		Timestamp:     ts,
		OpponentClass: class,
		Turn:          turn,
		Result:        result,
	}
}

func results(rs ...models.Result) []models.Game {
	games := make([]models.Game, len(rs))
	for i, r := range rs {
		games[i] = game(int64(i+1)*100, models.ClassDragon, models.TurnFirst, r)
	}
	return games
}

const (
	W = models.ResultWin
	L = models.ResultLoss
)

func TestAggregate_Empty(t *testing.T) {
	s := stats.Aggregate([]models.Game{})

	assert.Zero(t, s.Total)
	assert.Zero(t, s.Wins)
	assert.Zero(t, s.LongestStreak)
	assert.Len(t, s.OpponentDistribution, len(models.Classes))
	for _, c := range models.Classes {
		assert.Zero(t, s.OpponentDistribution[c])
	}
}

func TestAggregate_Counts(t *testing.T) {
	games := []models.Game{
		game(100, models.ClassDragon, models.TurnFirst, W),
		game(200, models.ClassDragon, models.TurnSecond, L),
		game(300, models.ClassRune, models.TurnFirst, W),
	}

	s := stats.Aggregate(games)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 2, s.FirstTurnTotal)
	assert.Equal(t, 2, s.FirstTurnWins)
	assert.Equal(t, 1, s.SecondTurnTotal)
	assert.Equal(t, 0, s.SecondTurnWins)
	assert.Equal(t, 2, s.OpponentDistribution[models.ClassDragon])
	assert.Equal(t, 1, s.OpponentDistribution[models.ClassRune])
	assert.Equal(t, 0, s.OpponentDistribution[models.ClassHaven])
	assert.Equal(t, stats.Record{Wins: 1, Total: 2}, s.WinLossByOpponent[models.ClassDragon])
	assert.Equal(t, stats.Record{Wins: 1, Total: 1}, s.WinLossByOpponent[models.ClassRune])
}

func TestAggregate_MissingFields(t *testing.T) {
	games := []models.Game{
		{ID: "x", Timestamp: 1},
		{ID: "y", Timestamp: 2, OpponentClass: "Goblin", Result: W},
	}

	s := stats.Aggregate(games)

	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Losses, "missing result counts as a loss")
	assert.Equal(t, 0, s.FirstTurnTotal+s.SecondTurnTotal)
	total := 0
	for _, n := range s.OpponentDistribution {
		total += n
	}
	assert.Zero(t, total, "unknown classes get no bucket")
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		games []models.Game
		want  int
	}{
		{"mixed", results(W, W, L, W, W, W), 3},
		{"all losses", results(L, L, L), 0},
		{"all wins", results(W, W, W, W, W), 5},
		{"streak at start", results(W, W, W, L, W), 3},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.LongestStreak(tt.games))
		})
	}
}

func TestLongestStreak_UsesChronologicalOrder(t *testing.T) {
	chronological := results(W, W, L, W, W, W)
	reversed := make([]models.Game, len(chronological))
	for i, g := range chronological {
		reversed[len(chronological)-1-i] = g
	}

	assert.Equal(t, 3, stats.LongestStreak(reversed))
	assert.Equal(t, int64(600), reversed[0].Timestamp, "input is not reordered")
}

func TestAggregate_SourcedGames(t *testing.T) {
	games := []models.SourcedGame{
		{Game: game(1, models.ClassSword, models.TurnFirst, W), SourceDeckID: "a"},
		{Game: game(2, models.ClassSword, models.TurnSecond, W), SourceDeckID: "b"},
	}

	s := stats.Aggregate(games)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 2, s.LongestStreak)
}
