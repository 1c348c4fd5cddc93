// Package stats turns logged games and runs into the numbers shown on a
// deck's stats view: headline win rates, the opponent breakdown, streaks
// and paginated history.
package stats

import (
	"slices"

	"github.com/vytor/matchlog/internal/models"
)

// Timestamped is anything positioned in time by an epoch-millisecond stamp.
type Timestamped interface {
	Millis() int64
}

// GameRecord is satisfied by models.Game and models.SourcedGame.
type GameRecord interface {
	Timestamped
	Record() models.Game
}

// Record is a win count out of a total.
type Record struct {
	Wins  int `json:"wins"`
	Total int `json:"total"`
}

// Summary holds the counters for one population of games.
type Summary struct {
	Total           int `json:"total"`
	Wins            int `json:"wins"`
	Losses          int `json:"losses"`
	FirstTurnTotal  int `json:"firstTurnTotal"`
	FirstTurnWins   int `json:"firstTurnWins"`
	SecondTurnTotal int `json:"secondTurnTotal"`
	SecondTurnWins  int `json:"secondTurnWins"`
	LongestStreak   int `json:"longestStreak"`

	OpponentDistribution map[models.Class]int    `json:"opponentDistribution"`
	WinLossByOpponent    map[models.Class]Record `json:"winLossByOpponent"`
}

func newSummary() Summary {
	s := Summary{
		OpponentDistribution: make(map[models.Class]int, len(models.Classes)),
		WinLossByOpponent:    make(map[models.Class]Record, len(models.Classes)),
	}
	for _, c := range models.Classes {
		s.OpponentDistribution[c] = 0
		s.WinLossByOpponent[c] = Record{}
	}
	return s
}

// Aggregate counts games in one pass and computes the longest win streak
// over a chronological copy. Games with an unrecognized result count as
// losses; games with an unrecognized opponent class are left out of the
// per-class maps.
func Aggregate[T GameRecord](games []T) Summary {
	s := newSummary()
	for _, item := range games {
		g := item.Record()
		won := g.Won()

		s.Total++
		if won {
			s.Wins++
		} else {
			s.Losses++
		}

		switch g.Turn {
		case models.TurnFirst:
			s.FirstTurnTotal++
			if won {
				s.FirstTurnWins++
			}
		case models.TurnSecond:
			s.SecondTurnTotal++
			if won {
				s.SecondTurnWins++
			}
		}

		if g.OpponentClass.Valid() {
			s.OpponentDistribution[g.OpponentClass]++
			rec := s.WinLossByOpponent[g.OpponentClass]
			rec.Total++
			if won {
				rec.Wins++
			}
			s.WinLossByOpponent[g.OpponentClass] = rec
		}
	}
	s.LongestStreak = LongestStreak(games)
	return s
}

// LongestStreak returns the longest run of consecutive wins in timestamp
// order, regardless of the order games are passed in.
func LongestStreak[T GameRecord](games []T) int {
	longest, current := 0, 0
	for _, item := range sortOldestFirst(games) {
		if item.Record().Won() {
			current++
			continue
		}
		longest = max(longest, current)
		current = 0
	}
	return max(longest, current)
}

func sortOldestFirst[T Timestamped](items []T) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return compareMillis(a.Millis(), b.Millis())
	})
	return sorted
}

func sortNewestFirst[T Timestamped](items []T) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return compareMillis(b.Millis(), a.Millis())
	})
	return sorted
}

func compareMillis(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
