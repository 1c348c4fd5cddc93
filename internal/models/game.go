package models

import (
	"fmt"
	"time"
)

const (
	MaxRunWins   = 7
	MaxRunLosses = 2
)

// Game is a single logged match. Timestamp is epoch milliseconds.
type Game struct {
	ID             string   `json:"id"`
	Timestamp      int64    `json:"timestamp"`
	OpponentClass  Class    `json:"opponentClass"`
	Turn           Turn     `json:"turn"`
	Result         Result   `json:"result"`
	MyTagIDs       []string `json:"myTagIds,omitempty"`
	OpponentTagIDs []string `json:"opponentTagIds,omitempty"`
}

// Time returns the game's timestamp as a time.Time.
func (g Game) Time() time.Time {
	return time.UnixMilli(g.Timestamp)
}

func (g Game) Won() bool {
	return g.Result == ResultWin
}

// Millis returns the timestamp in epoch milliseconds.
func (g Game) Millis() int64 { return g.Timestamp }

// Record returns the game itself. SourcedGame inherits it, which lets code
// accept either form.
func (g Game) Record() Game { return g }

// Run is a finished take-two draft run summarized by its final record.
type Run struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

func (r Run) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

func (r Run) Millis() int64 { return r.Timestamp }

func (r Run) Record() Run { return r }

// Validate checks the run's record against the draft caps. A run ends as
// soon as either cap is reached, so 7-2 is impossible.
func (r Run) Validate() error {
	if r.Wins < 0 || r.Wins > MaxRunWins {
		return fmt.Errorf("wins must be between 0 and %d", MaxRunWins)
	}
	if r.Losses < 0 || r.Losses > MaxRunLosses {
		return fmt.Errorf("losses must be between 0 and %d", MaxRunLosses)
	}
	if r.Wins == MaxRunWins && r.Losses == MaxRunLosses {
		return fmt.Errorf("a run cannot reach %d wins and %d losses", MaxRunWins, MaxRunLosses)
	}
	return nil
}

// SourcedGame carries a game together with the deck that owns it.
type SourcedGame struct {
	Game
	SourceDeckID    string `json:"sourceDeckId"`
	SourceDeckClass Class  `json:"sourceDeckClass"`
}

// SourcedRun carries a run together with the deck that owns it.
type SourcedRun struct {
	Run
	SourceDeckID    string `json:"sourceDeckId"`
	SourceDeckClass Class  `json:"sourceDeckClass"`
}
