package models

import (
	"slices"
	"strings"
)

// Deck owns its games and runs. Runs are only recorded in take-two mode.
type Deck struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class Class  `json:"class"`
	Games []Game `json:"games"`
	Runs  []Run  `json:"runs,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Clone returns a copy of d whose game and run slices can be modified
// without affecting d.
func (d Deck) Clone() Deck {
	d.Games = slices.Clone(d.Games)
	d.Runs = slices.Clone(d.Runs)
	return d
}

// Tag is a user label attached to either side of a game.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FindTagByName looks a tag up by name, ignoring case.
func FindTagByName(tags []Tag, name string) (Tag, bool) {
	name = strings.TrimSpace(name)
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tag{}, false
}

// TagIDSet builds a lookup set of tag ids.
func TagIDSet(tags []Tag) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t.ID] = struct{}{}
	}
	return set
}

// Settings is the persisted user view state.
type Settings struct {
	Language string         `json:"language"`
	Mode     Mode           `json:"mode"`
	Filter   ViewFilterSpec `json:"filter"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		Language: "en",
		Mode:     ModeNormal,
		Filter: ViewFilterSpec{
			Deck:     AllDecks(),
			GamePage: 1,
			RunPage:  1,
		},
	}
}

// TakeTwoDeckID is the fixed id of the take-two deck for class c. Take-two
// mode has exactly one deck per class.
func TakeTwoDeckID(c Class) string {
	return "take-two-" + strings.ToLower(string(c))
}

// TakeTwoDecks returns a fresh deck per class for take-two mode.
func TakeTwoDecks() []Deck {
	decks := make([]Deck, len(Classes))
	for i, c := range Classes {
		decks[i] = Deck{ID: TakeTwoDeckID(c), Name: string(c), Class: c, Games: []Game{}}
	}
	return decks
}
