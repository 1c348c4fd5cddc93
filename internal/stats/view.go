package stats

import "github.com/vytor/matchlog/internal/models"

// DisplayDeck is the deck a stats view is computed for. For the "all" and
// "all of class" selectors it is a union of several decks and every entry
// remembers the deck it came from. Games and runs are left out of JSON;
// results carry them paginated.
type DisplayDeck struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Class     models.Class         `json:"class,omitempty"`
	Notes     string               `json:"notes,omitempty"`
	Aggregate bool                 `json:"aggregate"`
	Games     []models.SourcedGame `json:"-"`
	Runs      []models.SourcedRun  `json:"-"`
}

// ResolveView builds the display deck for sel. It reports false when sel
// names a deck that does not exist.
func ResolveView(sel models.DeckSelector, decks []models.Deck) (DisplayDeck, bool) {
	switch sel.Kind {
	case models.SelectAllOfClass:
		view := newView(sel.String(), "", sel.Class, true)
		for _, d := range decks {
			if d.Class == sel.Class {
				appendDeck(&view, d)
			}
		}
		return view, true
	case models.SelectAll:
		view := newView(sel.String(), "", "", true)
		for _, d := range decks {
			appendDeck(&view, d)
		}
		return view, true
	case models.SelectDeck:
		for _, d := range decks {
			if d.ID == sel.DeckID {
				view := newView(d.ID, d.Name, d.Class, false)
				view.Notes = d.Notes
				appendDeck(&view, d)
				return view, true
			}
		}
		return DisplayDeck{}, false
	default:
		return DisplayDeck{}, false
	}
}

func newView(id, name string, class models.Class, aggregate bool) DisplayDeck {
	return DisplayDeck{
		ID:        id,
		Name:      name,
		Class:     class,
		Aggregate: aggregate,
		Games:     []models.SourcedGame{},
		Runs:      []models.SourcedRun{},
	}
}

func appendDeck(view *DisplayDeck, d models.Deck) {
	for _, g := range d.Games {
		view.Games = append(view.Games, models.SourcedGame{Game: g, SourceDeckID: d.ID, SourceDeckClass: d.Class})
	}
	for _, r := range d.Runs {
		view.Runs = append(view.Runs, models.SourcedRun{Run: r, SourceDeckID: d.ID, SourceDeckClass: d.Class})
	}
}
