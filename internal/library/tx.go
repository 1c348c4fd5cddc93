package library

import (
	"slices"

	"github.com/vytor/matchlog/internal/models"
)

// Tx is the working copy handed to Update. Setters always store a fresh
// slice so published snapshots are never written through.
type Tx struct {
	decks         map[models.Mode][]models.Deck
	tags          []models.Tag
	settings      models.Settings
	dirty         map[models.Mode]bool
	tagsDirty     bool
	settingsDirty bool
}

func (tx *Tx) Decks(mode models.Mode) []models.Deck {
	return tx.decks[mode]
}

func (tx *Tx) SetDecks(mode models.Mode, decks []models.Deck) {
	tx.decks[mode] = append(make([]models.Deck, 0, len(decks)), decks...)
	tx.dirty[mode] = true
}

// UpdateDeck applies fn to a private copy of deck id and stores the result.
func (tx *Tx) UpdateDeck(mode models.Mode, id string, fn func(*models.Deck) error) error {
	decks := tx.decks[mode]
	i := slices.IndexFunc(decks, func(d models.Deck) bool { return d.ID == id })
	if i < 0 {
		return ErrDeckNotFound
	}
	d := decks[i].Clone()
	if err := fn(&d); err != nil {
		return err
	}
	next := slices.Clone(decks)
	next[i] = d
	tx.decks[mode] = next
	tx.dirty[mode] = true
	return nil
}

// UpdateGames rewrites every game in every mode through fn. Decks whose
// games fn leaves untouched keep their slices.
func (tx *Tx) UpdateGames(fn func(models.Game) (models.Game, bool)) {
	for mode, decks := range tx.decks {
		var next []models.Deck
		for i, d := range decks {
			var games []models.Game
			for j, g := range d.Games {
				updated, changed := fn(g)
				if !changed {
					continue
				}
				if games == nil {
					games = slices.Clone(d.Games)
				}
				games[j] = updated
			}
			if games == nil {
				continue
			}
			if next == nil {
				next = slices.Clone(decks)
			}
			next[i].Games = games
		}
		if next != nil {
			tx.decks[mode] = next
			tx.dirty[mode] = true
		}
	}
}

func (tx *Tx) Tags() []models.Tag {
	return tx.tags
}

func (tx *Tx) SetTags(tags []models.Tag) {
	tx.tags = append(make([]models.Tag, 0, len(tags)), tags...)
	tx.tagsDirty = true
}

func (tx *Tx) Settings() models.Settings {
	return tx.settings
}

func (tx *Tx) SetSettings(s models.Settings) {
	tx.settings = s
	tx.settingsDirty = true
}
