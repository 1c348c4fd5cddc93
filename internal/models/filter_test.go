package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/matchlog/internal/models"
)

func TestParseDeckSelector(t *testing.T) {
	tests := []struct {
		in   string
		want models.DeckSelector
	}{
		{"all", models.AllDecks()},
		{"all-Dragon", models.AllDecksOfClass(models.ClassDragon)},
		{"all-rune", models.AllDecksOfClass(models.ClassRune)},
		{"deck-42", models.DeckByID("deck-42")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseDeckSelector(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDeckSelector_Invalid(t *testing.T) {
	_, err := models.ParseDeckSelector("all-Goblin")
	assert.Error(t, err)

	_, err = models.ParseDeckSelector("  ")
	assert.Error(t, err)
}

func TestDeckSelector_String(t *testing.T) {
	assert.Equal(t, "all", models.AllDecks().String())
	assert.Equal(t, "all-Haven", models.AllDecksOfClass(models.ClassHaven).String())
	assert.Equal(t, "abc", models.DeckByID("abc").String())
	assert.Equal(t, "all", models.DeckSelector{}.String(), "zero value selects all decks")
}

func TestDeckSelector_JSON(t *testing.T) {
	spec := models.ViewFilterSpec{Deck: models.AllDecksOfClass(models.ClassSword)}

	data, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"deck":"all-Sword"`)

	var decoded models.ViewFilterSpec
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, spec.Deck, decoded.Deck)

	require.NoError(t, json.Unmarshal([]byte(`{"deck":""}`), &decoded))
	assert.Equal(t, models.AllDecks(), decoded.Deck)
}

func TestDateFilter_Bounds(t *testing.T) {
	loc := time.UTC
	f := models.DateFilter{Start: "2024-03-01", End: "2024-03-02"}

	start, end := f.Bounds(loc)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.True(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc).Equal(*start))
	assert.True(t, time.Date(2024, 3, 2, 23, 59, 59, int(999*time.Millisecond), loc).Equal(*end))
}

func TestDateFilter_BoundsIgnoresGarbage(t *testing.T) {
	start, end := models.DateFilter{Start: "yesterday"}.Bounds(time.UTC)
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestViewFilterSpec_Validate(t *testing.T) {
	assert.NoError(t, models.ViewFilterSpec{}.Validate())
	assert.NoError(t, models.ViewFilterSpec{Class: models.ClassAbyss}.Validate())
	assert.Error(t, models.ViewFilterSpec{Class: "Goblin"}.Validate())
	assert.Error(t, models.ViewFilterSpec{Deck: models.DeckSelector{Kind: models.SelectDeck}}.Validate())
	assert.Error(t, models.ViewFilterSpec{Date: models.DateFilter{End: "03/02/2024"}}.Validate())
}

func TestViewFilterSpec_TagCascades(t *testing.T) {
	spec := models.ViewFilterSpec{
		Tags: models.TagFilter{
			My:  models.TagCondition{Include: []string{"a", "b"}, Exclude: []string{"c"}},
			Opp: models.TagCondition{Include: []string{"b"}},
		},
	}

	removed := spec.WithoutTag("b")
	assert.Equal(t, []string{"a"}, removed.Tags.My.Include)
	assert.Empty(t, removed.Tags.Opp.Include)
	assert.Equal(t, []string{"a", "b"}, spec.Tags.My.Include, "original spec is untouched")

	merged := spec.WithTagReplaced("a", "b")
	assert.Equal(t, []string{"b"}, merged.Tags.My.Include)
	assert.Equal(t, []string{"c"}, merged.Tags.My.Exclude)
}

func TestRun_Validate(t *testing.T) {
	assert.NoError(t, models.Run{Wins: 7, Losses: 1}.Validate())
	assert.NoError(t, models.Run{Wins: 3, Losses: 2}.Validate())
	assert.Error(t, models.Run{Wins: 7, Losses: 2}.Validate())
	assert.Error(t, models.Run{Wins: 8}.Validate())
	assert.Error(t, models.Run{Losses: 3}.Validate())
	assert.Error(t, models.Run{Wins: -1}.Validate())
}
