package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/matchlog/internal/errors"
	"github.com/vytor/matchlog/internal/library"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/services"
	"github.com/vytor/matchlog/internal/testutil/mocks"
)

func win(opp models.Class) services.GameInput {
	return services.GameInput{Timestamp: 1000, OpponentClass: opp, Turn: models.TurnFirst, Result: models.ResultWin}
}

func TestDeckService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	q := new(mocks.MockJobQueue)
	q.On("EnqueueDeckSave", models.ModeNormal, mock.Anything).Return(nil)
	svc := services.NewDeckService(library.New(q))

	deck, err := svc.CreateDeck(ctx, services.DeckInput{Name: "  Ramp  ", Class: models.ClassDragon})
	require.NoError(t, err)
	assert.NotEmpty(t, deck.ID)
	assert.Equal(t, "Ramp", deck.Name)

	decks, err := svc.ListDecks(ctx, models.ModeNormal)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, deck.ID, decks[0].ID)
	q.AssertNumberOfCalls(t, "EnqueueDeckSave", 1)
}

func TestDeckService_CreateValidation(t *testing.T) {
	svc := services.NewDeckService(library.New(nil))

	_, err := svc.CreateDeck(context.Background(), services.DeckInput{Name: " ", Class: models.ClassDragon})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = svc.CreateDeck(context.Background(), services.DeckInput{Name: "x", Class: "Goblin"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestDeckService_UpdateDeck(t *testing.T) {
	ctx := context.Background()
	svc := services.NewDeckService(library.New(nil))
	deck, err := svc.CreateDeck(ctx, services.DeckInput{Name: "Ramp", Class: models.ClassDragon})
	require.NoError(t, err)

	notes := "mulligan for ramp"
	updated, err := svc.UpdateDeck(ctx, models.ModeNormal, deck.ID, services.DeckPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "Ramp", updated.Name)
	assert.Equal(t, notes, updated.Notes)

	_, err = svc.UpdateDeck(ctx, models.ModeNormal, "missing", services.DeckPatch{Notes: &notes})
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestDeckService_GameLifecycle(t *testing.T) {
	ctx := context.Background()
	lib := library.New(nil)
	_, err := lib.Update(ctx, func(tx *library.Tx) error {
		tx.SetTags([]models.Tag{{ID: "aggro", Name: "Aggro"}})
		return nil
	})
	require.NoError(t, err)
	svc := services.NewDeckService(lib)
	deck, err := svc.CreateDeck(ctx, services.DeckInput{Name: "Ramp", Class: models.ClassDragon})
	require.NoError(t, err)

	in := win(models.ClassRune)
	in.OpponentTagIDs = []string{"aggro", "deleted", "aggro"}
	game, err := svc.LogGame(ctx, models.ModeNormal, deck.ID, in)
	require.NoError(t, err)
	assert.NotEmpty(t, game.ID)
	assert.Equal(t, []string{"aggro"}, game.OpponentTagIDs, "unknown and repeated ids are dropped")

	edit := in
	edit.Timestamp = 0
	edit.Result = models.ResultLoss
	edited, err := svc.UpdateGame(ctx, models.ModeNormal, deck.ID, game.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, models.ResultLoss, edited.Result)
	assert.Equal(t, int64(1000), edited.Timestamp, "timestamp is kept when not given")

	got, err := svc.GetDeck(ctx, models.ModeNormal, deck.ID)
	require.NoError(t, err)
	require.Len(t, got.Games, 1)
	assert.Equal(t, edited, got.Games[0])

	require.NoError(t, svc.DeleteGame(ctx, models.ModeNormal, deck.ID, game.ID))
	err = svc.DeleteGame(ctx, models.ModeNormal, deck.ID, game.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestDeckService_LogGameValidation(t *testing.T) {
	ctx := context.Background()
	svc := services.NewDeckService(library.New(nil))
	deck, err := svc.CreateDeck(ctx, services.DeckInput{Name: "Ramp", Class: models.ClassDragon})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   services.GameInput
	}{
		{"bad class", services.GameInput{OpponentClass: "Goblin", Turn: models.TurnFirst, Result: models.ResultWin}},
		{"bad turn", services.GameInput{OpponentClass: models.ClassRune, Turn: "third", Result: models.ResultWin}},
		{"bad result", services.GameInput{OpponentClass: models.ClassRune, Turn: models.TurnFirst, Result: "draw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LogGame(ctx, models.ModeNormal, deck.ID, tt.in)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidation), "got %v", err)
		})
	}

	_, err = svc.LogGame(ctx, models.ModeNormal, "missing", win(models.ClassRune))
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestDeckService_DeleteNormalDeck(t *testing.T) {
	ctx := context.Background()
	svc := services.NewDeckService(library.New(nil))
	deck, err := svc.CreateDeck(ctx, services.DeckInput{Name: "Ramp", Class: models.ClassDragon})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDeck(ctx, models.ModeNormal, deck.ID))
	decks, err := svc.ListDecks(ctx, models.ModeNormal)
	require.NoError(t, err)
	assert.Empty(t, decks)

	err = svc.DeleteDeck(ctx, models.ModeNormal, deck.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestDeckService_TakeTwoDeleteClearsHistory(t *testing.T) {
	ctx := context.Background()
	svc := services.NewDeckService(library.New(nil))
	id := models.TakeTwoDeckID(models.ClassHaven)

	_, err := svc.LogGame(ctx, models.ModeTakeTwo, id, win(models.ClassSword))
	require.NoError(t, err)
	run, err := svc.LogRun(ctx, id, services.RunInput{Timestamp: 5, Wins: 7, Losses: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	require.NoError(t, svc.DeleteDeck(ctx, models.ModeTakeTwo, id))

	deck, err := svc.GetDeck(ctx, models.ModeTakeTwo, id)
	require.NoError(t, err, "take-two decks survive deletion")
	assert.Empty(t, deck.Games)
	assert.Empty(t, deck.Runs)
	decks, err := svc.ListDecks(ctx, models.ModeTakeTwo)
	require.NoError(t, err)
	assert.Len(t, decks, len(models.Classes))
}

func TestDeckService_Runs(t *testing.T) {
	ctx := context.Background()
	svc := services.NewDeckService(library.New(nil))
	id := models.TakeTwoDeckID(models.ClassRune)

	_, err := svc.LogRun(ctx, id, services.RunInput{Wins: 7, Losses: 2})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = svc.LogRun(ctx, "not-a-take-two-deck", services.RunInput{Wins: 1, Losses: 2})
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	run, err := svc.LogRun(ctx, id, services.RunInput{Wins: 3, Losses: 2})
	require.NoError(t, err)
	assert.NotZero(t, run.Timestamp)

	require.NoError(t, svc.DeleteRun(ctx, id, run.ID))
	err = svc.DeleteRun(ctx, id, run.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestDeckService_EmptyModeUsesSettings(t *testing.T) {
	ctx := context.Background()
	lib := library.New(nil)
	_, err := lib.Update(ctx, func(tx *library.Tx) error {
		s := tx.Settings()
		s.Mode = models.ModeTakeTwo
		tx.SetSettings(s)
		return nil
	})
	require.NoError(t, err)
	svc := services.NewDeckService(lib)

	decks, err := svc.ListDecks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, decks, len(models.Classes))

	_, err = svc.ListDecks(ctx, "ranked")
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}
