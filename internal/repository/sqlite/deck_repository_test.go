package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/repository"
	"github.com/vytor/matchlog/internal/repository/sqlite"
	"github.com/vytor/matchlog/internal/testutil"
)

type DeckRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.DeckRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) TestLoad_Empty() {
	decks, err := s.repo.Load(context.Background(), models.ModeNormal)
	s.Require().NoError(err)
	s.Assert().NotNil(decks)
	s.Assert().Empty(decks)
}

func (s *DeckRepositorySuite) TestSaveAndLoad() {
	ctx := context.Background()
	decks := []models.Deck{
		{
			ID: "d2", Name: "Aggro Sword", Class: models.ClassSword, Notes: "fast",
			Games: []models.Game{
				{ID: "g2", Timestamp: 200, OpponentClass: models.ClassRune, Turn: models.TurnSecond, Result: models.ResultLoss, OpponentTagIDs: []string{"t2"}},
				{ID: "g1", Timestamp: 100, OpponentClass: models.ClassDragon, Turn: models.TurnFirst, Result: models.ResultWin, MyTagIDs: []string{"t1", "t2"}},
			},
		},
		{ID: "d1", Name: "Control Haven", Class: models.ClassHaven},
	}

	s.Require().NoError(s.repo.Save(ctx, models.ModeNormal, decks))

	loaded, err := s.repo.Load(ctx, models.ModeNormal)
	s.Require().NoError(err)
	s.Require().Len(loaded, 2)
	s.Assert().Equal("d2", loaded[0].ID, "deck order is preserved")
	s.Assert().Equal("fast", loaded[0].Notes)
	s.Require().Len(loaded[0].Games, 2)
	s.Assert().Equal(decks[0].Games, loaded[0].Games, "game order and fields are preserved")
	s.Assert().NotNil(loaded[1].Games)
	s.Assert().Empty(loaded[1].Games)
}

func (s *DeckRepositorySuite) TestSaveReplacesCollection() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, models.ModeNormal, []models.Deck{
		{ID: "old", Class: models.ClassAbyss, Games: []models.Game{{ID: "g", Timestamp: 1}}},
	}))
	s.Require().NoError(s.repo.Save(ctx, models.ModeNormal, []models.Deck{
		{ID: "new", Class: models.ClassForest},
	}))

	loaded, err := s.repo.Load(ctx, models.ModeNormal)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Assert().Equal("new", loaded[0].ID)

	var games int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&games))
	s.Assert().Zero(games)
}

func (s *DeckRepositorySuite) TestModesAreIndependent() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Save(ctx, models.ModeNormal, []models.Deck{{ID: "n", Class: models.ClassRune}}))
	s.Require().NoError(s.repo.Save(ctx, models.ModeTakeTwo, []models.Deck{
		{ID: "tt-Rune", Class: models.ClassRune, Runs: []models.Run{
			{ID: "r1", Timestamp: 10, Wins: 7, Losses: 1},
			{ID: "r2", Timestamp: 20, Wins: 2, Losses: 2},
		}},
	}))

	normal, err := s.repo.Load(ctx, models.ModeNormal)
	s.Require().NoError(err)
	s.Require().Len(normal, 1)
	s.Assert().Empty(normal[0].Runs)

	takeTwo, err := s.repo.Load(ctx, models.ModeTakeTwo)
	s.Require().NoError(err)
	s.Require().Len(takeTwo, 1)
	s.Assert().Equal([]models.Run{
		{ID: "r1", Timestamp: 10, Wins: 7, Losses: 1},
		{ID: "r2", Timestamp: 20, Wins: 2, Losses: 2},
	}, takeTwo[0].Runs)
}

func (s *DeckRepositorySuite) TestSaveLargeHistory() {
	ctx := context.Background()
	games := make([]models.Game, 1200)
	for i := range games {
		games[i] = models.Game{ID: string(rune(0x4e00 + i)), Timestamp: int64(i), Result: models.ResultWin}
	}
	s.Require().NoError(s.repo.Save(ctx, models.ModeNormal, []models.Deck{{ID: "big", Class: models.ClassPortal, Games: games}}))

	loaded, err := s.repo.Load(ctx, models.ModeNormal)
	s.Require().NoError(err)
	s.Assert().Len(loaded[0].Games, 1200)
	s.Assert().Equal(int64(1199), loaded[0].Games[1199].Timestamp)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
