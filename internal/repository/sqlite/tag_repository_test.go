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

type TagRepositorySuite struct {
	suite.Suite
	db       *sql.DB
	tags     repository.TagRepository
	settings repository.SettingsRepository
}

func (s *TagRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.tags = sqlite.NewTagRepository(s.db)
	s.settings = sqlite.NewSettingsRepository(s.db)
}

func (s *TagRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *TagRepositorySuite) TestTagsRoundTripInOrder() {
	ctx := context.Background()
	tags := []models.Tag{{ID: "b", Name: "Ladder"}, {ID: "a", Name: "Tournament"}}

	s.Require().NoError(s.tags.Save(ctx, tags))
	loaded, err := s.tags.Load(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(tags, loaded)

	s.Require().NoError(s.tags.Save(ctx, tags[:1]))
	loaded, err = s.tags.Load(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(tags[:1], loaded)
}

func (s *TagRepositorySuite) TestSettingsDefaultWhenUnsaved() {
	loaded, err := s.settings.Load(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal(models.DefaultSettings(), loaded)
}

func (s *TagRepositorySuite) TestSettingsRoundTrip() {
	ctx := context.Background()
	settings := models.Settings{
		Language: "ja",
		Mode:     models.ModeTakeTwo,
		Filter: models.ViewFilterSpec{
			Deck:     models.AllDecksOfClass(models.ClassAbyss),
			Date:     models.DateFilter{Start: "2024-01-01"},
			Tags:     models.TagFilter{Opp: models.TagCondition{Exclude: []string{"a"}}},
			Class:    models.ClassHaven,
			GamePage: 2,
			RunPage:  1,
		},
	}

	s.Require().NoError(s.settings.Save(ctx, settings))
	s.Require().NoError(s.settings.Save(ctx, settings), "saving twice upserts")

	loaded, err := s.settings.Load(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(settings, loaded)
}

func (s *TagRepositorySuite) TestSettingsIgnoresCorruptFilter() {
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('filter', '{not json')`)
	s.Require().NoError(err)

	loaded, err := s.settings.Load(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(models.DefaultSettings().Filter, loaded.Filter)
}

func TestTagRepositorySuite(t *testing.T) {
	suite.Run(t, new(TagRepositorySuite))
}
