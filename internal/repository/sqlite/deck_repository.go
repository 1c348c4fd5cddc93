package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/matchlog/internal/logger"
	"github.com/vytor/matchlog/internal/models"
	"github.com/vytor/matchlog/internal/repository"
)

var (
	deckColumns = []string{"mode", "id", "name", "class", "notes", "position"}
	gameColumns = []string{"mode", "deck_id", "id", "played_at", "opponent_class", "turn", "result", "my_tags", "opponent_tags", "position"}
	runColumns  = []string{"mode", "deck_id", "id", "played_at", "wins", "losses", "position"}
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Load(ctx context.Context, mode models.Mode) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("loading decks: mode=%s", mode)

	decks, err := r.loadDecks(ctx, mode)
	if err != nil {
		log.Error("failed to load decks: %v", err)
		return nil, err
	}
	index := make(map[string]int, len(decks))
	for i, d := range decks {
		index[d.ID] = i
	}

	if err := r.loadGames(ctx, mode, decks, index); err != nil {
		log.Error("failed to load games: %v", err)
		return nil, err
	}
	if err := r.loadRuns(ctx, mode, decks, index); err != nil {
		log.Error("failed to load runs: %v", err)
		return nil, err
	}

	log.Debug("loaded %d decks", len(decks))
	return decks, nil
}

func (r *deckRepository) loadDecks(ctx context.Context, mode models.Mode) ([]models.Deck, error) {
	query, args, err := sqlBuilder.Select("id", "name", "class", "notes").
		From("decks").
		Where(squirrel.Eq{"mode": mode}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decks := []models.Deck{}
	for rows.Next() {
		d := models.Deck{Games: []models.Game{}}
		if err := rows.Scan(&d.ID, &d.Name, &d.Class, &d.Notes); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *deckRepository) loadGames(ctx context.Context, mode models.Mode, decks []models.Deck, index map[string]int) error {
	query, args, err := sqlBuilder.Select("deck_id", "id", "played_at", "opponent_class", "turn", "result", "my_tags", "opponent_tags").
		From("games").
		Where(squirrel.Eq{"mode": mode}).
		OrderBy("deck_id", "position").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			deckID         string
			g              models.Game
			myTags, opTags string
		)
		if err := rows.Scan(&deckID, &g.ID, &g.Timestamp, &g.OpponentClass, &g.Turn, &g.Result, &myTags, &opTags); err != nil {
			return err
		}
		if g.MyTagIDs, err = decodeIDs(myTags); err != nil {
			return fmt.Errorf("game %s my_tags: %w", g.ID, err)
		}
		if g.OpponentTagIDs, err = decodeIDs(opTags); err != nil {
			return fmt.Errorf("game %s opponent_tags: %w", g.ID, err)
		}
		i, ok := index[deckID]
		if !ok {
			continue
		}
		decks[i].Games = append(decks[i].Games, g)
	}
	return rows.Err()
}

func (r *deckRepository) loadRuns(ctx context.Context, mode models.Mode, decks []models.Deck, index map[string]int) error {
	query, args, err := sqlBuilder.Select("deck_id", "id", "played_at", "wins", "losses").
		From("runs").
		Where(squirrel.Eq{"mode": mode}).
		OrderBy("deck_id", "position").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			deckID string
			run    models.Run
		)
		if err := rows.Scan(&deckID, &run.ID, &run.Timestamp, &run.Wins, &run.Losses); err != nil {
			return err
		}
		if i, ok := index[deckID]; ok {
			decks[i].Runs = append(decks[i].Runs, run)
		}
	}
	return rows.Err()
}

func (r *deckRepository) Save(ctx context.Context, mode models.Mode, decks []models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("saving %d decks: mode=%s", len(decks), mode)

	var deckRows, gameRows, runRows [][]any
	for pos, d := range decks {
		deckRows = append(deckRows, []any{mode, d.ID, d.Name, d.Class, d.Notes, pos})
		for gpos, g := range d.Games {
			myTags, err := encodeIDs(g.MyTagIDs)
			if err != nil {
				return err
			}
			opTags, err := encodeIDs(g.OpponentTagIDs)
			if err != nil {
				return err
			}
			gameRows = append(gameRows, []any{mode, d.ID, g.ID, g.Timestamp, g.OpponentClass, g.Turn, g.Result, myTags, opTags, gpos})
		}
		for rpos, run := range d.Runs {
			runRows = append(runRows, []any{mode, d.ID, run.ID, run.Timestamp, run.Wins, run.Losses, rpos})
		}
	}

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, table := range []string{"games", "runs", "decks"} {
			if err := execBuilder(ctx, tx, sqlBuilder.Delete(table).Where(squirrel.Eq{"mode": mode})); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := insertRows(ctx, tx, "decks", deckColumns, deckRows); err != nil {
			return fmt.Errorf("insert decks: %w", err)
		}
		if err := insertRows(ctx, tx, "games", gameColumns, gameRows); err != nil {
			return fmt.Errorf("insert games: %w", err)
		}
		if err := insertRows(ctx, tx, "runs", runColumns, runRows); err != nil {
			return fmt.Errorf("insert runs: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save decks: %v", err)
		return err
	}

	log.Debug("saved %d decks, %d games, %d runs", len(deckRows), len(gameRows), len(runRows))
	return nil
}
