// Package store archives finished games to Postgres. The in-memory session
// registry stays authoritative; this is write-behind history for audits and
// leaderboards.
package store

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ai-banker/server/engine"
	"ai-banker/server/session"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// ArchiveGame writes the final state and the full transcript atomically.
// Re-archiving the same game replaces the previous snapshot.
func (db *DB) ArchiveGame(ctx context.Context, state engine.GameState, history []session.ChatTurn) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // safe if already committed

	var winnings any
	if state.Status == engine.StatusCompleted && state.CurrentOffer != nil {
		winnings = *state.CurrentOffer
	}
	if _, err := tx.Exec(ctx, `
        INSERT INTO games(
            game_id, round, remaining_cards, burnt_cards, selected_case,
            current_offer, expected_value, house_edge, offer_history,
            status, total_winnings
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        ON CONFLICT (game_id) DO UPDATE SET
            round = EXCLUDED.round,
            remaining_cards = EXCLUDED.remaining_cards,
            burnt_cards = EXCLUDED.burnt_cards,
            selected_case = EXCLUDED.selected_case,
            current_offer = EXCLUDED.current_offer,
            expected_value = EXCLUDED.expected_value,
            house_edge = EXCLUDED.house_edge,
            offer_history = EXCLUDED.offer_history,
            status = EXCLUDED.status,
            total_winnings = EXCLUDED.total_winnings,
            archived_at = now()
    `, state.GameID, state.Round, state.RemainingCards, state.BurntCards, optInt(state.SelectedCase),
		optInt(state.CurrentOffer), optInt(state.ExpectedValue), optFloat(state.HouseEdge), state.OfferHistory,
		string(state.Status), winnings); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM chat_turns WHERE game_id = $1`, state.GameID); err != nil {
		return err
	}
	for i, turn := range history {
		if _, err := tx.Exec(ctx, `
            INSERT INTO chat_turns(
                game_id, seq, sender, message, message_type,
                round, sentiment, psychology, created_at
            ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        `, state.GameID, i, turn.Sender, turn.Message, string(turn.MessageType),
			turn.Round, nullable(turn.Sentiment), nullable(turn.Psychology), turn.Timestamp); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ArchivedGame is one row of the games table, used by the history endpoints
// when the session has already been evicted.
type ArchivedGame struct {
	GameID        string
	Round         int
	Status        string
	TotalWinnings *int
}

func (db *DB) RecentGames(ctx context.Context, limit int) ([]ArchivedGame, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(ctx, `
        SELECT game_id, round, status, total_winnings
          FROM games
         ORDER BY archived_at DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ArchivedGame{}
	for rows.Next() {
		var g ArchivedGame
		if err := rows.Scan(&g.GameID, &g.Round, &g.Status, &g.TotalWinnings); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func optInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func optFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
