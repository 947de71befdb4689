package persist

import (
	"context"
	"fmt"
)

type ScoreRow struct {
	PlayerID int
	Points   int
}

// ScoreRepo stores the running per-player totals.
type ScoreRepo struct {
	db *DB
}

func NewScoreRepo(db *DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// LoadAll returns every stored total keyed by player id.
func (r *ScoreRepo) LoadAll(ctx context.Context) (map[int]int, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT player_id, points FROM player_scores`)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	defer rows.Close()

	out := make(map[int]int)
	for rows.Next() {
		var id int16
		var points int32
		if err := rows.Scan(&id, &points); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out[int(id)] = int(points)
	}
	return out, rows.Err()
}

// Save upserts a batch of totals in one transaction.
func (r *ScoreRepo) Save(ctx context.Context, scores []ScoreRow) error {
	if len(scores) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("score begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range scores {
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_scores (player_id, points, updated_at)
			 VALUES ($1, $2, now())
			 ON CONFLICT (player_id) DO UPDATE SET points = EXCLUDED.points, updated_at = now()`,
			s.PlayerID, s.Points,
		); err != nil {
			return fmt.Errorf("score upsert %d: %w", s.PlayerID, err)
		}
	}
	return tx.Commit(ctx)
}
