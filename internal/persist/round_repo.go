package persist

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type RoundRow struct {
	Round     int64
	StartedAt time.Time
	EndedAt   time.Time
	Results   []ResultRow
}

type ResultRow struct {
	PlayerID int
	Points   int
	Deaths   int // penalized deaths only
	Spawns   int
	Pickups  int
}

// RoundRepo records finished rounds.
type RoundRepo struct {
	db *DB
}

func NewRoundRepo(db *DB) *RoundRepo {
	return &RoundRepo{db: db}
}

// LastRound returns the highest recorded round number, 0 when none.
func (r *RoundRepo) LastRound(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COALESCE(MAX(round_no), 0) FROM rounds`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("last round: %w", err)
	}
	return n, nil
}

func (r *RoundRepo) Record(ctx context.Context, row RoundRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("round begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO rounds (round_no, started_at, ended_at) VALUES ($1, $2, $3)
		 ON CONFLICT (round_no) DO NOTHING`,
		row.Round, row.StartedAt, row.EndedAt,
	); err != nil {
		return fmt.Errorf("round insert: %w", err)
	}
	for _, res := range row.Results {
		if _, err := tx.Exec(ctx,
			`INSERT INTO round_results (round_no, player_id, points, deaths, spawns, pickups)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (round_no, player_id) DO NOTHING`,
			row.Round, res.PlayerID, res.Points, res.Deaths, res.Spawns, res.Pickups,
		); err != nil {
			return fmt.Errorf("round result insert: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// Results folds round points into the per-player tallies, ordered by id.
func Results(points map[int]int, tallies map[int]ResultRow) []ResultRow {
	rows := make(map[int]ResultRow, len(tallies))
	for id, t := range tallies {
		t.PlayerID = id
		rows[id] = t
	}
	for id, p := range points {
		r := rows[id]
		r.PlayerID = id
		r.Points = p
		rows[id] = r
	}
	out := make([]ResultRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
