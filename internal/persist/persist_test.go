package persist

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsMergesAndOrders(t *testing.T) {
	got := Results(map[int]int{2: 5, 0: -1}, map[int]ResultRow{
		0: {Deaths: 1, Spawns: 2},
		3: {Deaths: 2, Spawns: 2, Pickups: 1},
	})
	assert.Equal(t, []ResultRow{
		{PlayerID: 0, Points: -1, Deaths: 1, Spawns: 2},
		{PlayerID: 2, Points: 5},
		{PlayerID: 3, Deaths: 2, Spawns: 2, Pickups: 1},
	}, got)
	assert.Empty(t, Results(nil, nil))
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/00001_scores.sql", "migrations/00002_rounds.sql"}, files)

	for _, f := range files {
		body, err := fs.ReadFile(migrations, f)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up")
		assert.Contains(t, string(body), "-- +goose Down")
	}
}
