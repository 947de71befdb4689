package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardTotalsAndStandings(t *testing.T) {
	b := NewBoard()
	b.AddPoints(2, 0)
	b.AddPoints(0, 0)
	b.AddPoints(0, -1)
	b.AddPoints(1, 3)

	assert.Equal(t, -1, b.Score(0))
	assert.Equal(t, []Entry{{1, 3}, {2, 0}, {0, -1}}, b.Standings())
}

func TestBoardDirtyTracking(t *testing.T) {
	b := NewBoard()
	b.Restore(map[int]int{4: 10})
	assert.Nil(t, b.TakeDirty(), "restored totals are clean")

	b.AddPoints(4, -1)
	b.AddPoints(1, 0)
	got := b.TakeDirty()
	assert.Equal(t, []Entry{{1, 0}, {4, 9}}, got)
	assert.Nil(t, b.TakeDirty())

	b.MarkDirty(got[:1])
	assert.Equal(t, []Entry{{1, 0}}, b.TakeDirty())
}
