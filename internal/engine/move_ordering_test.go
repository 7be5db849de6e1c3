package engine

import (
	"sync/atomic"
	"testing"

	"github.com/edge64/othello/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareStaticValue_CornersHighestXSquaresLowest(t *testing.T) {
	assert.Equal(t, int32(18), squareStaticValue[board.A1])
	assert.Equal(t, int32(18), squareStaticValue[board.H8])
	assert.Equal(t, int32(-10), squareStaticValue[board.B2])
	assert.True(t, squareStaticValue[board.A1] > squareStaticValue[board.D4])
}

func TestMinShallowEvalDepth_RisesAsEmptiesShrink(t *testing.T) {
	assert.Equal(t, 9, minShallowEvalDepth(50))
	assert.Equal(t, 10, minShallowEvalDepth(30))
	assert.Equal(t, 11, minShallowEvalDepth(13))
	assert.Equal(t, 12, minShallowEvalDepth(5))
}

func TestShallowEvalDepth_ClampedToRange(t *testing.T) {
	assert.Equal(t, 0, shallowEvalDepth(10))
	assert.Equal(t, 6, shallowEvalDepth(60))
	assert.Equal(t, 1, shallowEvalDepth(18))
}

func TestPotentialMobility_EmptyBoardHasNoFrontier(t *testing.T) {
	assert.Equal(t, 0, potentialMobility(0, 0))
}

func TestPotentialMobility_CountsEmptyNeighboursOfO(t *testing.T) {
	O := board.SquareBB(board.D4)
	P := board.Bitboard(0)
	got := potentialMobility(P, O)
	assert.True(t, got > 0, "a lone disc surrounded by empties must have a positive frontier count")
}

func TestEvaluateAndSort_HashBestMoveSortsFirst(t *testing.T) {
	pos := board.StartPosition()
	tables := NewTables(1)
	pool := NewTaskPool(1)
	var stop atomic.Bool
	w := NewWorker(pos, tables, pool, &stop)

	ml := board.MovesFor(pos.Player, pos.Opponent)
	require.True(t, ml.Len() > 1, "the start position has more than one legal move")

	all := ml.Slice()
	hashMove := all[len(all)-1].Square

	tbl := NewTable(1)
	tbl.Store(pos.Hash(), pos.Player, pos.Opponent, 10, int(NoSelectivity), 0, -64, 64, 1, hashMove)
	hit, ok := tbl.Probe(pos.Hash(), pos.Player, pos.Opponent)
	require.True(t, ok)

	w.EvaluateAndSort(ml, -64, 10, pos.EmptyCount(), hit, true)

	best := ml.Slice()[0]
	assert.Equal(t, hashMove, best.Square, "the transposition-table best move must be ordered first")
}
