package engine

import (
	"testing"
	"time"

	"github.com/edge64/othello/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(pos board.Position) *RootDriver {
	tables := NewTables(1)
	pool := NewTaskPool(1)
	tm := NewTimeManagerPerMove(10 * time.Second)
	return NewRootDriver(pos, tables, pool, tm)
}

func TestNewRootDriver_StartsAtGivenPosition(t *testing.T) {
	pos := board.StartPosition()
	r := newTestDriver(pos)
	assert.Equal(t, pos, r.worker.Position())
}

func TestRootDriver_Stop_RaisesSharedFlag(t *testing.T) {
	r := newTestDriver(board.StartPosition())
	assert.False(t, r.worker.Stopped())
	r.Stop()
	assert.True(t, r.worker.Stopped())
}

func TestReconstructPV_NoMoveReturnsEmptyPV(t *testing.T) {
	r := newTestDriver(board.StartPosition())
	pv := r.reconstructPV(board.NoMove)
	assert.Nil(t, pv)
}

func TestReconstructPV_WalksPVTableForward(t *testing.T) {
	pos := board.StartPosition()
	r := newTestDriver(pos)

	afterFirst := pos.Play(board.D3)
	r.worker.tables.PV.Store(afterFirst.Hash(), afterFirst.Player, afterFirst.Opponent,
		10, int(NoSelectivity), 0, -64, 64, 5, board.C3)

	pv := r.reconstructPV(board.D3)
	require.Len(t, pv, 2)
	assert.Equal(t, board.D3, pv[0])
	assert.Equal(t, board.C3, pv[1])
}

func TestReconstructPV_StopsOnTableMiss(t *testing.T) {
	r := newTestDriver(board.StartPosition())
	pv := r.reconstructPV(board.D3)
	require.Len(t, pv, 1)
	assert.Equal(t, board.D3, pv[0])
}

func TestHint_ClampsNToAvailableMoves(t *testing.T) {
	r := newTestDriver(board.StartPosition())
	moves := r.Hint(100, 2)
	assert.True(t, len(moves) <= 4, "the start position has exactly four legal moves")
	assert.True(t, len(moves) > 0)
}
