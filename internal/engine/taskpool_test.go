package engine

import (
	"sync/atomic"
	"testing"

	"github.com/edge64/othello/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskPool_ClampsToRange(t *testing.T) {
	assert.Equal(t, 1, NewTaskPool(0).nTask)
	assert.Equal(t, 1, NewTaskPool(-5).nTask)
	assert.Equal(t, 64, NewTaskPool(1000).nTask)
	assert.Equal(t, 4, NewTaskPool(4).nTask)
}

func TestTaskPool_TryAcquireAndRelease(t *testing.T) {
	p := NewTaskPool(4)
	assert.Equal(t, 4, p.Idle())

	got := p.tryAcquire(2)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, p.Idle())

	got = p.tryAcquire(10)
	assert.Equal(t, 2, got, "tryAcquire must never grant more than what's idle")
	assert.Equal(t, 0, p.Idle())

	p.release(4)
	assert.Equal(t, 4, p.Idle())
}

func TestSplitNode_ReportTracksBestScoreAndMove(t *testing.T) {
	n := newSplitNode(-10, 10)

	cutoff := n.report(3, board.C4)
	assert.False(t, cutoff)

	cutoff = n.report(7, board.D3)
	assert.False(t, cutoff)

	alpha, best, move, _ := n.snapshot()
	assert.Equal(t, int32(7), best)
	assert.Equal(t, int32(7), alpha)
	assert.Equal(t, board.D3, move)
}

func TestSplitNode_ReportSignalsCutoffOnceAlphaReachesBeta(t *testing.T) {
	n := newSplitNode(-10, 10)
	cutoff := n.report(10, board.C4)
	assert.True(t, cutoff)
	assert.True(t, n.snapshotCutoff())
}

func TestSplitNode_ReportIsNoOpAfterCutoff(t *testing.T) {
	n := newSplitNode(-10, 10)
	n.report(10, board.C4)

	cutoff := n.report(99, board.D3)
	assert.True(t, cutoff)

	_, best, move, _ := n.snapshot()
	assert.Equal(t, int32(10), best, "a report arriving after cutoff must not overwrite the winning move")
	assert.Equal(t, board.C4, move)
}

func TestSplitNode_ReportRaisesLocalStopOnCutoff(t *testing.T) {
	n := newSplitNode(-64, 64)
	assert.False(t, n.localStop.Load())

	n.report(64, board.C4)

	assert.True(t, n.localStop.Load())
}

func TestWorker_LocalStopsChain_StopsSlaveWithoutTouchingGlobalFlag(t *testing.T) {
	var global atomic.Bool
	w := NewWorker(board.StartPosition(), NewTables(1), NewTaskPool(1), &global)

	node := newSplitNode(0, 0)
	slave := w.Clone()
	slave.localStops = appendLocalStop(w.localStops, &node.localStop)

	assert.False(t, slave.Stopped())

	node.report(64, board.C4) // drives alpha >= beta, raising node.localStop

	assert.True(t, slave.Stopped(), "a slave must observe its split point's local cutoff")
	assert.False(t, global.Load(), "a split-local cutoff must never raise the search-wide stop flag")
}

func TestAppendLocalStop_DoesNotAliasParentChain(t *testing.T) {
	var a, b, c atomic.Bool
	parent := []*atomic.Bool{&a}

	child1 := appendLocalStop(parent, &b)
	child2 := appendLocalStop(parent, &c)

	require.Len(t, parent, 1, "appendLocalStop must not mutate the parent's chain")
	assert.Equal(t, []*atomic.Bool{&a, &b}, child1)
	assert.Equal(t, []*atomic.Bool{&a, &c}, child2)
}

func TestSplitSearch_SmallDepthFallsBackToSequential(t *testing.T) {
	pos := board.StartPosition()
	tables := NewTables(1)
	pool := NewTaskPool(4)
	var stop atomic.Bool
	w := NewWorker(pos, tables, pool, &stop)

	ml := board.MovesFor(pos.Player, pos.Opponent)
	moves := ml.Slice()
	node := newSplitNode(-64, 64)

	w.splitSearch(node, moves, splitMinDepth-1, true)

	_, best, move, _ := node.snapshot()
	assert.True(t, best > -ScoreInf)
	assert.NotEqual(t, board.NoMove, move)
	assert.Equal(t, 4, pool.Idle(), "a sequential fallback must never touch the task pool")
}
