package engine

import (
	"sync/atomic"
	"testing"

	"github.com/edge64/othello/internal/board"
	"github.com/edge64/othello/internal/evaluator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(pos board.Position) *Worker {
	tables := NewTables(1)
	pool := NewTaskPool(1)
	var stop atomic.Bool
	return NewWorker(pos, tables, pool, &stop)
}

func TestNewWorker_SeedsEmptySquareListFromPosition(t *testing.T) {
	pos := board.StartPosition()
	w := newTestWorker(pos)
	assert.Equal(t, pos.EmptyCount(), w.empties.Len())
}

func TestClone_SharesCollaboratorsButNotPosition(t *testing.T) {
	pos := board.StartPosition()
	w := newTestWorker(pos)
	clone := w.Clone()

	assert.Equal(t, w.pos, clone.pos)
	assert.Same(t, w.tables, clone.tables)
	assert.Same(t, w.pool, clone.pool)
	assert.Same(t, w.stop, clone.stop)
	assert.NotSame(t, w.empties, clone.empties)
}

func TestPushChildThenPopChild_RestoresPosition(t *testing.T) {
	pos := board.StartPosition()
	w := newTestWorker(pos)

	ml := board.MovesFor(pos.Player, pos.Opponent)
	m := ml.Slice()[0]
	next := pos.Play(m.Square)

	w.pushChild(m.Square, next)
	assert.Equal(t, next, w.pos)
	assert.Equal(t, pos.EmptyCount()-1, w.empties.Len())

	w.popChild()
	assert.Equal(t, pos, w.pos)
	assert.Equal(t, pos.EmptyCount(), w.empties.Len())
}

func TestPushChild_IncrementsNodeCount(t *testing.T) {
	pos := board.StartPosition()
	w := newTestWorker(pos)
	before := w.Nodes()

	m := board.MovesFor(pos.Player, pos.Opponent).Slice()[0]
	w.pushChild(m.Square, pos.Play(m.Square))

	assert.Equal(t, before+1, w.Nodes())
}

func TestStopped_ReflectsSharedFlag(t *testing.T) {
	var stop atomic.Bool
	w := NewWorker(board.StartPosition(), NewTables(1), NewTaskPool(1), &stop)
	assert.False(t, w.Stopped())
	stop.Store(true)
	assert.True(t, w.Stopped())
}

func TestEtcCutoff_FalseWithEmptyTable(t *testing.T) {
	w := newTestWorker(board.StartPosition())
	assert.False(t, w.etcCutoff(64, 5))
}

func TestEtcCutoff_TrueWhenChildProvesFailHigh(t *testing.T) {
	pos := board.StartPosition()
	w := newTestWorker(pos)

	ml := board.MovesFor(pos.Player, pos.Opponent)
	m := ml.Slice()[0]
	child := pos.Play(m.Square)

	// Child stored as a fail-low (score <= its own alpha), giving a tight
	// upper bound; negated one ply up, a very negative child upper bound
	// becomes a proven-at-least score at the parent.
	w.tables.Main.Store(child.Hash(), child.Player, child.Opponent, 10, int(NoSelectivity), 0, 0, 64, -30, board.NoMove)

	// -upper == 30, so beta == 30 is exactly the proven fail-high boundary.
	assert.True(t, w.etcCutoff(30, 5))
}

func TestEtcCutoff_FalseWhenOnlyPromisingNotProven(t *testing.T) {
	pos := board.StartPosition()
	w := newTestWorker(pos)

	ml := board.MovesFor(pos.Player, pos.Opponent)
	m := ml.Slice()[0]
	child := pos.Play(m.Square)

	// Same fail-low child (-upper == 30), but beta is set higher than what
	// the child actually proves: this is "looks promising", not a cutoff.
	w.tables.Main.Store(child.Hash(), child.Player, child.Opponent, 10, int(NoSelectivity), 0, 0, 64, -30, board.NoMove)

	assert.False(t, w.etcCutoff(31, 5))
}

func TestEtcCutoff_FalseForWideWindowEvenWithFailLowChild(t *testing.T) {
	pos := board.StartPosition()
	w := newTestWorker(pos)

	ml := board.MovesFor(pos.Player, pos.Opponent)
	m := ml.Slice()[0]
	child := pos.Play(m.Square)

	w.tables.Main.Store(child.Hash(), child.Player, child.Opponent, 10, int(NoSelectivity), 0, 0, 64, -30, board.NoMove)

	// A wide root-style window (beta == ScoreInf) must never be cut short
	// by ordinary evidence — only a child that proves a score at least as
	// high as beta qualifies, which a finite stored bound cannot do here.
	assert.False(t, w.etcCutoff(ScoreInf, 5))
}

func TestProbCutSigma_NarrowsWithDepthAndFewEmpties(t *testing.T) {
	deep := probCutSigma(10, 50)
	shallow := probCutSigma(4, 50)
	assert.True(t, deep < shallow, "sigma must shrink as depth approaches the full search")

	fewEmpties := probCutSigma(6, 8)
	manyEmpties := probCutSigma(6, 50)
	assert.True(t, fewEmpties < manyEmpties, "sigma must shrink when few empties remain")
}

func TestProbCutSigma_NeverBelowFloor(t *testing.T) {
	sigma := probCutSigma(100, 50)
	assert.True(t, sigma >= 2)
}

func TestPVS_StartPositionReturnsAFiniteScore(t *testing.T) {
	w := newTestWorker(board.StartPosition())
	score := w.PVS(-ScoreInf, ScoreInf, 4)
	assert.True(t, score > -ScoreInf && score < ScoreInf, "a non-terminal search must return a proven, finite score")
}

func TestSetWeights_AppliesToDefaultEvaluator(t *testing.T) {
	w := newTestWorker(board.StartPosition())
	require.NotNil(t, w)
	assert.NotPanics(t, func() {
		w.SetWeights(evaluator.DefaultWeights())
	})
}
