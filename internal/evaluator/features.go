package evaluator

import "github.com/edge64/othello/internal/board"

// frame is one saved feature snapshot, pushed per ply — a small fixed
// struct copied wholesale per ply rather than a diff-based incremental
// update, since recomputing the handful of Othello features below from
// the position is already cheap (no per-feature-index weight matrix to
// walk).
type frame struct {
	pos   board.Position
	score int32
}

// squareValue is the static per-square weight table used as the
// DefaultEvaluator's positional term (move ordering keeps its own,
// separately scaled table). Corners are most valuable, the
// X-squares diagonally adjacent to
// them are penalised (classic Othello heuristic: playing an X-square
// before its corner is taken away tends to hand the corner to the
// opponent).
var squareValue = buildSquareValue()

func buildSquareValue() [64]int32 {
	var t [64]int32
	corner := int32(20)
	edge := int32(5)
	xsquare := int32(-10)
	csquare := int32(-5)
	interior := int32(1)
	for sq := board.Square(0); sq <= board.H8; sq++ {
		f, r := sq.File(), sq.Rank()
		switch {
		case board.Corners.IsSet(sq):
			t[sq] = corner
		case board.XSquares.IsSet(sq):
			t[sq] = xsquare
		case ((f == 0 || f == 7) && (r == 1 || r == 6)) || ((f == 1 || f == 6) && (r == 0 || r == 7)):
			t[sq] = csquare
		case f == 0 || f == 7 || r == 0 || r == 7:
			t[sq] = edge
		default:
			t[sq] = interior
		}
	}
	return t
}

// DefaultEvaluator is a hand-weighted sum of disc difference, mobility,
// stability, and static square value (no potential-mobility term) — the feature
// families move-ordering table already names, reused here as
// the evaluator's own term set since no learned-weight file is bundled
//.
type DefaultEvaluator struct {
	weights Weights
	stack   [featureStackDepth]frame
	top     int
}

// NewDefaultEvaluator returns an evaluator seeded with pos and the default
// (unloaded) weight set.
func NewDefaultEvaluator(pos board.Position) *DefaultEvaluator {
	e := &DefaultEvaluator{weights: DefaultWeights()}
	e.Reset(pos)
	return e
}

// SetWeights replaces the weight set (e.g. after LoadWeights) and
// recomputes the current frame's score.
func (e *DefaultEvaluator) SetWeights(w Weights) {
	e.weights = w
	e.stack[e.top].score = e.compute(e.stack[e.top].pos)
}

func (e *DefaultEvaluator) Reset(pos board.Position) {
	e.top = 0
	e.stack[0] = frame{pos: pos, score: e.compute(pos)}
}

func (e *DefaultEvaluator) Eval() int32 {
	return e.stack[e.top].score
}

func (e *DefaultEvaluator) Apply(pos board.Position, _ board.Square) {
	if e.top < featureStackDepth-1 {
		e.top++
	}
	e.stack[e.top] = frame{pos: pos, score: e.compute(pos)}
}

func (e *DefaultEvaluator) Undo() {
	if e.top > 0 {
		e.top--
	}
}

// compute recomputes every feature from scratch — acceptable cost for an
// 8x8 board (64 squares, a handful of bitboard popcounts), so there is no
// need for true incremental feature diffing between plies.
func (e *DefaultEvaluator) compute(pos board.Position) int32 {
	w := e.weights

	discDiff := int32(pos.Player.PopCount() - pos.Opponent.PopCount())

	myMoves := board.LegalMoves(pos.Player, pos.Opponent).PopCount()
	oppMoves := board.LegalMoves(pos.Opponent, pos.Player).PopCount()
	mobility := int32(myMoves - oppMoves)

	myStable := board.Stability(pos.Opponent, pos.Player)
	oppStable := board.Stability(pos.Player, pos.Opponent)
	stability := int32(myStable - oppStable)

	var squareScore int32
	pos.Player.ForEach(func(sq board.Square) { squareScore += squareValue[sq] })
	pos.Opponent.ForEach(func(sq board.Square) { squareScore -= squareValue[sq] })

	return w.DiscDiff*discDiff + w.Mobility*mobility + w.Stability*stability + w.Square*squareScore
}
