package engine

import "github.com/edge64/othello/internal/board"

// Move-ordering feature weights, table. Kept as named
// constants rather than magic numbers in scoreMove so the weight order
// documents the priority order directly.
const (
	weightWipeout        = int32(1) << 30
	weightHashBest       = int32(1) << 29
	weightHashSecond     = int32(1) << 28
	weightShallowEvalMax = int32(1) << 22
	weightOppMobility    = int32(1) << 15
	weightStability      = int32(1) << 11
	weightPotential      = int32(1) << 5
)

// squareStaticValue is the "Square static value" feature (≤ 18): a fixed
// table favouring corners, penalising the X-squares next to them, the
// same idiom as evaluator.squareValue but independently scaled to fit
// spec's "≤ 18" bound for this one ordering feature.
var squareStaticValue = buildSquareStaticValue()

func buildSquareStaticValue() [64]int32 {
	var t [64]int32
	for sq := board.Square(0); sq <= board.H8; sq++ {
		f, r := sq.File(), sq.Rank()
		switch {
		case board.Corners.IsSet(sq):
			t[sq] = 18
		case board.XSquares.IsSet(sq):
			t[sq] = -10
		case ((f == 0 || f == 7) && (r == 1 || r == 6)) || ((f == 1 || f == 6) && (r == 0 || r == 7)):
			t[sq] = -4
		case f == 0 || f == 7 || r == 0 || r == 7:
			t[sq] = 6
		default:
			t[sq] = 2
		}
	}
	return t
}

// minShallowEvalDepth returns the remaining-depth threshold below which
// the shallow-eval ordering bonus is skipped entirely: roughly 9 at
// mid-game empties counts, rising as empties fall and a reduced-depth
// scout search becomes relatively more expensive and more decisive near
// the endgame hand-off.
func minShallowEvalDepth(empties int) int {
	switch {
	case empties > 40:
		return 9
	case empties > 24:
		return 10
	case empties > 12:
		return 11
	default:
		return 12
	}
}

// shallowEvalDepth returns the recursion depth for the shallow-eval
// ordering pass: spec's min(6, (depth-15)/3).
func shallowEvalDepth(depth int) int {
	d := (depth - 15) / 3
	if d > 6 {
		d = 6
	}
	if d < 0 {
		d = 0
	}
	return d
}

// EvaluateAndSort scores every move in ml per weighted
// feature table and sorts the list into decreasing score order. hit/ok is
// the transposition probe result at this node (for the hash-move
// features); when depth clears minShallowEvalDepth(empties), each move
// also gets a reduced-depth null-window search scored into the "shallow
// eval" feature.
func (w *Worker) EvaluateAndSort(ml *board.MoveList, alpha int32, depth, empties int, hit Entry, hasHit bool) {
	// MoveList's Iterator doesn't expose in-place score mutation, so
	// scores are computed into a side slice keyed by position and copied
	// back via Reset+Add (which is also what keeps the list allocation
	// bounded to one Slice() call per node).
	moves := ml.Slice()
	scores := make([]int32, len(moves))
	for i, m := range moves {
		scores[i] = w.scoreMove(m, alpha, depth, empties, hit, hasHit)
	}

	ml.Reset()
	for i, m := range moves {
		m.Score = scores[i]
		ml.Add(m)
	}
	ml.Sort()
}

func (w *Worker) scoreMove(m board.Move, alpha int32, depth, empties int, hit Entry, hasHit bool) int32 {
	if m.Wipeout(w.pos.Opponent) {
		return weightWipeout
	}

	var score int32
	if hasHit {
		if hit.Move(0) == m.Square {
			score += weightHashBest
		} else if hit.Move(1) == m.Square {
			score += weightHashSecond
		}
	}

	next := w.pos.Play(m.Square)

	if depth >= minShallowEvalDepth(empties) {
		sd := shallowEvalDepth(depth)
		if sd > 0 {
			w.pushChild(m.Square, next)
			shallow := -w.nws(-alpha-1, -alpha, sd)
			w.popChild()
			// Scale into the feature's budget; shallow is already a
			// disc-difference score in [-64,64], so the natural scale
			// factor is weightShallowEvalMax/64.
			bonus := int32(shallow) * (weightShallowEvalMax / 64)
			score += bonus
		}
	}

	oppMoves := board.LegalMoves(next.Player, next.Opponent).PopCount()
	score += weightOppMobility * int32(36-oppMoves)

	stabilityAfter := board.Stability(next.Player, next.Opponent)
	score += weightStability * int32(stabilityAfter)

	potential := potentialMobility(next.Opponent, next.Player)
	score += weightPotential * int32(36-potential)

	score += squareStaticValue[m.Square]

	// Parity bonus (1-8): odd-sized quadrants favour the side that moves
	// last in them.
	if q := board.QuadrantOf(m.Square); w.empties.Parity&q != 0 {
		score += int32(q)
	}

	return score
}

// potentialMobility counts empty squares adjacent to at least one O disc:
// squares that could become a legal move for O once a neighbouring disc
// is flipped, i.e. "potential" as opposed to currently-legal mobility
//.
func potentialMobility(P, O board.Bitboard) int {
	empty := ^(P | O)
	frontier := (O.North() | O.South() | O.East() | O.West() |
		O.NorthEast() | O.NorthWest() | O.SouthEast() | O.SouthWest()) & empty
	return frontier.PopCount()
}
