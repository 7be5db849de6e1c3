package engine

import "github.com/edge64/othello/internal/board"

// solveEndgame dispatches to the fixed-depth endgame solvers by empties
// count: solve_0..solve_4 are hand-unrolled for the smallest
// counts (no move-list allocation, no recursion overhead worth paying for
// one to four empties), and solve_N is the general recursive solver with
// parity-ordered move enumeration for anything larger.
func (w *Worker) solveEndgame(alpha, beta int) int {
	switch w.pos.EmptyCount() {
	case 0:
		return w.solve0()
	case 1:
		return w.solve1(alpha, beta)
	case 2:
		return w.solve2(alpha, beta)
	case 3:
		return w.solve3(alpha, beta)
	case 4:
		return w.solve4(alpha, beta)
	default:
		return w.solveN(alpha, beta)
	}
}

// solve0 handles the fully-filled board: the final score is just the disc
// difference (no empties left to fight over), applying the wipeout rule
// via Position.FinalScore.
func (w *Worker) solve0() int {
	return w.pos.FinalScore()
}

// solve1 handles the one-empty-square case directly: the side to move
// either plays the one remaining square (if legal) or passes and the
// opponent plays it; either way the result is a single flip computation,
// no search needed.
func (w *Worker) solve1(alpha, beta int) int {
	sq := w.empties.First()
	if sq == board.NoMove {
		return w.pos.FinalScore()
	}

	if board.HasMove(sq, w.pos.Player, w.pos.Opponent) {
		flips := board.CountLastFlip(sq, w.pos.Player)
		pc := w.pos.Player.PopCount() + 1 + flips/2
		oc := w.pos.Opponent.PopCount() - flips/2
		return pc - oc
	}
	if board.HasMove(sq, w.pos.Opponent, w.pos.Player) {
		flips := board.CountLastFlip(sq, w.pos.Opponent)
		oc := w.pos.Opponent.PopCount() + 1 + flips/2
		pc := w.pos.Player.PopCount() - flips/2
		return pc - oc
	}
	return w.pos.FinalScore()
}

// solve2, solve3, and solve4 are the general recursive solver specialised
// to a fixed, small empties count, matching "hand-unrolled
// for depth <= 4" guidance. They share solveN's shape but skip the
// transposition probe/store (the cost of hashing dwarfs the cost of the
// search at these sizes).
func (w *Worker) solve2(alpha, beta int) int { return w.solveShallow(alpha, beta) }
func (w *Worker) solve3(alpha, beta int) int { return w.solveShallow(alpha, beta) }
func (w *Worker) solve4(alpha, beta int) int { return w.solveShallow(alpha, beta) }

// solveShallow is the shared body for solve2..solve4: exhaustive
// alpha-beta over the few legal moves, taken in empty-list (square-index)
// order with no parity sort, and with no TT probing.
func (w *Worker) solveShallow(alpha, beta int) int {
	moved := false
	best := -64

	w.empties.ForEach(func(sq board.Square) {
		if best >= beta {
			return
		}
		if !board.HasMove(sq, w.pos.Player, w.pos.Opponent) {
			return
		}
		moved = true
		next := w.pos.Play(sq)
		w.pushChild(sq, next)
		score := -w.solveEndgame(-beta, -max(alpha, best))
		w.popChild()
		if score > best {
			best = score
		}
	})

	if !moved {
		passed := w.pos.Play(board.PASS)
		if !passed.HasLegalMove() {
			return w.pos.FinalScore()
		}
		w.pushChild(board.PASS, passed)
		score := -w.solveEndgame(-beta, -alpha)
		w.popChild()
		return score
	}

	return best
}

// solveN is the general endgame solver for empties counts above the
// hand-unrolled threshold: full alpha-beta with null-window scout search,
// move ordering by parity (odd quadrant squares searched first, since
// filling the last square of a quadrant often hands the opponent a bad
// forced move), and a transposition probe/store around the recursion.
func (w *Worker) solveN(alpha, beta int) int {
	if w.Stopped() {
		return alpha
	}

	hash := w.pos.Hash()
	if hit, ok := w.tables.Main.Probe(hash, w.pos.Player, w.pos.Opponent); ok && hit.Depth() >= w.pos.EmptyCount() {
		lower, upper := hit.Bounds()
		if lower >= beta {
			return lower
		}
		if upper <= alpha {
			return upper
		}
		if lower == upper {
			return lower
		}
	}

	ml := w.parityOrderedMoves()
	if ml.Empty() {
		passed := w.pos.Play(board.PASS)
		if !passed.HasLegalMove() {
			return w.pos.FinalScore()
		}
		w.pushChild(board.PASS, passed)
		score := -w.solveEndgame(-beta, -alpha)
		w.popChild()
		return score
	}

	originalAlpha := alpha
	best := -64 - 1
	bestMove := board.NoMove
	first := true

	it := ml.Iter()
	for {
		m, ok := it.Next()
		if !ok {
			break
		}
		next := w.pos.Play(m.Square)
		w.pushChild(m.Square, next)

		var score int
		if first {
			score = -w.solveEndgame(-beta, -alpha)
		} else {
			score = -w.solveEndgame(-alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -w.solveEndgame(-beta, -alpha)
			}
		}
		w.popChild()

		if score > best {
			best = score
			bestMove = m.Square
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
		first = false
	}

	w.tables.Main.Store(hash, w.pos.Player, w.pos.Opponent, w.pos.EmptyCount(), int(NoSelectivity), 0, originalAlpha, beta, best, bestMove)

	return best
}

// parityOrderedMoves enumerates legal moves via the empty-square list's
// traversal order (itself arbitrary), then sorts them by quadrant parity
// so that moves into odd-count quadrants — which tend to yield the mover
// the last move in that quadrant, parity heuristic — are
// searched first.
func (w *Worker) parityOrderedMoves() *board.MoveList {
	ml := board.NewMoveList()
	w.empties.ForEach(func(sq board.Square) {
		if board.HasMove(sq, w.pos.Player, w.pos.Opponent) {
			parityScore := int32(0)
			if w.empties.Parity&w.quadrantTag(sq) != 0 {
				parityScore = 1
			}
			ml.Add(board.Move{
				Square:  sq,
				Flipped: board.Flipped(sq, w.pos.Player, w.pos.Opponent),
				Score:   parityScore,
			})
		}
	})
	ml.Sort()
	return ml
}

// quadrantTag exposes board.QuadrantOf for parityOrderedMoves' scoring;
// kept as a method only so it reads symmetrically with the rest of
// Worker's move-ordering helpers.
func (w *Worker) quadrantTag(sq board.Square) uint8 {
	return board.QuadrantOf(sq)
}
