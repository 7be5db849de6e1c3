package engine

import (
	"sync/atomic"

	"github.com/edge64/othello/internal/board"
	"github.com/edge64/othello/internal/evaluator"
)

// splitMinDepth is the minimum depth at which a YBWC split point may be
// created.
const splitMinDepth = 5

// Worker is one search thread's private state: its own copy of the
// position (board.Position is a value type, so mutating it in place via
// push/pop is all that "own copy" requires), its own evaluator feature
// stack, its own empty-square list, and pointers to the shared,
// concurrency-safe collaborators (transposition tables, stop flag, task
// pool) — "Search state carries... a pointer up the task tree".
type Worker struct {
	pos       board.Position
	eval      evaluator.Evaluator
	empties   *board.EmptySquareList
	selective Selectivity

	tables *Tables
	pool   *TaskPool
	stop   *atomic.Bool

	// localStops is this worker's chain of split-point abandon-subtree
	// flags, innermost (most recently entered split) last. A worker
	// spawned to search one branch of a YBWC split carries its parent's
	// chain plus that split's own flag, so a cutoff anywhere up its
	// ancestry stops it without touching the search-wide stop flag.
	localStops []*atomic.Bool

	nodes uint64
	ply   int

	posStack  [MaxPly]board.Position
	sqStack   [MaxPly]board.Square
	endgameAt int // empties count at/under which search hands off to the endgame solver
}

// NewWorker creates a worker rooted at pos, sharing tables/pool/stop with
// the rest of the search.
func NewWorker(pos board.Position, tables *Tables, pool *TaskPool, stop *atomic.Bool) *Worker {
	return &Worker{
		pos:       pos,
		eval:      evaluator.NewDefaultEvaluator(pos),
		empties:   board.NewEmptySquareList(pos.Empties()),
		selective: NoSelectivity,
		tables:    tables,
		pool:      pool,
		stop:      stop,
		endgameAt: 14,
	}
}

// Clone returns a fresh worker sharing this one's tables/pool/stop but
// with independent position/evaluator/empty-list state — used when the
// task pool hands an idle worker a sibling subtree.
func (w *Worker) Clone() *Worker {
	return &Worker{
		pos:        w.pos,
		eval:       evaluator.NewDefaultEvaluator(w.pos),
		empties:    board.NewEmptySquareList(w.pos.Empties()),
		selective:  w.selective,
		tables:     w.tables,
		pool:       w.pool,
		stop:       w.stop,
		localStops: w.localStops,
		endgameAt:  w.endgameAt,
	}
}

// Position returns the worker's current position.
func (w *Worker) Position() board.Position { return w.pos }

// Nodes returns the number of positions this worker has visited.
func (w *Worker) Nodes() uint64 { return w.nodes }

// Stopped reports whether the search-wide stop flag has been raised, or
// any split point this worker descends from has been cut off.
func (w *Worker) Stopped() bool {
	if w.stop.Load() {
		return true
	}
	for _, f := range w.localStops {
		if f.Load() {
			return true
		}
	}
	return false
}

// SetWeights overrides the evaluator's feature weights, if it is the
// built-in DefaultEvaluator (a custom Evaluator implementation is
// responsible for its own weight configuration).
func (w *Worker) SetWeights(ws evaluator.Weights) {
	if de, ok := w.eval.(*evaluator.DefaultEvaluator); ok {
		de.SetWeights(ws)
	}
}

// pushChild advances the worker's state to the position after playing
// square, saving enough state to undo via popChild. Must be paired with
// popChild in strict LIFO order (board.EmptySquareList.Restore's
// contract).
func (w *Worker) pushChild(square board.Square, next board.Position) {
	w.posStack[w.ply] = w.pos
	w.sqStack[w.ply] = square
	w.ply++
	w.pos = next
	w.eval.Apply(next, square)
	if square != board.PASS {
		w.empties.Remove(square)
	}
	w.nodes++
}

// popChild undoes the most recent pushChild.
func (w *Worker) popChild() {
	w.ply--
	square := w.sqStack[w.ply]
	if square != board.PASS {
		w.empties.Restore(square)
	}
	w.eval.Undo()
	w.pos = w.posStack[w.ply]
}

// nws runs a null-window search: the same recursion as PVS but with
// beta == alpha+1 and no principal variation kept.
func (w *Worker) nws(alpha, beta int32, depth int) int32 {
	return w.pvs(alpha, beta, depth, false)
}

// PVS runs a full-window principal-variation search; called by the
// iterative-deepening root driver.
func (w *Worker) PVS(alpha, beta int32, depth int) int32 {
	return w.pvs(alpha, beta, depth, true)
}

// pvs implements search: leaf/endgame hand-off, stability and
// transposition cutoffs, ProbCut, move ordering, then a scout search
// (first move full window, remaining moves null window with re-search on
// fail-high).
func (w *Worker) pvs(alpha, beta int32, depth int, isPV bool) int32 {
	if w.Stopped() {
		return alpha
	}

	if depth <= 0 {
		return w.eval.Eval()
	}

	empties := w.pos.EmptyCount()
	if empties <= w.endgameAt && depth >= empties {
		return int32(w.solveEndgame(int(alpha), int(beta)))
	}

	// Stability cutoff: the opponent's provable stable
	// discs alone already bound this node's score from above.
	oppStable := board.Stability(w.pos.Player, w.pos.Opponent)
	stableBound := int32(ScoreMax - 2*oppStable)
	if stableBound <= alpha {
		return stableBound
	}

	hash := w.pos.Hash()
	hit, hasHit := w.tables.Main.Probe(hash, w.pos.Player, w.pos.Opponent)
	if hasHit && hit.Depth() >= depth && hit.Selectivity() >= w.selective {
		lower, upper := hit.Bounds()
		if lower >= int(beta) {
			return int32(lower)
		}
		if upper <= int(alpha) {
			return int32(upper)
		}
		if lower == upper {
			return int32(lower)
		}
	}

	if !isPV && w.selective != NoSelectivity && depth >= 6 {
		if cut, ok := w.probCut(alpha, beta, depth); ok {
			return cut
		}
	}

	if w.etcCutoff(beta, depth) {
		return beta
	}

	ml := board.MovesFor(w.pos.Player, w.pos.Opponent)
	if ml.Empty() {
		passed := w.pos.Play(board.PASS)
		if !passed.HasLegalMove() {
			return int32(w.pos.FinalScore())
		}
		w.pushChild(board.PASS, passed)
		score := -w.pvs(-beta, -alpha, depth, isPV)
		w.popChild()
		return score
	}

	w.EvaluateAndSort(ml, alpha, depth, empties, hit, hasHit)

	best := int32(-ScoreInf)
	bestMove := board.NoMove
	originalAlpha := alpha

	// The eldest brother is always searched alone, full window, before
	// any split — PVS's scout-search assumption (that alpha is meaningful
	// for the null-window re-searches that follow) only holds once the
	// first child has reported.
	it := ml.Iter()
	firstMove, hasFirst := it.Next()
	if hasFirst {
		next := w.pos.Play(firstMove.Square)
		w.pushChild(firstMove.Square, next)
		score := -w.pvs(-beta, -alpha, depth-1, isPV)
		w.popChild()
		best = score
		bestMove = firstMove.Square
		if best > alpha {
			alpha = best
		}
	}

	if alpha < beta && !w.Stopped() {
		rest := make([]board.Move, 0, ml.Len()-1)
		for {
			m, ok := it.Next()
			if !ok {
				break
			}
			rest = append(rest, m)
		}

		if len(rest) > 0 && depth >= splitMinDepth && w.pool != nil {
			node := newSplitNode(alpha, beta)
			node.best, node.move = best, bestMove
			w.splitSearch(node, rest, depth, isPV)
			_, nodeBest, nodeMove, _ := node.snapshot()
			if nodeBest > best {
				best, bestMove = nodeBest, nodeMove
			}
			if best > alpha {
				alpha = best
			}
		} else {
			for _, m := range rest {
				if alpha >= beta || w.Stopped() {
					break
				}
				next := w.pos.Play(m.Square)
				w.pushChild(m.Square, next)
				score := -w.nws(-alpha-1, -alpha, depth-1)
				if score > alpha && score < beta {
					score = -w.pvs(-beta, -alpha, depth-1, isPV)
				}
				w.popChild()
				if score > best {
					best = score
					bestMove = m.Square
				}
				if best > alpha {
					alpha = best
				}
			}
		}
	}

	w.tables.Main.Store(hash, w.pos.Player, w.pos.Opponent, depth, int(w.selective), 0, int(originalAlpha), int(beta), int(best), bestMove)
	if isPV {
		w.tables.PV.Store(hash, w.pos.Player, w.pos.Opponent, depth, int(w.selective), 0, int(originalAlpha), int(beta), int(best), bestMove)
	}

	return best
}

// etcCutoff implements Enhanced Transposition Cutoff: probe the TT for
// each child before recursing; if any child's stored upper bound already
// proves a fail-high at beta here (negated, a child upper bound of U
// proves this node is at least -U), cut without searching.
func (w *Worker) etcCutoff(beta int32, depth int) bool {
	cut := false
	w.pos.LegalMoves().ForEach(func(sq board.Square) {
		if cut {
			return
		}
		next := w.pos.Play(sq)
		hit, ok := w.tables.Main.Probe(next.Hash(), next.Player, next.Opponent)
		if !ok || hit.Depth() < depth-1 {
			return
		}
		_, upper := hit.Bounds()
		if int32(-upper) >= beta {
			cut = true
		}
	})
	return cut
}

// probCut implements selective forward pruning: a reduced-
// depth null-window search whose result, once it clears beta by a
// selectivity-calibrated margin, is accepted as a cutoff.
func (w *Worker) probCut(alpha, beta int32, depth int) (int32, bool) {
	sigma := probCutSigma(depth, w.pos.EmptyCount())
	margin := int32(sigma * w.selective.TValue())

	probBeta := beta + margin
	reducedDepth := depth/2 + 1

	score := w.nws(probBeta-1, probBeta, reducedDepth)
	if score >= probBeta {
		return beta, true
	}
	return 0, false
}

// probCutSigma stands in for a precomputed sigma table keyed by (depth,
// empties): the accepted margin narrows as the reduced search approaches
// the full search's depth, and as fewer empties leave less room for the
// position to swing.
func probCutSigma(depth, empties int) float64 {
	base := 8.0 - float64(depth)*0.15
	if base < 2 {
		base = 2
	}
	if empties < 16 {
		base *= float64(empties) / 16
	}
	return base
}
