package engine

import (
	"sort"
	"sync/atomic"

	"github.com/edge64/othello/internal/board"
)

// aspirationWindow is the half-width of the window the first root move of
// each iteration after the first tries before falling back to a full
// re-search.
const aspirationWindow = int32(2)

// RootMove is one legal move at the root, carrying the best score found
// for it so far and the proven [lower, upper] bound the root search has
// established.
type RootMove struct {
	Square board.Square
	Score  int32
	Lower  int32
	Upper  int32
}

// Result is the root driver's return value: the chosen move, its score,
// every root move considered, and the principal variation behind it.
type Result struct {
	Depth       int
	Selectivity Selectivity
	Move        board.Square
	Score       int32
	Moves       []RootMove
	PV          []board.Square
	Nodes       uint64
	BookMove    bool
}

// RootDriver runs iterative deepening at the root: it owns the worker
// doing the searching, the time manager bounding it, and the
// per-iteration aspiration-window retry loop.
type RootDriver struct {
	worker *Worker
	tm     *TimeManager
	stop   *atomic.Bool
}

// NewRootDriver builds a driver over pos using tables/pool, sharing the
// stop flag with every worker the task pool spawns.
func NewRootDriver(pos board.Position, tables *Tables, pool *TaskPool, tm *TimeManager) *RootDriver {
	stop := &atomic.Bool{}
	return &RootDriver{
		worker: NewWorker(pos, tables, pool, stop),
		tm:     tm,
		stop:   stop,
	}
}

// Stop raises the shared stop flag; any in-flight search returns to this
// driver's Search call as soon as the next cooperative check observes it.
func (r *RootDriver) Stop() {
	r.stop.Store(true)
}

// Search runs iterative deepening from depth 2 up to maxDepth (or until
// the position is shallow enough for the exact endgame solver), honouring
// the time manager's mini/maxi/extra thresholds between iterations.
func (r *RootDriver) Search(maxDepth int) Result {
	w := r.worker
	empties := w.pos.EmptyCount()
	if maxDepth <= 0 || maxDepth > empties {
		maxDepth = empties
	}

	var best Result
	var prevScore int32

	for depth := 2; depth <= maxDepth; depth++ {
		w.tables.NewSearch()

		score, moves := r.searchOneIteration(depth, prevScore)
		if w.Stopped() {
			break
		}

		sort.SliceStable(moves, func(i, j int) bool { return moves[i].Score > moves[j].Score })

		best = Result{
			Depth:       depth,
			Selectivity: w.selective,
			Move:        moves[0].Square,
			Score:       score,
			Moves:       moves,
			Nodes:       w.Nodes(),
		}

		if depth > 2 && score < prevScore {
			r.tm.RequestExtension()
		}
		prevScore = score

		if r.tm.ForceStop() || w.Stopped() {
			break
		}
		if !r.tm.ShouldDeepenAfterIteration() {
			break
		}
		if depth >= empties {
			break
		}
	}

	best.PV = r.reconstructPV(best.Move)
	return best
}

// reconstructPV walks the PV transposition table forward from the root
// position, following each position's stored best move until a miss or a
// terminal position is reached.
func (r *RootDriver) reconstructPV(first board.Square) []board.Square {
	if first == board.NoMove {
		return nil
	}

	pos := r.worker.pos
	pv := []board.Square{first}
	pos = pos.Play(first)

	for i := 0; i < MaxPly; i++ {
		if pos.IsGameOver() {
			break
		}
		if !pos.HasLegalMove() {
			pos = pos.Play(board.PASS)
			continue
		}
		hit, ok := r.worker.tables.PV.Probe(pos.Hash(), pos.Player, pos.Opponent)
		if !ok {
			break
		}
		m := hit.Move(0)
		if m == board.NoMove {
			break
		}
		pv = append(pv, m)
		pos = pos.Play(m)
	}

	return pv
}

// searchOneIteration evaluates every root move at depth. The first root
// move uses an aspiration window seeded from the previous iteration's
// score (skipped on the first iteration, where there is no prior score to
// centre on); the other root moves use the full window. On an aspiration
// fail (score lands outside the window), it re-searches that move with
// the full [-inf, +inf] window.
func (r *RootDriver) searchOneIteration(depth int, prevScore int32) (int32, []RootMove) {
	w := r.worker
	ml := board.MovesFor(w.pos.Player, w.pos.Opponent)
	if ml.Empty() {
		return 0, []RootMove{{Square: board.PASS}}
	}

	moves := ml.Slice()
	out := make([]RootMove, 0, len(moves))
	best := int32(-ScoreInf)

	for i, m := range moves {
		if w.Stopped() || r.tm.CheckTimeout() {
			w.stop.Store(true)
			break
		}

		alpha, beta := int32(-ScoreInf), int32(ScoreInf)
		if depth > 2 && i == 0 {
			alpha = prevScore - aspirationWindow
			beta = prevScore + aspirationWindow
		}

		score := r.searchRootMove(m.Square, alpha, beta, depth)
		if score <= alpha || score >= beta {
			score = r.searchRootMove(m.Square, int32(-ScoreInf), int32(ScoreInf), depth)
		}

		lower, upper := score, score
		out = append(out, RootMove{Square: m.Square, Score: score, Lower: lower, Upper: upper})
		if score > best {
			best = score
		}
	}

	return best, out
}

// searchRootMove searches one root move to depth, returning its negamax
// score from the root's perspective.
func (r *RootDriver) searchRootMove(sq board.Square, alpha, beta int32, depth int) int32 {
	w := r.worker
	next := w.pos.Play(sq)
	w.pushChild(sq, next)
	score := -w.pvs(-beta, -alpha, depth-1, true)
	w.popChild()
	return score
}

// Hint returns the top-n legal moves with scores, reusing the same
// iterative-deepening search and simply keeping all root moves instead of
// collapsing to one.
func (r *RootDriver) Hint(n int, maxDepth int) []RootMove {
	result := r.Search(maxDepth)
	if n > len(result.Moves) {
		n = len(result.Moves)
	}
	return result.Moves[:n]
}
