package engine

import (
	"sync"
	"sync/atomic"

	"github.com/edge64/othello/internal/board"
)

// SplitNode is split-point Node: a parent node shared by the
// eldest-brother searcher and the idle workers it recruits once that
// first child has established a window (the Young Brothers Wait
// Concept — search the eldest brother alone, then fan the remaining
// brothers out once alpha is no longer moving). best-score, best-move,
// and the cutoff flag are all protected by one spin lock; a slave thread
// updates under this lock, the coordinator reads under this lock to
// decide whether the rest of the split can stop.
//
// localStop is this node's own abandon-subtree signal: distinct from a
// Worker's search-wide stop flag, which only the root driver's
// timeout/Stop path may raise. Raising localStop tells every slave
// descended from this split point — not the whole in-flight search — to
// abandon work once a cutoff is proven here.
type SplitNode struct {
	mu        spinLock
	alpha     int32
	beta      int32
	best      int32
	move      board.Square
	cutoff    bool
	localStop atomic.Bool
}

func newSplitNode(alpha, beta int32) *SplitNode {
	return &SplitNode{alpha: alpha, beta: beta, best: -ScoreInf, move: board.NoMove}
}

// report merges a slave's finished-subtree result into the split node,
// updating alpha and the cutoff flag under the node's lock. The first
// report to trigger the cutoff raises localStop, which every slave
// descended from this node (directly or through a deeper nested split)
// observes through its own Stopped() check.
func (n *SplitNode) report(score int32, move board.Square) (cutoff bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cutoff {
		return true
	}
	if score > n.best {
		n.best = score
		n.move = move
	}
	if n.best > n.alpha {
		n.alpha = n.best
	}
	if n.alpha >= n.beta {
		n.cutoff = true
		n.localStop.Store(true)
	}
	return n.cutoff
}

func (n *SplitNode) snapshot() (alpha, best int32, move board.Square, cutoff bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.alpha, n.best, n.move, n.cutoff
}

// TaskPool bounds YBWC parallelism to nTask worker slots; it keeps no
// long-lived worker goroutines, and splitSearch starts one goroutine per
// slot it claims. Capacity is modelled as a simple counting semaphore — acquiring a slot stands in for "signalling
// an idle worker", releasing stands in for the worker going back to
// idle — which is observably the same scheduling behaviour as a condvar
// wakeup without needing to model the OS thread itself (goroutines are
// already multiplexed onto the OS threads the Go runtime owns).
type TaskPool struct {
	mu    sync.Mutex
	cond  *sync.Cond
	idle  int
	nTask int
}

// NewTaskPool creates a pool with nTask worker slots.
func NewTaskPool(nTask int) *TaskPool {
	if nTask < 1 {
		nTask = 1
	}
	if nTask > 64 {
		nTask = 64
	}
	p := &TaskPool{idle: nTask, nTask: nTask}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// tryAcquire claims up to want idle slots without blocking, returning how
// many it actually got.
func (p *TaskPool) tryAcquire(want int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	got := want
	if got > p.idle {
		got = p.idle
	}
	p.idle -= got
	return got
}

// release returns n slots to the idle pool and wakes any coordinator
// waiting to split further work.
func (p *TaskPool) release(n int) {
	p.mu.Lock()
	p.idle += n
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Idle reports the number of currently idle worker slots.
func (p *TaskPool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idle
}

// splitSearch implements YBWC split: once the eldest brother
// (the first move, searched with the full window) has returned without a
// cutoff, the remaining moves are distributed across whatever idle
// workers tryAcquire can claim right now; any moves beyond that are
// searched sequentially by the coordinating worker itself. Every
// participant searches its move with a null window and reports into the
// shared SplitNode; each spawned slave carries node's localStop onto its
// own stop chain, so a cutoff here aborts exactly this subtree, never the
// rest of the in-flight search.
func (w *Worker) splitSearch(node *SplitNode, moves []board.Move, depth int, isPV bool) {
	if w.pool == nil || depth < splitMinDepth || len(moves) < 2 {
		w.sequentialSearch(node, moves, depth, isPV)
		return
	}

	grant := w.pool.tryAcquire(len(moves))
	defer w.pool.release(grant)

	var wg sync.WaitGroup
	for i := 0; i < grant; i++ {
		m := moves[i]
		wg.Add(1)
		go func(m board.Move) {
			defer wg.Done()
			slave := w.Clone()
			slave.localStops = appendLocalStop(w.localStops, &node.localStop)
			w.searchOneMove(slave, node, m, depth, isPV)
		}(m)
	}
	w.sequentialSearch(node, moves[grant:], depth, isPV)
	wg.Wait()
}

// appendLocalStop returns a fresh slice holding parent's chain of
// split-point stop flags plus this one, never aliasing parent's backing
// array (parent may itself still be appending further siblings).
func appendLocalStop(parent []*atomic.Bool, flag *atomic.Bool) []*atomic.Bool {
	out := make([]*atomic.Bool, len(parent), len(parent)+1)
	copy(out, parent)
	return append(out, flag)
}

func (w *Worker) sequentialSearch(node *SplitNode, moves []board.Move, depth int, isPV bool) {
	for _, m := range moves {
		if node.snapshotCutoff() {
			return
		}
		w.searchOneMove(w, node, m, depth, isPV)
	}
}

func (n *SplitNode) snapshotCutoff() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cutoff
}

func (w *Worker) searchOneMove(searcher *Worker, node *SplitNode, m board.Move, depth int, isPV bool) {
	alpha, _, _, cutoff := node.snapshot()
	if cutoff {
		return
	}
	next := searcher.pos.Play(m.Square)
	searcher.pushChild(m.Square, next)
	score := -searcher.nws(-alpha-1, -alpha, depth-1)
	if score > alpha {
		_, _, _, stillCutoff := node.snapshot()
		if !stillCutoff {
			score = -searcher.pvs(-node.beta, -alpha, depth-1, isPV)
		}
	}
	searcher.popChild()
	node.report(score, m.Square)
}
