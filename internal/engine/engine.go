package engine

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/edge64/othello/internal/board"
	"github.com/edge64/othello/internal/book"
	"github.com/edge64/othello/internal/evaluator"
)

// MaxLevel is the top of the skill-level scale SetLevel accepts; it maps
// each level in 0..60 to a (depth, selectivity) pair.
const MaxLevel = 60

// SearchInfo is reported through Engine.OnInfo after every completed
// iteration, the same progress-reporting idiom as a UCI "info" line, kept
// here without any UCI protocol framing around it.
type SearchInfo struct {
	Depth       int
	Selectivity Selectivity
	Score       int32
	Nodes       uint64
	Elapsed     time.Duration
	HashFull    int
}

// Engine is the top-level entry point: NewEngine, SetBoard, SetLevel,
// Search, Ponder, Stop, Hint.
type Engine struct {
	pos     board.Position
	tables  *Tables
	pool    *TaskPool
	book    *book.Book
	weights evaluator.Weights

	level       int
	depth       int
	selectivity Selectivity
	endgameAt   int

	stop       *atomic.Bool
	ponderStop *atomic.Bool
	ponderDone chan struct{}

	OnInfo func(SearchInfo)
}

// Config bundles NewEngine's construction parameters.
type Config struct {
	HashMB   int
	NumTasks int
	Weights  evaluator.Weights
}

// DefaultConfig returns a reasonable configuration: a 64MB total hash
// budget (split by NewTables into 48MB main, 8MB PV and 8MB shallow) and
// one task-pool slot per CPU.
func DefaultConfig() Config {
	return Config{
		HashMB:   64,
		NumTasks: runtime.GOMAXPROCS(0),
		Weights:  evaluator.DefaultWeights(),
	}
}

// NewEngine implements new_engine(config) -> Engine.
func NewEngine(cfg Config) *Engine {
	log.Printf("othello: new engine, hash=%dMB tasks=%d", cfg.HashMB, cfg.NumTasks)
	e := &Engine{
		pos:     board.StartPosition(),
		tables:  NewTables(cfg.HashMB),
		pool:    NewTaskPool(cfg.NumTasks),
		weights: cfg.Weights,
	}
	e.SetLevel(MaxLevel, e.pos.EmptyCount())
	return e
}

// SetBoard implements engine.set_board(board, side_to_move): pos.Player
// must already be the side to move (Position's own convention), so this
// is a direct assignment plus a fresh generation bump on the tables (a
// new root position invalidates the previous search's draft comparisons
// against "this search's date").
func (e *Engine) SetBoard(pos board.Position) {
	e.pos = pos
	e.tables.NewSearch()
}

// Board returns the engine's current position.
func (e *Engine) Board() board.Position {
	return e.pos
}

// SetBook attaches an opening book; searches probe it before falling back
// to the tree search.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// levelTable maps a skill level to (depth, selectivity): stronger levels
// search deeper and stay exact (NoSelectivity) further into the game;
// weaker levels cap both depth and confidence. Indexed by
// level*len(levelTable)/(MaxLevel+1), so levels 0..60 spread over the
// seven rows (0-8 → row 0, 9-17 → row 1, ..., 53-60 → row 6).
var levelTable = [...]struct {
	depth       int
	selectivity Selectivity
}{
	{4, Selectivity73},
	{6, Selectivity87},
	{8, Selectivity95},
	{10, Selectivity98},
	{14, Selectivity99},
	{22, Selectivity99},
	{60, NoSelectivity},
}

// SetLevel implements engine.set_level(level, empties): level is clamped
// to [0, MaxLevel]; empties informs how aggressively the exact endgame
// solver's threshold should move in as the game narrows (deeper levels
// solve exactly from further out).
func (e *Engine) SetLevel(level, empties int) {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	e.level = level

	row := levelTable[level*len(levelTable)/(MaxLevel+1)]
	e.depth = row.depth
	e.selectivity = row.selectivity

	endgameAt := row.depth / 2
	if endgameAt > empties {
		endgameAt = empties
	}
	e.endgameAt = endgameAt
}

// Search implements engine.search(budget) -> Result: synchronous,
// respects the time budget and the engine's stop flag. If a book move is
// available it is returned immediately without invoking the tree search.
func (e *Engine) Search(budget time.Duration) Result {
	if e.book != nil {
		if mv, ok := e.book.Probe(e.pos); ok {
			return Result{Move: mv, BookMove: true}
		}
	}

	tm := NewTimeManagerPerMove(budget)
	driver := NewRootDriver(e.pos, e.tables, e.pool, tm)
	driver.worker.selective = e.selectivity
	driver.worker.endgameAt = e.endgameAt
	driver.worker.SetWeights(e.weights)
	e.stop = driver.stop

	result := driver.Search(e.depth)
	log.Printf("othello: search depth=%d score=%d nodes=%d", result.Depth, result.Score, result.Nodes)
	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth:       result.Depth,
			Selectivity: result.Selectivity,
			Score:       result.Score,
			Nodes:       result.Nodes,
			Elapsed:     tm.Elapsed(),
			HashFull:    e.tables.Main.HashFull(),
		})
	}
	return result
}

// Ponder implements engine.ponder(guessed_move) -> handle: starts a
// background search assuming the opponent plays guessedMove, returning
// immediately. Stop interrupts it; the returned channel closes once the
// background search has actually exited, so a subsequent Search call
// cannot race with the pondering worker's stop flag.
func (e *Engine) Ponder(guessedMove board.Square) <-chan struct{} {
	ponderPos := e.pos.Play(guessedMove)
	stop := &atomic.Bool{}
	done := make(chan struct{})
	e.ponderStop = stop
	e.ponderDone = done

	go func() {
		defer close(done)
		tm := NewTimeManagerPerMove(time.Hour)
		driver := NewRootDriver(ponderPos, e.tables, e.pool, tm)
		driver.worker.selective = e.selectivity
		driver.worker.endgameAt = e.endgameAt
		driver.worker.SetWeights(e.weights)
		driver.stop = stop
		driver.worker.stop = stop
		driver.Search(e.depth)
	}()
	return done
}

// Stop implements engine.stop(): interrupts whichever search (foreground
// or pondering) is currently running.
func (e *Engine) Stop() {
	if e.stop != nil {
		e.stop.Store(true)
	}
	if e.ponderStop != nil {
		e.ponderStop.Store(true)
	}
}

// StopPondering transitions a background ponder search to idle without
// necessarily stopping a foreground search,
// blocking until the pondering goroutine has actually exited so its
// worker can be safely reused.
func (e *Engine) StopPondering() {
	if e.ponderStop == nil {
		return
	}
	e.ponderStop.Store(true)
	<-e.ponderDone
	e.ponderStop = nil
	e.ponderDone = nil
}

// Hint implements engine.hint(n) -> [Move; n]: top-n legal moves with
// scores via multi-PV (every root move's score from one iterative-
// deepening pass, rather than n separate searches).
func (e *Engine) Hint(n int, budget time.Duration) []RootMove {
	tm := NewTimeManagerPerMove(budget)
	driver := NewRootDriver(e.pos, e.tables, e.pool, tm)
	driver.worker.selective = e.selectivity
	driver.worker.endgameAt = e.endgameAt
	driver.worker.SetWeights(e.weights)
	e.stop = driver.stop
	return driver.Hint(n, e.depth)
}
