// Package evaluator implements the static-evaluation collaborator the
// core search depends on only through an interface: eval(state) -> i32,
// apply(move)/undo(), and incrementally updated feature state.
// DefaultEvaluator is one concrete, deliberately modest implementation (a
// hand-weighted feature sum), not a calibrated learned model — the
// evaluator's weights are meant to be loadable from an external file, so
// no attempt is made here to reproduce edax-strength play out of the box.
package evaluator

import "github.com/edge64/othello/internal/board"

// Evaluator is the search's only view of the static evaluation function.
// Implementations maintain their own incremental feature state across
// Apply/Undo so that repeated evaluation along one search path need not
// recompute everything from scratch — an Apply/Undo pair across plies,
// generalised to an interface the search can hold without caring which
// implementation backs it.
type Evaluator interface {
	// Eval returns the static score of the current position from the
	// side-to-move's perspective, scaled to sign-magnitude
	// range (roughly [-64, 64], though midgame evaluators may exceed it
	// before the endgame solver takes over).
	Eval() int32

	// Apply pushes a new feature-state frame reflecting the position
	// after playing move (Player/Opponent already updated by the
	// caller's board.Position.Play — Apply is told the move only to
	// update incremental features cheaply rather than recomputing them).
	Apply(pos board.Position, move board.Square)

	// Undo pops back to the feature-state frame before the most recent
	// Apply. Must be called in exactly the reverse order of Apply calls
	// (the same LIFO discipline as board.EmptySquareList).
	Undo()

	// Reset clears all incremental state and recomputes features from
	// pos from scratch, used when starting a new search or after a
	// non-incremental jump (e.g. loading a position via set_board).
	Reset(pos board.Position)
}

// featureStackDepth bounds the ply depth the incremental stack supports —
// comfortably past any reachable Othello game length (at most 60 plies).
const featureStackDepth = 128
