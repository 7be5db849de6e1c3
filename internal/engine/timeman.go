package engine

import "time"

// TimeManager implements mini/maxi/extra model: after every
// completed iteration the elapsed time is compared against three
// thresholds to decide whether to deepen further, stop, or — on PV
// instability — grant a one-time extension.
type TimeManager struct {
	start    time.Time
	mini     time.Duration
	maxi     time.Duration
	extra    time.Duration
	extended bool
}

// NewTimeManagerPerGame implements the per-game budgeting mode: T is the
// time remaining for the whole game, empties is the current empty-square
// count, and solvableDepth estimates how many empties a full exact solve
// could finish within T/10 (supplied by the caller — the root driver
// knows the engine's measured nodes-per-second).
func NewTimeManagerPerGame(budget time.Duration, empties, solvableDepth int) *TimeManager {
	d := (empties - solvableDepth) / 2
	if d < 2 {
		d = 2
	}
	t := budget/time.Duration(d) - 10*time.Millisecond
	if t < 100*time.Millisecond {
		t = 100 * time.Millisecond
	}
	return &TimeManager{
		start: time.Now(),
		mini:  t / 4,
		maxi:  t * 3 / 4,
		extra: t,
	}
}

// NewTimeManagerPerMove implements the per-move budgeting mode: budget is
// allotted to this move alone, with a small safety margin reserved below
// maxi and extra.
func NewTimeManagerPerMove(budget time.Duration) *TimeManager {
	return &TimeManager{
		start: time.Now(),
		mini:  budget * 9 / 10,
		maxi:  budget * 99 / 100,
		extra: budget,
	}
}

// Elapsed returns the time spent since the time manager was created.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.start)
}

// ShouldDeepenAfterIteration implements threshold rule,
// polled once after each completed iteration: after completing an iteration
// below mini, start another; above mini, stop (unless a later instability
// check extends the budget).
func (tm *TimeManager) ShouldDeepenAfterIteration() bool {
	return tm.Elapsed() <= tm.mini
}

// RequestExtension implements the PV-instability rule: if the current
// iteration's root score dropped below the previous iteration's, widen
// mini up to min(maxi, extra), once per move.
func (tm *TimeManager) RequestExtension() {
	if tm.extended {
		return
	}
	if tm.maxi < tm.extra {
		tm.mini = tm.maxi
	} else {
		tm.mini = tm.extra
	}
	tm.extended = true
}

// ForceStop reports whether the extra threshold has been reached, at
// which point the search must stop regardless of PV stability.
func (tm *TimeManager) ForceStop() bool {
	return tm.Elapsed() >= tm.extra
}

// CheckTimeout reports true once the extra threshold is reached. The root
// driver polls it before each root move; nodes below the root do not poll
// it, so a root move already in progress runs to completion before the
// timeout is seen.
func (tm *TimeManager) CheckTimeout() bool {
	return tm.ForceStop()
}
