package engine

import (
	"runtime"
	"sync/atomic"

	"github.com/edge64/othello/internal/board"
)

// NWay is the bucket width: a probe inspects NWay consecutive entries
// sharing one hash index.
const NWay = 4

// spinLockCount is the number of spin locks sharing the bucket array, a
// multiple of GOMAXPROCS ("M a multiple of CPU count").
func spinLockCount() int {
	n := runtime.GOMAXPROCS(0) * 4
	if n < 4 {
		n = 4
	}
	return n
}

// spinLock is a minimal test-and-test-and-set spin lock: bucket critical
// sections are bounded-constant work (one probe or one store), so a
// futex-backed mutex's syscall overhead is not worth paying.
type spinLock struct {
	locked atomic.Bool
}

func (s *spinLock) Lock() {
	for !s.locked.CompareAndSwap(false, true) {
		for s.locked.Load() {
			runtime.Gosched()
		}
	}
}

func (s *spinLock) Unlock() {
	s.locked.Store(false)
}

// draft packs (depth, selectivity, cost, date) into one u32 replacement
// key: a simple unsigned integer comparison between two packed drafts
// already gives the right "higher = more valuable, keep" ordering,
// because depth sits in the most significant byte down to date in the
// least.
type draft uint32

func packDraft(depth, selectivity, cost, date uint8) draft {
	return draft(uint32(depth)<<24 | uint32(selectivity)<<16 | uint32(cost)<<8 | uint32(date))
}

func (d draft) depth() uint8       { return uint8(d >> 24) }
func (d draft) selectivity() uint8 { return uint8(d >> 16) }
func (d draft) cost() uint8        { return uint8(d >> 8) }
func (d draft) date() uint8        { return uint8(d) }

// sameSearchClass reports whether two drafts share (depth, selectivity) —
// the condition under which Store intersects bounds instead of resetting
// them.
func (d draft) sameSearchClass(other draft) bool {
	return d.depth() == other.depth() && d.selectivity() == other.selectivity()
}

// Entry is one transposition table slot: Transposition Entry,
// holding the actual board masks (for full disambiguation within a
// bucket, not just a hash match) plus proven score bounds, the two best
// known replies, and the packed draft.
type Entry struct {
	player, opponent board.Bitboard
	lower, upper     int8
	move             [2]uint8 // board.Square values, or board.NoMove if absent
	d                draft
	valid            bool
}

func (e Entry) empty() bool { return e.d.date() == 0 }

// Move returns the stored best move (rank 0) and second-best move
// (rank 1), or board.NoMove for either slot that was never recorded.
func (e Entry) Move(rank int) board.Square {
	return board.Square(e.move[rank])
}

// Bounds returns the entry's proven (lower, upper) score bounds.
func (e Entry) Bounds() (int, int) {
	return int(e.lower), int(e.upper)
}

// Depth and Selectivity expose the draft's components for callers (ETC,
// move ordering) that need to judge "sufficient draft".
func (e Entry) Depth() int             { return int(e.d.depth()) }
func (e Entry) Selectivity() Selectivity { return Selectivity(e.d.selectivity()) }

// Table is a multi-way bucketed, spin-locked hash table. One bucket is
// NWay consecutive entries; a position hashes to a bucket,
// and all NWay slots are scanned (on probe) or considered (on store).
type Table struct {
	entries []Entry
	locks   []spinLock
	mask    uint64 // size-1, size (bucket count) a power of 2; entries has size*NWay+NWay slots
	date    uint8
}

// NewTable allocates a table sized (in MB), rounding down to a power of 2
// bucket count and adding NWay extra slots so a bucket never wraps past
// the array end.
func NewTable(sizeMB int) *Table {
	const entrySize = 24 // two 64-bit masks + ~8 bytes packed data
	bucketCount := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize / NWay)
	if bucketCount == 0 {
		bucketCount = 1
	}
	return &Table{
		entries: make([]Entry, bucketCount*NWay+NWay),
		locks:   make([]spinLock, spinLockCount()),
		mask:    bucketCount - 1,
		date:    1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (t *Table) bucketStart(hash uint64) uint64 {
	return (hash & t.mask) * NWay
}

func (t *Table) lockFor(hash uint64) *spinLock {
	return &t.locks[hash%uint64(len(t.locks))]
}

// NewSearch increments the generation counter;, on overflow
// past 127 the whole table is wiped rather than risking ambiguous ages.
func (t *Table) NewSearch() {
	t.date++
	if t.date > 127 {
		t.Clear()
		t.date = 1
	}
}

// Clear wipes every entry and resets the generation counter.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.date = 1
}

// Probe scans the NWay entries of hash's bucket for a full board match.
// On hit, it refreshes the entry's date to the current generation.
func (t *Table) Probe(hash uint64, player, opponent board.Bitboard) (Entry, bool) {
	lock := t.lockFor(hash)
	lock.Lock()
	defer lock.Unlock()

	start := t.bucketStart(hash)
	for i := uint64(0); i < NWay; i++ {
		e := &t.entries[start+i]
		if e.empty() {
			continue
		}
		if e.player == player && e.opponent == opponent {
			e.d = packDraft(e.d.depth(), e.d.selectivity(), e.d.cost(), t.date)
			return *e, true
		}
	}
	return Entry{}, false
}

// Store implements store contract: find a matching board in
// the bucket; if found and the stored draft's (depth, selectivity) equal
// the new one, intersect bounds and push the previous best move to rank
// 1; if the new draft is strictly greater, reset bounds from the
// (alpha, beta, score) triple via the standard alpha-beta bound-recovery
// rule. If no match, overwrite the bucket's lowest-draft entry.
func (t *Table) Store(hash uint64, player, opponent board.Bitboard, depth, selectivity, cost int, alpha, beta, score int, move board.Square) {
	lock := t.lockFor(hash)
	lock.Lock()
	defer lock.Unlock()

	newDraft := packDraft(clampByte(depth), clampByte(selectivity), clampByte(cost), t.date)
	start := t.bucketStart(hash)

	for i := uint64(0); i < NWay; i++ {
		e := &t.entries[start+i]
		if e.empty() || e.player != player || e.opponent != opponent {
			continue
		}
		if e.d.sameSearchClass(newDraft) {
			lower, upper := computeBounds(alpha, beta, score)
			if int(e.lower) > lower {
				lower = int(e.lower)
			}
			if int(e.upper) < upper {
				upper = int(e.upper)
			}
			if move != board.NoMove && board.Square(e.move[0]) != move {
				e.move[1] = e.move[0]
			}
			e.lower, e.upper = int8(lower), int8(upper)
			if move != board.NoMove {
				e.move[0] = uint8(move)
			}
			e.d = newDraft
			return
		}
		if uint32(newDraft) > uint32(e.d) {
			resetEntry(e, player, opponent, alpha, beta, score, move, newDraft)
			return
		}
		return // existing entry from a deeper/equal-class search: keep it
	}

	// No match: overwrite the worst (lowest-draft) slot in the bucket.
	worst := start
	for i := uint64(1); i < NWay; i++ {
		if uint32(t.entries[start+i].d) < uint32(t.entries[worst].d) {
			worst = start + i
		}
	}
	resetEntry(&t.entries[worst], player, opponent, alpha, beta, score, move, newDraft)
}

func resetEntry(e *Entry, player, opponent board.Bitboard, alpha, beta, score int, move board.Square, d draft) {
	lower, upper := computeBounds(alpha, beta, score)
	*e = Entry{
		player:   player,
		opponent: opponent,
		lower:    int8(lower),
		upper:    int8(upper),
		d:        d,
		valid:    true,
	}
	if move != board.NoMove {
		e.move[0] = uint8(move)
		e.move[1] = uint8(board.NoMove)
	} else {
		e.move[0] = uint8(board.NoMove)
		e.move[1] = uint8(board.NoMove)
	}
}

// computeBounds applies alpha-beta bound-recovery rule.
func computeBounds(alpha, beta, score int) (lower, upper int) {
	switch {
	case score >= beta:
		return score, ScoreMax
	case score <= alpha:
		return ScoreMin, score
	default:
		return score, score
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// HashFull samples the first 1000 entries and reports how many belong to
// the current generation, in permille — used only for diagnostics.
func (t *Table) HashFull() int {
	sample := 1000
	if sample > len(t.entries) {
		sample = len(t.entries)
	}
	used := 0
	for i := 0; i < sample; i++ {
		if !t.entries[i].empty() && t.entries[i].d.date() == t.date {
			used++
		}
	}
	return used * 1000 / sample
}

// Tables is the root search's three-physical-table layout:
// main table, a PV-only table used to reconstruct the principal variation
// across iterations, and a shallow table for scout evaluations during
// move ordering — kept separate so the main table isn't polluted by
// short, throwaway probes.
type Tables struct {
	Main    *Table
	PV      *Table
	Shallow *Table
}

// NewTables allocates the three tables, splitting a total hash budget
// (mainMB) the way a typical Othello engine weights them: one eighth of
// the budget each to PV and shallow (at least 1MB each), the rest (at
// least 1MB) to the main table.
func NewTables(mainMB int) *Tables {
	pvMB := mainMB / 8
	if pvMB < 1 {
		pvMB = 1
	}
	shallowMB := mainMB / 8
	if shallowMB < 1 {
		shallowMB = 1
	}
	mainBudget := mainMB - pvMB - shallowMB
	if mainBudget < 1 {
		mainBudget = 1
	}
	return &Tables{
		Main:    NewTable(mainBudget),
		PV:      NewTable(pvMB),
		Shallow: NewTable(shallowMB),
	}
}

// NewSearch advances the generation counter on all three tables.
func (t *Tables) NewSearch() {
	t.Main.NewSearch()
	t.PV.NewSearch()
	t.Shallow.NewSearch()
}

// Clear wipes all three tables.
func (t *Tables) Clear() {
	t.Main.Clear()
	t.PV.Clear()
	t.Shallow.Clear()
}
