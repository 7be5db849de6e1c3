package board

// maxMoves bounds the legal moves from any one Othello position (the
// theoretical worst case is well under 32); the move list is a fixed
// array sized for it so the hot path never allocates.
const maxMoves = 32

// sentinelLink marks the end of the list — one past the last slot.
const sentinelLink = maxMoves

// Move is one candidate move: the square played, the set of opponent
// discs it flips, its ordering score, and a cost field that no code in
// this module sets or reads (it stays zero). Flipped == 0 only for a
// Square == PASS move.
type Move struct {
	Square  Square
	Flipped Bitboard
	Score   int32
	Cost    uint32
}

// Wipeout reports whether this move flips every opponent disc.
func (m Move) Wipeout(O Bitboard) bool {
	return m.Flipped == O
}

// MoveList is a sentinel-headed singly linked list of Move, backed by a
// fixed array so ordering (reordering via next-links, not copies) and
// iteration-with-unlink are both allocation-free.
type MoveList struct {
	moves [maxMoves]Move
	next  [maxMoves]int8 // next[i] is the array index following move i, or sentinelLink
	head  int8           // index of first move, or sentinelLink if empty
	count int            // redundant with walking the list; kept for O(1) Len
}

// NewMoveList returns an empty list.
func NewMoveList() *MoveList {
	return &MoveList{head: sentinelLink}
}

// Reset empties the list for reuse without reallocating.
func (l *MoveList) Reset() {
	l.head = sentinelLink
	l.count = 0
}

// Add appends a move to the tail of the list, preserving square-index
// enumeration order until the list is explicitly sorted.
func (l *MoveList) Add(m Move) {
	idx := int8(l.count)
	l.moves[idx] = m
	l.next[idx] = sentinelLink
	if l.head == sentinelLink {
		l.head = idx
	} else {
		prev := l.head
		for l.next[prev] != sentinelLink {
			prev = l.next[prev]
		}
		l.next[prev] = idx
	}
	l.count++
}

// Len returns the number of moves currently in the list.
func (l *MoveList) Len() int {
	return l.count
}

// Empty reports whether the list has no moves.
func (l *MoveList) Empty() bool {
	return l.head == sentinelLink
}

// Sort reorders the linked list into decreasing Score order via insertion
// sort on the next-links — moves number in the tens, so this is cheaper
// and allocation-free next to sorting a slice. Ties keep their relative
// input order, matching move-ordering stability property.
func (l *MoveList) Sort() {
	if l.head == sentinelLink || l.next[l.head] == sentinelLink {
		return
	}
	var sorted int8 = sentinelLink
	cur := l.head
	for cur != sentinelLink {
		nextCur := l.next[cur]
		if sorted == sentinelLink || l.moves[cur].Score > l.moves[sorted].Score {
			l.next[cur] = sorted
			sorted = cur
		} else {
			p := sorted
			for l.next[p] != sentinelLink && l.moves[l.next[p]].Score >= l.moves[cur].Score {
				p = l.next[p]
			}
			l.next[cur] = l.next[p]
			l.next[p] = cur
		}
		cur = nextCur
	}
	l.head = sorted
}

// Iterator walks the list from head to tail, supporting in-place unlink
// of the element most recently returned (held in prev).
type Iterator struct {
	list *MoveList
	prev int8
	cur  int8
}

// Iter returns a fresh iterator positioned before the first element.
func (l *MoveList) Iter() Iterator {
	return Iterator{list: l, prev: sentinelLink, cur: l.head}
}

// Next advances the iterator and returns the move at the new position, or
// (Move{}, false) once the list is exhausted.
func (it *Iterator) Next() (Move, bool) {
	if it.cur == sentinelLink {
		return Move{}, false
	}
	m := it.list.moves[it.cur]
	it.prev = it.cur
	it.cur = it.list.next[it.cur]
	return m, true
}

// Remove unlinks the element the iterator most recently returned from
// Next. Removing the head is O(1); any other element is found by walking
// from the head to its predecessor, O(n) in the list length.
func (it *Iterator) Remove() {
	l := it.list
	removed := it.prev
	if l.head == removed {
		l.head = l.next[removed]
	} else {
		p := l.head
		for p != sentinelLink && l.next[p] != removed {
			p = l.next[p]
		}
		if p != sentinelLink {
			l.next[p] = l.next[removed]
		}
	}
	l.count--
}

// Slice materialises the list into a plain slice, in current list order.
// For callers outside the hot path (hint(n), tests) that want random
// access rather than an iterator.
func (l *MoveList) Slice() []Move {
	out := make([]Move, 0, l.count)
	idx := l.head
	for idx != sentinelLink {
		out = append(out, l.moves[idx])
		idx = l.next[idx]
	}
	return out
}

// MovesFor enumerates the legal moves for P against O as a fresh MoveList
// in square-index order, each carrying its flip set but an un-evaluated
// (zero) score — scoring and sorting is a separate pass, kept apart so
// callers that don't need ordering (e.g. the endgame solver's parity
// order) can skip it.
func MovesFor(P, O Bitboard) *MoveList {
	l := NewMoveList()
	legal := LegalMoves(P, O)
	legal.ForEach(func(sq Square) {
		l.Add(Move{Square: sq, Flipped: Flipped(sq, P, O)})
	})
	return l
}
