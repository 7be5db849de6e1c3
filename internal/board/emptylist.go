package board

// emptySentinel is the intrusive list's head/tail sentinel slot, matching
// 66-entry layout: 0..63 are squares, 64 is PASS, 65 is the
// sentinel.
const emptySentinel = 65

// EmptySquareList is the 66-entry intrusive doubly-linked list of empty
// squares described in squares 0..63 plus a PASS slot (64) are
// real list nodes; slot 65 is the sentinel whose prev/next both point to
// itself when the list is empty. Remove and Restore are O(1), but Restore
// is only correct if calls are nested in strict LIFO order with Remove —
// the same discipline the endgame solver's recursive descent naturally
// provides (undo unwinds in the reverse order moves were made).
type EmptySquareList struct {
	prev, next [emptySentinel + 1]int8
	quadrant   [emptySentinel + 1]uint8 // 4-bit quadrant tag per square, 0 for PASS/sentinel
	Parity     uint8                    // XOR of quadrant tags of squares still in the list
}

// QuadrantOf assigns each of the 64 squares to one of 4 disjoint 4x4
// blocks, tagged 1,2,4,8 so XORing tags gives a meaningful parity bitmask
//.
func QuadrantOf(sq Square) uint8 {
	f, r := sq.File(), sq.Rank()
	switch {
	case f < 4 && r < 4:
		return 1
	case f >= 4 && r < 4:
		return 2
	case f < 4 && r >= 4:
		return 4
	default:
		return 8
	}
}

// NewEmptySquareList builds the list from the empties bitboard, linked in
// increasing square order.
func NewEmptySquareList(empties Bitboard) *EmptySquareList {
	l := &EmptySquareList{}
	l.prev[emptySentinel] = emptySentinel
	l.next[emptySentinel] = emptySentinel

	tail := int8(emptySentinel)
	empties.ForEach(func(sq Square) {
		idx := int8(sq)
		l.quadrant[idx] = QuadrantOf(sq)
		l.next[tail] = idx
		l.prev[idx] = tail
		l.next[idx] = emptySentinel
		tail = idx
		l.Parity ^= l.quadrant[idx]
	})
	l.prev[emptySentinel] = tail
	return l
}

// Remove unlinks square x from the list in O(1), saving its neighbours in
// its own slot so Restore can relink without searching. Updates Parity.
func (l *EmptySquareList) Remove(x Square) {
	idx := int8(x)
	p, n := l.prev[idx], l.next[idx]
	l.next[p] = n
	l.prev[n] = p
	l.Parity ^= l.quadrant[idx]
}

// Restore relinks square x using the neighbours Remove saved in its slot.
// Must be called in exactly the reverse order of the matching Remove
// calls (strict LIFO) or the list's prev/next pointers diverge from the
// pre-Remove state.
func (l *EmptySquareList) Restore(x Square) {
	idx := int8(x)
	p, n := l.prev[idx], l.next[idx]
	l.next[p] = idx
	l.prev[n] = idx
	l.Parity ^= l.quadrant[idx]
}

// First returns the first empty square in the list, or PASS's sentinel
// value (NoMove, i.e. 65) if the list is empty.
func (l *EmptySquareList) First() Square {
	first := l.next[emptySentinel]
	if first == emptySentinel {
		return NoMove
	}
	return Square(first)
}

// Next returns the square following x in the list, or NoMove if x is last.
func (l *EmptySquareList) Next(x Square) Square {
	n := l.next[x]
	if n == emptySentinel {
		return NoMove
	}
	return Square(n)
}

// ForEach walks the list from first to last, calling f on each square.
// Safe only if f does not itself Remove/Restore list entries (a search
// that wants to do that should walk explicitly with First/Next).
func (l *EmptySquareList) ForEach(f func(Square)) {
	for sq := l.First(); sq != NoMove; sq = l.Next(sq) {
		f(sq)
	}
}

// Len counts the squares currently linked (O(n); for tests/debugging, not
// the hot path, which tracks its own empties count).
func (l *EmptySquareList) Len() int {
	n := 0
	l.ForEach(func(Square) { n++ })
	return n
}
