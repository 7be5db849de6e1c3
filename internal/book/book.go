package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/edge64/othello/internal/board"
)

// entryRecordSize is one on-disk book record: 8-byte Zobrist hash key,
// 1-byte square, 2-byte weight, 1 byte padding for 4-byte alignment.
const entryRecordSize = 12

// BookEntry is a single book move for a position: the square played and
// its relative popularity weight.
type BookEntry struct {
	Move   board.Square
	Weight uint16
}

// Book is an opening book: a set of known-good moves per position,
// keyed by the position's Zobrist hash -> Option<Move>`; this is one
// concrete implementation of that collaborator).
type Book struct {
	entries map[uint64][]BookEntry
}

// New creates an empty book.
func New() *Book {
	return &Book{entries: make(map[uint64][]BookEntry)}
}

// Add inserts (or strengthens) a book move for a position's hash.
func (b *Book) Add(hash uint64, move board.Square, weight uint16) {
	b.entries[hash] = append(b.entries[hash], BookEntry{Move: move, Weight: weight})
}

// Load reads a book from filename in the native record format described
// by entryRecordSize.
func Load(filename string) (*Book, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader reads a book from r: a sequence of fixed-size records, each
// 8-byte big-endian hash, 1-byte square, 2-byte big-endian weight, 1 byte
// padding.
func LoadReader(r io.Reader) (*Book, error) {
	b := New()
	var rec [entryRecordSize]byte
	for {
		_, err := io.ReadFull(r, rec[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("othello: reading book record: %w", err)
		}
		hash := binary.BigEndian.Uint64(rec[0:8])
		move := board.Square(rec[8])
		weight := binary.BigEndian.Uint16(rec[9:11])
		if move > board.H8 && move != board.PASS {
			continue
		}
		b.entries[hash] = append(b.entries[hash], BookEntry{Move: move, Weight: weight})
	}
	return b, nil
}

// Save writes the book to w in the same record format LoadReader expects.
func (b *Book) Save(w io.Writer) error {
	for hash, entries := range b.entries {
		for _, e := range entries {
			var rec [entryRecordSize]byte
			binary.BigEndian.PutUint64(rec[0:8], hash)
			rec[8] = byte(e.Move)
			binary.BigEndian.PutUint16(rec[9:11], e.Weight)
			if _, err := w.Write(rec[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Probe looks up pos in the book and returns a move via weighted random
// selection among the known entries for that exact position (no
// canonicalisation: a transposed-but-symmetric position is a cache-miss
// here, matching distinction between hash_code and
// canonicalise).
func (b *Book) Probe(pos board.Position) (board.Square, bool) {
	if b == nil {
		return board.NoMove, false
	}
	entries, ok := b.entries[pos.Hash()]
	if !ok || len(entries) == 0 {
		return board.NoMove, false
	}

	total := uint32(0)
	for _, e := range entries {
		total += uint32(e.Weight)
	}
	if total == 0 {
		return entries[0].Move, true
	}

	r := rand.Uint32() % total
	cumulative := uint32(0)
	for _, e := range entries {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return e.Move, true
		}
	}
	return entries[len(entries)-1].Move, true
}

// ProbeAll returns every book move for pos, sorted by descending weight
// (used by engine.hint to prefer book-supported candidates).
func (b *Book) ProbeAll(pos board.Position) []BookEntry {
	if b == nil {
		return nil
	}
	entries, ok := b.entries[pos.Hash()]
	if !ok {
		return nil
	}
	out := make([]BookEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Size returns the number of distinct positions the book has entries for.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
