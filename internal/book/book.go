// Package book implements a weighted-random opening book keyed by
// position hash, the matching machinery spec.md §1 keeps in scope even
// though it declares book *contents* ("opening books ... persistent
// solver databases") an external collaborator.
//
// Grounded on the teacher's internal/book/book.go: same binary record
// layout (8-byte big-endian position key, 2-byte move, 2-byte weight,
// 4 bytes of ignored learn data), same weighted-random Probe/ProbeAll
// shape, same sorted-by-weight determinism — with the Polyglot chess
// move codec replaced by a Hex move codec (a cell is just its index)
// and the chess PolyglotHash replaced by hex.StoneBoard.Hash.
package book

import (
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/hexboard"
)

// BookEntry is a single recorded move for a position.
type BookEntry struct {
	Move   hex.Cell
	Weight uint16
}

// Book is an in-memory opening book keyed by position hash.
type Book struct {
	entries map[uint64][]BookEntry
}

// New creates an empty book.
func New() *Book {
	return &Book{entries: make(map[uint64][]BookEntry)}
}

// Load reads a book file from disk (see LoadReader for the format).
func Load(filename string) (*Book, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader reads book entries from r. Entry format (16 bytes, all
// fields big-endian): 8-byte position key, 2-byte cell index, 2-byte
// weight, 4 bytes of learn data (ignored) — unchanged from the
// teacher's Polyglot layout, just with a Hex move in place of a chess
// move.
func LoadReader(r io.Reader) (*Book, error) {
	b := New()
	var entry [16]byte
	for {
		_, err := io.ReadFull(r, entry[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		key := binary.BigEndian.Uint64(entry[0:8])
		moveData := binary.BigEndian.Uint16(entry[8:10])
		weight := binary.BigEndian.Uint16(entry[10:12])
		move := decodeMove(moveData)
		if move != hex.NullCell {
			b.entries[key] = append(b.entries[key], BookEntry{Move: move, Weight: weight})
		}
	}
	return b, nil
}

// LoadCompressed reads a zstd-compressed book file, the on-disk format
// SaveCompressed writes (SPEC_FULL.md §11's wiring of
// klauspost/compress into this package).
func LoadCompressed(filename string) (*Book, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return LoadReader(dec)
}

// SaveCompressed writes the book's entries to filename as a zstd stream
// in the same 16-byte record layout LoadReader consumes.
func (b *Book) SaveCompressed(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	defer enc.Close()

	keys := make([]uint64, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var rec [16]byte
	for _, key := range keys {
		for _, e := range b.entries[key] {
			binary.BigEndian.PutUint64(rec[0:8], key)
			binary.BigEndian.PutUint16(rec[8:10], encodeMove(e.Move))
			binary.BigEndian.PutUint16(rec[10:12], e.Weight)
			binary.BigEndian.PutUint32(rec[12:16], 0)
			if _, err := enc.Write(rec[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// encodeMove/decodeMove store a cell as its raw index. Unlike a chess
// square (0-63, always fits in 6 bits plus promotion flags), a Hex cell
// index already fits a uint16 for every board size this engine plays
// (11x11 plus six sentinels is 127), so the codec is the identity
// function widened to the wire type — no bit-packing needed.
func encodeMove(c hex.Cell) uint16 {
	return uint16(c)
}

func decodeMove(data uint16) hex.Cell {
	return hex.Cell(data)
}

// Probe looks up hbd's current position in the book and returns a move
// using weighted-random selection, verifying the move is still a legal
// (empty) cell before returning it.
func (b *Book) Probe(hbd *hexboard.HexBoard, toMove hex.Color) (hex.Cell, bool) {
	if b == nil {
		return hex.NullCell, false
	}
	key := hbd.Stones.Hash(toMove)
	entries, ok := b.entries[key]
	if !ok || len(entries) == 0 {
		return hex.NullCell, false
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Weight > entries[j].Weight })

	legal := legalEntries(hbd, entries)
	if len(legal) == 0 {
		return hex.NullCell, false
	}

	totalWeight := uint32(0)
	for _, e := range legal {
		totalWeight += uint32(e.Weight)
	}
	if totalWeight == 0 {
		return legal[0].Move, true
	}

	r := rand.Uint32() % totalWeight
	cumulative := uint32(0)
	for _, e := range legal {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return e.Move, true
		}
	}
	return legal[0].Move, true
}

// ProbeAll returns every book entry for hbd's current position, sorted
// by weight (highest first), without filtering for legality.
func (b *Book) ProbeAll(hbd *hexboard.HexBoard, toMove hex.Color) []BookEntry {
	if b == nil {
		return nil
	}
	key := hbd.Stones.Hash(toMove)
	entries, ok := b.entries[key]
	if !ok {
		return nil
	}
	out := make([]BookEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

func legalEntries(hbd *hexboard.HexBoard, entries []BookEntry) []BookEntry {
	var out []BookEntry
	for _, e := range entries {
		if hbd.Board.IsInterior(e.Move) && hbd.Stones.IsEmpty(e.Move) {
			out = append(out, e)
		}
	}
	return out
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
