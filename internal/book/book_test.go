package book

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/hexboard"
	"github.com/hailam/hexengine/internal/ice"
	"github.com/hailam/hexengine/internal/vc"
)

func newTestBoard(t *testing.T, w, h int) *hexboard.HexBoard {
	t.Helper()
	b := hex.NewBoard(w, h)
	iceEngine := ice.NewEngine(nil, nil, nil, nil, nil, nil, nil, ice.DefaultOptions())
	return hexboard.New(b, iceEngine, vc.DefaultOptions())
}

func TestHashConsistentAndChanges(t *testing.T) {
	hbd := newTestBoard(t, 5, 5)
	h1 := hbd.Stones.Hash(hex.Black)
	h2 := hbd.Stones.Hash(hex.Black)
	if h1 != h2 {
		t.Fatalf("Hash not consistent: %x != %x", h1, h2)
	}

	c, err := hbd.Board.ParseCell("c3")
	if err != nil {
		t.Fatal(err)
	}
	if err := hbd.PlayMove(hex.Black, c); err != nil {
		t.Fatal(err)
	}
	h3 := hbd.Stones.Hash(hex.White)
	if h1 == h3 {
		t.Error("Hash should change after a move")
	}

	if err := hbd.UndoMove(); err != nil {
		t.Fatal(err)
	}
	h4 := hbd.Stones.Hash(hex.Black)
	if h1 != h4 {
		t.Errorf("Hash not restored after undo: %x != %x", h1, h4)
	}
}

func TestBookLoadAndProbe(t *testing.T) {
	hbd := newTestBoard(t, 5, 5)
	key := hbd.Stones.Hash(hex.Black)
	c3, err := hbd.Board.ParseCell("c3")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, key)
	binary.Write(&buf, binary.BigEndian, encodeMove(c3))
	binary.Write(&buf, binary.BigEndian, uint16(100))
	binary.Write(&buf, binary.BigEndian, uint32(0))

	b, err := LoadReader(&buf)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if b.Size() != 1 {
		t.Errorf("expected book size 1, got %d", b.Size())
	}

	move, found := b.Probe(hbd, hex.Black)
	if !found {
		t.Fatal("expected to find move in book")
	}
	if move != c3 {
		t.Errorf("expected %s, got %s", hbd.Board.String(c3), hbd.Board.String(move))
	}
}

func TestBookMiss(t *testing.T) {
	hbd := newTestBoard(t, 5, 5)
	b := New()
	move, found := b.Probe(hbd, hex.Black)
	if found {
		t.Error("expected book miss on empty book")
	}
	if move != hex.NullCell {
		t.Errorf("expected NullCell on miss, got %v", move)
	}
}

func TestProbeSkipsOccupiedCell(t *testing.T) {
	hbd := newTestBoard(t, 5, 5)
	c3, err := hbd.Board.ParseCell("c3")
	if err != nil {
		t.Fatal(err)
	}
	key := hbd.Stones.Hash(hex.Black)

	b := New()
	b.entries[key] = []BookEntry{{Move: c3, Weight: 50}}

	if err := hbd.PlayMove(hex.Black, c3); err != nil {
		t.Fatal(err)
	}
	// Re-insert the now-stale entry under the post-move hash too, so a
	// naive implementation that forgot to re-check legality would still
	// "find" a book move even though c3 is occupied.
	staleKey := hbd.Stones.Hash(hex.White)
	b.entries[staleKey] = []BookEntry{{Move: c3, Weight: 50}}

	_, found := b.Probe(hbd, hex.White)
	if found {
		t.Error("Probe returned an occupied cell as a legal book move")
	}
}

func TestSaveAndLoadCompressedRoundTrip(t *testing.T) {
	hbd := newTestBoard(t, 5, 5)
	key := hbd.Stones.Hash(hex.Black)
	c3, _ := hbd.Board.ParseCell("c3")
	d3, _ := hbd.Board.ParseCell("d3")

	b := New()
	b.entries[key] = []BookEntry{{Move: c3, Weight: 10}, {Move: d3, Weight: 30}}

	dir := t.TempDir()
	path := filepath.Join(dir, "book.zst")
	if err := b.SaveCompressed(path); err != nil {
		t.Fatalf("SaveCompressed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected compressed book file to exist: %v", err)
	}

	loaded, err := LoadCompressed(path)
	if err != nil {
		t.Fatalf("LoadCompressed: %v", err)
	}
	entries := loaded.ProbeAll(hbd, hex.Black)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Weight != 30 || entries[0].Move != d3 {
		t.Errorf("expected heaviest entry first (d3/30), got %+v", entries[0])
	}
}
