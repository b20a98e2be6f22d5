package ice

import (
	"testing"

	"github.com/hailam/hexengine/internal/hex"
)

func parseCell(t *testing.T, b *hex.Board, s string) hex.Cell {
	t.Helper()
	c, err := b.ParseCell(s)
	if err != nil {
		t.Fatalf("ParseCell(%q): %v", s, err)
	}
	return c
}

// TestCornerBecomesDeadByGraphRule constructs a corner cell (a1 on a 3x3
// board) whose only two non-edge neighbors are both Black, leaving White
// with a single usable neighbor (the West edge) — per
// UseGraphTheoryToFindDeadVulnerable, a cell with at most one virtual
// neighbor from a color's perspective is dead.
func TestCornerBecomesDeadByGraphRule(t *testing.T) {
	b := hex.NewBoard(3, 3)
	sb := hex.NewStoneBoard(b)
	sb.Play(hex.Black, parseCell(t, b, "b1"))
	sb.Play(hex.Black, parseCell(t, b, "a2"))

	e := NewEngine(nil, nil, nil, nil, nil, nil, nil, DefaultOptions())
	out := NewRecord(sb.Size())
	e.ComputeFillin(b, sb, hex.Black, DoNotRemoveWinningFillin, out)

	a1 := parseCell(t, b, "a1")
	if !out.Dead.Test(a1) {
		t.Errorf("expected a1 to be proven dead")
	}
	if sb.ColorOf(a1) != hex.Dead {
		t.Errorf("expected a1 to be filled in as Dead on the board, got %v", sb.ColorOf(a1))
	}
}

// TestRecordInvariantsOnEmptyBoard checks that running ComputeFillin on
// a fresh empty board finds nothing (no false positives) and leaves the
// board's cell count unchanged.
func TestRecordInvariantsOnEmptyBoard(t *testing.T) {
	b := hex.NewBoard(4, 4)
	sb := hex.NewStoneBoard(b)
	e := NewEngine(nil, nil, nil, nil, nil, nil, nil, DefaultOptions())
	out := NewRecord(sb.Size())
	e.ComputeFillin(b, sb, hex.Black, DoNotRemoveWinningFillin, out)

	if out.Dead.Count() != 0 {
		t.Errorf("expected no dead cells on an empty 4x4 board, got %d", out.Dead.Count())
	}
	if out.AllCaptured().Count() != 0 {
		t.Errorf("expected no captured cells on an empty board")
	}
}

// TestDeadDisjointFromCaptured checks the spec §3 invariant that Dead and
// Captured never overlap, on a board with an actual graph-rule dead cell.
func TestDeadDisjointFromCaptured(t *testing.T) {
	b := hex.NewBoard(3, 3)
	sb := hex.NewStoneBoard(b)
	sb.Play(hex.Black, parseCell(t, b, "b1"))
	sb.Play(hex.Black, parseCell(t, b, "a2"))

	e := NewEngine(nil, nil, nil, nil, nil, nil, nil, DefaultOptions())
	out := NewRecord(sb.Size())
	e.ComputeFillin(b, sb, hex.Black, DoNotRemoveWinningFillin, out)

	captured := out.AllCaptured()
	overlap := out.Dead.Clone()
	overlap.Intersect(captured)
	if !overlap.Empty() {
		t.Errorf("Dead and Captured overlap at %d cells", overlap.Count())
	}
}

// TestRecordCloneIndependence checks that Clone produces a deep copy:
// mutating the clone must not affect the source.
func TestRecordCloneIndependence(t *testing.T) {
	r := NewRecord(16)
	r.Dead.Set(3)
	clone := r.Clone()
	clone.Dead.Set(5)
	if r.Dead.Test(5) {
		t.Errorf("mutating the clone affected the source record")
	}
	if !clone.Dead.Test(3) {
		t.Errorf("clone should retain bits set before Clone() was called")
	}
}
