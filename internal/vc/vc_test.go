package vc

import (
	"testing"

	"github.com/hailam/hexengine/internal/hex"
)

func cell(t *testing.T, b *hex.Board, s string) hex.Cell {
	t.Helper()
	c, err := b.ParseCell(s)
	if err != nil {
		t.Fatalf("ParseCell(%q): %v", s, err)
	}
	return c
}

// TestBridgePromotesToFull reproduces the canonical Hex "bridge": two
// Black stones with exactly two shared empty neighbors. Each shared
// cell seeds a Semi with a different key; since their carriers (each a
// singleton, the other key) are disjoint, semiToFullPromotion must turn
// them into a Full connection with carrier {c4, d3}.
func TestBridgePromotesToFull(t *testing.T) {
	b := hex.NewBoard(5, 5)
	sb := hex.NewStoneBoard(b)
	sb.Play(hex.Black, cell(t, b, "c3"))
	sb.Play(hex.Black, cell(t, b, "d4"))

	gb := hex.NewGroupBoard(sb)
	e := NewEngine(DefaultOptions())
	e.Build(b, gb, sb, hex.Black)

	x := gb.Captain(cell(t, b, "c3"))
	y := gb.Captain(cell(t, b, "d4"))
	full, semi := e.Lookup(hex.Black, x, y)
	if len(full) != 1 {
		t.Fatalf("expected exactly one Full VC between the bridge stones, got %d (semis=%d)", len(full), len(semi))
	}

	wantCarrier := hex.NewBitset(sb.Size())
	wantCarrier.Set(cell(t, b, "c4"))
	wantCarrier.Set(cell(t, b, "d3"))
	if !full[0].Carrier.Equal(wantCarrier) {
		t.Errorf("bridge Full carrier = %v cells, want {c4,d3}", full[0].Carrier.Count())
	}
}

// TestSemiChainCombinesToSemi exercises the OR/SEMI-rule's second case
// (spec §4.4): Semi(a,b) and Semi(b,c) sharing the same key cell and
// otherwise-disjoint carriers must combine into Semi(a,c) keyed on that
// same cell, carrying the union of both carriers.
func TestSemiChainCombinesToSemi(t *testing.T) {
	b := hex.NewBoard(5, 5)
	sb := hex.NewStoneBoard(b)
	n := sb.Size()

	a := cell(t, b, "a1")
	g := cell(t, b, "b2")
	c := cell(t, b, "c3")
	k := cell(t, b, "a2")
	x := cell(t, b, "a3")
	y := cell(t, b, "a4")

	tbl := newTable()
	opts := DefaultOptions()

	c1 := hex.NewBitset(n)
	c1.Set(k)
	c1.Set(x)
	insertSemi(tbl, a, g, c1, k, opts)

	c2 := hex.NewBitset(n)
	c2.Set(k)
	c2.Set(y)
	insertSemi(tbl, g, c, c2, k, opts)

	closeFixedPoint(tbl, opts)

	e, ok := tbl.lookup(a, c)
	if !ok {
		t.Fatalf("expected a connection entry between a and c after closure")
	}
	found := false
	for _, v := range e.semi {
		if v.Key == k && v.Carrier.Test(k) && v.Carrier.Test(x) && v.Carrier.Test(y) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Semi(a,c) keyed on %v carrying {%v,%v,%v}, got semis=%v", k, k, x, y, e.semi)
	}
}

// TestPushPopHistoryReverts checks that PushHistory/PopHistory restores
// the table exactly, matching spec §4.4's "Revert(log) ... restoring
// the prior state exactly."
func TestPushPopHistoryReverts(t *testing.T) {
	b := hex.NewBoard(5, 5)
	sb := hex.NewStoneBoard(b)
	sb.Play(hex.Black, cell(t, b, "c3"))

	gb := hex.NewGroupBoard(sb)
	e := NewEngine(DefaultOptions())
	e.Build(b, gb, sb, hex.Black)
	e.PushHistory()

	sb.Play(hex.Black, cell(t, b, "d4"))
	gb.Absorb()
	e.Build(b, gb, sb, hex.Black)

	x := gb.Captain(cell(t, b, "c3"))
	y := gb.Captain(cell(t, b, "d4"))
	if full, _ := e.Lookup(hex.Black, x, y); len(full) == 0 {
		t.Fatalf("expected a Full VC to exist before undo")
	}

	sb.Undo(cell(t, b, "d4"))
	gb.Absorb()
	e.PopHistory()

	if full, semi := e.Lookup(hex.Black, x, y); len(full) != 0 || len(semi) != 0 {
		t.Errorf("expected no VCs between c3 and d4's old captain after revert, got full=%d semi=%d", len(full), len(semi))
	}
}

// TestHasFullConnectionSolidChain checks the "stones solidly connect"
// fallback in winner detection (spec §4.4 "Winner detection").
func TestHasFullConnectionSolidChain(t *testing.T) {
	b := hex.NewBoard(3, 3)
	sb := hex.NewStoneBoard(b)
	for _, s := range []string{"a1", "a2", "a3"} {
		sb.Play(hex.Black, cell(t, b, s))
	}
	gb := hex.NewGroupBoard(sb)
	e := NewEngine(DefaultOptions())
	e.Build(b, gb, sb, hex.Black)

	if !e.HasFullConnection(b, gb, hex.Black) {
		t.Errorf("expected a solid a1-a2-a3 chain to connect Black's edges")
	}
	if e.HasFullConnection(b, gb, hex.White) {
		t.Errorf("White should not be connected")
	}
}
