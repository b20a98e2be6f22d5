package hex

import "testing"

func TestCellEncodingRoundTrip(t *testing.T) {
	b := NewBoard(5, 5)
	for _, s := range []string{"a1", "e5", "c3", "b2"} {
		c, err := b.ParseCell(s)
		if err != nil {
			t.Fatalf("ParseCell(%q): %v", s, err)
		}
		if got := b.String(c); got != s {
			t.Errorf("round-trip %q -> %v -> %q", s, c, got)
		}
	}
}

func TestSpecialTokens(t *testing.T) {
	b := NewBoard(5, 5)
	c, err := b.ParseCell("swap-pieces")
	if err != nil || c != b.Swap {
		t.Fatalf("swap-pieces parse: %v %v", c, err)
	}
	c, err = b.ParseCell("resign")
	if err != nil || c != b.Resign {
		t.Fatalf("resign parse: %v %v", c, err)
	}
}

func TestMirrorAndRotateInvolutions(t *testing.T) {
	b := NewBoard(5, 5)
	for col := 0; col < b.Width; col++ {
		for row := 0; row < b.Height; row++ {
			c := b.CellAt(col, row)
			if m := b.Mirror(b.Mirror(c)); m != c {
				t.Errorf("Mirror not involutive at %v: got %v", c, m)
			}
			if r := b.Rotate(b.Rotate(c)); r != c {
				t.Errorf("Rotate not involutive at %v: got %v", c, r)
			}
		}
	}
	if b.Mirror(b.North) != b.West || b.Mirror(b.West) != b.North {
		t.Errorf("Mirror should swap north/west edges")
	}
}

// boundaryScenario2 reproduces spec §8 boundary scenario 2: on a 5x5
// board, Black plays b2, White plays a2, Black plays b3; the group
// {b2,b3} has empty-neighbor set {b1,c1,c2,a3,c3,a4,b4}, and a3's only
// empty neighbor is a4.
func TestGroupBoardScenario2(t *testing.T) {
	b := NewBoard(5, 5)
	sb := NewStoneBoard(b)
	play := func(col Color, s string) {
		c, err := b.ParseCell(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		sb.Play(col, c)
	}
	play(Black, "b2")
	play(White, "a2")
	play(Black, "b3")

	gb := NewGroupBoard(sb)

	b2, _ := b.ParseCell("b2")
	b3, _ := b.ParseCell("b3")
	if !gb.SameGroup(b2, b3) {
		t.Fatalf("b2 and b3 should be in the same group")
	}

	want := []string{"b1", "c1", "c2", "a3", "c3", "a4", "b4"}
	wantSet := NewBitset(int(b.Resign) + 1)
	for _, s := range want {
		c, _ := b.ParseCell(s)
		wantSet.Set(c)
	}

	got := gb.EmptyNeighbors(gb.Captain(b2))
	if !got.Equal(wantSet) {
		t.Errorf("empty-neighbor set mismatch: got %v cells, want %v cells", got.Count(), wantSet.Count())
	}

	a3, _ := b.ParseCell("a3")
	a4, _ := b.ParseCell("a4")
	a3Neighbors := b.Neighbors(a3)
	emptyCount := 0
	var onlyEmpty Cell
	for _, n := range a3Neighbors {
		if n != NullCell && sb.IsEmpty(n) {
			emptyCount++
			onlyEmpty = n
		}
	}
	if emptyCount != 1 || onlyEmpty != a4 {
		t.Errorf("a3 should have exactly one empty neighbor, a4; got %d (last=%v)", emptyCount, onlyEmpty)
	}
}

func TestBitsetOps(t *testing.T) {
	s := NewBitset(200)
	s.Set(5)
	s.Set(130)
	if !s.Test(5) || !s.Test(130) {
		t.Fatal("expected bits set")
	}
	if s.Count() != 2 {
		t.Fatalf("expected count 2, got %d", s.Count())
	}
	s.Clear(5)
	if s.Test(5) {
		t.Fatal("expected bit cleared")
	}
	cells := s.Cells(nil)
	if len(cells) != 1 || cells[0] != 130 {
		t.Fatalf("unexpected cells: %v", cells)
	}
}
