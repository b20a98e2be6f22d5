package hexboard

import (
	"testing"

	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/ice"
	"github.com/hailam/hexengine/internal/vc"
)

func newTestBoard(t *testing.T, w, h int) *HexBoard {
	t.Helper()
	b := hex.NewBoard(w, h)
	iceEngine := ice.NewEngine(nil, nil, nil, nil, nil, nil, nil, ice.DefaultOptions())
	return New(b, iceEngine, vc.DefaultOptions())
}

func play(t *testing.T, hbd *HexBoard, col hex.Color, s string) {
	t.Helper()
	c, err := hbd.Board.ParseCell(s)
	if err != nil {
		t.Fatalf("ParseCell(%q): %v", s, err)
	}
	if err := hbd.PlayMove(col, c); err != nil {
		t.Fatalf("PlayMove(%v, %s): %v", col, s, err)
	}
}

func TestNewBoardIsUndecided(t *testing.T) {
	hbd := newTestBoard(t, 4, 4)
	if hbd.Decided {
		t.Errorf("a fresh board should not be decided")
	}
}

func TestSolidChainDecidesGame(t *testing.T) {
	hbd := newTestBoard(t, 3, 3)
	play(t, hbd, hex.Black, "a1")
	play(t, hbd, hex.White, "c1")
	play(t, hbd, hex.Black, "a2")
	play(t, hbd, hex.White, "c2")
	play(t, hbd, hex.Black, "a3")

	if !hbd.Decided {
		t.Fatalf("expected a solid a1-a2-a3 chain to decide the game")
	}
	if !hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, hex.Black) {
		t.Errorf("expected Black to have a full connection")
	}
}

func TestUndoMoveRestoresState(t *testing.T) {
	hbd := newTestBoard(t, 4, 4)
	play(t, hbd, hex.Black, "b2")
	before := hbd.Stones.Played().Count()

	play(t, hbd, hex.White, "c3")
	if err := hbd.UndoMove(); err != nil {
		t.Fatalf("UndoMove: %v", err)
	}
	after := hbd.Stones.Played().Count()
	if before != after {
		t.Errorf("played count after undo = %d, want %d", after, before)
	}
	c3, _ := hbd.Board.ParseCell("c3")
	if !hbd.Stones.IsEmpty(c3) {
		t.Errorf("expected c3 to be empty again after undo")
	}
}

func TestPlayOnOccupiedCellFails(t *testing.T) {
	hbd := newTestBoard(t, 4, 4)
	play(t, hbd, hex.Black, "b2")
	b2, _ := hbd.Board.ParseCell("b2")
	if err := hbd.PlayMove(hex.White, b2); err == nil {
		t.Errorf("expected playing on an occupied cell to fail")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	hbd := newTestBoard(t, 4, 4)
	play(t, hbd, hex.Black, "b2")
	clone := hbd.Clone()
	play(t, clone, hex.White, "c3")

	c3, _ := hbd.Board.ParseCell("c3")
	if !hbd.Stones.IsEmpty(c3) {
		t.Errorf("mutating the clone affected the original board")
	}
}
