package oracle

import (
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

func play(t *testing.T, hbd *hexboard.HexBoard, col hex.Color, s string) {
	t.Helper()
	c, err := hbd.Board.ParseCell(s)
	if err != nil {
		t.Fatalf("ParseCell(%q): %v", s, err)
	}
	if err := hbd.PlayMove(col, c); err != nil {
		t.Fatalf("PlayMove(%v, %s): %v", col, s, err)
	}
}

func TestUndeterminedStateNeitherSideWon(t *testing.T) {
	hbd := newTestBoard(t, 4, 4)
	if IsDeterminedState(hbd) {
		t.Fatalf("empty board should not be determined")
	}
	if IsWonGame(hbd, hex.Black) || IsWonGame(hbd, hex.White) {
		t.Errorf("neither side should have won on an empty board")
	}
}

func TestSolidChainIsWonForBlack(t *testing.T) {
	hbd := newTestBoard(t, 3, 3)
	play(t, hbd, hex.Black, "a1")
	play(t, hbd, hex.White, "c1")
	play(t, hbd, hex.Black, "a2")
	play(t, hbd, hex.White, "c2")
	play(t, hbd, hex.Black, "a3")

	if !IsWonGame(hbd, hex.Black) {
		t.Errorf("expected Black to have won")
	}
	if !IsLostGame(hbd, hex.White) {
		t.Errorf("expected White to have lost")
	}
	if !IsDeterminedState(hbd) {
		t.Errorf("expected the game to be determined")
	}
}

func TestMovesToConsiderExcludesOccupiedCells(t *testing.T) {
	hbd := newTestBoard(t, 4, 4)
	play(t, hbd, hex.Black, "b2")

	consider := MovesToConsider(hbd, hex.White)
	b2, _ := hbd.Board.ParseCell("b2")
	if consider.Test(b2) {
		t.Errorf("an occupied cell must never be in the consider set")
	}
	if consider.Empty() {
		t.Errorf("expected some moves to remain on a near-empty 4x4 board")
	}
}

func TestMovesToConsiderInLosingStateReturnsWinningCarrier(t *testing.T) {
	hbd := newTestBoard(t, 3, 3)
	play(t, hbd, hex.Black, "a1")
	play(t, hbd, hex.Black, "a2")
	play(t, hbd, hex.Black, "a3")

	if !IsWonGame(hbd, hex.Black) {
		t.Fatalf("expected Black to have already won for this scenario")
	}
	carrier := MovesToConsiderInLosingState(hbd, hex.White)
	if carrier.Count() != 0 {
		t.Errorf("a completed solid chain has no VC carrier left to contest, got %d cells", carrier.Count())
	}
}
