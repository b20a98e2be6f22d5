package mcts

import (
	"testing"
	"time"

	"github.com/hailam/hexengine/internal/hex"
)

func TestSearchReturnsLegalMoveOnTinyBoard(t *testing.T) {
	b := hex.NewBoard(2, 2)
	sb := hex.NewStoneBoard(b)
	policy := &Policy{}
	e := NewEngine(2, DefaultOptions())

	root := e.Search(b, sb, hex.Black, sb.Empty(), policy, Limits{MaxSimulations: 50})
	move := BestMove(root)
	if move == hex.NullCell {
		t.Fatalf("expected a move to be selected")
	}
	if !sb.IsEmpty(move) {
		t.Errorf("selected move %v is not an empty cell", move)
	}
}

func TestSearchRespectsConsiderRestriction(t *testing.T) {
	b := hex.NewBoard(3, 3)
	sb := hex.NewStoneBoard(b)
	policy := &Policy{}
	e := NewEngine(1, DefaultOptions())

	b1, _ := b.ParseCell("b1")
	only := hex.NewBitset(sb.Size())
	only.Set(b1)

	root := e.Search(b, sb, hex.Black, only, policy, Limits{MaxSimulations: 20})
	move := BestMove(root)
	if move != b1 {
		t.Errorf("expected the only considered move b1 to be chosen, got %v", move)
	}
}

func TestSearchStopsAtTimeLimit(t *testing.T) {
	b := hex.NewBoard(3, 3)
	sb := hex.NewStoneBoard(b)
	policy := &Policy{}
	e := NewEngine(2, DefaultOptions())

	start := time.Now()
	e.Search(b, sb, hex.Black, sb.Empty(), policy, Limits{MaxTime: 30 * time.Millisecond})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("search ran far longer than its time limit: %v", elapsed)
	}
}

func TestRootStaysUnoccupiedAfterSearch(t *testing.T) {
	b := hex.NewBoard(3, 3)
	sb := hex.NewStoneBoard(b)
	policy := &Policy{}
	e := NewEngine(2, DefaultOptions())

	e.Search(b, sb, hex.Black, sb.Empty(), policy, Limits{MaxSimulations: 30})
	if sb.Empty().Count() != b.NumCells() {
		t.Errorf("Search must leave the caller's board untouched, found %d empty cells of %d", sb.Empty().Count(), b.NumCells())
	}
}

func TestWinnerOnFullBoardIsDecisive(t *testing.T) {
	b := hex.NewBoard(2, 2)
	sb := hex.NewStoneBoard(b)
	a1, _ := b.ParseCell("a1")
	a2, _ := b.ParseCell("a2")
	b1, _ := b.ParseCell("b1")
	b2, _ := b.ParseCell("b2")
	sb.Play(hex.Black, a1)
	sb.Play(hex.Black, a2)
	sb.Play(hex.White, b1)
	sb.Play(hex.White, b2)

	if w := Winner(b, sb); w != hex.Black {
		t.Errorf("expected Black's solid a1-a2 column to win, got %v", w)
	}
}
