package abengine

import (
	"context"
	"testing"
	"time"

	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/hexboard"
	"github.com/hailam/hexengine/internal/ice"
	"github.com/hailam/hexengine/internal/oracle"
	"github.com/hailam/hexengine/internal/vc"
)

func newTestBoard(t *testing.T, w, h int) *hexboard.HexBoard {
	t.Helper()
	b := hex.NewBoard(w, h)
	iceEngine := ice.NewEngine(nil, nil, nil, nil, nil, nil, nil, ice.DefaultOptions())
	return hexboard.New(b, iceEngine, vc.DefaultOptions())
}

func TestSearchFindsImmediateWinOn1x1(t *testing.T) {
	hbd := newTestBoard(t, 1, 1)
	e := NewEngine(Options{MaxDepth: 2, PlyWidth: []int{5, 5}, TTSizeMB: 1})
	consider := oracle.MovesToConsider(hbd, hex.Black)

	move, score := e.Search(context.Background(), hbd, hex.Black, consider, Limits{MaxTime: time.Second})
	a1, _ := hbd.Board.ParseCell("a1")
	if move != a1 {
		t.Fatalf("expected a1, got %s", hbd.Board.String(move))
	}
	if score < WinScore-10 {
		t.Errorf("expected a near-maximal winning score, got %d", score)
	}
}

func TestSearchRespectsDeadline(t *testing.T) {
	hbd := newTestBoard(t, 5, 5)
	e := NewEngine(DefaultOptions())
	consider := oracle.MovesToConsider(hbd, hex.Black)

	move, _ := e.Search(context.Background(), hbd, hex.Black, consider, Limits{MaxTime: 20 * time.Millisecond})
	if move == hex.NullCell {
		t.Fatal("expected a move even under a tight deadline")
	}
}

func TestConsiderCacheShrinksAfterSearch(t *testing.T) {
	hbd := newTestBoard(t, 4, 4)
	e := NewEngine(Options{MaxDepth: 2, PlyWidth: []int{6, 6}, TTSizeMB: 1})
	consider := oracle.MovesToConsider(hbd, hex.Black)
	hash := hbd.Stones.Hash(hex.Black)

	e.Search(context.Background(), hbd, hex.Black, consider, Limits{MaxTime: time.Second})

	cached, ok := e.considerCache[hash]
	if !ok {
		t.Fatal("expected a cached consider set for the root variation")
	}
	if cached.Count() > consider.Count() {
		t.Errorf("cached consider set should never grow: had %d, now %d", consider.Count(), cached.Count())
	}
}
