package protocol

import (
	"context"
	"strings"
	"testing"

	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/ice"
	"github.com/hailam/hexengine/internal/mcts"
	"github.com/hailam/hexengine/internal/patternload"
	"github.com/hailam/hexengine/internal/vc"
)

func newTestSession(t *testing.T, w, h int) *Session {
	t.Helper()
	cfg := Config{
		Width: w, Height: h,
		Patterns:         patternload.Empty(),
		ICEOptions:       ice.DefaultOptions(),
		VCOptions:        vc.DefaultOptions(),
		MCTSOptions:      mcts.DefaultOptions(),
		SearchWorkers:    1,
		PreSearchWorkers: 1,
		MaxSimulations:   50,
	}
	return NewSession(cfg)
}

func dispatch(t *testing.T, s *Session, cmd string, args ...string) string {
	t.Helper()
	reply, err := s.dispatch(context.Background(), cmd, args)
	if err != nil {
		t.Fatalf("%s %v: %v", cmd, args, err)
	}
	return reply
}

// Boundary scenario 1 (spec §8): empty 1x1 board, Black to play; genmove
// returns a1, and final_score is B+ afterward.
func TestBoundary1x1Genmove(t *testing.T) {
	s := newTestSession(t, 1, 1)
	move := dispatch(t, s, "genmove", "black")
	if move != "a1" {
		t.Fatalf("expected genmove to return a1, got %q", move)
	}
	score := dispatch(t, s, "final_score")
	if score != "B+" {
		t.Fatalf("expected B+, got %q", score)
	}
}

func TestPlayUndoRoundTrip(t *testing.T) {
	s := newTestSession(t, 5, 5)
	before := s.hbd.Stones.Hash(hex.Black)

	dispatch(t, s, "play", "black", "c3")
	if s.hbd.Stones.IsEmpty(mustCell(t, s, "c3")) {
		t.Fatal("c3 should be occupied after play")
	}

	dispatch(t, s, "undo")
	after := s.hbd.Stones.Hash(hex.Black)
	if before != after {
		t.Errorf("undo did not restore the pre-move hash")
	}
}

func TestPlayRejectsOccupiedCell(t *testing.T) {
	s := newTestSession(t, 5, 5)
	dispatch(t, s, "play", "black", "c3")
	if _, err := s.dispatch(context.Background(), "play", []string{"white", "c3"}); err == nil {
		t.Fatal("expected an error playing an occupied cell")
	}
}

func TestSwapPieces(t *testing.T) {
	s := newTestSession(t, 5, 5)
	dispatch(t, s, "play", "black", "c3")
	dispatch(t, s, "play", "white", "swap-pieces")

	c3 := mustCell(t, s, "c3")
	if s.hbd.Stones.ColorOf(c3) != hex.White {
		t.Errorf("expected c3 to belong to White after swap, got %v", s.hbd.Stones.ColorOf(c3))
	}
	if s.hbd.Stones.Played().Count() != 1 {
		t.Errorf("swap should not change the number of stones on the board")
	}
	if s.toMove != hex.Black {
		t.Errorf("expected Black to move after White's swap")
	}
}

func TestSwapRejectedAfterMoreThanOneStone(t *testing.T) {
	s := newTestSession(t, 5, 5)
	dispatch(t, s, "play", "black", "c3")
	dispatch(t, s, "play", "white", "a1")
	if _, err := s.dispatch(context.Background(), "play", []string{"black", "swap-pieces"}); err == nil {
		t.Fatal("expected swap-pieces to be rejected once more than one stone is on the board")
	}
}

func TestAllLegalMovesShrinksAfterPlay(t *testing.T) {
	s := newTestSession(t, 3, 3)
	before := strings.Fields(dispatch(t, s, "all_legal_moves"))
	dispatch(t, s, "play", "black", "b2")
	after := strings.Fields(dispatch(t, s, "all_legal_moves"))
	if len(after) != len(before)-1 {
		t.Errorf("expected one fewer legal move after a play, got %d -> %d", len(before), len(after))
	}
}

func TestTimeLeftQueryAndSet(t *testing.T) {
	s := newTestSession(t, 5, 5)
	dispatch(t, s, "time_left", "black", "120")
	reply := dispatch(t, s, "time_left", "black")
	if reply != "120" {
		t.Errorf("expected 120, got %q", reply)
	}
}

func TestResignSetsFinalScore(t *testing.T) {
	s := newTestSession(t, 5, 5)
	dispatch(t, s, "play", "black", "resign")
	score := dispatch(t, s, "final_score")
	if score != "W+" {
		t.Errorf("expected W+ after Black resigns, got %q", score)
	}
}

func TestRunEchoesBlankLineTerminatedReplies(t *testing.T) {
	s := newTestSession(t, 3, 3)
	in := strings.NewReader("all_legal_moves\nquit\n")
	var out strings.Builder
	if err := Run(context.Background(), in, &out, s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "= ") || !strings.HasSuffix(strings.TrimRight(text, "\n"), "bye") {
		t.Errorf("unexpected transcript: %q", text)
	}
}

func mustCell(t *testing.T, s *Session, name string) hex.Cell {
	t.Helper()
	c, err := s.board.ParseCell(name)
	if err != nil {
		t.Fatalf("ParseCell(%q): %v", name, err)
	}
	return c
}
