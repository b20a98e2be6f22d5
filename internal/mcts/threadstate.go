package mcts

import "github.com/hailam/hexengine/internal/hex"

// ThreadState is the private, per-worker scratch a tree-descent and
// playout run against: its own stone board clone plus a playout policy
// (spec §4.7 "Each thread owns a private ThreadState containing a full
// PatternBoard clone, a playout policy, and scratch bitsets").
//
// Unlike original_source/src/mohex/HexUctState.cpp, tree-phase moves here
// are played directly on a plain hex.StoneBoard rather than a full
// hexboard.HexBoard (so no ICE/VC recompute runs per node) — the
// "treeUpdateRadius"/"playoutUpdateRadius" ring-godel update-radius
// switch spec §4.7 describes exists to bound the cost of keeping richer
// per-cell state consistent during fast playouts; since hex.RingGodel is
// already computed on demand from the live board rather than cached
// incrementally (internal/hex/ringgodel.go), there is no radius-bounded
// cache here to widen or shrink, so the switch has nothing to do and is
// omitted. Root and ply-1 legality still come from the real ICE/VC
// fixed point via internal/presearch's InitialData, which is seeded once
// per search rather than per node.
type ThreadState struct {
	Board  *hex.Board
	Stones *hex.StoneBoard
	Policy *Policy
}

// NewThreadState clones sb for a worker.
func NewThreadState(b *hex.Board, sb *hex.StoneBoard, policy *Policy) *ThreadState {
	return &ThreadState{Board: b, Stones: sb.Copy(), Policy: policy}
}

// Play places col at c.
func (ts *ThreadState) Play(col hex.Color, c hex.Cell) {
	ts.Stones.Play(col, c)
}

// Undo restores c to empty.
func (ts *ThreadState) Undo(c hex.Cell) {
	ts.Stones.Undo(c)
}

// Winner determines the decided color once the board is full, per
// spec §4.7 "Terminal evaluation": Black wins iff its stones solidly
// connect North and South.
func Winner(b *hex.Board, sb *hex.StoneBoard) hex.Color {
	gb := hex.NewGroupBoard(sb)
	if gb.EdgesConnected(b.North, b.South) {
		return hex.Black
	}
	return hex.White
}
