// Package hexboard is the single façade a search or protocol front end
// drives: it owns one color's-eye view of a game position — stones,
// groups, inferior-cell record and virtual-connection tables — and
// exposes the handful of operations everything else is built from
// (ComputeAll, PlayMove, UndoMove; both ComputeAll and PlayMove finish
// with the decomposition pass in decomposition.go).
//
// Grounded on original_source/src/hex/HexBoard.cpp, whose BuildVCs,
// RevertVCs, PushHistory/PopHistory/ClearHistory and HandleDecomposition
// are the direct model for the methods below. The Go shape — a plain
// struct with explicit Copy, rather than the original's polymorphic
// BenzeneBoard hierarchy — follows the teacher's Position
// (hailam-chessplay/internal/board/position.go): a value type cheaply
// cloned per search thread, with mutators that operate in place.
package hexboard

import (
	"fmt"

	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/ice"
	"github.com/hailam/hexengine/internal/vc"
)

func colorIdx(c hex.Color) int {
	if c == hex.White {
		return 1
	}
	return 0
}

func opponent(c hex.Color) hex.Color {
	if c == hex.Black {
		return hex.White
	}
	return hex.Black
}

// historyFrame is a full snapshot of everything PlayMove can mutate,
// pushed before the move and popped on UndoMove. original_source's
// HexBoard keeps an incremental "backed up" fill-in undo list; this
// snapshots the whole StoneBoard and Record instead; board sizes here
// (<=11x11) make that cheap, and externally PopHistory's guarantee
// ("restores the position exactly as it was") is identical either way.
type historyFrame struct {
	move   hex.Cell
	color  hex.Color
	stones *hex.StoneBoard
	record *ice.Record
}

// HexBoard is the mutable per-thread position: stones, their group
// partition, the accumulated inferior-cell proofs and the virtual
// connections built on top of them.
type HexBoard struct {
	Board   *hex.Board
	Stones  *hex.StoneBoard
	Groups  *hex.GroupBoard
	Record  *ice.Record
	ICE     *ice.Engine
	VC      *vc.Engine
	Decided bool

	history []historyFrame
}

// New builds an empty board over the given geometry, sharing ice and vc
// engines (and their loaded pattern tables / tuning options) with
// whatever other HexBoard clones the caller maintains — spec §5's
// "immutable, process-wide" pattern/engine sharing.
func New(b *hex.Board, iceEngine *ice.Engine, vcOpts vc.Options) *HexBoard {
	sb := hex.NewStoneBoard(b)
	hbd := &HexBoard{
		Board:  b,
		Stones: sb,
		Groups: hex.NewGroupBoard(sb),
		Record: ice.NewRecord(sb.Size()),
		ICE:    iceEngine,
		VC:     vc.NewEngine(vcOpts),
	}
	hbd.ComputeAll(hex.Black)
	return hbd
}

// Clone deep-copies the board for a new worker/search thread. ICE is
// shared by reference (it is immutable pattern data); VC's internal
// tables are per-position state and are rebuilt fresh by a ComputeAll
// on the returned copy rather than deep-copied, since a thread that
// just received a clone is about to search from it and needs current
// tables for the actual game history it will replay — not a byte-exact
// copy of an engine that's rebuilt from scratch on every Build anyway.
func (hbd *HexBoard) Clone() *HexBoard {
	sb := hbd.Stones.Copy()
	out := &HexBoard{
		Board:  hbd.Board,
		Stones: sb,
		Groups: hbd.Groups.Copy(sb),
		Record: hbd.Record.Clone(),
		ICE:    hbd.ICE,
		VC:     vc.NewEngine(hbd.VC.Opts),
	}
	out.ComputeAll(hex.Black)
	return out
}

// ComputeAll runs a full recompute from the current stones: absorb
// groups, clear and recompute every inferior-cell proof, rebuild both
// colors' VC tables, then resolve decompositions to a fixed point
// (spec §4.5). sideToMove is passed on to ICE together with the fixed
// DoNotRemoveWinningFillin mode; pass the color that would play next.
func (hbd *HexBoard) ComputeAll(sideToMove hex.Color) {
	hbd.Groups.Absorb()
	hbd.Record.Clear()
	mode := ice.DoNotRemoveWinningFillin
	hbd.ICE.ComputeFillin(hbd.Board, hbd.Stones, sideToMove, mode, hbd.Record)
	hbd.Groups.Absorb()
	hbd.VC.Build(hbd.Board, hbd.Groups, hbd.Stones, hex.Black)
	hbd.VC.Build(hbd.Board, hbd.Groups, hbd.Stones, hex.White)
	hbd.resolveDecompositions()
	hbd.Decided = hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, hex.Black) ||
		hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, hex.White)
}

// PlayMove places a stone, then incrementally brings groups, inferior
// cells and VCs up to date (spec §4.5). col is the color of the stone
// being placed; PlayMove hands opponent(col), the side that moves next,
// to ICE together with DoNotRemoveWinningFillin.
func (hbd *HexBoard) PlayMove(col hex.Color, c hex.Cell) error {
	if !hbd.Board.IsInterior(c) {
		return fmt.Errorf("hexboard: %v is not a playable cell", c)
	}
	if !hbd.Stones.IsEmpty(c) {
		return fmt.Errorf("hexboard: cell %s is not empty", hbd.Board.String(c))
	}
	hbd.history = append(hbd.history, historyFrame{
		move:   c,
		color:  col,
		stones: hbd.Stones.Copy(),
		record: hbd.Record.Clone(),
	})
	hbd.VC.PushHistory()

	hbd.Stones.Play(col, c)
	hbd.Groups.Absorb()
	hbd.ICE.ComputeFillin(hbd.Board, hbd.Stones, opponent(col), ice.DoNotRemoveWinningFillin, hbd.Record)
	hbd.Groups.Absorb()
	hbd.VC.Build(hbd.Board, hbd.Groups, hbd.Stones, hex.Black)
	hbd.VC.Build(hbd.Board, hbd.Groups, hbd.Stones, hex.White)
	hbd.resolveDecompositions()
	hbd.Decided = hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, hex.Black) ||
		hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, hex.White)
	return nil
}

// UndoMove reverts the most recent PlayMove, restoring stones, the
// inferior-cell record and the VC tables exactly (spec §4.5).
func (hbd *HexBoard) UndoMove() error {
	if len(hbd.history) == 0 {
		return fmt.Errorf("hexboard: no move to undo")
	}
	n := len(hbd.history) - 1
	frame := hbd.history[n]
	hbd.history = hbd.history[:n]

	hbd.Stones = frame.stones
	hbd.Record = frame.record
	hbd.Groups = hex.NewGroupBoard(hbd.Stones)
	hbd.VC.PopHistory()
	hbd.Decided = hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, hex.Black) ||
		hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, hex.White)
	return nil
}

// LastMove returns the most recently played (cell, color), or
// (NullCell, Empty, false) if no move has been played.
func (hbd *HexBoard) LastMove() (hex.Cell, hex.Color, bool) {
	if len(hbd.history) == 0 {
		return hex.NullCell, hex.Empty, false
	}
	f := hbd.history[len(hbd.history)-1]
	return f.move, f.color, true
}
