// Package oracle answers the questions a search needs about a position
// without searching it itself: is the outcome already fixed, and which
// moves are even worth generating.
//
// spec §4.6 names these functions but the filtered original_source tree
// does not carry a PlayerUtils.cpp (WolvePlayer.cpp and MoHexPlayer.cpp
// both call into it, but the file itself fell outside the retrieval
// pack) — this package is grounded on the spec's own description of
// each function plus the already-ported internal/hexboard/internal/vc
// primitives it's built from, in the style of the teacher's small,
// free-function move-ordering helpers (hailam-chessplay/internal/engine/
// ordering.go).
package oracle

import (
	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/hexboard"
)

// IsDeterminedState reports whether the game on hbd is already decided —
// one side has a solid chain or Full VC between its edges.
func IsDeterminedState(hbd *hexboard.HexBoard) bool {
	return hbd.Decided
}

// IsWonGame reports whether col has already won.
func IsWonGame(hbd *hexboard.HexBoard, col hex.Color) bool {
	return hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, col)
}

// IsLostGame reports whether col has already lost.
func IsLostGame(hbd *hexboard.HexBoard, col hex.Color) bool {
	return hbd.VC.HasFullConnection(hbd.Board, hbd.Groups, col.Other())
}

// MovesToConsider builds the move set a search for col should generate
// from, per spec §4.6: start from every empty cell, drop cells a
// dominator equivalence class has made redundant (keeping one
// representative), drop vulnerable cells whose killer is still
// available to the opponent, then if the opponent holds unanswered Semi
// threats between its edges, restrict to the mustplay set that defends
// them.
func MovesToConsider(hbd *hexboard.HexBoard, col hex.Color) hex.Bitset {
	sb := hbd.Stones
	consider := sb.Empty().Clone()

	keep := make(map[hex.Cell]hex.Cell) // dominated cell -> chosen representative
	for c, dom := range hbd.Record.Dominated {
		if !consider.Test(c) || len(dom.Dominators) == 0 {
			continue
		}
		for _, d := range dom.Dominators {
			if d == c || !consider.Test(d) {
				continue
			}
			if _, already := keep[c]; !already {
				keep[c] = d
			}
		}
	}
	for c := range keep {
		consider.Clear(c)
	}

	for c, v := range hbd.Record.Vulnerable {
		if !consider.Test(c) {
			continue
		}
		if sb.IsEmpty(v.Killer) {
			consider.Clear(c)
		}
	}

	mustplay := hbd.VC.Mustplay(hbd.Board, hbd.Groups, sb, col)
	if !mustplay.Empty() {
		consider.Intersect(mustplay)
	}

	return consider
}

// MovesToConsiderInLosingState returns the smallest carrier among the
// opponent's Full VCs joining its own edges — the set of cells col must
// occupy to delay the loss as long as possible (spec §4.6). Returns an
// empty bitset if col is not actually in a losing position.
func MovesToConsiderInLosingState(hbd *hexboard.HexBoard, col hex.Color) hex.Bitset {
	opp := col.Other()
	full, _ := hbd.VC.EdgeVCs(hbd.Board, hbd.Groups, opp)
	if len(full) == 0 {
		return hex.NewBitset(hbd.Stones.Size())
	}
	return full[0].Carrier.Clone()
}
