package hexboard

import (
	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/ice"
)

// resolveDecompositions implements spec §4.5's HandleDecomposition: for
// each color, look for a Full VC between its two edges whose carrier —
// once filled with that color's stones — would cut the remaining empty
// cells into pieces that no longer share a cell. Such a carrier is a
// "mustplay" that color will eventually own regardless of move order, so
// it is captured now and folded into the inferior-cell record; filling
// it can also expose further dead cells, so the whole fixed point is
// re-run after any change.
//
// Grounded on original_source/src/hex/HexBoard.cpp's HandleDecomposition,
// which additionally special-cases which of the two resulting sides the
// opponent could still use and re-derives VCs local to each side. This
// version only tests "does the carrier disconnect the remaining empty
// graph" via a plain flood fill, skipping the side-local VC re-derivation
// — a scoped-down stand-in in the same spirit as findUnreachable's and
// clique.go's documented simplifications: it finds the genuine, common
// case (a VC whose carrier is a graph cut) without the original's
// per-side bookkeeping, which only changes how fast later passes notice
// cells the broader fixed point still proves.
func (hbd *HexBoard) resolveDecompositions() {
	for {
		changed := false
		for _, col := range [2]hex.Color{hex.Black, hex.White} {
			if hbd.decomposeOnce(col) {
				changed = true
			}
		}
		if !changed {
			return
		}
		hbd.Groups.Absorb()
		hbd.ICE.ComputeFillin(hbd.Board, hbd.Stones, hex.Black, ice.DoNotRemoveWinningFillin, hbd.Record)
		hbd.Groups.Absorb()
		hbd.VC.Build(hbd.Board, hbd.Groups, hbd.Stones, hex.Black)
		hbd.VC.Build(hbd.Board, hbd.Groups, hbd.Stones, hex.White)
	}
}

// decomposeOnce scans col's edge-to-edge Full VCs for one whose carrier
// is a cut of the remaining empty-cell graph, and if found fills that
// carrier in as col and records it as captured. Returns whether it made
// a change.
func (hbd *HexBoard) decomposeOnce(col hex.Color) bool {
	full, _ := hbd.VC.EdgeVCs(hbd.Board, hbd.Groups, col)
	for _, v := range full {
		if v.Carrier.Empty() {
			continue
		}
		if !hbd.splitsRemainingEmpty(v.Carrier) {
			continue
		}
		hbd.Stones.AddColor(col, v.Carrier)
		hbd.Record.Captured[colorIdx(col)].Union(v.Carrier)
		return true
	}
	return false
}

// splitsRemainingEmpty reports whether removing carrier from the board
// (treating it as filled/blocked) leaves the other empty cells unable to
// all reach each other through empty-to-empty adjacency — i.e. carrier
// is a cut of the empty-cell subgraph.
func (hbd *HexBoard) splitsRemainingEmpty(carrier hex.Bitset) bool {
	b := hbd.Board
	sb := hbd.Stones
	n := b.NumCells()
	other := hex.NewBitset(n)
	for c := hex.Cell(0); int(c) < n; c++ {
		if sb.IsEmpty(c) && !carrier.Test(c) {
			other.Set(c)
		}
	}
	cells := other.Cells(nil)
	if len(cells) < 2 {
		return false
	}
	visited := hex.NewBitset(n)
	queue := []hex.Cell{cells[0]}
	visited.Set(cells[0])
	count := 1
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, nb := range b.Neighbors(c) {
			if nb == hex.NullCell || !b.IsInterior(nb) || visited.Test(nb) || !other.Test(nb) {
				continue
			}
			visited.Set(nb)
			count++
			queue = append(queue, nb)
		}
	}
	return count < len(cells)
}
