package vc

import "github.com/hailam/hexengine/internal/hex"

// seed installs the initial VCs for col after fill-in (spec §4.4
// "Initial state after fill-in"): a Full VC with an empty carrier joins
// every pair of directly-adjacent same-color groups, and a Semi VC
// keyed on c joins every pair of same-color groups sharing exactly one
// empty neighbor c.
//
// Because Absorb already merges any two same-color stones that are
// directly adjacent (internal/hex's GroupBoard.Absorb), two distinct
// groups of the same color can never actually be direct neighbors by
// construction — the Full-seeding loop below is therefore a no-op in
// practice and is kept only because spec §4.4 names it explicitly as
// part of the initial state.
func seed(t *table, b *hex.Board, gb *hex.GroupBoard, sb *hex.StoneBoard, col hex.Color, opts Options) {
	groups := gb.Groups(col)
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			x, y := groups[i], groups[j]
			if b.Adjacent(x, y) {
				insertFull(t, x, y, hex.NewBitset(sb.Size()), opts)
			}
		}
	}

	for _, c := range sb.Empty().Cells(nil) {
		var adjacent []hex.Cell
		seen := make(map[hex.Cell]bool)
		for _, nb := range b.Neighbors(c) {
			if nb == hex.NullCell || sb.ColorOf(nb) != col {
				continue
			}
			cap := gb.Captain(nb)
			if !seen[cap] {
				seen[cap] = true
				adjacent = append(adjacent, cap)
			}
		}
		for i := 0; i < len(adjacent); i++ {
			for j := i + 1; j < len(adjacent); j++ {
				carrier := hex.NewBitset(sb.Size())
				carrier.Set(c)
				insertSemi(t, adjacent[i], adjacent[j], carrier, c, opts)
			}
		}
	}
}
