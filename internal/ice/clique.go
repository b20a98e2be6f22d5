package ice

import "github.com/hailam/hexengine/internal/hex"

// isDeadByGraphRule and vulnerableByGraphRule implement the graph-theory
// half of spec §4.3 step 1/4: a cell whose non-opponent neighbors (empty
// cells, or stones of one color) form a clique is dead, because whichever
// single neighbor is played first connects to every other neighbor,
// making the rest redundant; if dropping exactly one *empty* neighbor
// from the set makes the rest a clique, the cell is vulnerable to a play
// at that neighbor.
//
// Grounded on original_source/src/hex/ICEngine.cpp's IsClique and
// UseGraphTheoryToFindDeadVulnerable. The original collapses same-color
// neighbor stones into their full connected group (via GroupBoard
// captains) before the clique test and special-cases adjacency to a
// board edge. This version tests raw neighbor-to-neighbor adjacency
// directly without group collapsing or edge special-casing — a
// deliberate simplification (same spirit as findUnreachable's standing
// global-BFS substitution for the original's clique-cutset enumeration):
// it catches the common one-hop cliques the hand-coded and loaded
// patterns are meant to shortcut, while the slower findUnreachable pass
// still proves every cell the full clique-cutset analysis would.
func isDeadByGraphRule(b *hex.Board, sb *hex.StoneBoard, c hex.Cell) bool {
	for _, col := range [2]hex.Color{hex.Black, hex.White} {
		vn, _ := virtualNeighbors(b, sb, c, col)
		if len(vn) <= 1 {
			return true
		}
		if isClique(b, vn, hex.NullCell) {
			return true
		}
	}
	return false
}

// vulnerableByGraphRule reports the first killer/carrier pair found by
// the drop-one-neighbor clique test, from either color's perspective,
// plus the color whose virtual-neighbor clique the test ran against —
// spec §4.3 step 5 ("presimplicial pairs") needs that color to know
// which side's captured set a mutual-killer pair resolves into.
// Only an empty neighbor can be a killer — a same-color stone or edge
// sentinel already occupies its cell and cannot be "played".
func vulnerableByGraphRule(b *hex.Board, sb *hex.StoneBoard, c hex.Cell) (hex.Cell, hex.Bitset, hex.Color, bool) {
	for _, col := range [2]hex.Color{hex.Black, hex.White} {
		vn, emptyOnly := virtualNeighbors(b, sb, c, col)
		if len(vn) <= 1 {
			continue
		}
		if isClique(b, vn, hex.NullCell) {
			continue // dead, not merely vulnerable
		}
		for _, killer := range emptyOnly {
			if isClique(b, vn, killer) {
				carrier := hex.NewBitset(sb.Size())
				for _, v := range vn {
					if v != killer {
						carrier.Set(v)
					}
				}
				return killer, carrier, col, true
			}
		}
	}
	return hex.NullCell, nil, hex.Empty, false
}

// virtualNeighbors returns every distinct neighbor of c that is either
// empty or colored col (all), and the subset of those that are actually
// empty (emptyOnly) — the only members that could ever be played as a
// killer. Corner cells legitimately list the same edge sentinel in more
// than one of their six neighbor slots (board.go's documented
// boundary-wraparound behavior), so duplicates must be collapsed —
// otherwise the same edge cell appears twice in all and the clique test
// below incorrectly treats it as needing to be adjacent to itself.
func virtualNeighbors(b *hex.Board, sb *hex.StoneBoard, c hex.Cell, col hex.Color) (all, emptyOnly []hex.Cell) {
	seen := make(map[hex.Cell]bool)
	for _, nb := range b.Neighbors(c) {
		if nb == hex.NullCell || seen[nb] {
			continue
		}
		switch sb.ColorOf(nb) {
		case hex.Empty:
			all = append(all, nb)
			emptyOnly = append(emptyOnly, nb)
			seen[nb] = true
		case col:
			all = append(all, nb)
			seen[nb] = true
		}
	}
	return all, emptyOnly
}

// isClique reports whether every pair of cells in vn (other than
// exclude) is adjacent on b.
func isClique(b *hex.Board, vn []hex.Cell, exclude hex.Cell) bool {
	for i := 0; i < len(vn); i++ {
		if vn[i] == exclude {
			continue
		}
		for j := i + 1; j < len(vn); j++ {
			if vn[j] == exclude {
				continue
			}
			if !b.Adjacent(vn[i], vn[j]) {
				return false
			}
		}
	}
	return true
}
