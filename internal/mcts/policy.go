package mcts

import (
	"math/rand"

	"github.com/hailam/hexengine/internal/hex"
)

// Policy is the default (playout) policy described in spec §4.7: at
// every step it looks at the opponent's last move, collects every
// loaded "play pattern" hit at each empty neighbor of that move, and
// draws one in proportion to its weight; if none fire, it falls back to
// a uniformly random empty cell.
//
// Grounded on original_source/src/mohex/HexUctPolicy.cpp's pattern-then-
// random fallback shape. That file keeps a "pre-shuffled vector of
// empty cells" for O(1) amortized random-empty-cell draws; this port
// keeps no such vector and shuffles nothing: each random fallback draws
// a uniformly random element of the current empty-cell list, so no
// undo-aware vector maintenance is threaded through StoneBoard.
type Policy struct {
	Patterns *hex.HashedPatternSet // RolePlayout patterns, or nil for pure-random playouts
}

// SelectMove picks toPlay's move given that opponent just played
// lastMove (NullCell if this is the very first move of the playout, in
// which case pattern response is skipped and a random empty cell is
// drawn directly).
func (p *Policy) SelectMove(b *hex.Board, sb *hex.StoneBoard, toPlay hex.Color, lastMove hex.Cell) hex.Cell {
	if p.Patterns != nil && lastMove != hex.NullCell {
		if m, ok := p.patternMove(b, sb, toPlay, lastMove); ok {
			return m
		}
	}
	return p.randomMove(sb)
}

func (p *Policy) patternMove(b *hex.Board, sb *hex.StoneBoard, toPlay hex.Color, lastMove hex.Cell) (hex.Cell, bool) {
	type candidate struct {
		cell   hex.Cell
		weight int
	}
	var candidates []candidate
	total := 0
	seen := make(map[hex.Cell]bool)
	for _, nb := range b.Neighbors(lastMove) {
		if nb == hex.NullCell || !sb.IsEmpty(nb) || seen[nb] {
			continue
		}
		seen[nb] = true
		hits := p.Patterns.MatchOnCell(b, sb, toPlay, nb, hex.MatchAll)
		w := 0
		for _, h := range hits {
			w += h.Pattern.Weight
		}
		if w > 0 {
			candidates = append(candidates, candidate{nb, w})
			total += w
		}
	}
	if total == 0 {
		return hex.NullCell, false
	}
	r := rand.Intn(total)
	for _, c := range candidates {
		if r < c.weight {
			return c.cell, true
		}
		r -= c.weight
	}
	return candidates[len(candidates)-1].cell, true
}

func (p *Policy) randomMove(sb *hex.StoneBoard) hex.Cell {
	empties := sb.Empty().Cells(nil)
	if len(empties) == 0 {
		return hex.NullCell
	}
	return empties[rand.Intn(len(empties))]
}
