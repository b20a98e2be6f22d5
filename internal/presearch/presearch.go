// Package presearch runs the one-ply pre-search MCTS takes its root seed
// data from (spec §4.7 "Seed data at the root"): for every root candidate
// move it plays the move on a cloned board, runs the full ICE/VC fixed
// point, and records either an immediate win/loss verdict or the
// resulting fill-in plus the opponent's second-ply consider set.
//
// Grounded on SPEC_FULL.md §4.7/§5 directly (the filtered original_source
// tree's pre-search lives inside HexUctSearch.cpp's GenerateRootData,
// which fell outside the retrieval pack's filter), with the worker
// partition/barrier shape grounded on the teacher's
// internal/engine/engine.go SearchWithLimits fan-out, swapped to an
// errgroup.Group per SPEC_FULL.md §5's named upgrade.
package presearch

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/hexengine/internal/hex"
	"github.com/hailam/hexengine/internal/hexboard"
	"github.com/hailam/hexengine/internal/oracle"
)

// ChildSeed is the per-root-move seed data MCTS uses instead of a fresh
// ComputeAll when it first expands that child: the fill-in stones to
// apply with a single addColor, and the ply-2 consider set to restrict
// the grandchild's move list to.
type ChildSeed struct {
	Fillin   *hex.StoneBoard
	Consider hex.Bitset
}

// Result is the shared InitialData the pre-search's barrier produces.
type Result struct {
	// ImmediateWin is the first candidate move found to immediately win
	// the game, or hex.NullCell if none was found.
	ImmediateWin hex.Cell

	// Consider is the root's ply-1 move set: every candidate that is not
	// a proven loss, unless all candidates lose, in which case every
	// candidate is kept so the search can resist as long as possible.
	Consider hex.Bitset

	// Children holds ChildSeed for every move in Consider.
	Children map[hex.Cell]ChildSeed
}

type candidateOutcome struct {
	move    hex.Cell
	losing  bool
	winning bool
	seed    ChildSeed
}

// Run partitions candidates round-robin across numWorkers goroutines,
// each holding its own HexBoard clone, and unions their findings into a
// Result (spec §5 "The pre-search creates per-worker clones of the root
// HexBoard; the main thread unions their InitialData after the
// barrier"). toMove is the side choosing among candidates.
func Run(ctx context.Context, hbd *hexboard.HexBoard, toMove hex.Color, candidates hex.Bitset, numWorkers int) (*Result, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	moves := sortedMoves(candidates.Cells(nil))
	boardSize := hbd.Stones.Size()

	var foundWin atomic.Bool
	var mu sync.Mutex
	var outcomes []candidateOutcome

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		worker := w
		g.Go(func() error {
			clone := hbd.Clone()
			for i := worker; i < len(moves); i += numWorkers {
				if foundWin.Load() {
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				m := moves[i]
				oc := evaluateCandidate(clone, toMove, m)
				if oc.winning {
					foundWin.Store(true)
				}
				mu.Lock()
				outcomes = append(outcomes, oc)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(moves, outcomes, boardSize), nil
}

// evaluateCandidate plays m for toMove on a scratch clone of base (itself
// already cloned once per worker; cloning again per-candidate keeps
// candidates independent since HexBoard mutates in place), then reports
// the verdict and, if the game is not yet decided either way, the
// fill-in and ply-2 consider set to seed MCTS with.
func evaluateCandidate(base *hexboard.HexBoard, toMove hex.Color, m hex.Cell) candidateOutcome {
	clone := base.Clone()
	_ = clone.PlayMove(toMove, m) // m is drawn from the board's own empty-cell set, so this cannot fail

	opp := toMove.Other()
	if oracle.IsLostGame(clone, opp) {
		return candidateOutcome{move: m, winning: true}
	}
	if oracle.IsWonGame(clone, opp) {
		return candidateOutcome{move: m, losing: true}
	}
	return candidateOutcome{
		move: m,
		seed: ChildSeed{
			Fillin:   clone.Stones.Copy(),
			Consider: oracle.MovesToConsider(clone, opp),
		},
	}
}

// assemble turns the unordered per-worker outcomes into a Result. moves
// is already sorted ascending (sortedMoves), so among the outcomes that
// were collected, the immediate-win and all-losing tie-breaks below go
// by cell index, not by arrival order. Which candidates were evaluated
// at all can vary with scheduling when more than one worker runs:
// workers stop once any of them finds a win, so ImmediateWin is the
// lowest-indexed winning move among those evaluated before the stop.
func assemble(moves []hex.Cell, outcomes []candidateOutcome, boardSize int) *Result {
	byMove := make(map[hex.Cell]candidateOutcome, len(outcomes))
	for _, oc := range outcomes {
		byMove[oc.move] = oc
	}

	res := &Result{ImmediateWin: hex.NullCell, Children: make(map[hex.Cell]ChildSeed)}
	for _, m := range moves {
		if oc, ok := byMove[m]; ok && oc.winning {
			res.ImmediateWin = m
			break
		}
	}
	if res.ImmediateWin != hex.NullCell {
		res.Consider = hex.NewBitset(boardSize)
		res.Consider.Set(res.ImmediateWin)
		return res
	}

	allLosing := true
	for _, m := range moves {
		if oc, ok := byMove[m]; !ok || !oc.losing {
			allLosing = false
			break
		}
	}

	consider := hex.NewBitset(boardSize)
	for _, m := range moves {
		oc, ok := byMove[m]
		if ok && oc.losing && !allLosing {
			continue
		}
		consider.Set(m)
		if ok {
			res.Children[m] = oc.seed
		}
	}
	res.Consider = consider
	return res
}

// sortedMoves returns moves sorted ascending, used to give the round-
// robin partition and the final assembly a reproducible order
// independent of Bitset.Cells' own iteration order (spec §5's
// stable_sort guarantee).
func sortedMoves(moves []hex.Cell) []hex.Cell {
	out := append([]hex.Cell(nil), moves...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
