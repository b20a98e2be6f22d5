package mcts

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/hexengine/internal/hex"
)

// Limits bounds one Search call: whichever of MaxSimulations or MaxTime
// elapses first stops the search (spec §4.7 "Search runs until a node or
// time budget is exhausted").
type Limits struct {
	MaxSimulations int64
	MaxTime        time.Duration
}

// Engine runs a multi-threaded UCT+RAVE search from a fixed root position
// shared read-only across workers, each descending/expanding/backing up
// into the same tree under Node's own per-node mutex.
//
// Grounded on the teacher's internal/engine/engine.go SearchWithLimits: a
// fixed-size worker pool launched per Search call, coordinated by a
// WaitGroup-like barrier and a shared stop flag, rather than a
// persistent pool kept alive between searches — MCTS workers are cheap
// to spin up and the teacher's own alpha-beta engine takes the same
// approach for its Lazy-SMP threads. The barrier itself is an
// errgroup.Group (spec §5's upgrade from the teacher's bare
// sync.WaitGroup) so a context deadline cancels every worker's context
// check in one place instead of each worker polling its own timer.
type Engine struct {
	NumWorkers int
	Options    Options

	root *Node
}

// NewEngine creates a search engine with numWorkers worker threads (at
// least 1).
func NewEngine(numWorkers int, opts Options) *Engine {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Engine{NumWorkers: numWorkers, Options: opts}
}

// Search runs simulations from the position (b, sb, toMove) — optionally
// restricted to the moves in consider (spec §4.6's MovesToConsider,
// threaded in as the root's legal move set; pass a nil/full bitset for
// no restriction) — until a Limits bound is hit, and returns the root
// node so the caller can read off BestMove/BestMoveByValue and visit
// counts for a principal-variation report.
func (e *Engine) Search(b *hex.Board, sb *hex.StoneBoard, toMove hex.Color, consider hex.Bitset, policy *Policy, limits Limits) *Node {
	if consider == nil {
		consider = sb.Empty()
	}
	root := NewNode(hex.NullCell)
	moves := consider.Cells(nil)
	root.Expand(moves)
	e.root = root

	ctx := context.Background()
	var cancel context.CancelFunc
	if limits.MaxTime > 0 {
		ctx, cancel = context.WithTimeout(ctx, limits.MaxTime)
		defer cancel()
	}

	var sims atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.NumWorkers; i++ {
		g.Go(func() error {
			ts := NewThreadState(b, sb, policy)
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if limits.MaxSimulations > 0 && sims.Load() >= limits.MaxSimulations {
					return nil
				}
				runSimulation(root, ts, toMove, e.Options)
				sims.Add(1)
			}
		})
	}
	g.Wait()
	return root
}

// colorAtPly returns the color to move at tree depth ply below the root,
// given the root's own color to move.
func colorAtPly(rootColor hex.Color, ply int) hex.Color {
	if ply%2 == 0 {
		return rootColor
	}
	return rootColor.Other()
}

// runSimulation plays one tree-descent + default-policy playout from the
// root, then backs the outcome up the path and updates RAVE statistics
// along it (spec §4.7 "Selection descends by UCT+RAVE; at a newly
// visited leaf expand it; play a default-policy playout to a full board;
// back the result up the path, updating RAVE for same-color moves played
// later in the simulation").
func runSimulation(root *Node, ts *ThreadState, rootColor hex.Color, opts Options) {
	path := []*Node{root}
	var moves []hex.Cell
	var colors []hex.Color

	toMove := rootColor
	node := root
	for node.Expanded() {
		legal := ts.Stones.Empty()
		m := selectChild(node, legal, opts)
		if m == hex.NullCell {
			break
		}
		ts.Play(toMove, m)
		moves = append(moves, m)
		colors = append(colors, toMove)
		child, _ := node.Child(m)
		path = append(path, child)
		node = child
		toMove = toMove.Other()
	}

	if empty := ts.Stones.Empty(); !empty.Empty() {
		node.Expand(empty.Cells(nil))
	}

	lastMove := hex.NullCell
	if len(moves) > 0 {
		lastMove = moves[len(moves)-1]
	}
	for !ts.Stones.Empty().Empty() {
		m := ts.Policy.SelectMove(ts.Board, ts.Stones, toMove, lastMove)
		if m == hex.NullCell {
			break
		}
		ts.Play(toMove, m)
		moves = append(moves, m)
		colors = append(colors, toMove)
		lastMove = m
		toMove = toMove.Other()
	}

	winner := Winner(ts.Board, ts.Stones)

	for i, n := range path {
		nodeColor := colorAtPly(rootColor, i)
		outcome := 0.0
		if winner == nodeColor {
			outcome = 1.0
		}
		// n's own statistics belong to the side that moved into n, the
		// opponent of nodeColor; RAVE at n ranks nodeColor's choices.
		n.Update(1 - outcome)
		for j := i; j < len(moves); j++ {
			if colors[j] == nodeColor {
				n.UpdateRAVE(moves[j], outcome)
			}
		}
	}

	for k := len(moves) - 1; k >= 0; k-- {
		ts.Undo(moves[k])
	}
}
