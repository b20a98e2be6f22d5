// Package mcts implements the UCT + RAVE Monte Carlo tree search core
// (spec §4.7), grounded on original_source/src/mohex/HexUctSearch.hpp,
// HexUctState.cpp and HexUctPolicy.cpp for the algorithm, and on the
// teacher's internal/engine/engine.go + worker.go for the Go shape: a
// fixed worker pool sharing one search object, each with private
// per-thread state, coordinated by an errgroup.Group and a context
// deadline (search.go), with per-node mutexes rather than a lock-free
// tree — coarse per-node
// mutexes are explicitly acceptable per spec §4.7's "coarse-grained
// per-node updates are acceptable."
package mcts

import (
	"sync"

	"github.com/hailam/hexengine/internal/hex"
)

// raveStat accumulates RAVE ("all moves as first") statistics for one
// move, tracked at the node whose children that move can become.
type raveStat struct {
	visits float64
	value  float64
}

// Node is one UCT tree node: the position reached by the path of moves
// from the root is implicit (the tree holds only move edges), and the
// node itself stores the statistics of the move that led to it plus its
// children and RAVE table.
type Node struct {
	mu sync.Mutex

	Move     hex.Cell
	visits   float64
	valueSum float64 // sum of playout outcomes from the mover-to-this-node's perspective

	children map[hex.Cell]*Node
	rave     map[hex.Cell]*raveStat
}

// NewNode creates a leaf node reached by playing move.
func NewNode(move hex.Cell) *Node {
	return &Node{Move: move}
}

// Expanded reports whether this node already has children.
func (n *Node) Expanded() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.children != nil
}

// Expand populates n's children, one per move in moves, unless another
// thread already expanded it first (first writer wins; spec §4.7's
// "expansion threshold >= 1" — a node expands as soon as it is first
// visited as a leaf).
func (n *Node) Expand(moves []hex.Cell) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.children != nil {
		return
	}
	n.children = make(map[hex.Cell]*Node, len(moves))
	n.rave = make(map[hex.Cell]*raveStat, len(moves))
	for _, m := range moves {
		n.children[m] = NewNode(m)
		n.rave[m] = &raveStat{}
	}
}

// Children returns a snapshot slice of n's children, or nil if n is not
// yet expanded.
func (n *Node) Children() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.children == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	return out
}

// Child returns the child reached by playing move, if any.
func (n *Node) Child(move hex.Cell) (*Node, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.children[move]
	return c, ok
}

// Stats returns the node's current (visits, mean value).
func (n *Node) Stats() (visits, mean float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.visits == 0 {
		return 0, 0.5
	}
	return n.visits, n.valueSum / n.visits
}

// Update folds one playout outcome (from the perspective of the side
// whose move led to n, in [0,1]) into n's statistics.
func (n *Node) Update(outcome float64) {
	n.mu.Lock()
	n.visits++
	n.valueSum += outcome
	n.mu.Unlock()
}

// UpdateRAVE folds a playout outcome into the RAVE statistic for move,
// tracked at this (the parent) node.
func (n *Node) UpdateRAVE(move hex.Cell, outcome float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	st, ok := n.rave[move]
	if !ok {
		return
	}
	st.visits++
	st.value += outcome
}

// raveOf returns the RAVE (visits, mean) for move, or (0, 0.5) if untracked.
func (n *Node) raveOf(move hex.Cell) (visits, mean float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	st, ok := n.rave[move]
	if !ok || st.visits == 0 {
		return 0, 0.5
	}
	return st.visits, st.value / st.visits
}
