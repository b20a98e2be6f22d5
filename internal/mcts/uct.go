package mcts

import (
	"math"

	"github.com/hailam/hexengine/internal/hex"
)

// Options tunes the UCT+RAVE formula and RAVE weight schedule (spec
// §4.7 "Selection uses UCB1 with a bias constant ... plus RAVE with a
// weight schedule interpolating between initial and final weights").
type Options struct {
	BiasConstant  float64 // UCB1 exploration constant; spec default is 0
	RAVEInitial   float64 // RAVE weight at zero visits
	RAVEFinal     float64 // RAVE weight in the limit of many visits
	RAVEEquivalent float64 // visit count at which RAVE/UCB weights are equal
}

// DefaultOptions matches spec §4.7's stated defaults.
func DefaultOptions() Options {
	return Options{
		BiasConstant:   0,
		RAVEInitial:    1.0,
		RAVEFinal:      0.0,
		RAVEEquivalent: 1000,
	}
}

// raveWeight interpolates between RAVEInitial and RAVEFinal as visits
// grows, crossing the midpoint at RAVEEquivalent visits — the standard
// MoHex schedule (HexUctPolicy.cpp's "knowledge threshold" idea, restated
// here without its separate bias-term machinery since spec §4.7 folds
// everything into one schedule).
func (o Options) raveWeight(visits float64) float64 {
	if o.RAVEEquivalent <= 0 {
		return o.RAVEFinal
	}
	beta := o.RAVEEquivalent / (o.RAVEEquivalent + visits)
	return o.RAVEInitial*beta + o.RAVEFinal*(1-beta)
}

// selectChild picks the child of n maximizing UCB1+RAVE among the moves
// in legal (the node's expansion may list moves no longer legal after a
// decomposition capture; legal narrows that down). Returns NullCell if
// n has no legal children.
func selectChild(n *Node, legal hex.Bitset, opts Options) hex.Cell {
	nVisits, _ := n.Stats()

	best := hex.NullCell
	bestScore := math.Inf(-1)
	for _, child := range n.Children() {
		if !legal.Test(child.Move) {
			continue
		}
		score := uctRaveScore(n, child, nVisits, opts)
		if score > bestScore {
			bestScore = score
			best = child.Move
		}
	}
	return best
}

func uctRaveScore(parent, child *Node, parentVisits float64, opts Options) float64 {
	visits, mean := child.Stats()
	if visits == 0 {
		return math.Inf(1) // unvisited children are explored first
	}
	raveVisits, raveMean := parent.raveOf(child.Move)
	beta := opts.raveWeight(raveVisits)

	ucb := mean
	if opts.BiasConstant > 0 && parentVisits > 0 {
		ucb += opts.BiasConstant * math.Sqrt(math.Log(parentVisits)/visits)
	}
	if raveVisits == 0 {
		return ucb
	}
	return (1-beta)*ucb + beta*raveMean
}

// BestMove selects n's child with the most visits (spec §4.7 "Move
// selection for external report: by visit count (default)"), or
// NullCell if n has no children.
func BestMove(n *Node) hex.Cell {
	best := hex.NullCell
	bestVisits := -1.0
	for _, child := range n.Children() {
		visits, _ := child.Stats()
		if visits > bestVisits {
			bestVisits = visits
			best = child.Move
		}
	}
	return best
}

// BestMoveByValue selects n's child with the highest mean value instead
// of visit count (spec §4.7's alternative report mode).
func BestMoveByValue(n *Node) hex.Cell {
	best := hex.NullCell
	bestMean := -1.0
	for _, child := range n.Children() {
		visits, mean := child.Stats()
		if visits == 0 {
			continue
		}
		if mean > bestMean {
			bestMean = mean
			best = child.Move
		}
	}
	return best
}
