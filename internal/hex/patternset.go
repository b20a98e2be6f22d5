package hex

// MatchMode selects how many hits MatchOnCell/MatchOnBoard collect
// (spec §4.2).
type MatchMode int

const (
	StopAtFirstHit MatchMode = iota
	MatchAll
)

// Hit is one pattern match at a specific center cell, with the pattern's
// slot-relative Moves1/Moves2 already resolved to absolute board cells.
type Hit struct {
	Pattern *Pattern
	Center  Cell
	Moves1  []Cell
	Moves2  []Cell
}

// HashedPatternSet indexes a list of patterns by the exact ring-godel
// value they match, so that matching a cell is an O(1) bucket lookup
// followed by a scan of only the (typically tiny) set of patterns that
// can possibly fire there — spec §4.2's "hashed set ... matching a cell
// means scanning only the bucket at ringGodel(cell)."
//
// Grounded on original_source/src/hex/RingGodel.cpp's
// PatternRingGodel::MatchesGodel bucketing idea; the precomputed
// per-value bucket array (rather than a hash map) follows that file's
// ValidGodelData static-table idiom.
type HashedPatternSet struct {
	buckets [godelSpace][]*Pattern
}

// NewHashedPatternSet buckets every pattern and its color-flipped twin
// (spec §4.7) under every godel value each matches; the twins differ in
// FlipFor, which MatchOnCell compares against the color to play.
func NewHashedPatternSet(patterns []*Pattern) *HashedPatternSet {
	hs := &HashedPatternSet{}
	all := make([]*Pattern, 0, len(patterns)*2)
	for _, p := range patterns {
		all = append(all, p, p.flipped())
	}
	for g := 0; g < godelSpace; g++ {
		godel := RingGodel(g)
		for _, p := range all {
			if p.matchesGodel(godel) {
				hs.buckets[g] = append(hs.buckets[g], p)
			}
		}
	}
	return hs
}

// MatchOnCell matches every pattern in this set whose FlipFor equals
// toPlay against c, in STOP_AT_FIRST_HIT or MATCH_ALL mode.
func (hs *HashedPatternSet) MatchOnCell(b *Board, sb *StoneBoard, toPlay Color, c Cell, mode MatchMode) []Hit {
	godel := b.RingGodel(sb, c)
	var hits []Hit
	for _, p := range hs.buckets[godel] {
		if p.FlipFor != toPlay {
			continue
		}
		hits = append(hits, resolveHit(b, p, c))
		if mode == StopAtFirstHit {
			break
		}
	}
	return hits
}

// MatchOnBoard matches every cell in consider, returning a map from cell
// to its hits. Cells with no hits are omitted.
func (hs *HashedPatternSet) MatchOnBoard(b *Board, sb *StoneBoard, toPlay Color, consider Bitset, mode MatchMode) map[Cell][]Hit {
	out := make(map[Cell][]Hit)
	for _, c := range consider.Cells(nil) {
		if hits := hs.MatchOnCell(b, sb, toPlay, c, mode); len(hits) > 0 {
			out[c] = hits
		}
	}
	return out
}

func resolveHit(b *Board, p *Pattern, center Cell) Hit {
	neighbors := b.Neighbors(center)
	h := Hit{Pattern: p, Center: center}
	for _, slot := range p.Moves1 {
		h.Moves1 = append(h.Moves1, neighbors[slot])
	}
	for _, slot := range p.Moves2 {
		h.Moves2 = append(h.Moves2, neighbors[slot])
	}
	return h
}
