package hex

// GroupBoard is a union-find partition of same-color stones (plus their
// bordering edge sentinels) into groups, each with a canonical "captain"
// and a precomputed empty-neighbor set. It is rebuilt from scratch by
// Absorb after every stone placement — cheap enough given board sizes in
// play (<= 11x11 interior cells), and it keeps the incremental VC engine
// (internal/vc) simple: VCs reference groups by captain, and Absorb is
// the only place captains change.
type GroupBoard struct {
	sb *StoneBoard

	parent []Cell // union-find parent, indexed by cell
	rank   []int8

	// emptyNeighbors[captain] is the set of empty cells adjacent to any
	// member of that group. Valid only for captains.
	emptyNeighbors map[Cell]Bitset
}

// NewGroupBoard builds a group board over sb and absorbs it, so it is
// ready to use.
func NewGroupBoard(sb *StoneBoard) *GroupBoard {
	n := len(sb.color)
	gb := &GroupBoard{
		sb:             sb,
		parent:         make([]Cell, n),
		rank:           make([]int8, n),
		emptyNeighbors: make(map[Cell]Bitset),
	}
	gb.Absorb()
	return gb
}

// Copy returns an independent deep copy bound to the given (already
// copied) stone board.
func (gb *GroupBoard) Copy(sb *StoneBoard) *GroupBoard {
	out := &GroupBoard{
		sb:             sb,
		parent:         append([]Cell(nil), gb.parent...),
		rank:           append([]int8(nil), gb.rank...),
		emptyNeighbors: make(map[Cell]Bitset, len(gb.emptyNeighbors)),
	}
	for k, v := range gb.emptyNeighbors {
		out.emptyNeighbors[k] = v.Clone()
	}
	return out
}

func (gb *GroupBoard) find(c Cell) Cell {
	for gb.parent[c] != c {
		gb.parent[c] = gb.parent[gb.parent[c]]
		c = gb.parent[c]
	}
	return c
}

func (gb *GroupBoard) union(a, b Cell) {
	ra, rb := gb.find(a), gb.find(b)
	if ra == rb {
		return
	}
	if gb.rank[ra] < gb.rank[rb] {
		ra, rb = rb, ra
	}
	gb.parent[rb] = ra
	if gb.rank[ra] == gb.rank[rb] {
		gb.rank[ra]++
	}
}

// Absorb recomputes the union-find partition by merging every same-color
// stone with all of its same-color neighbors, then rebuilds each group's
// empty-neighbor set. Called after any sequence of stone placements
// (spec §4.1: "absorb recomputes the union-find").
func (gb *GroupBoard) Absorb() {
	b := gb.sb.Board
	n := len(gb.parent)
	for i := range gb.parent {
		gb.parent[i] = Cell(i)
		gb.rank[i] = 0
	}
	for c := Cell(0); int(c) < n; c++ {
		col := gb.sb.ColorOf(c)
		if col != Black && col != White {
			continue
		}
		for _, nb := range b.Neighbors(c) {
			if nb == NullCell {
				continue
			}
			if gb.sb.ColorOf(nb) == col {
				gb.union(c, nb)
			}
		}
	}
	for k := range gb.emptyNeighbors {
		delete(gb.emptyNeighbors, k)
	}
	for c := Cell(0); int(c) < n; c++ {
		col := gb.sb.ColorOf(c)
		if col != Black && col != White {
			continue
		}
		captain := gb.find(c)
		set, ok := gb.emptyNeighbors[captain]
		if !ok {
			set = NewBitset(n)
			gb.emptyNeighbors[captain] = set
		}
		for _, nb := range b.Neighbors(c) {
			if nb != NullCell && gb.sb.IsEmpty(nb) {
				set.Set(nb)
			}
		}
	}
}

// Captain returns c's group representative. For an empty or dead cell
// this returns c itself (singleton, not a real group).
func (gb *GroupBoard) Captain(c Cell) Cell {
	if c < 0 || int(c) >= len(gb.parent) {
		return c
	}
	return gb.find(c)
}

// SameGroup reports whether a and b are in the same color-connected
// component (spec §8: "two cells share a captain iff in the same
// color-connected component").
func (gb *GroupBoard) SameGroup(a, b Cell) bool {
	return gb.Captain(a) == gb.Captain(b)
}

// EmptyNeighbors returns the empty cells adjacent to any stone in the
// group captained by captain. Returns an empty (non-nil) bitset for an
// unrecognized or singleton captain.
func (gb *GroupBoard) EmptyNeighbors(captain Cell) Bitset {
	if s, ok := gb.emptyNeighbors[captain]; ok {
		return s
	}
	return NewBitset(len(gb.parent))
}

// Groups returns the distinct captains of every group containing a
// stone of color col.
func (gb *GroupBoard) Groups(col Color) []Cell {
	seen := make(map[Cell]bool)
	var out []Cell
	bits := gb.sb.ColorBits(col)
	for _, c := range bits.Clone().Cells(nil) {
		cap := gb.find(c)
		if !seen[cap] {
			seen[cap] = true
			out = append(out, cap)
		}
	}
	return out
}

// EdgesConnected reports whether edge1 and edge2 belong to the same
// group — a solid stone-to-stone path between them (spec §4.4 "Winner
// detection": "its stones solidly connect the two edges").
func (gb *GroupBoard) EdgesConnected(edge1, edge2 Cell) bool {
	return gb.SameGroup(edge1, edge2)
}
