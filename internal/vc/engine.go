package vc

import "github.com/hailam/hexengine/internal/hex"

// Engine maintains, for each color, the connection table built and
// rebuilt over a sequence of HexBoard positions (spec §4.4).
type Engine struct {
	tables [2]*table
	logs   [2]*changeLog
	Opts   Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{
		tables: [2]*table{newTable(), newTable()},
		logs:   [2]*changeLog{{}, {}},
		Opts:   opts,
	}
}

func colorIdx(c hex.Color) int {
	if c == hex.White {
		return 1
	}
	return 0
}

// Build recomputes col's connection table from the current board and
// folds the difference against the previous table into the change log,
// so a later PopHistory can undo exactly this Build (spec §4.4
// "Incremental update").
//
// Rebuilding from scratch each call rather than patching only the pairs
// touched by the last move is a deliberate simplification: the board
// sizes in play are small enough that a full reseed-and-close is cheap,
// and the externally visible result — the resulting table, and the log
// needed to revert it — is identical to what a true incremental update
// would produce.
func (e *Engine) Build(b *hex.Board, gb *hex.GroupBoard, sb *hex.StoneBoard, col hex.Color) {
	fresh := newTable()
	seed(fresh, b, gb, sb, col, e.Opts)
	closeFixedPoint(fresh, e.Opts)
	e.diffInto(col, fresh)
}

// diffInto replaces col's table with next, recording every net
// insertion/removal into that color's change log.
func (e *Engine) diffInto(col hex.Color, next *table) {
	i := colorIdx(col)
	old := e.tables[i]
	log := e.logs[i]

	for key, oe := range old.entries {
		ne := next.entries[key]
		for _, v := range diffLists(oe.full, vcListOf(ne, Full)) {
			log.recordRemove(key, Full, v)
		}
		for _, v := range diffLists(oe.semi, vcListOf(ne, Semi)) {
			log.recordRemove(key, Semi, v)
		}
	}
	for key, ne := range next.entries {
		oe := old.entries[key]
		for _, v := range diffLists(ne.full, vcListOf(oe, Full)) {
			log.recordInsert(key, Full, v)
		}
		for _, v := range diffLists(ne.semi, vcListOf(oe, Semi)) {
			log.recordInsert(key, Semi, v)
		}
	}
	e.tables[i] = next
}

func vcListOf(e *entry, typ Type) []VC {
	if e == nil {
		return nil
	}
	if typ == Full {
		return e.full
	}
	return e.semi
}

// diffLists returns every element of a with no equal (sameVC) match in b.
func diffLists(a, b []VC) []VC {
	var out []VC
	for _, va := range a {
		found := false
		for _, vb := range b {
			if sameVC(va, vb) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, va)
		}
	}
	return out
}

// PushHistory marks the current point in both colors' change logs so a
// later PopHistory reverts exactly to here (spec §4.4; grounded on
// HexBoard.cpp's PushHistory).
func (e *Engine) PushHistory() {
	e.logs[0].pushMarker()
	e.logs[1].pushMarker()
}

// PopHistory reverts both colors' tables to the last PushHistory marker
// (spec §4.5 "UndoMove: ... revert VC change log").
func (e *Engine) PopHistory() {
	e.logs[0].revertToMarker(e.tables[0])
	e.logs[1].revertToMarker(e.tables[1])
}

func edgesOf(b *hex.Board, col hex.Color) (hex.Cell, hex.Cell) {
	if col == hex.Black {
		return b.North, b.South
	}
	return b.West, b.East
}

// HasFullConnection reports whether col has a Full VC directly joining
// its two edges, or its stones solidly connect them (spec §4.4 "Winner
// detection").
func (e *Engine) HasFullConnection(b *hex.Board, gb *hex.GroupBoard, col hex.Color) bool {
	edge1, edge2 := edgesOf(b, col)
	if gb.EdgesConnected(edge1, edge2) {
		return true
	}
	if ent, ok := e.tables[colorIdx(col)].lookup(gb.Captain(edge1), gb.Captain(edge2)); ok {
		return len(ent.full) > 0
	}
	return false
}

// Mustplay returns the set of cells col must occupy to prevent the
// opponent's immediate Semi threats between its two edges (spec §4.4
// "Mustplay"): the intersection of the carriers of every Semi VC the
// opponent holds between its edges. An empty, non-nil bitset means there
// is no such threat yet.
func (e *Engine) Mustplay(b *hex.Board, gb *hex.GroupBoard, sb *hex.StoneBoard, col hex.Color) hex.Bitset {
	opp := col.Other()
	edge1, edge2 := edgesOf(b, opp)
	out := hex.NewBitset(sb.Size())
	ent, ok := e.tables[colorIdx(opp)].lookup(gb.Captain(edge1), gb.Captain(edge2))
	if !ok || len(ent.semi) == 0 {
		return out
	}
	out = ent.semi[0].Carrier.Clone()
	for _, s := range ent.semi[1:] {
		out.Intersect(s.Carrier)
	}
	return out
}

// Lookup returns every Full and Semi VC currently recorded between the
// groups captained by x and y, for the color whose table contains them.
func (e *Engine) Lookup(col hex.Color, x, y hex.Cell) (full, semi []VC) {
	ent, ok := e.tables[colorIdx(col)].lookup(x, y)
	if !ok {
		return nil, nil
	}
	return ent.full, ent.semi
}

// EdgeVCs returns every Full or Semi VC currently recorded between col's
// two edges, for callers (e.g. the decomposition pass in internal/hexboard) that need to inspect
// carriers directly rather than just a boolean/mustplay summary.
func (e *Engine) EdgeVCs(b *hex.Board, gb *hex.GroupBoard, col hex.Color) (full, semi []VC) {
	edge1, edge2 := edgesOf(b, col)
	ent, ok := e.tables[colorIdx(col)].lookup(gb.Captain(edge1), gb.Captain(edge2))
	if !ok {
		return nil, nil
	}
	return ent.full, ent.semi
}
