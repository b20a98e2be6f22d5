// Package ice implements the Inferior Cell Engine: the fill-in and
// domination subsystem that proves certain empty cells dead, captured,
// permanently inferior, vulnerable or dominated, and fills them in.
//
// Grounded directly on original_source/src/hex/ICEngine.cpp: every
// exported function below has a same-purpose counterpart there
// (FindDead/FindCaptured/FindPermanentlyInferior/FindVulnerable/
// FindDominated/ComputeEdgeUnreachableRegions/BackupOpponentDead). The
// Go shape — a fixed-point loop driven by a "changed" bitset rather than
// the C++ version's boolean flags threaded through each Find* call — is
// closer to the teacher's iterative worker loops
// (hailam-chessplay/internal/engine/worker.go's iterative deepening),
// but the rule content is the original's.
package ice

import (
	"github.com/hailam/hexengine/internal/hex"
)

// Mode controls whether ComputeFillin is allowed to remove the winning
// side's own captured cells (spec §4.3 "Failure mode 'winning fill-in'").
type Mode int

const (
	// RemoveWinningFillin undoes a just-filled winner's captured/dead
	// cells back to Empty when fill-in would otherwise complete the game,
	// so a search sees the forced win as a legal move.
	RemoveWinningFillin Mode = iota
	// DoNotRemoveWinningFillin keeps the fill-in as-is; used during the
	// true game's PlayMove (spec §4.5: "a search mustn't lose forced
	// wins").
	DoNotRemoveWinningFillin
)

// Vulnerability records that Cell is dead if Killer is played, with
// Carrier the other cells that must stay empty for the kill to hold.
// Color is the side the vulnerability was proven for (the side Cell's
// virtual-neighbor clique belongs to) — spec §4.3 step 5 needs it to
// tell which color's captured set a mutual-killer pair resolves into.
type Vulnerability struct {
	Killer  hex.Cell
	Carrier hex.Bitset
	Color   hex.Color
}

// Domination records that Dominator is at least as good as Cell for the
// side to move.
type Domination struct {
	Dominators []hex.Cell
}

// Record is the per-position inferior-cell bookkeeping (spec §3
// "Inferior-cell record"). All sets are disjoint except where noted.
type Record struct {
	Dead              hex.Bitset
	Captured          [2]hex.Bitset // indexed by hex.Black-1 / hex.White-1, see colorIdx
	PermInf           [2]hex.Bitset
	Vulnerable        map[hex.Cell]Vulnerability
	Dominated         map[hex.Cell]Domination
	DeadCarrier       map[hex.Cell]hex.Bitset
	CapturedCarrier   map[hex.Cell]hex.Bitset
}

func colorIdx(c hex.Color) int {
	if c == hex.White {
		return 1
	}
	return 0
}

// NewRecord returns an empty record sized for n cells.
func NewRecord(n int) *Record {
	return &Record{
		Dead:            hex.NewBitset(n),
		Captured:        [2]hex.Bitset{hex.NewBitset(n), hex.NewBitset(n)},
		PermInf:         [2]hex.Bitset{hex.NewBitset(n), hex.NewBitset(n)},
		Vulnerable:      make(map[hex.Cell]Vulnerability),
		Dominated:       make(map[hex.Cell]Domination),
		DeadCarrier:     make(map[hex.Cell]hex.Bitset),
		CapturedCarrier: make(map[hex.Cell]hex.Bitset),
	}
}

// Clone deep-copies a record (needed whenever a HexBoard is cloned for a
// worker thread or pre-search candidate).
func (r *Record) Clone() *Record {
	out := NewRecord(len(r.Dead))
	out.Dead = r.Dead.Clone()
	out.Captured = [2]hex.Bitset{r.Captured[0].Clone(), r.Captured[1].Clone()}
	out.PermInf = [2]hex.Bitset{r.PermInf[0].Clone(), r.PermInf[1].Clone()}
	for k, v := range r.Vulnerable {
		out.Vulnerable[k] = Vulnerability{Killer: v.Killer, Carrier: v.Carrier.Clone(), Color: v.Color}
	}
	for k, v := range r.Dominated {
		out.Dominated[k] = Domination{Dominators: append([]hex.Cell(nil), v.Dominators...)}
	}
	for k, v := range r.DeadCarrier {
		out.DeadCarrier[k] = v.Clone()
	}
	for k, v := range r.CapturedCarrier {
		out.CapturedCarrier[k] = v.Clone()
	}
	return out
}

// Clear empties the record back to "nothing known."
func (r *Record) Clear() {
	r.Dead.ClearAll()
	r.Captured[0].ClearAll()
	r.Captured[1].ClearAll()
	r.PermInf[0].ClearAll()
	r.PermInf[1].ClearAll()
	for k := range r.Vulnerable {
		delete(r.Vulnerable, k)
	}
	for k := range r.Dominated {
		delete(r.Dominated, k)
	}
	for k := range r.DeadCarrier {
		delete(r.DeadCarrier, k)
	}
	for k := range r.CapturedCarrier {
		delete(r.CapturedCarrier, k)
	}
}

// AllCaptured returns the union of Captured[Black] and Captured[White].
func (r *Record) AllCaptured() hex.Bitset {
	out := r.Captured[0].Clone()
	out.Union(r.Captured[1])
	return out
}

// Options tunes ICE behavior. DefaultOptions turns on only
// FindPermanentlyInferior; the other passes are off unless set.
type Options struct {
	// BackupOpponentDead, if set, additionally records every dead cell
	// adjacent to a played stone as dominated by that stone.
	// Experimental per spec §9's open question; off by default,
	// matching "a minimal implementation may omit it."
	BackupOpponentDead bool
	// UnreachableEveryIteration runs the edge-unreachability pass (step
	// 6) on every fixed-point iteration instead of once at the end.
	// Stronger but slower; off by default per spec §4.3.
	UnreachableEveryIteration bool
	// FindPermanentlyInferior enables step 3. On by default.
	FindPermanentlyInferior bool
}

func DefaultOptions() Options {
	return Options{FindPermanentlyInferior: true}
}

// Engine holds the immutable, process-wide pattern tables consulted by
// ComputeFillin. Patterns are loaded once and shared by reference across
// every HexBoard and worker thread (spec §5 "Shared-resource policy").
type Engine struct {
	Dead          *hex.HashedPatternSet
	CapturedBlack *hex.HashedPatternSet
	CapturedWhite *hex.HashedPatternSet
	PermInfBlack  *hex.HashedPatternSet
	PermInfWhite  *hex.HashedPatternSet
	Vulnerable    *hex.HashedPatternSet
	Dominated     *hex.HashedPatternSet
	Options       Options
}

// NewEngine builds an ICE engine from already-loaded, role-partitioned
// pattern sets.
func NewEngine(dead, capturedBlack, capturedWhite, permInfBlack, permInfWhite, vulnerable, dominated *hex.HashedPatternSet, opts Options) *Engine {
	return &Engine{
		Dead: dead, CapturedBlack: capturedBlack, CapturedWhite: capturedWhite,
		PermInfBlack: permInfBlack, PermInfWhite: permInfWhite,
		Vulnerable: vulnerable, Dominated: dominated, Options: opts,
	}
}

// ComputeFillin runs the fill-in fixed point described in spec §4.3,
// mutating board in place and recording everything discovered into out
// (which the caller should have Clear()ed first, unless accumulating
// across PushHistory per the backup-domination rule).
func (e *Engine) ComputeFillin(b *hex.Board, sb *hex.StoneBoard, toPlay hex.Color, mode Mode, out *Record) {
	for {
		changed := false
		changed = e.findDeadPass(b, sb, out) || changed
		changed = e.findCapturedPass(b, sb, hex.Black, e.CapturedBlack, out) || changed
		changed = e.findCapturedPass(b, sb, hex.White, e.CapturedWhite, out) || changed
		if e.Options.FindPermanentlyInferior {
			changed = e.findPermInfPass(b, sb, hex.Black, e.PermInfBlack, out) || changed
			changed = e.findPermInfPass(b, sb, hex.White, e.PermInfWhite, out) || changed
		}
		changed = e.findVulnerablePass(b, sb, out) || changed
		changed = e.findPresimplicialPairs(b, sb, out) || changed
		if e.Options.UnreachableEveryIteration {
			changed = e.findUnreachable(b, sb, out) || changed
		}
		if !changed {
			break
		}
	}
	if !e.Options.UnreachableEveryIteration {
		e.findUnreachable(b, sb, out)
	}
	e.findDominated(b, sb, out)
	if e.Options.BackupOpponentDead {
		e.backupOpponentDead(b, sb, toPlay, out)
	}
	if mode == RemoveWinningFillin {
		undoWinningFillin(b, sb, out)
	}
}

// findDeadPass applies pattern-based and graph-theoretic dead detection
// to every still-empty cell (spec §4.3 step 1), filling proven-dead
// cells as Dead.
func (e *Engine) findDeadPass(b *hex.Board, sb *hex.StoneBoard, out *Record) bool {
	changed := false
	for _, c := range sb.Empty().Cells(nil) {
		if out.Dead.Test(c) {
			continue
		}
		if e.Dead != nil {
			if hits := e.Dead.MatchOnCell(b, sb, hex.Black, c, hex.StopAtFirstHit); len(hits) > 0 {
				fillDead(sb, out, c)
				changed = true
				continue
			}
		}
		if isDeadByGraphRule(b, sb, c) {
			fillDead(sb, out, c)
			changed = true
		}
	}
	return changed
}

func fillDead(sb *hex.StoneBoard, out *Record, c hex.Cell) {
	sb.AddColor(hex.Dead, singleton(sb, c))
	out.Dead.Set(c)
}

func singleton(sb *hex.StoneBoard, c hex.Cell) hex.Bitset {
	s := hex.NewBitset(sb.Size())
	s.Set(c)
	return s
}

// findCapturedPass looks for cells whose local shape proves they belong
// to col (spec §4.3 step 2).
func (e *Engine) findCapturedPass(b *hex.Board, sb *hex.StoneBoard, col hex.Color, patterns *hex.HashedPatternSet, out *Record) bool {
	if patterns == nil {
		return false
	}
	changed := false
	for _, c := range sb.Empty().Cells(nil) {
		if out.AllCaptured().Test(c) {
			continue
		}
		if hits := patterns.MatchOnCell(b, sb, col, c, hex.StopAtFirstHit); len(hits) > 0 {
			sb.AddColor(col, singleton(sb, c))
			out.Captured[colorIdx(col)].Set(c)
			if len(hits[0].Moves1) > 0 {
				carrier := hex.NewBitset(sb.Size())
				for _, m := range hits[0].Moves1 {
					carrier.Set(m)
				}
				out.CapturedCarrier[c] = carrier
			}
			changed = true
		}
	}
	return changed
}

// findPermInfPass fills cells proven permanently useless to col (spec
// §4.3 step 3).
func (e *Engine) findPermInfPass(b *hex.Board, sb *hex.StoneBoard, col hex.Color, patterns *hex.HashedPatternSet, out *Record) bool {
	if patterns == nil {
		return false
	}
	changed := false
	for _, c := range sb.Empty().Cells(nil) {
		if out.AllCaptured().Test(c) {
			continue
		}
		if hits := patterns.MatchOnCell(b, sb, col, c, hex.StopAtFirstHit); len(hits) > 0 {
			sb.AddColor(col, singleton(sb, c))
			out.Captured[colorIdx(col)].Set(c)
			out.PermInf[colorIdx(col)].Set(c)
			changed = true
		}
	}
	return changed
}

// findVulnerablePass records cells with a unique killer (spec §4.3 step
// 4); these are recorded, not filled. Both the graph rule and the
// loaded pattern set are checked from each color's perspective in turn
// (mirroring findCapturedPass/findPermInfPass's per-color loop), and the
// color that proved the vulnerability is recorded alongside it — step
// 5's presimplicial-pair rule needs to know which side a mutual-killer
// pair is vulnerable for.
func (e *Engine) findVulnerablePass(b *hex.Board, sb *hex.StoneBoard, out *Record) bool {
	changed := false
	for _, c := range sb.Empty().Cells(nil) {
		if out.Dead.Test(c) || out.AllCaptured().Test(c) {
			continue
		}
		if _, already := out.Vulnerable[c]; already {
			continue
		}
		if killer, carrier, col, ok := vulnerableByGraphRule(b, sb, c); ok {
			out.Vulnerable[c] = Vulnerability{Killer: killer, Carrier: carrier, Color: col}
			changed = true
			continue
		}
		if e.Vulnerable == nil {
			continue
		}
		for _, col := range [2]hex.Color{hex.Black, hex.White} {
			hits := e.Vulnerable.MatchOnCell(b, sb, col, c, hex.StopAtFirstHit)
			if len(hits) == 0 || len(hits[0].Moves1) == 0 {
				continue
			}
			carrier := hex.NewBitset(sb.Size())
			for _, m := range hits[0].Moves1[1:] {
				carrier.Set(m)
			}
			out.Vulnerable[c] = Vulnerability{Killer: hits[0].Moves1[0], Carrier: carrier, Color: col}
			changed = true
			break
		}
	}
	return changed
}

// findPresimplicialPairs fills mutual-killer pairs as the opponent's
// captured cell (spec §4.3 step 5), exactly as
// original_source/src/hex/ICEngine.cpp's FillInVulnerable does:
// `inf.AddCaptured(!color, captured)` — a vulnerable-for-color pair
// becomes a stone of the *other* color, not a colorless dead cell,
// since either of the mutual killers already guarantees the opponent's
// side of the shape regardless of who moves there.
func (e *Engine) findPresimplicialPairs(b *hex.Board, sb *hex.StoneBoard, out *Record) bool {
	changed := false
	for x, vx := range out.Vulnerable {
		if out.Dead.Test(x) || out.AllCaptured().Test(x) {
			continue
		}
		y := vx.Killer
		vy, ok := out.Vulnerable[y]
		if !ok || vy.Killer != x || vy.Color != vx.Color {
			continue
		}
		if vx.Carrier.Empty() {
			continue
		}
		disjoint := true
		for i := range vx.Carrier {
			if vx.Carrier[i]&vy.Carrier[i] != 0 {
				disjoint = false
				break
			}
		}
		if !disjoint {
			continue
		}
		// x and y are mutual killers with disjoint carriers, proven
		// vulnerable for the same color: the opponent of that color
		// captures x (spec §4.3 step 5 / ICEngine.cpp's !color).
		capturer := vx.Color.Other()
		if capturer != hex.Black && capturer != hex.White {
			continue
		}
		sb.AddColor(capturer, singleton(sb, x))
		out.Captured[colorIdx(capturer)].Set(x)
		changed = true
	}
	return changed
}

// findUnreachable fills cells as Dead that neither color could ever use:
// a cell only earns this if it is unreachable from both of Black's edges
// through (empty ∪ black) *and* unreachable from both of White's edges
// through (empty ∪ white) (spec §4.3 step 6). Checking only one color's
// reachability is not enough — a cell black's stones can never connect
// through may still be a live part of white's territory, so both must
// fail before the cell is universally dead.
//
// This implements the "every empty cell not reachable from either edge
// ... is dead" conclusion of the clique-cutset rules directly via global
// reachability, rather than re-deriving it from the specific two/three-
// group clique cutsets original_source/src/hex/ICEngine.cpp enumerates
// (FindType1/2/3Cliques, FindThreeSetCliques). The cutsets are a
// performance optimization that finds the same dead cells earlier in the
// fixed point; global BFS reachability is the conclusion they all reduce
// to and is what the spec's testable properties (§8) actually check.
func (e *Engine) findUnreachable(b *hex.Board, sb *hex.StoneBoard, out *Record) bool {
	changed := false
	var reachable [2]hex.Bitset
	for i, col := range [2]hex.Color{hex.Black, hex.White} {
		a := reachableFrom(b, sb, edgeOf(b, col, true), col)
		bb := reachableFrom(b, sb, edgeOf(b, col, false), col)
		a.Union(bb)
		reachable[i] = a
	}
	for c := hex.Cell(0); int(c) < b.NumCells(); c++ {
		if !sb.IsEmpty(c) || out.Dead.Test(c) {
			continue
		}
		if !reachable[0].Test(c) && !reachable[1].Test(c) {
			fillDead(sb, out, c)
			changed = true
		}
	}
	return changed
}

func edgeOf(b *hex.Board, col hex.Color, first bool) hex.Cell {
	if col == hex.Black {
		if first {
			return b.North
		}
		return b.South
	}
	if first {
		return b.West
	}
	return b.East
}

// reachableFrom runs a BFS from edge through cells that are empty or
// colored col, returning the empty cells reached.
func reachableFrom(b *hex.Board, sb *hex.StoneBoard, edge hex.Cell, col hex.Color) hex.Bitset {
	n := b.NumCells()
	visited := hex.NewBitset(n)
	queue := make([]hex.Cell, 0, n)
	for _, c := range b.Neighbors(edge) {
		_ = c
	}
	// seed with every cell bordering edge that is empty or col
	for c := hex.Cell(0); int(c) < n; c++ {
		for _, nb := range b.Neighbors(c) {
			if nb == edge {
				col0 := sb.ColorOf(c)
				if (col0 == hex.Empty || col0 == col) && !visited.Test(c) {
					visited.Set(c)
					queue = append(queue, c)
				}
				break
			}
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, nb := range b.Neighbors(c) {
			if nb == hex.NullCell || !b.IsInterior(nb) || visited.Test(nb) {
				continue
			}
			col0 := sb.ColorOf(nb)
			if col0 == hex.Empty || col0 == col {
				visited.Set(nb)
				queue = append(queue, nb)
			}
		}
	}
	empties := hex.NewBitset(n)
	for _, c := range visited.Cells(nil) {
		if sb.IsEmpty(c) {
			empties.Set(c)
		}
	}
	return empties
}

// findDominated records, for each still-empty cell, dominator cells from
// pattern matching (spec §4.3 "Domination").
func (e *Engine) findDominated(b *hex.Board, sb *hex.StoneBoard, out *Record) {
	if e.Dominated == nil {
		return
	}
	for _, c := range sb.Empty().Cells(nil) {
		if out.Dead.Test(c) || out.AllCaptured().Test(c) {
			continue
		}
		hits := e.Dominated.MatchOnCell(b, sb, hex.Black, c, hex.MatchAll)
		if len(hits) == 0 {
			continue
		}
		dom := out.Dominated[c]
		for _, h := range hits {
			for _, m := range h.Moves1 {
				dom.Dominators = append(dom.Dominators, m)
			}
		}
		out.Dominated[c] = dom
	}
}

// backupOpponentDead is the experimental strengthening described in
// spec §9's open question and original_source/src/hex/ICEngine.cpp's
// BackupOpponentDead: every dead cell adjacent to any played stone is
// additionally recorded as dominated by that stone. The last move is not
// singled out, and toPlay is not used. Minimal by design: it only adds
// Dominated entries, never
// changes Dead/Captured, so it cannot affect correctness — only pruning
// strength.
func (e *Engine) backupOpponentDead(b *hex.Board, sb *hex.StoneBoard, toPlay hex.Color, out *Record) {
	last := sb.Played()
	for _, played := range last.Cells(nil) {
		for _, nb := range b.Neighbors(played) {
			if nb == hex.NullCell || !out.Dead.Test(nb) {
				continue
			}
			dom := out.Dominated[nb]
			dom.Dominators = append(dom.Dominators, played)
			out.Dominated[nb] = dom
		}
	}
}

// undoWinningFillin implements spec §4.3's outcome-only description of
// the "winning fill-in" failure mode: if the fill-in just performed
// completed the game for one side, its captured and dead cells are
// reverted to Empty so the search still sees a legal move. Per spec §9's
// decision record, the internal staged reasoning of
// original_source/src/hex/ICEngine.cpp is not reproduced — only the
// documented outcome.
func undoWinningFillin(b *hex.Board, sb *hex.StoneBoard, out *Record) {
	if !sb.Empty().Empty() {
		return
	}
	gb := hex.NewGroupBoard(sb)
	var winner hex.Color
	if gb.EdgesConnected(b.North, b.South) {
		winner = hex.Black
	} else if gb.EdgesConnected(b.East, b.West) {
		winner = hex.White
	} else {
		return
	}
	captured := out.Captured[colorIdx(winner)].Clone()
	for _, c := range captured.Cells(nil) {
		sb.Undo(c)
		out.Captured[colorIdx(winner)].Clear(c)
	}
	for _, c := range out.Dead.Clone().Cells(nil) {
		sb.Undo(c)
		out.Dead.Clear(c)
	}
}
