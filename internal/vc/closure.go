package vc

import "github.com/hailam/hexengine/internal/hex"

// closeFixedPoint applies the AND-rule, both halves of the OR/SEMI-rule
// (Full+Semi and Semi+Semi) and semi-to-full promotion (spec §4.4
// "Closure rules") until no pair's lists change. Restricted to exactly
// the rules spec §4.4 names, rather than the fuller AND-1/AND-2/
// OR-variant/dovetailing rule set original_source/src/hex/HexBoard.cpp's
// VCBuilder implements (not separately retrieved in this pack;
// referenced only from HexBoard.cpp's BuildVCs call) — a deliberately
// scoped subset chosen to match exactly what the spec specifies rather
// than port unreferenced machinery.
func closeFixedPoint(t *table, opts Options) {
	for {
		changed := false
		groups := allGroups(t)
		for _, a := range groups {
			for _, b := range groups {
				if a == b {
					continue
				}
				for _, c := range groups {
					if c == a || c == b {
						continue
					}
					changed = andRule(t, a, b, c, opts) || changed
					changed = orSemiRule(t, a, b, c, opts) || changed
					changed = semiSemiRule(t, a, b, c, opts) || changed
				}
			}
		}
		changed = semiToFullPromotion(t, opts) || changed
		if !changed {
			break
		}
	}
}

func allGroups(t *table) []hex.Cell {
	seen := make(map[hex.Cell]bool)
	var out []hex.Cell
	for k := range t.entries {
		if !seen[k.a] {
			seen[k.a] = true
			out = append(out, k.a)
		}
		if !seen[k.b] {
			seen[k.b] = true
			out = append(out, k.b)
		}
	}
	return out
}

// andRule: Full(a,b) + Full(b,c) with disjoint carriers => Full(a,c).
func andRule(t *table, a, b, c hex.Cell, opts Options) bool {
	eab, ok := t.lookup(a, b)
	if !ok {
		return false
	}
	ebc, ok := t.lookup(b, c)
	if !ok {
		return false
	}
	changed := false
	for _, v1 := range eab.full {
		for _, v2 := range ebc.full {
			if v1.Carrier.Intersects(v2.Carrier) {
				continue
			}
			carrier := v1.Carrier.Clone()
			carrier.Union(v2.Carrier)
			if _, ins := insertFull(t, a, c, carrier, opts); ins {
				changed = true
			}
		}
	}
	return changed
}

// orSemiRule: Full(a,b) + Semi(b,c) => Semi(a,c) carrying the same
// carrier and key (a Full costs nothing extra, so the Semi's threat
// passes through unchanged).
func orSemiRule(t *table, a, b, c hex.Cell, opts Options) bool {
	eab, ok := t.lookup(a, b)
	if !ok {
		return false
	}
	ebc, ok := t.lookup(b, c)
	if !ok {
		return false
	}
	changed := false
	for _, v1 := range eab.full {
		for _, v2 := range ebc.semi {
			if v1.Carrier.Intersects(v2.Carrier) {
				continue
			}
			carrier := v1.Carrier.Clone()
			carrier.Union(v2.Carrier)
			if _, ins := insertSemi(t, a, c, carrier, v2.Key, opts); ins {
				changed = true
			}
		}
	}
	return changed
}

// semiSemiRule: Semi(a,b) + Semi(b,c) => Semi(a,c), the OR/SEMI-rule's
// second case (spec §4.4: "two Semis meeting at b with disjoint
// carriers and compatible keys"). "Compatible keys" means the same key
// cell k: playing k realizes both halves in one move, since each Semi
// becomes a guaranteed connection once its key is played. The two
// halves must still be carrier-disjoint once k itself (counted once in
// the union) is set aside, or the combined threat cannot be guaranteed
// by a single reply.
func semiSemiRule(t *table, a, b, c hex.Cell, opts Options) bool {
	eab, ok := t.lookup(a, b)
	if !ok {
		return false
	}
	ebc, ok := t.lookup(b, c)
	if !ok {
		return false
	}
	changed := false
	for _, v1 := range eab.semi {
		for _, v2 := range ebc.semi {
			if v1.Key != v2.Key || v1.Key == hex.NullCell {
				continue
			}
			rest1 := v1.Carrier.Clone()
			rest1.Clear(v1.Key)
			rest2 := v2.Carrier.Clone()
			rest2.Clear(v2.Key)
			if rest1.Intersects(rest2) {
				continue
			}
			carrier := v1.Carrier.Clone()
			carrier.Union(v2.Carrier)
			if _, ins := insertSemi(t, a, c, carrier, v1.Key, opts); ins {
				changed = true
			}
		}
	}
	return changed
}

// semiToFullPromotion: two Semi(a,b) VCs with different keys and
// otherwise disjoint carriers union into a Full(a,b) — playing either
// key answers the other's threat, so no single opponent reply defeats
// both (spec §4.4 "Semi-to-Full promotion").
func semiToFullPromotion(t *table, opts Options) bool {
	changed := false
	for key, e := range t.entries {
		for i := 0; i < len(e.semi); i++ {
			for j := i + 1; j < len(e.semi); j++ {
				v1, v2 := e.semi[i], e.semi[j]
				if v1.Key == v2.Key {
					continue
				}
				rest1 := v1.Carrier.Clone()
				rest1.Clear(v2.Key)
				rest2 := v2.Carrier.Clone()
				rest2.Clear(v1.Key)
				if rest1.Intersects(rest2) {
					continue
				}
				carrier := v1.Carrier.Clone()
				carrier.Union(v2.Carrier)
				if _, ins := insertFull(t, key.a, key.b, carrier, opts); ins {
					changed = true
				}
			}
		}
	}
	return changed
}
