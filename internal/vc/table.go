package vc

import (
	"slices"

	"github.com/hailam/hexengine/internal/hex"
)

// pairKey canonicalizes an unordered group pair so (x,y) and (y,x) index
// the same entry.
type pairKey struct{ a, b hex.Cell }

func makeKey(x, y hex.Cell) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{x, y}
}

// entry holds one group pair's Full and Semi lists.
type entry struct {
	full []VC
	semi []VC
}

// table is one color's connection table: a map from group pair to its
// Full/Semi lists (spec §4.4 "Model").
type table struct {
	entries map[pairKey]*entry
}

func newTable() *table {
	return &table{entries: make(map[pairKey]*entry)}
}

func (t *table) get(x, y hex.Cell) *entry {
	k := makeKey(x, y)
	e, ok := t.entries[k]
	if !ok {
		e = &entry{}
		t.entries[k] = e
	}
	return e
}

func (t *table) lookup(x, y hex.Cell) (*entry, bool) {
	e, ok := t.entries[makeKey(x, y)]
	return e, ok
}

// sortVCs orders a list strongest (smallest carrier) first, breaking
// ties on carrier bit pattern for determinism (spec §5 "stable_sort at
// every ranking step").
func sortVCs(list []VC) {
	slices.SortFunc(list, func(a, b VC) int {
		if ca, cb := a.Carrier.Count(), b.Carrier.Count(); ca != cb {
			return ca - cb
		}
		if c := compareCarrier(a.Carrier, b.Carrier); c != 0 {
			return c
		}
		return int(a.Key - b.Key)
	})
}

func compareCarrier(a, b hex.Bitset) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func isSubsetOrEqual(a, b hex.Bitset) bool {
	for i := range a {
		if a[i]&^b[i] != 0 {
			return false
		}
	}
	return true
}

// insertFull adds a Full(x,y) VC with the given carrier, skipping it if
// an existing Full VC already has an equal-or-smaller carrier (it would
// add nothing a search could exploit), and dropping any existing VC the
// new one subsumes. Enforces the soft limit by truncating the weakest
// entries after sorting.
func insertFull(t *table, x, y hex.Cell, carrier hex.Bitset, opts Options) (VC, bool) {
	e := t.get(x, y)
	nv := VC{X: x, Y: y, Type: Full, Carrier: carrier, Key: hex.NullCell}
	for _, v := range e.full {
		if isSubsetOrEqual(v.Carrier, nv.Carrier) {
			return VC{}, false
		}
	}
	kept := e.full[:0:0]
	for _, v := range e.full {
		if !isSubsetOrEqual(nv.Carrier, v.Carrier) {
			kept = append(kept, v)
		}
	}
	e.full = append(kept, nv)
	sortVCs(e.full)
	if opts.MaxFull > 0 && len(e.full) > opts.MaxFull {
		e.full = e.full[:opts.MaxFull]
	}
	return nv, true
}

// insertSemi adds a Semi(x,y) VC keyed on key, with the same
// subsumption/soft-limit handling as insertFull but scoped to VCs
// sharing the same key — two Semis with different keys are independent
// threats, not comparable by carrier size alone.
func insertSemi(t *table, x, y hex.Cell, carrier hex.Bitset, key hex.Cell, opts Options) (VC, bool) {
	e := t.get(x, y)
	nv := VC{X: x, Y: y, Type: Semi, Carrier: carrier, Key: key}
	for _, v := range e.semi {
		if v.Key == key && isSubsetOrEqual(v.Carrier, nv.Carrier) {
			return VC{}, false
		}
	}
	kept := e.semi[:0:0]
	for _, v := range e.semi {
		if v.Key == key && isSubsetOrEqual(nv.Carrier, v.Carrier) {
			continue
		}
		kept = append(kept, v)
	}
	e.semi = append(kept, nv)
	sortVCs(e.semi)
	if opts.MaxSemi > 0 && len(e.semi) > opts.MaxSemi {
		e.semi = e.semi[:opts.MaxSemi]
	}
	return nv, true
}
