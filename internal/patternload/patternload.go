// Package patternload reads a pattern file (spec §6 "Pattern file
// format") and partitions its records by role into the seven
// hex.HashedPatternSet tables internal/ice and internal/mcts each need
// one of.
//
// Grounded on the teacher's autoLoadNNUE (cmd/chessplay-uci/main.go):
// the same "probe a handful of well-known search paths, tolerate a
// missing file, log what was loaded" shape, adapted here to a required
// resource instead of an optional one — spec §7 classifies a missing or
// malformed pattern file as a fatal resource/consistency error rather
// than a silently-degraded feature, since ICE has no fallback behavior
// without its pattern tables.
package patternload

import (
	"fmt"
	"os"

	"github.com/hailam/hexengine/internal/hex"
)

// Set bundles the seven role-partitioned pattern tables ice.Engine and
// mcts.Policy are built from.
type Set struct {
	Dead          *hex.HashedPatternSet
	CapturedBlack *hex.HashedPatternSet
	CapturedWhite *hex.HashedPatternSet
	PermInfBlack  *hex.HashedPatternSet
	PermInfWhite  *hex.HashedPatternSet
	Vulnerable    *hex.HashedPatternSet
	Dominated     *hex.HashedPatternSet
	Playout       *hex.HashedPatternSet
}

// Load reads and partitions the pattern file at path. A missing or
// malformed file is reported as an error; the caller (cmd/hexengine) is
// expected to treat that as fatal per spec §7.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("patternload: %w", err)
	}
	defer f.Close()

	patterns, err := hex.LoadPatternsFromFile(f)
	if err != nil {
		return nil, fmt.Errorf("patternload: malformed pattern file %s: %w", path, err)
	}

	byRole := make(map[hex.Role][]*hex.Pattern)
	for _, p := range patterns {
		byRole[p.Role] = append(byRole[p.Role], p)
	}

	build := func(role hex.Role) *hex.HashedPatternSet {
		return hex.NewHashedPatternSet(byRole[role])
	}

	return &Set{
		Dead:          build(hex.RoleDead),
		CapturedBlack: build(hex.RoleCapturedBlack),
		CapturedWhite: build(hex.RoleCapturedWhite),
		PermInfBlack:  build(hex.RolePermInfBlack),
		PermInfWhite:  build(hex.RolePermInfWhite),
		Vulnerable:    build(hex.RoleVulnerable),
		Dominated:     build(hex.RoleDominated),
		Playout:       build(hex.RolePlayout),
	}, nil
}

// Empty returns a Set of seven empty tables, for running without a
// pattern file (legal but weak: ICE will never fill in or prune
// anything, and the default policy falls back to pure-random playouts).
func Empty() *Set {
	none := func() *hex.HashedPatternSet { return hex.NewHashedPatternSet(nil) }
	return &Set{
		Dead: none(), CapturedBlack: none(), CapturedWhite: none(),
		PermInfBlack: none(), PermInfWhite: none(),
		Vulnerable: none(), Dominated: none(), Playout: none(),
	}
}
