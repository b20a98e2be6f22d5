package protocol

import (
	"fmt"
	"os"
	"strings"

	"github.com/hailam/hexengine/internal/hex"
)

// sgfMove is one decoded ;B[..]/;W[..] property.
type sgfMove struct {
	color hex.Color
	cell  string
}

// loadSGFMoves extracts the move sequence from an SGF file. Only the
// B[..]/W[..] move properties are read; every other SGF property
// (game-info, comments, variations) is ignored. This is deliberately
// not a general SGF parser — full SGF tree/variation support sits
// outside this engine's scope (spec §6 lists loadsgf as a consumer of
// externally-produced files, not a requirement to implement SGF in
// full) — but it is enough to replay the single main line of a game
// record, which is what loadsgf's "up to the given ply" semantics need.
//
// Coordinates follow the two-letter SGF convention (column then row,
// both 'a'-indexed): "fc" decodes to column f, 1-based row 3.
func loadSGFMoves(path string) ([]sgfMove, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)

	var moves []sgfMove
	for i := 0; i < len(text); i++ {
		if text[i] != ';' {
			continue
		}
		rest := text[i+1:]
		for _, tag := range [...]struct {
			prefix string
			color  hex.Color
		}{{"B[", hex.Black}, {"W[", hex.White}} {
			if !strings.HasPrefix(rest, tag.prefix) {
				continue
			}
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("unterminated move property in %s", path)
			}
			coord := rest[len(tag.prefix):end]
			cell, err := decodeSGFCoord(coord)
			if err != nil {
				return nil, err
			}
			if cell != "" {
				moves = append(moves, sgfMove{color: tag.color, cell: cell})
			}
		}
	}
	return moves, nil
}

// decodeSGFCoord turns a two-letter SGF coordinate into this engine's
// own column-letter+row-number cell notation. An empty coordinate
// ("B[]") is a pass, which Hex has no equivalent of; it is skipped.
func decodeSGFCoord(coord string) (string, error) {
	if coord == "" {
		return "", nil
	}
	if len(coord) != 2 {
		return "", fmt.Errorf("invalid SGF coordinate %q", coord)
	}
	col := coord[0]
	row := coord[1]
	if col < 'a' || col > 'z' || row < 'a' || row > 'z' {
		return "", fmt.Errorf("invalid SGF coordinate %q", coord)
	}
	return fmt.Sprintf("%c%d", col, int(row-'a')+1), nil
}
