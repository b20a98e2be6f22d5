package hex

// Zobrist hashing, grounded on the teacher's internal/board/zobrist.go:
// a fixed-seed xorshift64* PRNG fills a package-level key table once at
// init() so hashes are reproducible across runs (needed for the
// deterministic-given-seed guarantee in spec §5 and for the opening
// book's position keys).
//
// maxZobristCells bounds the per-color key table. The largest board this
// engine plays is 11x11 (121 interior cells) plus six sentinels
// (N/S/E/W/Swap/Resign); 256 leaves ample headroom for any board size a
// caller might construct.
const maxZobristCells = 256

var (
	zobristCell       [2][maxZobristCells]uint64 // [colorIdx][cell]
	zobristSideToMove uint64
)

func init() {
	rng := newZobristPRNG(0xB0A7D157CAFEF00D)
	for col := 0; col < 2; col++ {
		for c := 0; c < maxZobristCells; c++ {
			zobristCell[col][c] = rng.next()
		}
	}
	zobristSideToMove = rng.next()
}

type zobristPRNG struct {
	state uint64
}

func newZobristPRNG(seed uint64) *zobristPRNG {
	return &zobristPRNG{state: seed}
}

func (p *zobristPRNG) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// Hash computes a Zobrist hash of every occupied cell (Black and White
// stones, including ICE fill-in, not just Played stones — the search and
// the opening book key on the position the side to move actually faces)
// plus the side to move. Two StoneBoards with identical occupancy and
// side to move hash identically regardless of move order, which is what
// a transposition table and an opening book both require.
func (sb *StoneBoard) Hash(toMove Color) uint64 {
	h := uint64(0)
	n := sb.Board.NumCells()
	for c := 0; c < n; c++ {
		switch sb.color[c] {
		case Black:
			h ^= zobristCell[0][c%maxZobristCells]
		case White:
			h ^= zobristCell[1][c%maxZobristCells]
		}
	}
	if toMove == White {
		h ^= zobristSideToMove
	}
	return h
}
