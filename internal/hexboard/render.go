package hexboard

import (
	"strings"

	"github.com/hailam/hexengine/internal/hex"
)

// String renders the board as an indented ASCII diamond, one row per
// board row, each shifted one space further right than the last so the
// slanted Hex adjacency reads visually left-to-right — the conventional
// rendering for this rhombus layout (no teacher equivalent: the chess
// board the teacher renders is a square grid with no shear, so this is
// grounded directly on the layout spec §6 and §4.1 describe rather than
// adapted from any single source file). Black stones print as "B",
// White as "X", empty interior cells as ".".
func (hbd *HexBoard) String() string {
	b := hbd.Board
	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", 3))
	for col := 0; col < b.Width; col++ {
		sb.WriteString(columnLetter(col))
		sb.WriteString(" ")
	}
	sb.WriteString("\n")

	for row := 0; row < b.Height; row++ {
		sb.WriteString(strings.Repeat(" ", row))
		rowLabel := row + 1
		sb.WriteString(padRight(itoa(rowLabel), 3))
		for col := 0; col < b.Width; col++ {
			c := b.CellAt(col, row)
			sb.WriteString(cellGlyph(hbd.Stones.ColorOf(c)))
			sb.WriteString(" ")
		}
		sb.WriteString(itoa(rowLabel))
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat(" ", b.Height+3))
	for col := 0; col < b.Width; col++ {
		sb.WriteString(columnLetter(col))
		sb.WriteString(" ")
	}
	sb.WriteString("\n")
	return sb.String()
}

func cellGlyph(col hex.Color) string {
	switch col {
	case hex.Black:
		return "B"
	case hex.White:
		return "X"
	case hex.Dead:
		return "*"
	default:
		return "."
	}
}

func columnLetter(col int) string {
	col++
	var buf []byte
	for col > 0 {
		col--
		buf = append([]byte{byte('a' + col%26)}, buf...)
		col /= 26
	}
	return string(buf)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func padRight(s string, width int) string {
	for len(s) < width {
		s = s + " "
	}
	return s
}
