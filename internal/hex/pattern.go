package hex

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Role groups patterns by the semantic question they answer (spec §3).
type Role int

const (
	RoleDead Role = iota
	RoleCapturedBlack
	RoleCapturedWhite
	RolePermInfBlack
	RolePermInfWhite
	RoleVulnerable
	RoleDominated
	RolePlayout // default-policy "play pattern" suggestions
)

func ParseRole(s string) (Role, bool) {
	switch s {
	case "dead":
		return RoleDead, true
	case "captured-black":
		return RoleCapturedBlack, true
	case "captured-white":
		return RoleCapturedWhite, true
	case "perminf-black":
		return RolePermInfBlack, true
	case "perminf-white":
		return RolePermInfWhite, true
	case "vulnerable":
		return RoleVulnerable, true
	case "dominated":
		return RoleDominated, true
	case "playout":
		return RolePlayout, true
	default:
		return RoleDead, false
	}
}

// Pattern is a single local shape: a neighborhood constraint plus the
// auxiliary cells identifying what a hit means (spec §3). Moves1/Moves2
// are slot indices (into the same 6-slot neighbor order as RingGodel)
// rather than absolute cells; the caller translates them relative to the
// matched center when reporting a Hit.
type Pattern struct {
	Name    string
	Role    Role
	Weight  int
	Slices  [slicesPerGodel]PatternSlice
	Moves1  []int // e.g. killer cell(s) / captured-carrier marker slots
	Moves2  []int // e.g. secondary carrier slots (presimplicial pairs)
	FlipFor Color // Black or White: which side this pattern was authored for
}

// matchesGodel reports whether every active slice of p accepts g.
func (p *Pattern) matchesGodel(g RingGodel) bool {
	for i := 0; i < slicesPerGodel; i++ {
		if !p.Slices[i].Matches(g, i) {
			return false
		}
	}
	return true
}

// flipped returns a copy of p with Black/White swapped in every active
// slice's acceptance mask and FlipFor inverted — how the pattern file
// loader derives the White-oriented pattern from a Black-authored record
// (spec §4.7 default policy: "a role ... color-flipped for White").
func (p *Pattern) flipped() *Pattern {
	out := *p
	out.FlipFor = p.FlipFor.Other()
	for i, s := range p.Slices {
		if !s.Active {
			continue
		}
		var flippedMask uint8
		if s.Accept&colorMask(Black) != 0 {
			flippedMask |= colorMask(White)
		}
		if s.Accept&colorMask(White) != 0 {
			flippedMask |= colorMask(Black)
		}
		if s.Accept&colorMask(Empty) != 0 {
			flippedMask |= colorMask(Empty)
		}
		if s.Accept&colorMask(Dead) != 0 {
			flippedMask |= colorMask(Dead)
		}
		out.Slices[i] = PatternSlice{Active: true, Accept: flippedMask}
	}
	return &out
}

// LoadPatternsFromFile parses the pattern file format described in
// spec §6: one record per line, "name role weight slices moves1 moves2",
// tolerant of blank lines and '#' comments. slices is six characters
// from {b,w,e,d,o,*} (black/white/empty/dead/occupied, meaning black or
// white/any); moves1/moves2 are
// comma-separated slot indices, or "-" for none.
//
// The parser's line-oriented, comment-tolerant style follows the
// teacher's bufio.Scanner-based line loops (internal/uci/uci.go's Run);
// the record shape itself has no teacher analog since chess has no
// pattern file, so it is original to this package.
func LoadPatternsFromFile(r io.Reader) ([]*Pattern, error) {
	var out []*Pattern
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := parsePatternLine(line)
		if err != nil {
			return nil, fmt.Errorf("hex: pattern file line %d: %w", lineNo, err)
		}
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parsePatternLine(line string) (*Pattern, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}
	role, ok := ParseRole(fields[1])
	if !ok {
		return nil, fmt.Errorf("unknown role %q", fields[1])
	}
	weight, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("bad weight: %w", err)
	}
	if len(fields[3]) != slicesPerGodel {
		return nil, fmt.Errorf("expected %d slice characters, got %d", slicesPerGodel, len(fields[3]))
	}
	p := &Pattern{Name: fields[0], Role: role, Weight: weight, FlipFor: Black}
	for i, ch := range fields[3] {
		switch ch {
		case '*':
			p.Slices[i] = PatternSlice{Active: false}
		case 'b':
			p.Slices[i] = PatternSlice{Active: true, Accept: colorMask(Black)}
		case 'w':
			p.Slices[i] = PatternSlice{Active: true, Accept: colorMask(White)}
		case 'e':
			p.Slices[i] = PatternSlice{Active: true, Accept: colorMask(Empty)}
		case 'd':
			p.Slices[i] = PatternSlice{Active: true, Accept: colorMask(Dead)}
		case 'o': // "occupied": black or white
			p.Slices[i] = PatternSlice{Active: true, Accept: colorMask(Black) | colorMask(White)}
		default:
			return nil, fmt.Errorf("unknown slice character %q", ch)
		}
	}
	p.Moves1, err = parseSlotList(fields[4])
	if err != nil {
		return nil, err
	}
	p.Moves2, err = parseSlotList(fields[5])
	if err != nil {
		return nil, err
	}
	return p, nil
}

func parseSlotList(s string) ([]int, error) {
	if s == "-" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad slot index %q: %w", p, err)
		}
		if n < 0 || n >= slicesPerGodel {
			return nil, fmt.Errorf("slot index %d out of range", n)
		}
		out = append(out, n)
	}
	return out, nil
}
