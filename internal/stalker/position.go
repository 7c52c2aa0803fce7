package stalker

import (
	"fmt"
	"strings"
)

type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// south, north, east, west
var directions = [...]Position{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func (p Position) Add(d Position) Position {
	return Position{p.Row + d.Row, p.Col + d.Col}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func Manhattan(a, b Position) int {
	return absDiff(a.Row, b.Row) + absDiff(a.Col, b.Col)
}

// Path is an ordered start-to-goal sequence of positions. A nil Path means
// no route exists.
type Path []Position

func (p Path) Start() (Position, bool) {
	if len(p) == 0 {
		return Position{}, false
	}
	return p[0], true
}

func (p Path) End() (Position, bool) {
	if len(p) == 0 {
		return Position{}, false
	}
	return p[len(p)-1], true
}

// Moves is the number of steps taken, one less than the number of cells.
func (p Path) Moves() int {
	return max(len(p)-1, 0)
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, pos := range p {
		parts[i] = pos.String()
	}
	return strings.Join(parts, " -> ")
}
