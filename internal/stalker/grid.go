package stalker

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type Params struct {
	Rows, Cols  int
	Start, Goal Position
	Hazards     []Position
}

// Grid is the immutable playing field of a single puzzle. It is safe to
// share between concurrent searches.
type Grid struct {
	rows, cols  int
	start, goal Position
	hazards     map[Position]struct{}
}

func NewGrid(p Params) (*Grid, error) {
	if p.Rows <= 0 || p.Cols <= 0 {
		return nil, &ConfigError{Field: "size", Err: ErrInvalidSize}
	}

	g := &Grid{
		rows:    p.Rows,
		cols:    p.Cols,
		start:   p.Start,
		goal:    p.Goal,
		hazards: make(map[Position]struct{}, len(p.Hazards)),
	}

	if !g.InBounds(p.Start) {
		return nil, &ConfigError{Field: "start", Pos: p.Start, Err: ErrOutOfBounds}
	}
	if !g.InBounds(p.Goal) {
		return nil, &ConfigError{Field: "goal", Pos: p.Goal, Err: ErrOutOfBounds}
	}

	for _, h := range p.Hazards {
		switch {
		case !g.InBounds(h):
			return nil, &ConfigError{Field: "hazard", Pos: h, Err: ErrOutOfBounds}
		case h == p.Start:
			return nil, &ConfigError{Field: "start", Pos: h, Err: ErrHazardOnEndpoint}
		case h == p.Goal:
			return nil, &ConfigError{Field: "goal", Pos: h, Err: ErrHazardOnEndpoint}
		}
		g.hazards[h] = struct{}{}
	}

	return g, nil
}

func (g *Grid) Rows() int        { return g.rows }
func (g *Grid) Cols() int        { return g.cols }
func (g *Grid) Start() Position  { return g.start }
func (g *Grid) Goal() Position   { return g.goal }
func (g *Grid) HazardCount() int { return len(g.hazards) }

// Hazards returns the hazard set in row-major order.
func (g *Grid) Hazards() []Position {
	hazards := make([]Position, 0, len(g.hazards))
	for h := range g.hazards {
		hazards = append(hazards, h)
	}
	slices.SortFunc(hazards, func(a, b Position) int {
		return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.Col, b.Col))
	})
	return hazards
}

func (g *Grid) InBounds(pos Position) bool {
	return 0 <= pos.Row && pos.Row < g.rows && 0 <= pos.Col && pos.Col < g.cols
}

func (g *Grid) IsHazard(pos Position) bool {
	_, ok := g.hazards[pos]
	return ok
}

// Neighbors returns the in-bounds orthogonal neighbours of pos, always in
// south, north, east, west order.
func (g *Grid) Neighbors(pos Position) []Position {
	neighbors := make([]Position, 0, len(directions))
	for _, d := range directions {
		if n := pos.Add(d); g.InBounds(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

func (g *Grid) Params() Params {
	return Params{
		Rows:    g.rows,
		Cols:    g.cols,
		Start:   g.start,
		Goal:    g.goal,
		Hazards: g.Hazards(),
	}
}

func (g *Grid) String() string {
	var b strings.Builder
	for row := range g.rows {
		for col := range g.cols {
			pos := Position{row, col}
			var ch string
			switch {
			case pos == g.start:
				ch = "S "
			case pos == g.goal:
				ch = "G "
			case g.IsHazard(pos):
				ch = "* "
			default:
				ch = "- "
			}
			fmt.Fprint(&b, ch)
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
