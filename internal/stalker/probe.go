package stalker

import "fmt"

// AdjacentHazards counts hazards among the eight cells surrounding pos, the
// number a player standing on pos would be shown.
func (g *Grid) AdjacentHazards(pos Position) int {
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if g.IsHazard(Position{pos.Row + dr, pos.Col + dc}) {
				n++
			}
		}
	}
	return n
}

// ValidatePath checks that p walks from start to goal one orthogonal step at
// a time without leaving the grid or touching a hazard.
func (g *Grid) ValidatePath(p Path) error {
	if len(p) == 0 {
		return ErrEmptyPath
	}
	if p[0] != g.start || p[len(p)-1] != g.goal {
		return fmt.Errorf("%w: %s .. %s", ErrPathEndpoints, p[0], p[len(p)-1])
	}
	for i, pos := range p {
		if !g.InBounds(pos) {
			return fmt.Errorf("step %d %s: %w", i, pos, ErrOutOfBounds)
		}
		if g.IsHazard(pos) {
			return fmt.Errorf("step %d %s: %w", i, pos, ErrPathHazard)
		}
		if i > 0 && Manhattan(p[i-1], pos) != 1 {
			return fmt.Errorf("step %d %s -> %s: %w", i, p[i-1], pos, ErrPathDiscontinuous)
		}
	}
	return nil
}
