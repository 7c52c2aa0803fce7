package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/stalker"
)

// Generate places p.MineCount mines uniformly at random on distinct cells,
// never on start or goal.
func Generate(p Params, start, goal stalker.Position, r *rand.Rand) ([]stalker.Position, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !p.PointInBounds(start) || !p.PointInBounds(goal) {
		return nil, fmt.Errorf(
			"%w: endpoints %s, %s outside %s", ErrInvalidParams, start, goal, p,
		)
	}

	rows, cols, mineCount := p.Unpack()

	if free := p.FreeCells(start, goal); mineCount > free {
		return nil, fmt.Errorf(
			"%w: %d mines, %d free cells", ErrTooManyMines, mineCount, free,
		)
	}

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, 0, rows*cols)
	for row := range rows {
		for col := range cols {
			pos := stalker.Position{Row: row, Col: col}
			if pos != start && pos != goal {
				candidates = append(candidates, row*cols+col)
			}
		}
	}

	/*
	 * Now pick n off the list at random.
	 */
	mines := make([]stalker.Position, 0, mineCount)
	k := len(candidates)
	for range mineCount {
		i := r.IntN(k)
		c := candidates[i]
		mines = append(mines, stalker.Position{Row: c / cols, Col: c % cols})
		k--
		candidates[i] = candidates[k]
	}

	Log.WithFields(logrus.Fields{
		"params": p.String(),
		"start":  start.String(),
		"goal":   goal.String(),
	}).Debug("mines placed")

	return mines, nil
}

// NewGrid mines a fresh field and wraps it in a searchable grid.
func NewGrid(p Params, start, goal stalker.Position, r *rand.Rand) (*stalker.Grid, error) {
	hazards, err := Generate(p, start, goal, r)
	if err != nil {
		return nil, err
	}
	return stalker.NewGrid(stalker.Params{
		Rows:    p.Rows,
		Cols:    p.Cols,
		Start:   start,
		Goal:    goal,
		Hazards: hazards,
	})
}
