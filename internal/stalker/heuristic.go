package stalker

import "math"

// MaxHazardDensity is the highest density a cell may have and still be
// entered.
const MaxHazardDensity = 0.5

// HazardDensity is the fraction of the in-bounds orthogonal neighbours of pos
// that are hazards. The denominator is the real neighbour count, so edge and
// corner cells range over [0, 1] like any other cell. A cell with no
// neighbours has density 0.
func (g *Grid) HazardDensity(pos Position) float64 {
	var total, hazardous int
	for _, d := range directions {
		n := pos.Add(d)
		if !g.InBounds(n) {
			continue
		}
		total++
		if g.IsHazard(n) {
			hazardous++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hazardous) / float64(total)
}

// Estimate is the Manhattan distance from pos to the goal plus the hazard
// density around pos.
//
// The density term makes the estimate inadmissible: it can exceed the real
// remaining cost. Searches using it are biased away from mined areas and
// are not guaranteed to return the shortest path.
func (g *Grid) Estimate(pos Position) float64 {
	return float64(Manhattan(pos, g.goal)) + g.HazardDensity(pos)
}

// IsValid reports whether pos may be entered. A cell is rejected when it is
// a hazard, when its estimate is higher than the estimate of every one of
// its neighbours, or when its hazard density exceeds MaxHazardDensity.
//
// The neighbour comparison is skipped for a cell with no neighbours (a 1x1
// grid): there is nothing to compare against, so it cannot fail.
func (g *Grid) IsValid(pos Position) bool {
	if !g.InBounds(pos) || g.IsHazard(pos) {
		return false
	}

	neighbors := g.Neighbors(pos)
	if len(neighbors) > 0 {
		best := math.Inf(-1)
		for _, n := range neighbors {
			best = max(best, g.Estimate(n))
		}
		if g.Estimate(pos) > best {
			return false
		}
	}

	return g.HazardDensity(pos) <= MaxHazardDensity
}
