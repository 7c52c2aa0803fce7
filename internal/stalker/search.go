package stalker

import (
	"container/heap"
	"context"
)

// Result is the outcome of one search. Found is false and Path is nil when
// the frontier ran dry before the goal was reached.
type Result struct {
	Path      Path
	Found     bool
	Expanded  int
	Generated int
}

// Step describes one frontier pop.
type Step struct {
	Index    int
	Current  Position
	Cost     int
	Priority float64
	Frontier int
}

type options struct {
	trace func(Step)
}

type Option func(*options)

// WithTrace calls fn for every position popped off the frontier, goal
// included.
func WithTrace(fn func(Step)) Option {
	return func(o *options) { o.trace = fn }
}

type searchState struct {
	open     frontier
	gScore   map[Position]int
	cameFrom map[Position]Position
	seq      int
}

func newSearchState(start Position) *searchState {
	s := &searchState{
		open:     make(frontier, 0),
		gScore:   map[Position]int{start: 0},
		cameFrom: make(map[Position]Position),
	}
	heap.Init(&s.open)
	s.push(start, 0)
	return s
}

func (s *searchState) push(pos Position, priority float64) {
	heap.Push(&s.open, frontierItem{pos: pos, priority: priority, seq: s.seq})
	s.seq++
}

// Search runs the density-aware A* from start to goal.
//
// The start enters the frontier with priority 0; every other position with
// g + Estimate. There is no closed set: a position already expanded is
// pushed again whenever a cheaper route to it turns up, and stale duplicate
// entries are simply expanded again when popped.
//
// The only error is ctx's, checked before every pop.
func (g *Grid) Search(ctx context.Context, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		res  Result
		s    = newSearchState(g.start)
		pops int
	)

	for s.open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		item := heap.Pop(&s.open).(frontierItem)
		current := item.pos
		pops++

		if o.trace != nil {
			o.trace(Step{
				Index:    pops,
				Current:  current,
				Cost:     s.gScore[current],
				Priority: item.priority,
				Frontier: s.open.Len(),
			})
		}

		if current == g.goal {
			res.Path = Reconstruct(s.cameFrom, current)
			res.Found = true
			return res, nil
		}

		res.Expanded++
		for _, n := range g.Neighbors(current) {
			if !g.IsValid(n) {
				continue
			}
			tentative := s.gScore[current] + 1
			if prev, seen := s.gScore[n]; seen && tentative >= prev {
				continue
			}
			s.gScore[n] = tentative
			s.push(n, float64(tentative)+g.Estimate(n))
			s.cameFrom[n] = current
			res.Generated++
		}
	}

	return res, nil
}
