package stalker

import "github.com/gammazero/deque"

// Reconstruct follows cameFrom back from current until it reaches a
// position without a predecessor, and returns the chain in forward order.
// A chain that loops is cut once every recorded predecessor has been used.
func Reconstruct(cameFrom map[Position]Position, current Position) Path {
	var chain deque.Deque[Position]
	chain.PushFront(current)
	for chain.Len() <= len(cameFrom) {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		chain.PushFront(prev)
		current = prev
	}

	path := make(Path, chain.Len())
	for i := range path {
		path[i] = chain.At(i)
	}
	return path
}
