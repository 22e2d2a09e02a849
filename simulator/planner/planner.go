// Package planner implements the best-first (A*) shortest-path search over
// the road graph under a dynamic per-edge cost multiplier and a blocked-edge
// set.
//
// The open-set priority queue is a container/heap min-heap ordered by
// (fScore, insertionSeq), with insertionSeq acting as a stable tie-break
// so two equal-cost paths are never ordered arbitrarily between runs.
package planner

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
)

// Sentinel errors for planner failures.
var (
	ErrInvalidEndpoint = errors.New("planner: invalid endpoint")
	ErrNoPath          = errors.New("planner: no path")
)

// CostView is the read-only view of the network the planner needs: graph
// topology plus the live multiplier field and blocked-edge set. Keeping
// this as an interface (rather than importing congestion/incident
// directly) avoids a planner -> congestion -> ... import cycle and lets
// tests supply a trivial in-memory CostView.
type CostView interface {
	// Neighbours returns the outgoing edges from a node.
	Neighbours(node string) ([]Edge, error)
	// HasNode reports whether node exists in the graph.
	HasNode(node string) bool
	// Coord returns a node's coordinates, for the admissible heuristic.
	Coord(node string) (x, y float64, err error)
	// Multiplier returns the current cost multiplier for an edge.
	Multiplier(key agent.EdgeKey) float64
	// Blocked reports whether an edge is in the blocked set.
	Blocked(key agent.EdgeKey) bool
}

// Edge is the minimal edge shape the planner needs from the graph package,
// duplicated here (rather than imported) to keep planner's only dependency
// on the domain the small, stable agent package.
type Edge struct {
	From, To string
	Distance float64
	Modes    agent.ModeSet
}

// Result is the outcome of a successful Plan call.
type Result struct {
	Path []string
	Cost float64
}

// Plan computes the lowest-cost path from start to goal for the given mode,
// under view's current multiplier field and blocked-edge set.
//
// Complexity: O(E log V) where E is the number of edge relaxations.
func Plan(view CostView, start, goal string, mode agent.Mode) (Result, error) {
	if !view.HasNode(start) {
		return Result{}, fmt.Errorf("%w: start %q", ErrInvalidEndpoint, start)
	}
	if !view.HasNode(goal) {
		return Result{}, fmt.Errorf("%w: goal %q", ErrInvalidEndpoint, goal)
	}
	if start == goal {
		return Result{Path: []string{start}, Cost: 0}, nil
	}

	gx, gy, err := view.Coord(goal)
	if err != nil {
		return Result{}, fmt.Errorf("%w: goal %q: %v", ErrInvalidEndpoint, goal, err)
	}

	heuristic := func(node string) float64 {
		x, y, err := view.Coord(node)
		if err != nil {
			return 0
		}
		dx, dy := x-gx, y-gy
		return math.Sqrt(dx*dx + dy*dy)
	}

	open := &frontier{}
	heap.Init(open)

	gScore := map[string]float64{start: 0}
	cameFrom := map[string]string{}
	closed := map[string]bool{}
	var seq int

	push := func(node string, g float64) {
		seq++
		heap.Push(open, &frontierItem{node: node, fScore: g + heuristic(node), seq: seq})
	}
	push(start, 0)

	for open.Len() > 0 {
		item := heap.Pop(open).(*frontierItem)
		u := item.node

		if closed[u] {
			continue
		}
		closed[u] = true

		if u == goal {
			return Result{Path: reconstruct(cameFrom, start, goal), Cost: gScore[goal]}, nil
		}

		neighbours, err := view.Neighbours(u)
		if err != nil {
			continue
		}
		for _, e := range neighbours {
			if !e.Modes.Allows(mode) {
				continue
			}
			key := agent.EdgeKey{From: e.From, To: e.To}
			if view.Blocked(key) {
				continue
			}
			cost := e.Distance * view.Multiplier(key)
			candidate := gScore[u] + cost
			if existing, ok := gScore[e.To]; ok && candidate >= existing {
				continue
			}
			gScore[e.To] = candidate
			cameFrom[e.To] = u
			push(e.To, candidate)
		}
	}

	return Result{}, fmt.Errorf("%w: %s -> %s", ErrNoPath, start, goal)
}

func reconstruct(cameFrom map[string]string, start, goal string) []string {
	path := []string{goal}
	cur := goal
	for cur != start {
		prev := cameFrom[cur]
		path = append(path, prev)
		cur = prev
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// frontierItem is one entry in the open-set priority queue.
type frontierItem struct {
	node   string
	fScore float64
	seq    int // insertion order, for FIFO tie-break among equal fScores
}

// frontier is a min-heap over frontierItem ordered by (fScore, seq),
// mirroring sim/cluster/event_heap.go's (timestamp, priority, id) ordering.
type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].fScore != f[j].fScore {
		return f[i].fScore < f[j].fScore
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) {
	*f = append(*f, x.(*frontierItem))
}

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
