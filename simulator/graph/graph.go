// Package graph defines the road network model: nodes with 2-D coordinates
// and directed, weighted edges with a mode bitmask and one-way flag.
//
// Graph is immutable for the lifetime of a loaded map — mutation happens
// only by constructing a new Graph (see LoadMap-style callers in the
// mapdata package), never by adding nodes/edges to a Graph already in use
// by a running simulator.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
)

// Sentinel errors for graph operations, in the style of lvlath/core's
// package-level sentinel errors.
var (
	ErrUnknownNode   = errors.New("graph: unknown node")
	ErrZeroLength    = errors.New("graph: edge distance must be strictly positive")
	ErrDuplicateNode = errors.New("graph: duplicate node id")
	ErrDuplicateEdge = errors.New("graph: duplicate edge")
)

// Node is a point in the abstract coordinate plane.
type Node struct {
	ID string
	X  float64
	Y  float64
}

// Edge is a directed, weighted connection between two nodes.
type Edge struct {
	From     string
	To       string
	Distance float64
	Modes    agent.ModeSet
	OneWay   bool
}

// Key returns the edge's (from, to) identity.
func (e Edge) Key() agent.EdgeKey { return agent.EdgeKey{From: e.From, To: e.To} }

// Allows reports whether m may traverse this edge.
func (e Edge) Allows(m agent.Mode) bool { return e.Modes.Allows(m) }

// Graph is an immutable (post-construction) directed weighted graph.
//
// A single mutex guards construction so LoadMap callers can build a Graph
// concurrently-safely, though in practice the simulator builds a Graph
// single-threaded at map-load time and never mutates it afterward.
type Graph struct {
	mu sync.Mutex

	nodes map[string]Node
	// adjacency[from][to] = Edge
	adjacency map[string]map[string]Edge
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]Node),
		adjacency: make(map[string]map[string]Edge),
	}
}

// AddNode inserts a node. Returns ErrDuplicateNode if the ID is already
// present.
func (g *Graph) AddNode(n Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	g.nodes[n.ID] = n
	g.adjacency[n.ID] = make(map[string]Edge)
	return nil
}

// AddEdge inserts exactly the directed edge given — callers wanting a
// non-one-way edge to imply both directions must call AddEdge twice. This
// keeps AddEdge's contract simple and puts map-format policy at the one
// call site that knows about it (mapdata).
func (g *Graph) AddEdge(e Edge) error {
	if e.Distance <= 0 {
		return fmt.Errorf("%w: %s->%s distance=%v", ErrZeroLength, e.From, e.To, e.Distance)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, e.To)
	}
	if _, exists := g.adjacency[e.From][e.To]; exists {
		return fmt.Errorf("%w: %s->%s", ErrDuplicateEdge, e.From, e.To)
	}

	g.adjacency[e.From][e.To] = e
	return nil
}

// Coord returns a node's coordinates.
func (g *Graph) Coord(id string) (x, y float64, err error) {
	n, ok := g.nodes[id]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n.X, n.Y, nil
}

// HasNode reports whether id names a node in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Edge returns the edge from -> to, if one exists.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	m, ok := g.adjacency[from]
	if !ok {
		return Edge{}, false
	}
	e, ok := m[to]
	return e, ok
}

// Neighbours returns the outgoing edges from a node, sorted by destination
// ID for deterministic iteration order.
func (g *Graph) Neighbours(from string) ([]Edge, error) {
	m, ok := g.adjacency[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	out := make([]Edge, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out, nil
}

// Nodes returns every node ID, sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Node returns the node record for id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edges returns every edge in the graph, sorted by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0)
	for _, m := range g.adjacency {
		for _, e := range m {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// OutDegree returns the number of outgoing edges from id.
func (g *Graph) OutDegree(id string) int {
	return len(g.adjacency[id])
}
