package agent

import (
	"sort"
	"strconv"
)

// Index provides fast lookup of agents by id, by active set, and by the
// edge they currently occupy.
//
// Index is not safe for concurrent use; the simulator core serializes
// access under its own lock.
type Index struct {
	byID     map[string]*Agent
	byEdge   map[EdgeKey]map[string]*Agent // edge -> agent ID -> agent
	nextSeq  map[Type]int                  // per-type counter for "{type}_{n}" IDs
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		byID:    make(map[string]*Agent),
		byEdge:  make(map[EdgeKey]map[string]*Agent),
		nextSeq: make(map[Type]int),
	}
}

// NextID returns the next unique ID for the given type, of the form
// "{type}_{n}", and reserves it.
func (ix *Index) NextID(t Type) string {
	ix.nextSeq[t]++
	return string(t) + "_" + strconv.Itoa(ix.nextSeq[t])
}

// Add inserts a into the index, placing it in the edge-occupancy map if it
// currently occupies an edge.
func (ix *Index) Add(a *Agent) {
	ix.byID[a.ID] = a
	ix.reindexEdge(a)
}

// Get returns the agent with the given id, and whether it was found.
func (ix *Index) Get(id string) (*Agent, bool) {
	a, ok := ix.byID[id]
	return a, ok
}

// Remove deletes the agent with the given id from every index.
func (ix *Index) Remove(id string) bool {
	a, ok := ix.byID[id]
	if !ok {
		return false
	}
	if key, onEdge := a.CurrentEdge(); onEdge {
		ix.removeFromEdge(key, id)
	}
	delete(ix.byID, id)
	return true
}

// All returns every agent in the index, sorted by ID for deterministic
// iteration order.
func (ix *Index) All() []*Agent {
	out := make([]*Agent, 0, len(ix.byID))
	for _, a := range ix.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Active returns every non-arrived agent, sorted by ID.
func (ix *Index) Active() []*Agent {
	out := make([]*Agent, 0, len(ix.byID))
	for _, a := range ix.byID {
		if a.Active() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OnEdge returns the agents currently occupying the given edge, sorted by
// ID for deterministic car-following scans.
func (ix *Index) OnEdge(key EdgeKey) []*Agent {
	m := ix.byEdge[key]
	out := make([]*Agent, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Rebuild clears and recomputes the edge-occupancy index from the current
// set of agents. Called once per tick rather than maintained incrementally.
func (ix *Index) Rebuild() {
	ix.byEdge = make(map[EdgeKey]map[string]*Agent)
	for _, a := range ix.byID {
		ix.reindexEdge(a)
	}
}

func (ix *Index) reindexEdge(a *Agent) {
	key, onEdge := a.CurrentEdge()
	if !onEdge {
		return
	}
	m, ok := ix.byEdge[key]
	if !ok {
		m = make(map[string]*Agent)
		ix.byEdge[key] = m
	}
	m[a.ID] = a
}

func (ix *Index) removeFromEdge(key EdgeKey, id string) {
	m, ok := ix.byEdge[key]
	if !ok {
		return
	}
	delete(m, id)
	if len(m) == 0 {
		delete(ix.byEdge, key)
	}
}

// Len returns the total number of agents tracked, regardless of status.
func (ix *Index) Len() int { return len(ix.byID) }
