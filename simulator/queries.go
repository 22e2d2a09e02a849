package simulator

import (
	"fmt"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/graph"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/incident"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/mapdata"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/planner"
)

// Nodes returns every node id in the currently loaded map, sorted.
func (s *Simulator) Nodes() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.g == nil {
		return nil, ErrNoMapLoaded
	}
	return s.g.Nodes(), nil
}

// MapData is a read-only projection of the currently loaded map.
type MapData struct {
	ID    string
	Nodes []graph.Node
	Edges []graph.Edge
}

// MapData returns the full node/edge set of the currently loaded map.
func (s *Simulator) MapData() (MapData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.g == nil {
		return MapData{}, ErrNoMapLoaded
	}
	nodes := make([]graph.Node, 0, len(s.g.Nodes()))
	for _, id := range s.g.Nodes() {
		n, _ := s.g.Node(id)
		nodes = append(nodes, n)
	}
	return MapData{ID: s.mapID, Nodes: nodes, Edges: s.g.Edges()}, nil
}

// Maps lists the builtin map ids. LoadMap also accepts a path to a map file
// on disk; such files are not listed here.
func (s *Simulator) Maps() []string {
	return mapdata.BuiltinMaps()
}

// Plan computes a path under the current multiplier field without
// mutating any state.
func (s *Simulator) Plan(start, goal string, mode agent.Mode) (planner.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.g == nil {
		return planner.Result{}, ErrNoMapLoaded
	}
	return planner.Plan(s, start, goal, mode)
}

// Agent returns a single agent's current state.
func (s *Simulator) Agent(id string) (agent.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents.Get(id)
	if !ok {
		return agent.Agent{}, fmt.Errorf("%w: %s", ErrUnknownAgent, id)
	}
	return *a, nil
}

// Agents returns every agent's current state, sorted by id.
func (s *Simulator) Agents() []agent.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.agents.All()
	out := make([]agent.Agent, len(all))
	for i, a := range all {
		out[i] = *a
	}
	return out
}

// VehicleStatistics summarizes per-type counts and average completed
// travel time, part of State().
type VehicleStatistics struct {
	ActiveByType  map[agent.Type]int
	ArrivedByType map[agent.Type]int
	AverageCompletedTravelTime float64
}

// State is the full read-only snapshot the query boundary exposes: step,
// active flag, agents, vehicle statistics, traffic statistics, edge
// traffic, multipliers, and total spawned count.
type State struct {
	Step          int
	Active        bool
	Agents        []agent.Agent
	Vehicles      VehicleStatistics
	Traffic       TrafficStatistics
	EdgeTraffic   map[agent.EdgeKey]EdgeTrafficEntry
	Multipliers   map[agent.EdgeKey]float64
	TotalSpawned  int
}

// State returns the full read-only snapshot.
func (s *Simulator) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.g == nil {
		return State{}, ErrNoMapLoaded
	}

	all := s.agents.All()
	agents := make([]agent.Agent, len(all))
	for i, a := range all {
		agents[i] = *a
	}

	return State{
		Step:         s.step,
		Active:       len(s.agents.Active()) > 0,
		Agents:       agents,
		Vehicles:     s.vehicleStatisticsLocked(),
		Traffic:      s.trafficStatisticsLocked(),
		EdgeTraffic:  s.edgeTrafficLocked(),
		Multipliers:  s.snapshotMultipliers(),
		TotalSpawned: s.totalSpawned,
	}, nil
}

// Accidents returns a snapshot of every active accident, sorted by id. Each
// entry is a value copy so a caller cannot observe a later tick's mutation.
func (s *Simulator) Accidents() []incident.Accident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotAccidentsLocked()
}

// Blocked returns every blocked edge, sorted.
func (s *Simulator) Blocked() []incident.Blockage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incidents.Blocked()
}
