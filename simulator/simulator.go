// Package simulator is the per-tick orchestrator that owns the road
// graph, the agent population, the congestion field, and the
// incident/blockage state.
package simulator

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/config"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/congestion"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/graph"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/incident"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/planner"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/simrng"
)

// Sentinel errors for command/query validation.
var (
	ErrUnknownMap      = errors.New("simulator: unknown map")
	ErrUnknownAgent    = errors.New("simulator: unknown agent")
	ErrUnknownMode     = errors.New("simulator: unknown mode")
	ErrNoMapLoaded     = errors.New("simulator: no map loaded")
	ErrBadDistribution = errors.New("simulator: spawn distribution must be non-negative and sum to 1 +/- epsilon")
)

// rerouteLookahead is the number of upcoming edges the reroute decider
// inspects.
const rerouteLookahead = 3

// Simulator is the exclusive owner of all mutable simulation state. A
// single mutex serializes every command and tick.
type Simulator struct {
	mu sync.Mutex

	cfg *config.Config
	rng *simrng.PartitionedRNG

	mapID string
	g     *graph.Graph

	agents      *agent.Index
	congestionA *congestion.Analyser
	incidents   *incident.Table

	multipliers map[agent.EdgeKey]float64
	hotspots    map[agent.EdgeKey]bool

	step          int
	simulatedTime float64
	totalSpawned  int
}

// New constructs a Simulator with no map loaded. Call LoadMap before
// spawning agents or ticking.
func New(cfg *config.Config, seed int64) *Simulator {
	return &Simulator{
		cfg:         cfg,
		rng:         simrng.New(seed),
		agents:      agent.NewIndex(),
		incidents:   incident.NewTable(),
		multipliers: make(map[agent.EdgeKey]float64),
		hotspots:    make(map[agent.EdgeKey]bool),
	}
}

// TickSummary reports the outcome of a single Tick call.
type TickSummary struct {
	Step         int
	ActiveCount  int
	MovedCount   int
	ArrivedCount int
	Accidents    []incident.Accident
	Blocked      []incident.Blockage
	Multipliers  map[agent.EdgeKey]float64
}

// assertInvariant records a contract violation via structured logging and,
// when StrictInvariants is enabled, panics instead of letting the tick loop
// continue on corrupted state.
func (s *Simulator) assertInvariant(cond bool, msg string, fields logrus.Fields) {
	if cond {
		return
	}
	logrus.WithFields(fields).Error(msg)
	if s.cfg != nil && s.cfg.StrictInvariants {
		panic(fmt.Sprintf("simulator: invariant violated: %s %v", msg, fields))
	}
}

// Tick advances the simulation by one step, following a fixed sequence:
//  1. compute and clamp dt
//  2. increment step counter
//  3. inject/expire accidents
//  4. refresh multipliers (with hotspot buildup)
//  5. car-following pass
//  6. kinematic integration pass
//  7. rebuild edge-occupancy index
//  8. reroute decider
//  9. return tick summary
func (s *Simulator) Tick(elapsedWallClock float64) (TickSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g == nil {
		return TickSummary{}, ErrNoMapLoaded
	}

	dt := clampDt(elapsedWallClock, s.cfg.DtClamp)
	s.step++
	s.simulatedTime += dt

	s.maybeInjectRandomAccident()
	expired := s.incidents.ExpirePastDue(s.simulatedTime)
	for _, acc := range expired {
		logrus.Infof("[simulator] accident %s on %s expired at t=%.2f", acc.ID, acc.Edge, s.simulatedTime)
	}

	s.refreshMultipliers()

	active := s.agents.Active()
	s.carFollowingPass(active)
	moved, arrived := s.integrationPass(active, dt)

	s.agents.Rebuild()

	s.rerouteDecider()

	return TickSummary{
		Step:         s.step,
		ActiveCount:  len(s.agents.Active()),
		MovedCount:   moved,
		ArrivedCount: arrived,
		Accidents:    s.snapshotAccidentsLocked(),
		Blocked:      s.incidents.Blocked(),
		Multipliers:  s.snapshotMultipliers(),
	}, nil
}

func clampDt(elapsed, max float64) float64 {
	if elapsed < 0 {
		return 0
	}
	if elapsed > max {
		return max
	}
	return elapsed
}

// Multiplier implements planner.CostView.
func (s *Simulator) Multiplier(key agent.EdgeKey) float64 {
	if m, ok := s.multipliers[key]; ok {
		return m
	}
	return s.cfg.DefaultMultiplier
}

// Blocked implements planner.CostView.
func (s *Simulator) Blocked(key agent.EdgeKey) bool {
	return s.incidents.IsBlocked(key)
}

// Neighbours implements planner.CostView.
func (s *Simulator) Neighbours(node string) ([]planner.Edge, error) {
	edges, err := s.g.Neighbours(node)
	if err != nil {
		return nil, err
	}
	out := make([]planner.Edge, len(edges))
	for i, e := range edges {
		out[i] = planner.Edge{From: e.From, To: e.To, Distance: e.Distance, Modes: e.Modes}
	}
	return out, nil
}

// HasNode implements planner.CostView.
func (s *Simulator) HasNode(node string) bool { return s.g.HasNode(node) }

// Coord implements planner.CostView.
func (s *Simulator) Coord(node string) (float64, float64, error) { return s.g.Coord(node) }

// snapshotMultipliers returns a defensive copy of the current multiplier
// field, for callers that must not observe subsequent mutation.
func (s *Simulator) snapshotMultipliers() map[agent.EdgeKey]float64 {
	out := make(map[agent.EdgeKey]float64, len(s.multipliers))
	for k, v := range s.multipliers {
		out[k] = v
	}
	return out
}

// snapshotAccidentsLocked returns a defensive value-copy slice of the
// current accident set, for callers that must not observe a subsequent
// resolve/tick through a retained pointer.
func (s *Simulator) snapshotAccidentsLocked() []incident.Accident {
	live := s.incidents.Accidents()
	out := make([]incident.Accident, len(live))
	for i, acc := range live {
		out[i] = *acc
	}
	return out
}

// randomEdge picks a uniformly random edge from the graph, sorted first for
// determinism under a fixed seed.
func (s *Simulator) randomEdge(rng *rand.Rand) (agent.EdgeKey, bool) {
	edges := s.g.Edges()
	if len(edges) == 0 {
		return agent.EdgeKey{}, false
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	idx := rng.Intn(len(edges))
	return edges[idx].Key(), true
}

// randomNode picks a uniformly random node id from the graph.
func (s *Simulator) randomNode(rng *rand.Rand) (string, bool) {
	nodes := s.g.Nodes()
	if len(nodes) == 0 {
		return "", false
	}
	return nodes[rng.Intn(len(nodes))], true
}
