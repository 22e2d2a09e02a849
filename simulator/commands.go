package simulator

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/congestion"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/graph"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/incident"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/mapdata"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/planner"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/simrng"
)

// LoadMap switches to a known map, resetting all per-instance state. This
// is a destructive operation: every agent, accident, and blockage is lost.
func (s *Simulator) LoadMap(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		g   *graph.Graph
		err error
	)
	isBuiltin := false
	for _, candidate := range mapdata.BuiltinMaps() {
		if candidate == id {
			isBuiltin = true
			break
		}
	}
	if isBuiltin {
		_, g, err = mapdata.LoadBuiltin(id)
	} else {
		_, g, err = mapdata.Load(id)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnknownMap, id, err)
	}

	s.mapID = id
	s.g = g
	s.agents = agent.NewIndex()
	s.incidents = incident.NewTable()
	s.step = 0
	s.simulatedTime = 0
	s.totalSpawned = 0

	lengths := mapdata.EdgeLengths(g)
	s.congestionA = congestion.New(lengths)

	s.hotspots = make(map[agent.EdgeKey]bool)
	for _, key := range mapdata.HotspotEdges(g, mapdata.Hotspots(g)) {
		s.hotspots[key] = true
	}

	s.multipliers = make(map[agent.EdgeKey]float64, len(lengths))
	for key := range lengths {
		s.multipliers[key] = s.cfg.DefaultMultiplier
	}

	logrus.Infof("[simulator] loaded map %q: %d nodes, %d edges, %d hotspot edges", id, len(g.Nodes()), len(lengths), len(s.hotspots))
	return nil
}

// Reset drops all agents, accidents, and blockages; resets the step
// counter; and re-samples multipliers to the free-flow band.
func (s *Simulator) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g == nil {
		return ErrNoMapLoaded
	}

	s.agents = agent.NewIndex()
	s.incidents = incident.NewTable()
	s.step = 0
	s.simulatedTime = 0
	s.totalSpawned = 0

	congestionRNG := s.rng.ForSubsystem(simrng.SubsystemCongestion)
	for key := range s.multipliers {
		s.multipliers[key] = s.congestionA.Sample(key, 0, congestionRNG)
	}
	return nil
}

// Spawn creates a new agent of the given type, picking random start/goal
// nodes when omitted, and plans its initial path. If planning fails the
// agent is not added.
func (s *Simulator) Spawn(t agent.Type, start, goal string) (*agent.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnLocked(t, start, goal)
}

func (s *Simulator) spawnLocked(t agent.Type, start, goal string) (*agent.Agent, error) {
	if s.g == nil {
		return nil, ErrNoMapLoaded
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, t)
	}

	spawnRNG := s.rng.ForSubsystem(simrng.SubsystemSpawn)

	if start == "" {
		node, ok := s.randomNode(spawnRNG)
		if !ok {
			return nil, fmt.Errorf("simulator: no nodes in map %q", s.mapID)
		}
		start = node
	}
	if goal == "" {
		node, ok := s.randomNode(spawnRNG)
		if !ok {
			return nil, fmt.Errorf("simulator: no nodes in map %q", s.mapID)
		}
		goal = node
	}

	result, err := planner.Plan(s, start, goal, t.Mode())
	if err != nil {
		return nil, err
	}

	profile, err := s.cfg.Profile(t)
	if err != nil {
		return nil, err
	}
	kinematicsRNG := s.rng.ForSubsystem(simrng.SubsystemKinematics)
	nominal := congestion.SampleNominalSpeed(profile.NominalSpeedMean, profile.NominalSpeedStdDev, profile.NominalSpeedMin, profile.NominalSpeedMax, kinematicsRNG)

	a := &agent.Agent{
		ID:           s.agents.NextID(t),
		Type:         t,
		Origin:       start,
		Destination:  goal,
		Status:       agent.StatusWaiting,
		NominalSpeed: nominal,
		Acceleration: s.cfg.Acceleration,
	}
	a.ReplacePath(result.Path)

	s.agents.Add(a)
	s.totalSpawned++
	return a, nil
}

// SpawnMany spawns count agents sampled from the given type distribution
// (car, bicycle, pedestrian probabilities summing to ~1), returning the
// number successfully spawned.
func (s *Simulator) SpawnMany(count int, carP, bicycleP, pedestrianP float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g == nil {
		return 0, ErrNoMapLoaded
	}
	if carP < 0 || bicycleP < 0 || pedestrianP < 0 {
		return 0, ErrBadDistribution
	}
	const epsilon = 1e-6
	sum := carP + bicycleP + pedestrianP
	if sum < 1-epsilon || sum > 1+epsilon {
		return 0, ErrBadDistribution
	}

	spawnRNG := s.rng.ForSubsystem(simrng.SubsystemSpawn)
	succeeded := 0
	for i := 0; i < count; i++ {
		t := sampleType(spawnRNG, carP, bicycleP)
		if _, err := s.spawnLocked(t, "", ""); err == nil {
			succeeded++
		}
	}
	return succeeded, nil
}

func sampleType(rng *rand.Rand, carP, bicycleP float64) agent.Type {
	r := rng.Float64()
	switch {
	case r < carP:
		return agent.TypeCar
	case r < carP+bicycleP:
		return agent.TypeBicycle
	default:
		return agent.TypePedestrian
	}
}

// RemoveAgent deletes an agent by id. Fails fast on an unknown id.
func (s *Simulator) RemoveAgent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.agents.Remove(id) {
		return fmt.Errorf("%w: %s", ErrUnknownAgent, id)
	}
	return nil
}

// CreateAccident installs an accident. If from or to is "", a random edge
// is chosen; if severity is "", one is sampled uniformly.
func (s *Simulator) CreateAccident(from, to string, severity incident.Severity) (*incident.Accident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g == nil {
		return nil, ErrNoMapLoaded
	}

	incidentRNG := s.rng.ForSubsystem(simrng.SubsystemIncident)

	edge := agent.EdgeKey{From: from, To: to}
	if from == "" || to == "" {
		random, ok := s.randomEdge(incidentRNG)
		if !ok {
			return nil, fmt.Errorf("simulator: no edges in map %q", s.mapID)
		}
		edge = random
	} else if !s.g.HasNode(from) || !s.g.HasNode(to) {
		return nil, fmt.Errorf("%w: %s->%s", graph.ErrUnknownNode, from, to)
	}

	if severity == "" {
		severities := []incident.Severity{incident.SeverityMinor, incident.SeverityModerate, incident.SeveritySevere}
		severity = severities[incidentRNG.Intn(len(severities))]
	} else if !severity.IsValid() {
		return nil, fmt.Errorf("simulator: unknown severity %q", severity)
	}

	return s.createAccidentLocked(edge, severity, incidentRNG)
}

// createAccidentLocked assumes s.mu is already held. Called both by the
// CreateAccident command and by maybeInjectRandomAccident during Tick.
func (s *Simulator) createAccidentLocked(edge agent.EdgeKey, severity incident.Severity, rng *rand.Rand) (*incident.Accident, error) {
	min, max := severity.DurationRange()
	duration := min + rng.Float64()*(max-min)

	prior := s.multipliers[edge]
	acc, err := s.incidents.Create(edge, severity, s.simulatedTime, duration, prior)
	if err != nil {
		return nil, err
	}

	s.multipliers[edge] = prior * acc.Boost
	return acc, nil
}

// ResolveAccident removes an accident immediately, restoring its edge to
// the multiplier it held immediately before the accident's boost.
func (s *Simulator) ResolveAccident(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.findAccident(id)
	if !ok {
		return fmt.Errorf("%w: %s", incident.ErrUnknownAccident, id)
	}
	if err := s.incidents.Resolve(id); err != nil {
		return err
	}

	s.multipliers[acc.Edge] = acc.PriorMultiplier
	return nil
}

func (s *Simulator) findAccident(id string) (*incident.Accident, bool) {
	for _, acc := range s.incidents.Accidents() {
		if acc.ID == id {
			return acc, true
		}
	}
	return nil, false
}

// Block sets an edge's sentinel multiplier and inserts it into the blocked
// set. Reroute candidacy is picked up by the next tick's reroute decider.
func (s *Simulator) Block(from, to, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g == nil {
		return ErrNoMapLoaded
	}
	if !s.g.HasNode(from) || !s.g.HasNode(to) {
		return fmt.Errorf("%w: %s->%s", graph.ErrUnknownNode, from, to)
	}

	key := agent.EdgeKey{From: from, To: to}
	s.incidents.Block(key, reason, s.simulatedTime)
	s.multipliers[key] = congestion.BlockedSentinel
	return nil
}

// Unblock removes an edge from the blocked set. A no-op if it was not
// blocked.
func (s *Simulator) Unblock(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := agent.EdgeKey{From: from, To: to}
	s.incidents.Unblock(key)
	if s.congestionA != nil {
		density := s.congestionA.Density(key, s.edgeUsage(key))
		congestionRNG := s.rng.ForSubsystem(simrng.SubsystemCongestion)
		s.multipliers[key] = s.congestionA.Sample(key, density, congestionRNG)
	}
	return nil
}
