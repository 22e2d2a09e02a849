package simulator

import (
	"testing"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/config"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/congestion"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/incident"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/mapdata"
)

// longEdgeSimulator builds a simulator over a 4-node square with
// 200-unit edges, leaving enough room for a >60-unit car-following gap
// that a 60-unit edge cannot express.
func longEdgeSimulator(t *testing.T) *Simulator {
	t.Helper()
	doc := mapdata.Square("longsquare", 200)
	g, err := mapdata.Build(doc)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}

	s := New(config.Default(), 42)
	s.mapID = doc.ID
	s.g = g
	s.agents = agent.NewIndex()
	s.incidents = incident.NewTable()
	lengths := mapdata.EdgeLengths(g)
	s.congestionA = congestion.New(lengths)
	s.multipliers = make(map[agent.EdgeKey]float64, len(lengths))
	for key := range lengths {
		s.multipliers[key] = s.cfg.DefaultMultiplier
	}
	s.hotspots = make(map[agent.EdgeKey]bool)
	return s
}

func TestTick_SingleNodePathArrivesImmediately(t *testing.T) {
	sim := newTestSimulator(t)
	a, err := sim.Spawn(agent.TypeCar, "A", "A")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	if _, err := sim.Tick(0.05); err != nil {
		t.Fatalf("tick: %v", err)
	}

	got, err := sim.Agent(a.ID)
	if err != nil {
		t.Fatalf("agent: %v", err)
	}
	if got.Status != agent.StatusArrived {
		t.Fatalf("expected arrived status, got %v", got.Status)
	}
}

func TestTick_DtClampedRegardlessOfWallClockGap(t *testing.T) {
	sim := newTestSimulator(t)
	summary, err := sim.Tick(1000)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	info, _ := sim.SimulationInfo()
	if info.SimulatedTime > sim.cfg.DtClamp+1e-9 {
		t.Fatalf("expected simulated time advance capped at dt clamp, got %v", info.SimulatedTime)
	}
	_ = summary
}

func TestCarFollowing_FollowerStopsWithinFullDistance(t *testing.T) {
	sim := newTestSimulator(t)

	leader, err := sim.Spawn(agent.TypeCar, "A", "C")
	if err != nil {
		t.Fatalf("spawn leader: %v", err)
	}
	follower, err := sim.Spawn(agent.TypeCar, "A", "C")
	if err != nil {
		t.Fatalf("spawn follower: %v", err)
	}

	leaderAgent, _ := sim.agents.Get(leader.ID)
	followerAgent, _ := sim.agents.Get(follower.ID)
	leaderAgent.Current, leaderAgent.Next = "A", "B"
	leaderAgent.PositionOnEdge = 0.5 // 30 units along a 60-unit edge
	followerAgent.Current, followerAgent.Next = "A", "B"
	followerAgent.PositionOnEdge = 0.4 // 24 units along; gap = 6 units < 30
	sim.agents.Rebuild()

	if _, err := sim.Tick(0.05); err != nil {
		t.Fatalf("tick: %v", err)
	}

	got, _ := sim.Agent(follower.ID)
	if got.Status != agent.StatusStuck {
		t.Fatalf("expected follower stuck, got %v", got.Status)
	}
}

func TestCarFollowing_ClearAheadReturnsToMoving(t *testing.T) {
	// A 200-unit edge leaves room for a >60-unit gap, unlike the 60-unit
	// builtin square used by the other car-following tests.
	sim := longEdgeSimulator(t)

	leader, _ := sim.Spawn(agent.TypeCar, "A", "C")
	follower, _ := sim.Spawn(agent.TypeCar, "A", "C")

	leaderAgent, _ := sim.agents.Get(leader.ID)
	followerAgent, _ := sim.agents.Get(follower.ID)
	leaderAgent.Current, leaderAgent.Next = "A", "B"
	leaderAgent.PositionOnEdge = 0.95 // 190 units along a 200-unit edge
	followerAgent.Current, followerAgent.Next = "A", "B"
	followerAgent.PositionOnEdge = 0.01
	sim.agents.Rebuild()

	if _, err := sim.Tick(0.05); err != nil {
		t.Fatalf("tick: %v", err)
	}

	got, _ := sim.Agent(follower.ID)
	if got.Status == agent.StatusStuck {
		t.Fatalf("expected follower not stuck with a clear gap, status=%v", got.Status)
	}
}
