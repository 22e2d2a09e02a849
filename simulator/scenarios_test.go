package simulator

import (
	"testing"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/config"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/incident"
)

// Scenario 1: trivial path on a 4-node square with 60-unit edges.
func TestScenario_TrivialPath(t *testing.T) {
	sim := newTestSimulator(t)

	a, err := sim.Spawn(agent.TypeCar, "A", "C")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(a.Path) != 3 {
		t.Fatalf("expected a 2-edge path, got %v", a.Path)
	}

	result, err := sim.Plan("A", "C", agent.ModeCar)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if result.Cost != 120 {
		t.Fatalf("expected cost 120 (2 x 60-unit edges at default multiplier 1.0), got %v", result.Cost)
	}

	// Drive with dt = 0.05 until the agent arrives. Acceleration is only
	// 0.2 units/s^2, so position grows roughly as 0.1*t^2 while still
	// ramping toward nominal speed; covering both 60-unit edges (120
	// units total) takes on the order of 35 simulated seconds.
	maxTicks := 1000
	for i := 0; i < maxTicks; i++ {
		if _, err := sim.Tick(0.05); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		got, _ := sim.Agent(a.ID)
		if got.Status == agent.StatusArrived {
			return
		}
	}
	t.Fatalf("agent did not arrive within %d ticks", maxTicks)
}

// Scenario 2: mode filter — a car-only one-way shortcut changes the plan
// for car but not for pedestrian.
func TestScenario_ModeFilter(t *testing.T) {
	sim := New(config.Default(), 7)
	if err := sim.LoadMap("square_shortcut"); err != nil {
		t.Fatalf("load map: %v", err)
	}

	carPlan, err := sim.Plan("A", "B", agent.ModeCar)
	if err != nil {
		t.Fatalf("car plan: %v", err)
	}
	if len(carPlan.Path) != 2 {
		t.Fatalf("expected car to take the direct edge, got %v", carPlan.Path)
	}

	pedPlan, err := sim.Plan("A", "B", agent.ModePedestrian)
	if err != nil {
		t.Fatalf("pedestrian plan: %v", err)
	}
	if len(pedPlan.Path) == 2 {
		t.Fatalf("expected pedestrian to detour around the car-only shortcut, got %v", pedPlan.Path)
	}
}

// Scenario 3 is covered by TestReroute_BlockageForcesReroute in
// reroute_test.go.

// Scenario 4: accident expiry.
func TestScenario_AccidentExpiry(t *testing.T) {
	sim := newTestSimulator(t)
	edge := agent.EdgeKey{From: "A", To: "B"}

	before := sim.Multiplier(edge)
	acc, err := sim.CreateAccident("A", "B", incident.SeverityMinor)
	if err != nil {
		t.Fatalf("create accident: %v", err)
	}
	after := sim.Multiplier(edge)
	if after < 2*before-1e-9 {
		t.Fatalf("expected accident multiplier at least 2x the prior sample, before=%v after=%v", before, after)
	}

	for i := 0; i < 700; i++ { // 700 x 0.1s = 70s > the minor accident's 60s max duration
		if _, err := sim.Tick(0.1); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		stillActive := false
		for _, a := range sim.Accidents() {
			if a.ID == acc.ID {
				stillActive = true
			}
		}
		if !stillActive {
			return
		}
	}
	t.Fatalf("accident did not expire within 70s of simulated time")
}

// Scenario 6: spawn distribution within tolerance is covered by
// TestSpawnMany_DistributionWithinTolerance in commands_test.go.

func TestScenario_SpawnDistributionFixedSeedIsReproducible(t *testing.T) {
	simA := newTestSimulator(t)
	simB := newTestSimulator(t)

	nA, errA := simA.SpawnMany(500, 0.6, 0.25, 0.15)
	nB, errB := simB.SpawnMany(500, 0.6, 0.25, 0.15)
	if errA != nil || errB != nil {
		t.Fatalf("spawn_many errors: %v, %v", errA, errB)
	}
	if nA != nB {
		t.Fatalf("expected identical spawn counts under the same seed, got %d vs %d", nA, nB)
	}

	countsA := typeCounts(simA.Agents())
	countsB := typeCounts(simB.Agents())
	for _, ty := range []agent.Type{agent.TypeCar, agent.TypeBicycle, agent.TypePedestrian} {
		if countsA[ty] != countsB[ty] {
			t.Fatalf("type %s counts diverged under the same seed: %d vs %d", ty, countsA[ty], countsB[ty])
		}
	}
}

func typeCounts(agents []agent.Agent) map[agent.Type]int {
	out := make(map[agent.Type]int)
	for _, a := range agents {
		out[a.Type]++
	}
	return out
}
