package simulator

import (
	"testing"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
)

func TestReroute_BlockageForcesReroute(t *testing.T) {
	sim := newTestSimulator(t)

	a, err := sim.Spawn(agent.TypeCar, "A", "C")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if len(a.Path) != 3 || a.Path[1] != "B" && a.Path[1] != "D" {
		t.Fatalf("unexpected initial path: %v", a.Path)
	}

	if _, err := sim.Tick(0.05); err != nil {
		t.Fatalf("first tick: %v", err)
	}

	// Block whichever edge the agent is actually about to use.
	got, _ := sim.Agent(a.ID)
	if err := sim.Block(got.Current, got.Next, "construction"); err != nil {
		t.Fatalf("block: %v", err)
	}

	if _, err := sim.Tick(0.05); err != nil {
		t.Fatalf("second tick: %v", err)
	}

	after, _ := sim.Agent(a.ID)
	if after.RerouteCount < 1 {
		t.Fatalf("expected reroute counter to increment, got %d", after.RerouteCount)
	}
	blockedEdge := agent.EdgeKey{From: got.Current, To: got.Next}
	for _, key := range after.Upcoming(rerouteLookahead) {
		if key == blockedEdge {
			t.Fatalf("new path still uses the blocked edge %s", blockedEdge)
		}
	}
}

func TestReroute_NoAlternativeLeavesAgentStuck(t *testing.T) {
	sim := newTestSimulator(t)

	a, err := sim.Spawn(agent.TypeCar, "A", "B")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	// Block both edges leading away from A so no detour exists.
	if err := sim.Block("A", "B", "x"); err != nil {
		t.Fatalf("block A->B: %v", err)
	}
	if err := sim.Block("A", "D", "x"); err != nil {
		t.Fatalf("block A->D: %v", err)
	}

	if _, err := sim.Tick(0.05); err != nil {
		t.Fatalf("tick: %v", err)
	}

	got, _ := sim.Agent(a.ID)
	if got.Status != agent.StatusStuck {
		t.Fatalf("expected agent stuck with no alternative route, got %v", got.Status)
	}
	if got.Current != "A" {
		t.Fatalf("expected agent to remain at its current position, got %v", got.Current)
	}
}
