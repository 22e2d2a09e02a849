package simulator

import (
	"testing"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/config"
)

// newTestSimulator builds a Simulator loaded with the builtin square map
// (60-unit edges).
func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	sim := New(config.Default(), 42)
	if err := sim.LoadMap("square"); err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	return sim
}
