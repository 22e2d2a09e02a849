package incident

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
)

func TestCreate_RejectsDuplicateEdge(t *testing.T) {
	tbl := NewTable()
	edge := agent.EdgeKey{From: "A", To: "B"}

	if _, err := tbl.Create(edge, SeverityMinor, 0, 45, 1.0); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := tbl.Create(edge, SeverityModerate, 1, 70, 1.0)
	if !errors.Is(err, ErrAlreadyAccidented) {
		t.Fatalf("expected ErrAlreadyAccidented, got %v", err)
	}
	if len(tbl.Accidents()) != 1 {
		t.Fatalf("expected exactly one accident to survive, got %d", len(tbl.Accidents()))
	}
}

func TestCreate_RejectsBlockedEdge(t *testing.T) {
	tbl := NewTable()
	edge := agent.EdgeKey{From: "A", To: "B"}
	tbl.Block(edge, "construction", 0)

	_, err := tbl.Create(edge, SeverityMinor, 0, 45, 1.0)
	if !errors.Is(err, ErrEdgeBlocked) {
		t.Fatalf("expected ErrEdgeBlocked, got %v", err)
	}
}

func TestResolve_RemovesAccidentImmediately(t *testing.T) {
	tbl := NewTable()
	edge := agent.EdgeKey{From: "A", To: "B"}
	acc, _ := tbl.Create(edge, SeverityMinor, 0, 45, 1.0)

	if err := tbl.Resolve(acc.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, ok := tbl.ActiveOn(edge); ok {
		t.Fatalf("edge still shows an active accident after resolve")
	}
	// Edge should now be eligible for a new accident.
	if _, err := tbl.Create(edge, SeverityModerate, 1, 70, 1.0); err != nil {
		t.Fatalf("re-create after resolve: %v", err)
	}
}

func TestResolve_UnknownID(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Resolve("accident_999"); !errors.Is(err, ErrUnknownAccident) {
		t.Fatalf("expected ErrUnknownAccident, got %v", err)
	}
}

func TestExpirePastDue_RemovesOnlyExpired(t *testing.T) {
	tbl := NewTable()
	edgeA := agent.EdgeKey{From: "A", To: "B"}
	edgeB := agent.EdgeKey{From: "C", To: "D"}
	tbl.Create(edgeA, SeverityMinor, 0, 30, 1.0)    // expires at t=30
	tbl.Create(edgeB, SeverityModerate, 0, 90, 1.0) // expires at t=90

	expired := tbl.ExpirePastDue(45)
	if len(expired) != 1 || expired[0].Edge != edgeA {
		t.Fatalf("expected only edgeA expired, got %+v", expired)
	}
	if _, ok := tbl.ActiveOn(edgeB); !ok {
		t.Fatalf("edgeB accident should still be active at t=45")
	}
}

func TestBlockUnblock_RoundTrip(t *testing.T) {
	tbl := NewTable()
	edge := agent.EdgeKey{From: "A", To: "B"}

	if tbl.IsBlocked(edge) {
		t.Fatalf("edge should start unblocked")
	}
	tbl.Block(edge, "flood", 5)
	if !tbl.IsBlocked(edge) {
		t.Fatalf("edge should be blocked")
	}
	blocked := tbl.Blocked()
	if len(blocked) != 1 || blocked[0].Reason != "flood" {
		t.Fatalf("unexpected blocked list: %+v", blocked)
	}
	tbl.Unblock(edge)
	if tbl.IsBlocked(edge) {
		t.Fatalf("edge should be unblocked")
	}
}

func TestUnblock_UnknownEdgeIsNoOp(t *testing.T) {
	tbl := NewTable()
	tbl.Unblock(agent.EdgeKey{From: "X", To: "Y"}) // must not panic
}

func TestSeverity_BoostAndDurationRange(t *testing.T) {
	cases := []struct {
		sev       Severity
		boost     float64
		min, max  float64
	}{
		{SeverityMinor, 2, 30, 60},
		{SeverityModerate, 4, 60, 90},
		{SeveritySevere, 10, 90, 120},
	}
	for _, c := range cases {
		assert.Equal(t, c.boost, c.sev.Boost(), "%s.Boost()", c.sev)
		min, max := c.sev.DurationRange()
		assert.Equal(t, c.min, min, "%s.DurationRange() min", c.sev)
		assert.Equal(t, c.max, max, "%s.DurationRange() max", c.sev)
	}
}

func TestReset_ClearsAccidentsAndBlockages(t *testing.T) {
	tbl := NewTable()
	edge := agent.EdgeKey{From: "A", To: "B"}
	tbl.Create(edge, SeverityMinor, 0, 45, 1.0)
	tbl.Block(agent.EdgeKey{From: "C", To: "D"}, "x", 0)

	tbl.Reset()
	if len(tbl.Accidents()) != 0 || len(tbl.Blocked()) != 0 {
		t.Fatalf("expected empty table after reset")
	}
}
