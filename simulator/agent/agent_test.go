package agent

import "testing"

func TestModeSet_Allows(t *testing.T) {
	s := NewModeSet(ModeCar, ModePedestrian)
	if !s.Allows(ModeCar) {
		t.Error("expected ModeCar to be allowed")
	}
	if s.Allows(ModeBicycle) {
		t.Error("did not expect ModeBicycle to be allowed")
	}
	if !s.Allows(ModePedestrian) {
		t.Error("expected ModePedestrian to be allowed")
	}
}

func TestType_IsValid(t *testing.T) {
	for _, ty := range []Type{TypeCar, TypeBicycle, TypePedestrian} {
		if !ty.IsValid() {
			t.Errorf("expected %q to be valid", ty)
		}
	}
	if Type("scooter").IsValid() {
		t.Error("expected unknown type to be invalid")
	}
}

func TestAgent_Upcoming_ClipsAtPathEnd(t *testing.T) {
	a := &Agent{Path: []string{"A", "B", "C"}, Index: 1}
	got := a.Upcoming(3)
	want := []EdgeKey{{From: "B", To: "C"}}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("Upcoming(3) = %v, want %v", got, want)
	}
}

func TestAgent_ReplacePath(t *testing.T) {
	a := &Agent{PositionOnEdge: 0.5}
	a.ReplacePath([]string{"X", "Y", "Z"})
	if a.Current != "X" || a.Next != "Y" || a.Index != 0 || a.PositionOnEdge != 0 {
		t.Fatalf("unexpected state after ReplacePath: %+v", a)
	}
}

func TestIndex_RebuildMatchesAdd(t *testing.T) {
	ix := NewIndex()
	a := &Agent{ID: "car_1", Status: StatusMoving, Current: "A", Next: "B", PositionOnEdge: 0.3}
	ix.Add(a)

	key := EdgeKey{From: "A", To: "B"}
	if len(ix.OnEdge(key)) != 1 {
		t.Fatalf("expected 1 agent on edge after Add, got %d", len(ix.OnEdge(key)))
	}

	a.Current, a.Next, a.PositionOnEdge = "B", "C", 0.1
	ix.Rebuild()

	if len(ix.OnEdge(key)) != 0 {
		t.Fatal("expected stale edge occupancy to be gone after Rebuild")
	}
	if len(ix.OnEdge(EdgeKey{From: "B", To: "C"})) != 1 {
		t.Fatal("expected new edge occupancy after Rebuild")
	}
}

func TestIndex_RemoveOnEdgeAgentClearsEdge(t *testing.T) {
	ix := NewIndex()
	a := &Agent{ID: "ped_1", Status: StatusMoving, Current: "A", Next: "B", PositionOnEdge: 0.9}
	ix.Add(a)
	if !ix.Remove("ped_1") {
		t.Fatal("expected Remove to succeed")
	}
	if _, ok := ix.Get("ped_1"); ok {
		t.Fatal("expected agent to be gone")
	}
	if len(ix.OnEdge(EdgeKey{From: "A", To: "B"})) != 0 {
		t.Fatal("expected edge occupancy cleared on Remove")
	}
}

func TestIndex_NextID_SequencesPerType(t *testing.T) {
	ix := NewIndex()
	if got := ix.NextID(TypeCar); got != "car_1" {
		t.Errorf("got %q, want car_1", got)
	}
	if got := ix.NextID(TypeCar); got != "car_2" {
		t.Errorf("got %q, want car_2", got)
	}
	if got := ix.NextID(TypeBicycle); got != "bicycle_1" {
		t.Errorf("got %q, want bicycle_1", got)
	}
}
