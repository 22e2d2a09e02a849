package simulator

import (
	"github.com/sirupsen/logrus"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
)

// carFollowingPass is pass 1 of the per-tick kinematics: for each active
// on-edge agent, scan the vehicle ahead on the same edge and set a target
// speed/status regime. Observed strictly against pre-tick positions.
func (s *Simulator) carFollowingPass(active []*agent.Agent) {
	for _, a := range active {
		key, onEdge := a.CurrentEdge()
		if !onEdge {
			a.TargetSpeed = a.NominalSpeed
			a.Status = agent.StatusMoving
			continue
		}

		edgeLength := s.edgeLengthUnitsFromPosition(a)
		dFront, hasAhead := frontGap(s.agents.OnEdge(key), a, edgeLength)

		switch {
		case hasAhead && dFront < s.cfg.FollowingDistanceFull:
			a.TargetSpeed = 0
			a.Status = agent.StatusStuck
		case hasAhead && dFront < s.cfg.FollowingDistanceClear:
			a.TargetSpeed = a.NominalSpeed * (dFront / s.cfg.FollowingDistanceClear)
			a.Status = agent.StatusStuck
		default:
			a.TargetSpeed = a.NominalSpeed
			a.Status = agent.StatusMoving
		}
	}
}

// frontGap returns the distance in edge-length units to the nearest agent
// ahead of a on the same edge, and whether one exists.
func frontGap(onEdge []*agent.Agent, a *agent.Agent, edgeLength float64) (float64, bool) {
	best := -1.0
	found := false
	for _, other := range onEdge {
		if other.ID == a.ID {
			continue
		}
		if other.PositionOnEdge <= a.PositionOnEdge {
			continue
		}
		gap := (other.PositionOnEdge - a.PositionOnEdge) * edgeLength
		if !found || gap < best {
			best = gap
			found = true
		}
	}
	return best, found
}

// integrationPass is pass 2 of the per-tick kinematics: advance speed
// toward target, advance position, consume node-transition crossings, and
// detect arrival. Returns the number of agents that moved this tick and
// the number that newly arrived.
func (s *Simulator) integrationPass(active []*agent.Agent, dt float64) (moved, arrived int) {
	for _, a := range active {
		if a.Status == agent.StatusArrived {
			continue
		}

		if a.Next == "" && a.AtDestination() {
			a.Status = agent.StatusArrived
			completed := s.simulatedTime
			a.CompletedTravelTime = &completed
			arrived++
			continue
		}

		if a.Status == agent.StatusStuck {
			a.WaitTime += dt
		}

		maxDelta := a.Acceleration * dt
		delta := a.TargetSpeed - a.CurrentSpeed
		switch {
		case delta > maxDelta:
			a.CurrentSpeed += maxDelta
		case delta < -maxDelta:
			a.CurrentSpeed -= maxDelta
		default:
			a.CurrentSpeed = a.TargetSpeed
		}

		edgeLength := s.edgeLengthUnitsFromPosition(a)
		if edgeLength <= 0 || a.CurrentSpeed == 0 {
			continue
		}

		before := a.PositionOnEdge
		a.PositionOnEdge += (a.CurrentSpeed * dt) / edgeLength
		if a.PositionOnEdge != before {
			moved++
		}

		if a.PositionOnEdge >= 1.0 {
			s.crossNode(a)
			if a.Status == agent.StatusArrived {
				arrived++
			}
		}

		s.assertInvariant(a.PositionOnEdge >= 0 && a.PositionOnEdge <= 1.0001,
			"position-on-edge out of range", logrus.Fields{"agent": a.ID, "position": a.PositionOnEdge})
	}
	return moved, arrived
}

// edgeLengthUnitsFromPosition resolves the geometric length of the edge an
// agent currently occupies, via the owning simulator's graph.
func (s *Simulator) edgeLengthUnitsFromPosition(a *agent.Agent) float64 {
	if a.Next == "" {
		return 0
	}
	e, ok := s.g.Edge(a.Current, a.Next)
	if !ok {
		s.assertInvariant(false, "agent references missing edge",
			logrus.Fields{"agent": a.ID, "from": a.Current, "to": a.Next})
		return 0
	}
	return e.Distance
}

// crossNode consumes a position-on-edge >= 1.0 crossing atomically: advance
// current node, path index, and next node; reset position; accumulate
// traveled distance; detect arrival.
func (s *Simulator) crossNode(a *agent.Agent) {
	length := s.edgeLengthUnitsFromPosition(a)
	a.TraveledDistance += length

	a.Current = a.Next
	a.Index++
	a.PositionOnEdge = 0

	if a.Index+1 < len(a.Path) {
		a.Next = a.Path[a.Index+1]
	} else {
		a.Next = ""
	}

	if a.AtDestination() {
		a.Status = agent.StatusArrived
		completed := s.simulatedTime
		a.CompletedTravelTime = &completed
	}
}
