package simulator

import (
	"github.com/sirupsen/logrus"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/planner"
)

// congestionProbabilityThreshold triggers a forced reroute.
const congestionProbabilityThreshold = 0.5

// rerouteDecider runs after the kinematic integration pass: for each
// active on-edge agent, look ahead up to rerouteLookahead edges and force
// a replan if any is blocked or has high congestion probability.
func (s *Simulator) rerouteDecider() {
	for _, a := range s.agents.Active() {
		if a.Status == agent.StatusArrived {
			continue
		}
		upcoming := a.Upcoming(rerouteLookahead)
		if len(upcoming) == 0 {
			continue
		}
		if !s.needsReroute(upcoming) {
			continue
		}
		s.attemptReroute(a)
	}
}

func (s *Simulator) needsReroute(upcoming []agent.EdgeKey) bool {
	for _, key := range upcoming {
		if s.incidents.IsBlocked(key) {
			return true
		}
		density := s.congestionA.Density(key, s.edgeUsage(key))
		if s.congestionA.Probability(key, density) > congestionProbabilityThreshold {
			return true
		}
	}
	return false
}

func (s *Simulator) edgeUsage(key agent.EdgeKey) float64 {
	var sum float64
	for _, a := range s.agents.OnEdge(key) {
		sum += a.CapacityUsage()
	}
	return sum
}

// attemptReroute replans from the agent's current node to its destination.
// On success, the new path replaces the old one starting at the current
// node and the reroute counter increments. On failure, the old path is
// retained and the agent is marked stuck, to be retried next tick.
func (s *Simulator) attemptReroute(a *agent.Agent) {
	mode := a.Type.Mode()
	result, err := planner.Plan(s, a.Current, a.Destination, mode)
	if err != nil {
		a.Status = agent.StatusStuck
		logrus.Debugf("[simulator] reroute failed for %s: %v", a.ID, err)
		return
	}

	a.ReplacePath(result.Path)
	a.Status = agent.StatusRerouting
	a.TargetSpeed = a.NominalSpeed
	a.RerouteCount++
}
