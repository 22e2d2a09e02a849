package simulator

import (
	"github.com/sirupsen/logrus"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/congestion"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/incident"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/simrng"
)

// hotspotBuildupHorizon is the simulated-time denominator for the hotspot
// congestion factor ramp: min(elapsed / 60, 1).
const hotspotBuildupHorizon = 60.0

// refreshMultipliers re-samples the multiplier for every non-blocked,
// non-accident edge, applies the accident severity boost on accident
// edges, holds the blocked sentinel on blocked edges, and layers the
// hotspot time-based buildup on top.
func (s *Simulator) refreshMultipliers() {
	congestionRNG := s.rng.ForSubsystem(simrng.SubsystemCongestion)
	usage := s.edgeUsageSums()
	densities := make(map[agent.EdgeKey]float64, len(usage))

	for key := range s.congestionCapacityKeys() {
		density := s.congestionA.Density(key, usage[key])
		densities[key] = density

		switch {
		case s.incidents.IsBlocked(key):
			s.multipliers[key] = congestion.BlockedSentinel
			continue
		}

		sample := s.congestionA.Sample(key, density, congestionRNG)

		if acc, ok := s.incidents.ActiveOn(key); ok {
			sample *= acc.Boost
		}

		if s.hotspots[key] {
			elapsedFactor := s.simulatedTime / hotspotBuildupHorizon
			if elapsedFactor > 1 {
				elapsedFactor = 1
			}
			noise := congestionRNG.Float64()*(2.0-0.5) + 0.5 // U(0.5, 2.0)
			sample *= 1 + elapsedFactor*noise
		}

		s.multipliers[key] = sample
	}
}

// edgeUsageSums returns, for every edge, the sum of CapacityUsage of
// agents currently occupying it.
func (s *Simulator) edgeUsageSums() map[agent.EdgeKey]float64 {
	out := make(map[agent.EdgeKey]float64)
	for _, a := range s.agents.Active() {
		key, onEdge := a.CurrentEdge()
		if !onEdge {
			continue
		}
		out[key] += a.CapacityUsage()
	}
	return out
}

// congestionCapacityKeys returns the graph's edge set (the keys the
// Analyser was given capacities for at map load) so refreshMultipliers can
// iterate every capacitated edge even when no agent currently occupies it.
func (s *Simulator) congestionCapacityKeys() map[agent.EdgeKey]struct{} {
	out := make(map[agent.EdgeKey]struct{})
	for _, e := range s.g.Edges() {
		out[e.Key()] = struct{}{}
	}
	return out
}

// maybeInjectRandomAccident optionally creates a random accident to
// exercise reroute logic, gated by config.RandomAccidentProbability
// (default 0, essentially off).
func (s *Simulator) maybeInjectRandomAccident() {
	p := s.cfg.RandomAccidentProbability
	if p <= 0 {
		return
	}
	incidentRNG := s.rng.ForSubsystem(simrng.SubsystemIncident)
	if incidentRNG.Float64() >= p {
		return
	}
	edge, ok := s.randomEdge(incidentRNG)
	if !ok {
		return
	}
	severities := []incident.Severity{incident.SeverityMinor, incident.SeverityModerate, incident.SeveritySevere}
	sev := severities[incidentRNG.Intn(len(severities))]
	if _, err := s.createAccidentLocked(edge, sev, incidentRNG); err != nil {
		logrus.Debugf("[simulator] random accident injection skipped on %s: %v", edge, err)
	}
}
