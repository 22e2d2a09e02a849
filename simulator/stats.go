// Reporting layer over the simulator's live state: traffic statistics,
// congestion reports, and per-edge occupancy, computed on demand from raw
// state rather than maintained incrementally.
package simulator

import (
	"sort"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/congestion"
)

// EdgeTrafficEntry is one edge's occupancy/density snapshot.
type EdgeTrafficEntry struct {
	AgentCount int
	Density    float64
	Level      congestion.Level
	Multiplier float64
}

// TrafficStatistics aggregates congestion-band distribution and the
// current bottleneck set.
type TrafficStatistics struct {
	CongestionDistribution map[congestion.Level]int
	Bottlenecks            []agent.EdgeKey
	AverageDensity         float64
}

func (s *Simulator) vehicleStatisticsLocked() VehicleStatistics {
	stats := VehicleStatistics{
		ActiveByType:  make(map[agent.Type]int),
		ArrivedByType: make(map[agent.Type]int),
	}
	var totalCompleted float64
	var completedCount int
	for _, a := range s.agents.All() {
		if a.Status == agent.StatusArrived {
			stats.ArrivedByType[a.Type]++
			if a.CompletedTravelTime != nil {
				totalCompleted += *a.CompletedTravelTime
				completedCount++
			}
			continue
		}
		stats.ActiveByType[a.Type]++
	}
	if completedCount > 0 {
		stats.AverageCompletedTravelTime = totalCompleted / float64(completedCount)
	}
	return stats
}

func (s *Simulator) trafficStatisticsLocked() TrafficStatistics {
	distribution := make(map[congestion.Level]int)
	for _, level := range congestion.AllLevels() {
		distribution[level] = 0
	}

	densities := make(map[agent.EdgeKey]float64)
	var sumDensity float64
	edges := s.g.Edges()
	for _, e := range edges {
		key := e.Key()
		density := s.congestionA.Density(key, s.edgeUsage(key))
		densities[key] = density
		distribution[congestion.LevelFor(density)]++
		sumDensity += density
	}

	var avg float64
	if len(edges) > 0 {
		avg = sumDensity / float64(len(edges))
	}

	return TrafficStatistics{
		CongestionDistribution: distribution,
		Bottlenecks:            congestion.Bottlenecks(densities),
		AverageDensity:         avg,
	}
}

func (s *Simulator) edgeTrafficLocked() map[agent.EdgeKey]EdgeTrafficEntry {
	out := make(map[agent.EdgeKey]EdgeTrafficEntry)
	for _, e := range s.g.Edges() {
		key := e.Key()
		usage := s.edgeUsage(key)
		density := s.congestionA.Density(key, usage)
		out[key] = EdgeTrafficEntry{
			AgentCount: len(s.agents.OnEdge(key)),
			Density:    density,
			Level:      congestion.LevelFor(density),
			Multiplier: s.Multiplier(key),
		}
	}
	return out
}

// TrafficStatistics returns the traffic-level distribution and bottleneck
// set.
func (s *Simulator) TrafficStatistics() (TrafficStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.g == nil {
		return TrafficStatistics{}, ErrNoMapLoaded
	}
	return s.trafficStatisticsLocked(), nil
}

// CongestionReport is a denser view aimed at dashboards: per-level edge
// counts plus the ranked bottleneck list with their density values.
type CongestionReport struct {
	Distribution map[congestion.Level]int
	Bottlenecks  []BottleneckEntry
}

// BottleneckEntry pairs a congested edge with its density, for reporting.
type BottleneckEntry struct {
	Edge    agent.EdgeKey
	Density float64
}

// CongestionReport returns the ranked bottleneck report.
func (s *Simulator) CongestionReport() (CongestionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.g == nil {
		return CongestionReport{}, ErrNoMapLoaded
	}

	densities := make(map[agent.EdgeKey]float64)
	for _, e := range s.g.Edges() {
		key := e.Key()
		densities[key] = s.congestionA.Density(key, s.edgeUsage(key))
	}
	bottlenecks := congestion.Bottlenecks(densities)
	entries := make([]BottleneckEntry, len(bottlenecks))
	for i, key := range bottlenecks {
		entries[i] = BottleneckEntry{Edge: key, Density: densities[key]}
	}

	stats := s.trafficStatisticsLocked()
	return CongestionReport{Distribution: stats.CongestionDistribution, Bottlenecks: entries}, nil
}

// EdgeTraffic returns the per-edge occupancy/density snapshot.
func (s *Simulator) EdgeTraffic() (map[agent.EdgeKey]EdgeTrafficEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.g == nil {
		return nil, ErrNoMapLoaded
	}
	return s.edgeTrafficLocked(), nil
}

// SimulationInfo is a compact identity/status summary.
type SimulationInfo struct {
	MapID         string
	Step          int
	SimulatedTime float64
	NodeCount     int
	EdgeCount     int
	AgentCount    int
	ActiveCount   int
	TotalSpawned  int
	HotspotEdges  []agent.EdgeKey
}

// SimulationInfo returns a compact identity/status summary.
func (s *Simulator) SimulationInfo() (SimulationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.g == nil {
		return SimulationInfo{}, ErrNoMapLoaded
	}

	hotspots := make([]agent.EdgeKey, 0, len(s.hotspots))
	for key := range s.hotspots {
		hotspots = append(hotspots, key)
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].From != hotspots[j].From {
			return hotspots[i].From < hotspots[j].From
		}
		return hotspots[i].To < hotspots[j].To
	})

	return SimulationInfo{
		MapID:         s.mapID,
		Step:          s.step,
		SimulatedTime: s.simulatedTime,
		NodeCount:     len(s.g.Nodes()),
		EdgeCount:     len(s.g.Edges()),
		AgentCount:    s.agents.Len(),
		ActiveCount:   len(s.agents.Active()),
		TotalSpawned:  s.totalSpawned,
		HotspotEdges:  hotspots,
	}, nil
}
