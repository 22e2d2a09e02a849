// Package congestion derives per-edge traffic multipliers from agent
// density and maintains bounded historical samples used by the reroute
// decider's congestion-probability check.
package congestion

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
)

// historySize is the ring buffer length for per-edge multiplier samples.
const historySize = 100

// BaseCapacityPerLength is the base capacity constant: capacity defaults
// to BaseCapacityPerLength * edge.distance.
const BaseCapacityPerLength = 3.0

// BlockedSentinel is the multiplier value that denotes "effectively
// blocked". Planners must additionally consult the blocked set.
const BlockedSentinel = 100.0

// edgeState is the analyser's per-edge bookkeeping: a fixed-size ring
// buffer of multiplier samples plus the write cursor, avoiding the
// unbounded growth a plain append-based history would cause over a long
// run.
type edgeState struct {
	history [historySize]float64
	count   int // number of valid entries (saturates at historySize)
	cursor  int // next write position
	last    float64
}

func (s *edgeState) push(sample float64) {
	s.history[s.cursor] = sample
	s.cursor = (s.cursor + 1) % historySize
	if s.count < historySize {
		s.count++
	}
	s.last = sample
}

func (s *edgeState) mean() float64 {
	if s.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < s.count; i++ {
		sum += s.history[i]
	}
	return sum / float64(s.count)
}

// Analyser computes per-edge density, congestion level, multiplier
// samples, and congestion probability.
type Analyser struct {
	capacity map[agent.EdgeKey]float64 // base_capacity * edge.distance, set at map load
	state    map[agent.EdgeKey]*edgeState
}

// New creates an Analyser. edgeLengths maps every edge key to its
// geometric distance, used to compute per-edge capacity once.
func New(edgeLengths map[agent.EdgeKey]float64) *Analyser {
	a := &Analyser{
		capacity: make(map[agent.EdgeKey]float64, len(edgeLengths)),
		state:    make(map[agent.EdgeKey]*edgeState, len(edgeLengths)),
	}
	for key, length := range edgeLengths {
		a.capacity[key] = BaseCapacityPerLength * length
		a.state[key] = &edgeState{}
	}
	return a
}

// Density computes an edge's current density given the sum of
// capacity-usage of agents currently on it.
func (a *Analyser) Density(key agent.EdgeKey, usageSum float64) float64 {
	capacity := a.capacity[key]
	if capacity <= 0 {
		return 0
	}
	return usageSum / capacity
}

// Sample draws a new multiplier sample for an edge from its current
// density's band and appends it to the edge's history, returning the
// sample. rng must be the congestion subsystem's dedicated stream so
// sampling stays reproducible under a fixed seed.
func (a *Analyser) Sample(key agent.EdgeKey, density float64, rng *rand.Rand) float64 {
	level := LevelFor(density)
	lo, hi := rangeFor(level)
	u := distuv.Uniform{Min: lo, Max: hi, Src: rng}
	sample := u.Rand()

	st := a.stateFor(key)
	st.push(sample)
	return sample
}

// LastMultiplier returns the most recently sampled multiplier for an edge,
// or 0 if none has been sampled yet.
func (a *Analyser) LastMultiplier(key agent.EdgeKey) float64 {
	st, ok := a.state[key]
	if !ok {
		return 0
	}
	return st.last
}

// Probability computes the congestion probability used by the reroute
// decider: clamp(density, 0, 1) + (mean(history) - 1) / 4, clamped to
// [0, 1].
func (a *Analyser) Probability(key agent.EdgeKey, density float64) float64 {
	clampedDensity := clamp(density, 0, 1)
	st := a.stateFor(key)
	p := clampedDensity + (st.mean()-1)/4
	return clamp(p, 0, 1)
}

// Bottlenecks returns edges with density >= 0.7, sorted descending by
// density, restricted to the given per-edge densities snapshot.
func Bottlenecks(densities map[agent.EdgeKey]float64) []agent.EdgeKey {
	out := make([]agent.EdgeKey, 0)
	for key, d := range densities {
		if d >= 0.7 {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if densities[out[i]] != densities[out[j]] {
			return densities[out[i]] > densities[out[j]]
		}
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

func (a *Analyser) stateFor(key agent.EdgeKey) *edgeState {
	st, ok := a.state[key]
	if !ok {
		st = &edgeState{}
		a.state[key] = st
	}
	return st
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

