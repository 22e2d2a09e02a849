package congestion

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// SampleNominalSpeed draws a per-agent nominal speed from a normal
// distribution centered on mean, clamped to [min, max]. stdDev, min, and
// max come from config.Config's per-type distribution defaults.
func SampleNominalSpeed(mean, stdDev, min, max float64, rng *rand.Rand) float64 {
	if stdDev <= 0 {
		return clamp(mean, min, max)
	}
	n := distuv.Normal{Mu: mean, Sigma: stdDev, Src: rng}
	return clamp(n.Rand(), min, max)
}
