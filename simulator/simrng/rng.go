// Package simrng provides deterministic, per-subsystem random number
// generation for the simulator.
//
// A single master seed derives one *rand.Rand stream per named subsystem so
// that, e.g., sampling the congestion field does not perturb the sequence
// used to pick which edge a random accident lands on. Subsystem streams are
// created lazily and cached; repeated calls for the same name return the
// same *rand.Rand.
package simrng

import (
	"hash/fnv"
	"math/rand"
)

// Subsystem names for the simulator's RNG consumers. Using named constants
// rather than ad-hoc strings keeps derivation collision-free and documents
// every consumer of randomness in one place.
const (
	SubsystemCongestion = "congestion"
	SubsystemIncident   = "incident"
	SubsystemSpawn      = "spawn"
	SubsystemKinematics = "kinematics"
)

// PartitionedRNG derives isolated, deterministic RNG streams per subsystem
// from one master seed.
//
// Not safe for concurrent use; the simulator core serializes all access
// under its own mutex (see the simulator package's concurrency model).
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// New creates a PartitionedRNG from a master seed. The same seed always
// produces the same per-subsystem sequences, regardless of call order.
func New(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: masterSeed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// Seed returns the master seed this PartitionedRNG was constructed with.
func (p *PartitionedRNG) Seed() int64 {
	return p.masterSeed
}

// ForSubsystem returns the *rand.Rand stream for the named subsystem,
// creating it on first use. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	seed := p.masterSeed ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng

	return rng
}

// fnv1a64 hashes name into a 64-bit value used to derive a subsystem-local
// seed that is order-independent across subsystems.
func fnv1a64(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}
