// Package config holds the tunable constants of the simulation engine
// and their YAML-file loading/validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wasay-git-hub/UrbanNav-Multi-Vehicle-Traffic-Simulator/simulator/agent"
)

// TypeProfile groups the per-vehicle-type tunables that vary by mode:
// nominal speed distribution and capacity usage.
type TypeProfile struct {
	NominalSpeedMean   float64 `yaml:"nominal_speed_mean"`
	NominalSpeedStdDev float64 `yaml:"nominal_speed_stddev"`
	NominalSpeedMin    float64 `yaml:"nominal_speed_min"`
	NominalSpeedMax    float64 `yaml:"nominal_speed_max"`
	CapacityUsage      float64 `yaml:"capacity_usage"`
	SpawnProbability   float64 `yaml:"spawn_probability"`
}

// Config is the engine's full tunable surface.
type Config struct {
	SimModes []agent.Mode `yaml:"-"` // not loaded from YAML; neither Default nor Load sets it

	DefaultMultiplier float64 `yaml:"default_multiplier"`
	MinMultiplier     float64 `yaml:"min_multiplier"`
	MaxMultiplier     float64 `yaml:"max_multiplier"`

	RerouteThreshold  float64 `yaml:"reroute_threshold"`
	BaseEdgeCapacity  float64 `yaml:"base_edge_capacity"`

	DtClamp      float64 `yaml:"dt_clamp"`
	Acceleration float64 `yaml:"acceleration"`

	FollowingDistanceFull  float64 `yaml:"following_distance_full"`
	FollowingDistanceClear float64 `yaml:"following_distance_clear"`

	RandomAccidentProbability float64 `yaml:"random_accident_probability"`
	RandomSeed                int64   `yaml:"random_seed"`

	// StrictInvariants turns internal contract violations into panics
	// instead of logged-and-continued errors. Off by default; intended for
	// debug builds and tests, not production traffic.
	StrictInvariants bool `yaml:"strict_invariants"`

	Types map[string]TypeProfile `yaml:"types"`
}

// Default returns the engine's reference default configuration.
func Default() *Config {
	return &Config{
		DefaultMultiplier: 1.0,
		MinMultiplier:     0.5,
		MaxMultiplier:     3.0,

		RerouteThreshold: 0.2,
		BaseEdgeCapacity: 3.0,

		DtClamp:      0.2,
		Acceleration: agent.AccelerationPerSecond,

		FollowingDistanceFull:  agent.FollowingDistanceFull,
		FollowingDistanceClear: agent.FollowingDistanceClear,

		RandomAccidentProbability: 0.0,
		RandomSeed:                1,

		Types: map[string]TypeProfile{
			string(agent.TypeCar): {
				NominalSpeedMean: 60, NominalSpeedStdDev: 6, NominalSpeedMin: 40, NominalSpeedMax: 80,
				CapacityUsage: 1.0, SpawnProbability: 0.6,
			},
			string(agent.TypeBicycle): {
				NominalSpeedMean: 40, NominalSpeedStdDev: 4, NominalSpeedMin: 25, NominalSpeedMax: 55,
				CapacityUsage: 0.5, SpawnProbability: 0.25,
			},
			string(agent.TypePedestrian): {
				NominalSpeedMean: 20, NominalSpeedStdDev: 2, NominalSpeedMin: 10, NominalSpeedMax: 30,
				CapacityUsage: 0.2, SpawnProbability: 0.15,
			},
		},
	}
}

// Load reads a YAML configuration file at path, falling back to Default()
// for every field the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Profile returns the type profile for t, or an error if t has no entry.
func (c *Config) Profile(t agent.Type) (TypeProfile, error) {
	p, ok := c.Types[string(t)]
	if !ok {
		return TypeProfile{}, fmt.Errorf("config: no type profile for %q", t)
	}
	return p, nil
}

// SpawnDistribution returns the configured spawn probability per type, in
// car/bicycle/pedestrian order, for use by spawn_many's distribution
// default.
func (c *Config) SpawnDistribution() (car, bicycle, pedestrian float64) {
	return c.Types[string(agent.TypeCar)].SpawnProbability,
		c.Types[string(agent.TypeBicycle)].SpawnProbability,
		c.Types[string(agent.TypePedestrian)].SpawnProbability
}

// Validate checks every field for structural sanity, reporting one
// fmt.Errorf per violated constraint.
func (c *Config) Validate() error {
	if c.MinMultiplier <= 0 {
		return fmt.Errorf("MinMultiplier must be > 0, got %.3f", c.MinMultiplier)
	}
	if c.MaxMultiplier < c.MinMultiplier {
		return fmt.Errorf("MaxMultiplier must be >= MinMultiplier, got %.3f < %.3f", c.MaxMultiplier, c.MinMultiplier)
	}
	if c.DefaultMultiplier < c.MinMultiplier || c.DefaultMultiplier > c.MaxMultiplier {
		return fmt.Errorf("DefaultMultiplier must be within [%.3f, %.3f], got %.3f", c.MinMultiplier, c.MaxMultiplier, c.DefaultMultiplier)
	}
	if c.BaseEdgeCapacity <= 0 {
		return fmt.Errorf("BaseEdgeCapacity must be > 0, got %.3f", c.BaseEdgeCapacity)
	}
	if c.DtClamp <= 0 {
		return fmt.Errorf("DtClamp must be > 0, got %.3f", c.DtClamp)
	}
	if c.Acceleration <= 0 {
		return fmt.Errorf("Acceleration must be > 0, got %.3f", c.Acceleration)
	}
	if c.FollowingDistanceFull <= 0 || c.FollowingDistanceClear <= c.FollowingDistanceFull {
		return fmt.Errorf("FollowingDistanceClear must be > FollowingDistanceFull > 0, got %.3f <= %.3f", c.FollowingDistanceClear, c.FollowingDistanceFull)
	}
	if c.RandomAccidentProbability < 0 || c.RandomAccidentProbability > 1 {
		return fmt.Errorf("RandomAccidentProbability must be in [0, 1], got %.3f", c.RandomAccidentProbability)
	}

	required := []agent.Type{agent.TypeCar, agent.TypeBicycle, agent.TypePedestrian}
	var sum float64
	for _, t := range required {
		p, ok := c.Types[string(t)]
		if !ok {
			return fmt.Errorf("missing type profile for %q", t)
		}
		if p.CapacityUsage <= 0 {
			return fmt.Errorf("%s: CapacityUsage must be > 0, got %.3f", t, p.CapacityUsage)
		}
		if p.NominalSpeedMin <= 0 || p.NominalSpeedMax < p.NominalSpeedMin {
			return fmt.Errorf("%s: NominalSpeedMax must be >= NominalSpeedMin > 0, got [%.3f, %.3f]", t, p.NominalSpeedMin, p.NominalSpeedMax)
		}
		if p.NominalSpeedStdDev < 0 {
			return fmt.Errorf("%s: NominalSpeedStdDev must be >= 0, got %.3f", t, p.NominalSpeedStdDev)
		}
		if p.SpawnProbability < 0 {
			return fmt.Errorf("%s: SpawnProbability must be >= 0, got %.3f", t, p.SpawnProbability)
		}
		sum += p.SpawnProbability
	}
	const epsilon = 1e-6
	if diff := sum - 1.0; diff > epsilon || diff < -epsilon {
		return fmt.Errorf("spawn distribution must sum to 1.0 +/- %.0e, got %.6f", epsilon, sum)
	}

	return nil
}
