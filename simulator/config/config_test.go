package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate_RejectsInvertedMultiplierRange(t *testing.T) {
	c := Default()
	c.MinMultiplier = 2
	c.MaxMultiplier = 1
	assert.Error(t, c.Validate())
}

func TestValidate_RejectsDistributionNotSummingToOne(t *testing.T) {
	c := Default()
	p := c.Types["car"]
	p.SpawnProbability = 0.9
	c.Types["car"] = p
	assert.Error(t, c.Validate())
}

func TestValidate_RejectsMissingTypeProfile(t *testing.T) {
	c := Default()
	delete(c.Types, "bicycle")
	assert.Error(t, c.Validate())
}

func TestValidate_RejectsFollowingDistanceOrdering(t *testing.T) {
	c := Default()
	c.FollowingDistanceClear = c.FollowingDistanceFull
	assert.Error(t, c.Validate())
}

func TestSpawnDistribution_MatchesDefaults(t *testing.T) {
	c := Default()
	car, bike, ped := c.SpawnDistribution()
	assert.Equal(t, 0.6, car)
	assert.Equal(t, 0.25, bike)
	assert.Equal(t, 0.15, ped)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
}
