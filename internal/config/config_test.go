package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "revlens", cfg.AppName)
	assert.Equal(t, 1.0, cfg.Detection.RateTolerance)
	assert.Equal(t, 1.0, cfg.Detection.UsageTolerance)
	assert.Equal(t, 100.0, cfg.Detection.ExpectedRate)
	assert.Equal(t, 1.0, cfg.Detection.UnitPrice)
	assert.False(t, cfg.Detection.Parallel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_SERVICE", "revlens-test")
	t.Setenv("DETECTION_EXPECTED_RATE", "250.5")
	t.Setenv("DETECTION_UNIT_PRICE", "0.25")
	t.Setenv("DETECTION_PARALLEL", "true")

	cfg := Load()
	assert.Equal(t, "revlens-test", cfg.AppName)
	assert.Equal(t, 250.5, cfg.Detection.ExpectedRate)
	assert.Equal(t, 0.25, cfg.Detection.UnitPrice)
	assert.True(t, cfg.Detection.Parallel)
}

func TestGetenvFloatIgnoresGarbage(t *testing.T) {
	t.Setenv("DETECTION_RATE_TOLERANCE", "not-a-number")

	cfg := Load()
	assert.Equal(t, 1.0, cfg.Detection.RateTolerance)
}
